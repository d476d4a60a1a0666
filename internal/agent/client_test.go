package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeidalz13/battleship-admiral/internal/agent/agenttest"
	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
)

func newTestClient(t *testing.T) (*Client, *agenttest.Server, *MemoryRecorder) {
	t.Helper()
	srv := agenttest.NewServer()
	t.Cleanup(srv.Close)

	recorder := NewMemoryRecorder(10)
	return NewClient(srv.URL+"/", agenttest.Token, WithRecorder(recorder)), srv, recorder
}

func TestClientChat(t *testing.T) {
	client, srv, recorder := newTestClient(t)
	ctx := context.Background()

	agentId, err := client.CreateAgent(ctx, "be brief", "Tester")
	require.NoError(t, err)
	require.NotEmpty(t, agentId)

	reply, err := client.Chat(ctx, agentId, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	requests := srv.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, "/api_tools/create-agent", requests[0].Path)
	assert.Equal(t, "Tester", requests[0].Body["agent_name"])
	assert.Equal(t, "be brief", requests[0].Body["instructions"])
	assert.Equal(t, agentId, requests[1].Body["agent_id"])

	calls := recorder.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[1].Method)
	assert.Equal(t, EndpointChat, calls[1].Endpoint)
	assert.True(t, calls[1].Succeeded())
	assert.Contains(t, calls[1].Response, "hello")
}

func TestClientErrors(t *testing.T) {
	client, srv, recorder := newTestClient(t)
	ctx := context.Background()

	_, err := client.Chat(ctx, "unknown-agent", "hello")
	require.Error(t, err)

	agentId, err := client.CreateAgent(ctx, "", "Tester")
	require.NoError(t, err)
	srv.SetReply(func(string, string) (string, int) { return "", http.StatusBadGateway })
	_, err = client.Chat(ctx, agentId, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	unauthorized := NewClient(srv.URL, "wrong-token")
	_, err = unauthorized.CreateAgent(ctx, "", "Tester")
	require.Error(t, err)

	calls := recorder.Calls()
	require.Len(t, calls, 3)
	assert.False(t, calls[0].Succeeded())
	assert.True(t, calls[1].Succeeded())
	assert.False(t, calls[2].Succeeded())
}

func TestClientCancelledContext(t *testing.T) {
	client, _, _ := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateAgent(ctx, "", "Tester")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClientDataObjects(t *testing.T) {
	client, srv, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.StoreData(ctx, "notes", []string{"one", "two"}))
	values, ok := srv.Object("notes")
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, values)

	text, err := client.ReturnData(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", text)

	require.NoError(t, client.DeleteObject(ctx, "notes"))
	_, ok = srv.Object("notes")
	assert.False(t, ok)

	_, err = client.ReturnData(ctx, "notes")
	require.Error(t, err)
}

func TestMemoryRecorderLimit(t *testing.T) {
	recorder := NewMemoryRecorder(2)
	for _, endpoint := range []string{"a", "b", "c"} {
		recorder.Record(context.Background(), Call{Endpoint: endpoint, Timestamp: time.Now()})
	}

	calls := recorder.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "b", calls[0].Endpoint)
	assert.Equal(t, "c", calls[1].Endpoint)
}

func TestOpponentNextMove(t *testing.T) {
	client, srv, _ := newTestClient(t)
	srv.SetReply(func(agentName, message string) (string, int) {
		if agentName != AdmiralName || !strings.HasPrefix(message, "Game state: ") {
			return "", http.StatusBadRequest
		}
		return `{"shot":"B2","commentary":"Opening salvo.","strategy":"random"}`, http.StatusOK
	})

	opponent := NewOpponent(client)
	summary := mb.NewState().Summary()

	for i := 0; i < 2; i++ {
		reply, err := opponent.NextMove(context.Background(), summary)
		require.NoError(t, err)

		move, err := mb.ParseMove(reply)
		require.NoError(t, err)
		assert.Equal(t, mb.NewCoordinates(1, 1), move.Shot)
	}

	created := 0
	for _, req := range srv.Requests() {
		if req.Path == EndpointCreateAgent {
			created++
			assert.Equal(t, AdmiralName, req.Body["agent_name"])
		}
	}
	assert.Equal(t, 1, created)
}

func TestOpponentWithoutService(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", agenttest.Token, WithHttpClient(&http.Client{Timeout: time.Second}))

	_, err := NewOpponent(client).NextMove(context.Background(), mb.NewState().Summary())
	require.Error(t, err)
}

func TestAssistant(t *testing.T) {
	client, srv, _ := newTestClient(t)
	assistant := NewAssistant(client)
	ctx := context.Background()

	assert.Equal(t, WelcomeText, assistant.Welcome(ctx))
	assert.Equal(t, "How do I win?", assistant.Ask(ctx, "  How do I win?  "))
	assert.Equal(t, ApologyText, assistant.Ask(ctx, "   "))

	srv.SetReply(func(string, string) (string, int) { return "", http.StatusInternalServerError })
	assert.Equal(t, ApologyText, assistant.Ask(ctx, "Still there?"))
}

func TestFleetArchive(t *testing.T) {
	client, srv, _ := newTestClient(t)
	archive := NewFleetArchive(client)
	ctx := context.Background()

	_, err := archive.Raw(ctx, "abc123")
	require.Error(t, err)
	assert.EqualError(t, err, cerr.ErrFleetSnapshotAbsent().Error())

	state, err := mb.NewState().Deploy(mb.NewRandomizer())
	require.NoError(t, err)
	require.NoError(t, archive.Store(ctx, "abc123", state))
	assert.True(t, archive.Has("abc123"))

	_, ok := srv.Object("battleship_game_data_abc123")
	require.True(t, ok)

	raw, err := archive.Raw(ctx, "abc123")
	require.NoError(t, err)
	assert.Contains(t, raw, `"playerShips"`)
	assert.Contains(t, raw, `"aiShips"`)
	assert.Contains(t, raw, `"Carrier"`)

	require.NoError(t, archive.Delete(ctx, "abc123"))
	assert.False(t, archive.Has("abc123"))
	require.Error(t, archive.Delete(ctx, "abc123"))
}

func TestFleetArchiveForget(t *testing.T) {
	client, srv, _ := newTestClient(t)
	archive := NewFleetArchive(client)
	ctx := context.Background()

	state, err := mb.NewState().Deploy(mb.NewRandomizer())
	require.NoError(t, err)
	require.NoError(t, archive.Store(ctx, "def456", state))
	require.True(t, archive.Has("def456"))

	archive.Forget("def456")
	assert.False(t, archive.Has("def456"))

	_, err = archive.Raw(ctx, "def456")
	assert.EqualError(t, err, cerr.ErrFleetSnapshotAbsent().Error())

	// the object in the agent service is left alone
	_, ok := srv.Object("battleship_game_data_def456")
	assert.True(t, ok)

	archive.Forget("never-stored")
	assert.False(t, archive.Has("never-stored"))
}
