package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/saeidalz13/battleship-admiral/api"
	"github.com/saeidalz13/battleship-admiral/internal/agent"
	"github.com/saeidalz13/battleship-admiral/internal/agent/agenttest"
	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
	mc "github.com/saeidalz13/battleship-admiral/models/connection"
)

const readTimeout = time.Second * 5

var (
	testServer   *api.Server
	testHttp     *httptest.Server
	testAgents   *agenttest.Server
	testAgentLog *agent.MemoryRecorder
	testWsUrl    string
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

func TestMain(m *testing.M) {
	log.SetLevel(log.WarnLevel)

	testAgents = agenttest.NewServer()
	testAgents.SetReply(admiralAndHelper)

	testAgentLog = agent.NewMemoryRecorder(500)
	client := agent.NewClient(testAgents.URL, agenttest.Token, agent.WithRecorder(testAgentLog))

	testServer = api.NewServer(
		api.WithStage(api.StageDev),
		api.WithAgentClient(client),
		api.WithAgentCalls(testAgentLog),
		api.WithOpponentDelay(0),
		api.WithAgentTimeout(time.Second*5),
		api.WithGameManager(mb.NewBattleshipGameManager()),
		api.WithSessionManager(mc.NewBattleshipSessionManager().WithGracePeriod(time.Millisecond*200)),
	)
	testHttp = httptest.NewServer(testServer.Handler())
	testWsUrl = "ws" + strings.TrimPrefix(testHttp.URL, "http") + "/battleship"

	code := m.Run()

	testHttp.Close()
	testAgents.Close()
	os.Exit(code)
}

// admiralAndHelper makes the Admiral fire at the first cell it has not
// tried yet and the helper echo the question.
func admiralAndHelper(agentName, message string) (string, int) {
	if agentName == agent.HelperName {
		return "Aye: " + message, http.StatusOK
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(message, "Game state: "), ". Make your next move!")
	var summary mb.GameSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return "", http.StatusBadRequest
	}

	for _, c := range mb.AllCoordinates() {
		if summary.AiShots[c.Row][c.Col] == mb.CellUnknown {
			return fmt.Sprintf(`{"shot":%q,"commentary":"Firing at %s.","strategy":"hunting"}`, c.String(), c.String()), http.StatusOK
		}
	}
	return "", http.StatusConflict
}

// dialSession opens a new session and returns it with its id.
func dialSession(t *testing.T, url string) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	resp := readMessage[mc.RespSessionId](t, conn)
	if resp.Code != mc.CodeSessionID {
		t.Fatalf("expected code: %d\tgot: %d", mc.CodeSessionID, resp.Code)
	}
	return conn, resp.Payload.SessionID
}

func readMessage[T any](t *testing.T, conn *websocket.Conn) mc.Message[T] {
	t.Helper()

	var msg mc.Message[T]
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatal(err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, msg interface{}) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
}
