package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-admiral/internal/agent"
)

var testServerIp = pqtype.Inet{
	IPNet: net.IPNet{IP: net.IPv4(10, 0, 0, 7).To4(), Mask: net.CIDRMask(32, 32)},
	Valid: true,
}

func newMockDbManager(t *testing.T) (DbManager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return NewDbManager(New(db), testServerIp), mock
}

func TestAnalyticsIncrements(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		increment func(*AnalyticsManager, context.Context) error
	}{
		{
			name:      "games created",
			query:     `INSERT INTO game_server_analytics \(server_ip, games_created\)`,
			increment: (*AnalyticsManager).IncrementGamesCreatedCount,
		},
		{
			name:      "games won",
			query:     `INSERT INTO game_server_analytics \(server_ip, games_won\)`,
			increment: (*AnalyticsManager).IncrementGamesWonCount,
		},
		{
			name:      "games lost",
			query:     `INSERT INTO game_server_analytics \(server_ip, games_lost\)`,
			increment: (*AnalyticsManager).IncrementGamesLostCount,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dm, mock := newMockDbManager(t)
			mock.ExpectExec(test.query).
				WithArgs(testServerIp).
				WillReturnResult(sqlmock.NewResult(0, 1))

			ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
			defer cancel()
			if err := test.increment(dm.Analytics, ctx); err != nil {
				t.Fatalf("expected no error\tgot: %v", err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestGetGamesCreatedCount(t *testing.T) {
	dm, mock := newMockDbManager(t)
	mock.ExpectQuery(`SELECT games_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(testServerIp).
		WillReturnRows(sqlmock.NewRows([]string{"games_created"}).AddRow(3))

	count, err := dm.Analytics.GetGamesCreatedCount(context.Background())
	if err != nil {
		t.Fatalf("failed to fetch created games: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected games created: 3\tgot: %d", count)
	}
}

func TestGetServerAnalyticsNoRows(t *testing.T) {
	dm, mock := newMockDbManager(t)
	mock.ExpectQuery(`SELECT server_ip, games_created, games_won, games_lost FROM game_server_analytics`).
		WithArgs(testServerIp).
		WillReturnError(sql.ErrNoRows)

	_, err := dm.Analytics.GetServerAnalytics(context.Background())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected error: %v\tgot: %v", sql.ErrNoRows, err)
	}
}

func TestAgentCallRecorder(t *testing.T) {
	calledAt := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		call         agent.Call
		succeeded    bool
		errorMessage sql.NullString
	}{
		{
			name:      "successful chat",
			call:      agent.Call{Timestamp: calledAt, Method: "POST", Endpoint: agent.EndpointChat},
			succeeded: true,
		},
		{
			name:         "failed create",
			call:         agent.Call{Timestamp: calledAt, Method: "POST", Endpoint: agent.EndpointCreateAgent, Err: errors.New("boom")},
			succeeded:    false,
			errorMessage: sql.NullString{String: "boom", Valid: true},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dm, mock := newMockDbManager(t)
			mock.ExpectExec(`INSERT INTO agent_calls`).
				WithArgs(testServerIp, test.call.Method, test.call.Endpoint, test.succeeded, test.errorMessage, calledAt).
				WillReturnResult(sqlmock.NewResult(1, 1))

			// a cancelled caller context must not prevent the insert
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			dm.AgentCalls.Record(ctx, test.call)

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestListRecentAgentCalls(t *testing.T) {
	dm, mock := newMockDbManager(t)
	calledAt := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "server_ip", "method", "endpoint", "succeeded", "error_message", "called_at"}).
		AddRow(2, "10.0.0.7/32", "POST", agent.EndpointChat, false, "timeout", calledAt).
		AddRow(1, "10.0.0.7/32", "POST", agent.EndpointCreateAgent, true, nil, calledAt)
	mock.ExpectQuery(`SELECT id, server_ip, method, endpoint, succeeded, error_message, called_at`).
		WithArgs(int32(10)).
		WillReturnRows(rows)

	calls, err := dm.AgentCalls.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected no error\tgot: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected calls: 2\tgot: %d", len(calls))
	}
	if calls[0].Succeeded || calls[0].ErrorMessage.String != "timeout" {
		t.Fatalf("expected failed call with message timeout\tgot: %+v", calls[0])
	}
	if calls[1].ErrorMessage.Valid {
		t.Fatalf("expected no error message\tgot: %+v", calls[1].ErrorMessage)
	}
	if calls[0].ServerIp.IPNet.String() != "10.0.0.7/32" {
		t.Fatalf("expected server ip: 10.0.0.7/32\tgot: %s", calls[0].ServerIp.IPNet.String())
	}
}
