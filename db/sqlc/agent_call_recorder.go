package sqlc

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-admiral/internal/agent"
)

// AgentCallRecorder stores every agent service call in agent_calls.
type AgentCallRecorder struct {
	queries  Querier
	serverIp pqtype.Inet
}

var _ agent.Recorder = (*AgentCallRecorder)(nil)

func NewAgentCallRecorder(queries Querier, serverIp pqtype.Inet) *AgentCallRecorder {
	return &AgentCallRecorder{queries: queries, serverIp: serverIp}
}

// Record outlives the caller's context; a call that timed out is still
// stored.
func (r *AgentCallRecorder) Record(ctx context.Context, call agent.Call) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), QuerierCtxTimeout)
	defer cancel()

	params := CreateAgentCallParams{
		ServerIp:  r.serverIp,
		Method:    call.Method,
		Endpoint:  call.Endpoint,
		Succeeded: call.Succeeded(),
		CalledAt:  call.Timestamp,
	}
	if call.Err != nil {
		params.ErrorMessage = sql.NullString{String: call.Err.Error(), Valid: true}
	}

	if err := r.queries.CreateAgentCall(ctx, params); err != nil {
		log.Error("failed to store agent call", "endpoint", call.Endpoint, "err", err)
	}
}

func (r *AgentCallRecorder) Recent(ctx context.Context, limit int32) ([]AgentCall, error) {
	return r.queries.ListRecentAgentCalls(ctx, limit)
}
