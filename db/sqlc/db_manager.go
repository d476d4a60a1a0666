package sqlc

import (
	"time"

	"github.com/sqlc-dev/pqtype"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

type DbManager struct {
	Analytics  *AnalyticsManager
	AgentCalls *AgentCallRecorder
}

func NewDbManager(queries Querier, serverIp pqtype.Inet) DbManager {
	return DbManager{
		Analytics:  NewAnalyticsManager(queries, serverIp),
		AgentCalls: NewAgentCallRecorder(queries, serverIp),
	}
}
