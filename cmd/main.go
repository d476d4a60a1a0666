package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-admiral/api"
	"github.com/saeidalz13/battleship-admiral/db"
	"github.com/saeidalz13/battleship-admiral/db/sqlc"
	"github.com/saeidalz13/battleship-admiral/internal/agent"
	"github.com/saeidalz13/battleship-admiral/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	log.SetLevel(cfg.LogLevel)
	log.SetReportTimestamp(true)

	options := []api.Option{
		api.WithPort(cfg.Port),
		api.WithStage(cfg.Stage),
		api.WithOpponentDelay(cfg.OpponentDelay),
		api.WithAgentTimeout(cfg.AgentTimeout),
	}

	recorders := agent.Recorders{}
	agentCalls := agent.NewMemoryRecorder(100)
	recorders = append(recorders, agentCalls)

	if cfg.PersistenceEnabled() {
		conn := db.MustConnectToDb(cfg.DatabaseUrl)
		defer conn.Close()

		q := sqlc.New(conn)
		dm := sqlc.NewDbManager(q, pqtype.Inet{IPNet: api.FindServerIpNet(), Valid: true})
		options = append(options, api.WithQuerier(q))
		recorders = append(recorders, dm.AgentCalls)
	} else {
		log.Warn("DATABASE_URL is not set; analytics are disabled")
	}

	if cfg.AgentApiToken == "" {
		log.Warn("AGENT_API_TOKEN is not set; the Admiral will fire at random")
	} else {
		client := agent.NewClient(cfg.AgentApiUrl, cfg.AgentApiToken, agent.WithRecorder(recorders))
		options = append(options, api.WithAgentClient(client), api.WithAgentCalls(agentCalls))
	}

	server := api.NewServer(options...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
