package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-admiral/db/sqlc"
	"github.com/saeidalz13/battleship-admiral/internal/agent"
	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
	mc "github.com/saeidalz13/battleship-admiral/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
	agentClient    *agent.Client
	archive        *agent.FleetArchive
	opponentDelay  time.Duration
	agentTimeout   time.Duration
	ipnet          net.IPNet
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	q sqlc.Querier,
	agentClient *agent.Client,
) RequestProcessor {
	rp := RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		agentClient:    agentClient,
		opponentDelay:  defaultOpponentDelay,
		agentTimeout:   defaultAgentTimeout,
	}

	rp.ipnet = FindServerIpNet()
	if q != nil {
		rp.analytics = sqlc.NewAnalyticsManager(q, rp.ServerInet())
	}
	if agentClient != nil {
		rp.archive = agent.NewFleetArchive(agentClient)
	}
	return rp
}

// FindServerIpNet picks the first non-loopback IPv4 address of the host.
// Hosts without one (e.g. a sandbox) are counted under 127.0.0.1.
func FindServerIpNet() net.IPNet {
	fallback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("could not list network interfaces", "err", err)
		return fallback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	return fallback
}

func (rp RequestProcessor) ServerInet() pqtype.Inet {
	return pqtype.Inet{IPNet: rp.ipnet, Valid: true}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("could not upgrade connection", "err", err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Info("a new connection established", "remote", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		session, err := rp.sessionManager.FindSession(sessionIdQuery)
		if err != nil {
			// This either means an expired session or invalid session ID
			msg := mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID)
			msg.AddError(err.Error(), "session could not be resumed")
			_ = conn.WriteJSON(msg)
			_ = conn.Close()
			return
		}
		rp.sessionManager.ReconnectSession(session, conn)

		resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
		resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
		if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
			log.Warn("could not confirm reconnection", "session", session.Id(), "err", err)
		}
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionGame *mb.Game
		opponent    mb.MoveSource = offlineMoveSource{}
		assistant   *agent.Assistant
	)
	if rp.agentClient != nil {
		assistant = agent.NewAssistant(rp.agentClient)
	}

	defer func() {
		if sessionGame != nil {
			rp.terminateGame(sessionGame)
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		rp.sessionManager.TerminateSession(session)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// The connection could not be recovered after retries
			break sessionLoop
		}

		code, err := rp.sessionManager.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		var respMsg interface{}

		switch code {

		// A new game replaces the previous one of this session
		case mc.CodeCreateGame:
			if sessionGame != nil {
				rp.terminateGame(sessionGame)
			}

			game, msg := NewRequest(payload).HandleCreateGame(rp.gameManager)
			sessionGame = game
			session.SetGame(game)
			if rp.agentClient != nil {
				opponent = agent.NewOpponent(rp.agentClient)
			}
			rp.recordAnalytics("games created", (*sqlc.AnalyticsManager).IncrementGamesCreatedCount)
			respMsg = msg

		case mc.CodeDeploy:
			msg := NewRequest(payload).HandleDeploy(sessionGame)
			if msg.Error == nil {
				go rp.archiveFleets(sessionGame.Uuid(), sessionGame.Snapshot())
			}
			respMsg = msg

		// The player's shot. When the battle goes on the Admiral's
		// answer is pushed later by its own goroutine.
		case mc.CodeShoot:
			msg, state := NewRequest(payload).HandleShoot(sessionGame)
			if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			if msg.Error != nil {
				continue sessionLoop
			}

			if state.IsMatchOver() {
				rp.recordAnalytics("games won", (*sqlc.AnalyticsManager).IncrementGamesWonCount)
				if err := rp.writeEndGame(session, state); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			go rp.playOpponentTurn(session, sessionGame, opponent, sessionGame.Epoch())
			continue sessionLoop

		case mc.CodeReset:
			respMsg = NewRequest(payload).HandleReset(sessionGame)

		case mc.CodeChat:
			ctx, cancel := context.WithTimeout(context.Background(), rp.agentTimeout)
			respMsg = NewRequest(payload).HandleChat(ctx, assistant)
			cancel()

		case mc.CodeChatWelcome:
			ctx, cancel := context.WithTimeout(context.Background(), rp.agentTimeout)
			respMsg = NewRequest(payload).HandleChatWelcome(ctx, assistant)
			cancel()

		case mc.CodeFleetSnapshot:
			ctx, cancel := context.WithTimeout(context.Background(), rp.agentTimeout)
			respMsg = NewRequest(payload).HandleFleetSnapshot(ctx, rp.archive, sessionGame)
			cancel()

		case mc.CodeDeleteFleetSnapshot:
			ctx, cancel := context.WithTimeout(context.Background(), rp.agentTimeout)
			respMsg = NewRequest(payload).HandleDeleteFleetSnapshot(ctx, rp.archive, sessionGame)
			cancel()

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			respMsg = respInvalidSignal
		}

		if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
			break sessionLoop
		}
	}
}

// playOpponentTurn waits for the pacing delay and lets the Admiral fire.
// A reset, a new deployment or a new game of the session in the meantime
// makes the turn obsolete and nothing is sent.
func (rp RequestProcessor) playOpponentTurn(session *mc.Session, game *mb.Game, src mb.MoveSource, epoch uint64) {
	if rp.opponentDelay > 0 {
		time.Sleep(rp.opponentDelay)
	}
	if session.Game() != game || game.Epoch() != epoch {
		log.Debug("opponent turn dropped", "game", game.Uuid())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rp.agentTimeout)
	defer cancel()

	move, result, err := game.PlayOpponentTurn(ctx, src)
	if err != nil {
		if errors.Is(err, cerr.ErrStaleEpoch) || errors.Is(err, cerr.ErrIllegalShot) {
			log.Debug("opponent turn discarded", "game", game.Uuid(), "err", err)
			return
		}
		log.Error("opponent turn failed", "game", game.Uuid(), "err", err)
		return
	}
	// a new game was created while the Admiral was thinking
	if session.Game() != game {
		log.Debug("opponent shot of a replaced game dropped", "game", game.Uuid(), "shot", move.Shot.String())
		return
	}
	if move.Fallback {
		log.Info("admiral fired at random", "game", game.Uuid(), "shot", move.Shot.String(), "reason", move.Failure)
	}

	state := game.Snapshot()
	msg := mc.NewMessage[mc.RespOpponentShot](mc.CodeOpponentShot)
	msg.AddPayload(mc.RespOpponentShot{
		Result:         result,
		Commentary:     move.Commentary,
		Strategy:       move.Strategy,
		Fallback:       move.Fallback,
		Phase:          state.Phase,
		SunkenShipsOwn: state.Player.SunkenShips(),
		Log:            state.Log,
	})
	if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
		log.Warn("could not deliver opponent shot", "session", session.Id(), "err", err)
		return
	}

	if result.FleetDefeated {
		rp.recordAnalytics("games lost", (*sqlc.AnalyticsManager).IncrementGamesLostCount)
		if err := rp.writeEndGame(session, state); err != nil {
			log.Warn("could not deliver end of game", "session", session.Id(), "err", err)
		}
	}
}

func (rp RequestProcessor) writeEndGame(session *mc.Session, state mb.State) error {
	msg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	msg.AddPayload(mc.RespEndGame{PlayerMatchStatus: state.MatchStatus})
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
}

// terminateGame removes the game from the manager and forgets its fleet
// snapshot. The snapshot object itself stays in the agent service.
func (rp RequestProcessor) terminateGame(game *mb.Game) {
	rp.gameManager.TerminateGame(game.Uuid())
	if rp.archive != nil {
		rp.archive.Forget(game.Uuid())
	}
}

// archiveFleets is best effort; the game never waits for it.
func (rp RequestProcessor) archiveFleets(gameUuid string, state mb.State) {
	if rp.archive == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rp.agentTimeout)
	defer cancel()

	if err := rp.archive.Store(ctx, gameUuid, state); err != nil {
		log.Warn("failed to archive fleets", "game", gameUuid, "err", err)
	}
}

func (rp RequestProcessor) recordAnalytics(name string, increment func(*sqlc.AnalyticsManager, context.Context) error) {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	// for now not killing the game for it
	if err := increment(rp.analytics, ctx); err != nil {
		log.Error("failed to record analytics", "counter", name, "err", err)
	}
}

// offlineMoveSource stands in when no agent service is configured; every
// Admiral move becomes a random one.
type offlineMoveSource struct{}

func (offlineMoveSource) NextMove(context.Context, mb.GameSummary) (string, error) {
	return "", cerr.ErrNoAgent(agent.AdmiralName)
}
