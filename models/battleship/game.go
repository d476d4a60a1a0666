package battleship

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

// Game owns the current snapshot of one match. The epoch changes on
// every reset, so a move requested before a reset can be recognised and
// dropped when it finally arrives.
type Game struct {
	uuid      string
	createdAt time.Time
	rnd       Randomizer

	mu    sync.RWMutex
	state State
	epoch uint64
}

func newGame(gameUuid string, rnd Randomizer) *Game {
	if rnd == nil {
		rnd = NewRandomizer()
	}
	return &Game{
		uuid:      gameUuid,
		createdAt: time.Now(),
		rnd:       rnd,
		state:     NewState(),
	}
}

// NewGame creates a standalone game, mostly useful outside a manager.
func NewGame(rnd Randomizer) *Game {
	return newGame(uuid.NewString()[:6], rnd)
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Game) Epoch() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.epoch
}

func (g *Game) Snapshot() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Game) Deploy() (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, err := g.state.Deploy(g.rnd)
	if err != nil {
		return g.state, err
	}
	g.state = next
	return next, nil
}

func (g *Game) Shoot(c Coordinates) (State, ShotResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next, result, err := g.state.Shoot(c)
	if err != nil {
		return g.state, result, err
	}
	g.state = next
	return next, result, nil
}

func (g *Game) Reset() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.epoch++
	g.state = g.state.Reset()
	return g.state
}

// PlayOpponentTurn asks src for a move and applies it. The game is not
// locked while src works. A failing or unusable reply is replaced by a
// random untried cell; a reply that outlived a reset yields ErrStaleEpoch
// and changes nothing.
func (g *Game) PlayOpponentTurn(ctx context.Context, src MoveSource) (OpponentMove, ShotResult, error) {
	g.mu.RLock()
	if !g.state.IsOpponentTurn() {
		g.mu.RUnlock()
		return OpponentMove{}, ShotResult{}, cerr.ErrNotOpponentTurn()
	}
	epoch := g.epoch
	summary := g.state.Summary()
	g.mu.RUnlock()

	reply, replyErr := src.NextMove(ctx, summary)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.epoch != epoch || !g.state.IsOpponentTurn() {
		log.Warn("discarding opponent move", "game", g.uuid, "epoch", epoch, "current", g.epoch)
		return OpponentMove{}, ShotResult{}, cerr.ErrStaleEpoch
	}

	move, ok := g.chooseMove(reply, replyErr)
	if !ok {
		// no untried cell is left, which a live fleet makes impossible
		return OpponentMove{}, ShotResult{}, cerr.ErrNotOpponentTurn()
	}

	next, result, err := g.state.OpponentShoot(move)
	if err != nil {
		return move, result, err
	}
	g.state = next
	return move, result, nil
}

func (g *Game) chooseMove(reply string, replyErr error) (OpponentMove, bool) {
	shots := g.state.Player.Shots

	if replyErr != nil {
		failure := cerr.ErrMoveRequestFailed(replyErr)
		log.Warn("move source failed, firing at random", "game", g.uuid, "err", failure)
		return randomMove(shots, g.rnd, failure)
	}

	move, err := ParseMove(reply)
	if err != nil {
		log.Warn("move source reply rejected, firing at random", "game", g.uuid, "err", err)
		return randomMove(shots, g.rnd, err)
	}

	if shots.IsShot(move.Shot) {
		failure := cerr.ErrMoveAlreadyTried(move.Shot.String())
		log.Warn("move source repeated a shot, firing at random", "game", g.uuid, "err", failure)
		fallback, ok := randomMove(shots, g.rnd, failure)
		fallback.Commentary = move.Commentary
		return fallback, ok
	}

	return OpponentMove{Move: move}, true
}
