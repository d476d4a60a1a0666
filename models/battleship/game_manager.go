package battleship

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

type GameManager interface {
	CreateGame() *Game
	GetGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

type BattleshipGameManager struct {
	games     map[string]*Game
	newRandom func() Randomizer
	mu        sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager() *BattleshipGameManager {
	return &BattleshipGameManager{
		games:     make(map[string]*Game, 10),
		newRandom: NewRandomizer,
	}
}

// WithRandomizer makes every new game draw from fn. Used by tests to get
// reproducible fleets.
func (bgm *BattleshipGameManager) WithRandomizer(fn func() Randomizer) *BattleshipGameManager {
	bgm.newRandom = fn
	return bgm
}

func (bgm *BattleshipGameManager) CreateGame() *Game {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	gameUuid := uuid.NewString()[:6]
	for _, taken := bgm.games[gameUuid]; taken; _, taken = bgm.games[gameUuid] {
		gameUuid = uuid.NewString()[:6]
	}

	game := newGame(gameUuid, bgm.newRandom())
	bgm.games[gameUuid] = game
	log.Info("game created", "game", gameUuid)
	return game
}

func (bgm *BattleshipGameManager) GetGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}
	if game == nil {
		return nil, cerr.ErrGameIsNil(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	game, prs := bgm.games[gameUuid]
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()

	if !prs || game == nil {
		return
	}
	log.Info("game terminated", "game", gameUuid, "age", time.Since(game.CreatedAt()).Round(time.Second))
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
