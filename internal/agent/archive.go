package agent

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
)

const fleetSnapshotPrefix = "battleship_game_data_"

type FleetSnapshot struct {
	PlayerShips mb.Fleet  `json:"playerShips"`
	AiShips     mb.Fleet  `json:"aiShips"`
	Timestamp   time.Time `json:"timestamp"`
}

// FleetArchive keeps a snapshot of the deployed fleets of each game as a
// data object of the agent service.
type FleetArchive struct {
	client *Client

	mu     sync.RWMutex
	stored map[string]bool
}

func NewFleetArchive(client *Client) *FleetArchive {
	return &FleetArchive{client: client, stored: make(map[string]bool)}
}

func ObjectName(gameUuid string) string {
	return fleetSnapshotPrefix + gameUuid
}

func (fa *FleetArchive) Store(ctx context.Context, gameUuid string, state mb.State) error {
	snapshot := FleetSnapshot{
		PlayerShips: state.Player.Fleet,
		AiShips:     state.Opponent.Fleet,
		Timestamp:   time.Now().UTC(),
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := fa.client.StoreData(ctx, ObjectName(gameUuid), []string{string(raw)}); err != nil {
		return err
	}

	fa.mu.Lock()
	fa.stored[gameUuid] = true
	fa.mu.Unlock()
	return nil
}

// Raw returns the stored snapshot text as the agent service keeps it.
func (fa *FleetArchive) Raw(ctx context.Context, gameUuid string) (string, error) {
	if !fa.Has(gameUuid) {
		return "", cerr.ErrFleetSnapshotAbsent()
	}
	return fa.client.ReturnData(ctx, ObjectName(gameUuid))
}

func (fa *FleetArchive) Delete(ctx context.Context, gameUuid string) error {
	if !fa.Has(gameUuid) {
		return cerr.ErrFleetSnapshotAbsent()
	}
	if err := fa.client.DeleteObject(ctx, ObjectName(gameUuid)); err != nil {
		return err
	}

	fa.mu.Lock()
	delete(fa.stored, gameUuid)
	fa.mu.Unlock()
	return nil
}

func (fa *FleetArchive) Has(gameUuid string) bool {
	fa.mu.RLock()
	defer fa.mu.RUnlock()
	return fa.stored[gameUuid]
}

// Forget drops the local record of a game's snapshot once the game is gone.
func (fa *FleetArchive) Forget(gameUuid string) {
	fa.mu.Lock()
	delete(fa.stored, gameUuid)
	fa.mu.Unlock()
}
