package battleship

import (
	"encoding/json"
	"fmt"
)

type CellView string

const (
	CellHit     CellView = "hit"
	CellMiss    CellView = "miss"
	CellUnknown CellView = "unknown"
)

// ShotSummary is what a shooter knows about a target board.
type ShotSummary [GridSize][GridSize]CellView

func Summarize(board Board, shots ShotGrid) ShotSummary {
	var summary ShotSummary
	for _, c := range AllCoordinates() {
		switch {
		case !shots.IsShot(c):
			summary[c.Row][c.Col] = CellUnknown
		case board.IsOccupied(c):
			summary[c.Row][c.Col] = CellHit
		default:
			summary[c.Row][c.Col] = CellMiss
		}
	}
	return summary
}

func (s ShotSummary) Shots() ShotGrid {
	var shots ShotGrid
	for _, c := range AllCoordinates() {
		if v := s[c.Row][c.Col]; v == CellHit || v == CellMiss {
			shots = shots.Mark(c)
		}
	}
	return shots
}

func (s ShotSummary) Hits() []Coordinates {
	return s.collect(CellHit)
}

func (s ShotSummary) Misses() []Coordinates {
	return s.collect(CellMiss)
}

func (s ShotSummary) collect(view CellView) []Coordinates {
	var out []Coordinates
	for _, c := range AllCoordinates() {
		if s[c.Row][c.Col] == view {
			out = append(out, c)
		}
	}
	return out
}

// GameSummary is sent to the move source before each opponent turn.
// PlayerShots are the player's shots on the opponent board, AiShots the
// opponent's shots on the player board.
type GameSummary struct {
	PlayerShots    ShotSummary `json:"playerShots"`
	AiShots        ShotSummary `json:"aiShots"`
	LastPlayerShot string      `json:"lastPlayerShot"`
}

func (gs GameSummary) Prompt() string {
	raw, err := json.Marshal(gs)
	if err != nil {
		// arrays of strings always marshal
		panic(err)
	}
	return fmt.Sprintf("Game state: %s. Make your next move!", raw)
}
