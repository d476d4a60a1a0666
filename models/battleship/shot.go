package battleship

import (
	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

type ShotResult struct {
	Coordinates   Coordinates `json:"coordinates"`
	Hit           bool        `json:"hit"`
	ShipName      string      `json:"ship_name,omitempty"`
	Sunk          bool        `json:"sunk"`
	FleetDefeated bool        `json:"fleet_defeated"`
}

// Fire resolves a shot at c. The arguments are left untouched; the
// updated shot grid and fleet are returned. Firing twice at the same
// cell is an illegal shot.
func Fire(board Board, shots ShotGrid, fleet Fleet, c Coordinates) (ShotGrid, Fleet, ShotResult, error) {
	if !c.InBounds() {
		return shots, fleet, ShotResult{}, cerr.ErrShotOutOfGridBound(int(c.Row), int(c.Col))
	}
	if shots.IsShot(c) {
		return shots, fleet, ShotResult{}, cerr.ErrAlreadyShot(c.String())
	}

	nextShots := shots.Mark(c)
	result := ShotResult{Coordinates: c}

	id, hit := board.ShipAt(c)
	if !hit {
		result.FleetDefeated = fleet.IsDefeated()
		return nextShots, fleet, result, nil
	}

	nextFleet := fleet.Clone()
	result.Hit = true

	if i, ok := nextFleet.Ship(id); ok {
		ship := &nextFleet[i]
		if ship.Hits < ship.Size {
			ship.Hits++
		}
		result.ShipName = ship.Name
		result.Sunk = ship.IsSunk()
	}
	result.FleetDefeated = nextFleet.IsDefeated()

	return nextShots, nextFleet, result, nil
}
