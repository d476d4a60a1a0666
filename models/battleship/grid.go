package battleship

import (
	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

// ShipID identifies the ship occupying a cell. NoShip is open water.
type ShipID uint8

const NoShip ShipID = 0

// Board is a value type; every mutation returns a new board so a game
// snapshot can never be changed behind its owner's back.
type Board [GridSize][GridSize]ShipID

// Creates a new board where every cell is open water
func NewBoard() Board {
	return Board{}
}

// Occupy marks every cell with id. Either all cells are marked or,
// on the first invalid cell, none are.
func (b Board) Occupy(cells []Coordinates, id ShipID) (Board, error) {
	if id == NoShip {
		return b, cerr.ErrInvalidShipId()
	}

	next := b
	for _, c := range cells {
		if !c.InBounds() {
			return b, cerr.ErrOutOfGridBound(int(c.Row), int(c.Col))
		}
		if next[c.Row][c.Col] != NoShip {
			return b, cerr.ErrCellOccupied(int(c.Row), int(c.Col))
		}
		next[c.Row][c.Col] = id
	}

	return next, nil
}

func (b Board) IsOccupied(c Coordinates) bool {
	_, ok := b.ShipAt(c)
	return ok
}

func (b Board) ShipAt(c Coordinates) (ShipID, bool) {
	if !c.InBounds() {
		return NoShip, false
	}
	id := b[c.Row][c.Col]
	return id, id != NoShip
}

func (b Board) OccupiedCells() int {
	count := 0
	for row := range b {
		for col := range b[row] {
			if b[row][col] != NoShip {
				count++
			}
		}
	}
	return count
}

// ShotGrid records which cells of a board were fired upon by the
// opponent of the board's owner. Cells only ever go from false to true.
type ShotGrid [GridSize][GridSize]bool

func (g ShotGrid) IsShot(c Coordinates) bool {
	return c.InBounds() && g[c.Row][c.Col]
}

func (g ShotGrid) Mark(c Coordinates) ShotGrid {
	if c.InBounds() {
		g[c.Row][c.Col] = true
	}
	return g
}

func (g ShotGrid) Untried() []Coordinates {
	untried := make([]Coordinates, 0, GridSize*GridSize-g.Count())
	for _, c := range AllCoordinates() {
		if !g[c.Row][c.Col] {
			untried = append(untried, c)
		}
	}
	return untried
}

func (g ShotGrid) Count() int {
	count := 0
	for row := range g {
		for col := range g[row] {
			if g[row][col] {
				count++
			}
		}
	}
	return count
}
