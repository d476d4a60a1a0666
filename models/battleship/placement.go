package battleship

import (
	"errors"
	"math/rand/v2"
	"time"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

const (
	MaxPlacementAttempts     = 100
	MaxFleetPlacementRetries = 50
)

type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Randomizer is the only source of randomness of the game. Tests pass
// deterministic implementations.
type Randomizer interface {
	IntN(n int) int
}

func NewRandomizer() Randomizer {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// ShipCells lays out size contiguous cells from origin. It reports false
// when the ship would leave the grid.
func ShipCells(origin Coordinates, size uint8, orientation Orientation) ([]Coordinates, bool) {
	if !origin.InBounds() || size == 0 {
		return nil, false
	}

	cells := make([]Coordinates, 0, size)
	for i := uint8(0); i < size; i++ {
		c := origin
		if orientation == Horizontal {
			c.Col += i
		} else {
			c.Row += i
		}
		if !c.InBounds() {
			return nil, false
		}
		cells = append(cells, c)
	}
	return cells, true
}

func canPlace(board Board, cells []Coordinates) bool {
	for _, c := range cells {
		if board.IsOccupied(c) {
			return false
		}
	}
	return true
}

// PlaceShip tries MaxPlacementAttempts random candidates and commits the
// first one that fits.
func PlaceShip(board Board, class ShipClass, id ShipID, rnd Randomizer) (Board, Ship, error) {
	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		orientation := Orientation(rnd.IntN(2))
		origin := NewCoordinates(uint8(rnd.IntN(GridSize)), uint8(rnd.IntN(GridSize)))

		cells, ok := ShipCells(origin, class.Size, orientation)
		if !ok || !canPlace(board, cells) {
			continue
		}

		next, err := board.Occupy(cells, id)
		if err != nil {
			return board, Ship{}, err
		}
		return next, NewShip(id, class, cells), nil
	}

	return board, Ship{}, cerr.ErrPlacementExhausted(class.Name, MaxPlacementAttempts)
}

// PlaceFleet deploys FleetClasses on an empty board. A ship that cannot
// be placed throws the partial board away and the whole fleet starts over.
func PlaceFleet(rnd Randomizer) (Board, Fleet, error) {
	var lastErr error

	for retry := 0; retry < MaxFleetPlacementRetries; retry++ {
		board, fleet, err := placeFleetOnce(rnd)
		if err == nil {
			return board, fleet, nil
		}
		if !errors.Is(err, cerr.ErrPlacement) {
			return NewBoard(), nil, err
		}
		lastErr = err
	}

	return NewBoard(), nil, lastErr
}

func placeFleetOnce(rnd Randomizer) (Board, Fleet, error) {
	board := NewBoard()
	fleet := make(Fleet, 0, FleetSize)

	for i, class := range FleetClasses {
		var (
			ship Ship
			err  error
		)
		board, ship, err = PlaceShip(board, class, ShipID(i+1), rnd)
		if err != nil {
			return NewBoard(), nil, err
		}
		fleet = append(fleet, ship)
	}

	return board, fleet, nil
}
