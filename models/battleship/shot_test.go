package battleship

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

func TestFireSinksDestroyer(t *testing.T) {
	board, fleet := destroyerAtOrigin()
	var shots ShotGrid

	shots, fleet, result, err := Fire(board, shots, fleet, NewCoordinates(0, 0))
	require.NoError(t, err)
	assert.True(t, result.Hit)
	assert.False(t, result.Sunk)
	assert.False(t, result.FleetDefeated)
	assert.Equal(t, "Destroyer", result.ShipName)
	assert.Equal(t, uint8(1), fleet[0].Hits)

	shots, fleet, result, err = Fire(board, shots, fleet, NewCoordinates(0, 1))
	require.NoError(t, err)
	assert.True(t, result.Hit)
	assert.True(t, result.Sunk)
	assert.True(t, result.FleetDefeated)
	assert.Equal(t, uint8(2), fleet[0].Hits)
	assert.Equal(t, 2, shots.Count())
}

func TestFireMiss(t *testing.T) {
	board, fleet := destroyerAtOrigin()

	shots, next, result, err := Fire(board, ShotGrid{}, fleet, NewCoordinates(5, 5))
	require.NoError(t, err)
	assert.False(t, result.Hit)
	assert.Empty(t, result.ShipName)
	assert.True(t, shots.IsShot(NewCoordinates(5, 5)))
	assert.Equal(t, fleet, next)
}

func TestFireLeavesInputsUntouched(t *testing.T) {
	board, fleet := destroyerAtOrigin()
	var shots ShotGrid

	_, next, _, err := Fire(board, shots, fleet, NewCoordinates(0, 0))
	require.NoError(t, err)

	assert.Equal(t, uint8(0), fleet[0].Hits)
	assert.Equal(t, uint8(1), next[0].Hits)
	assert.Equal(t, 0, shots.Count())
}

func TestFireIllegal(t *testing.T) {
	board, fleet := destroyerAtOrigin()
	shots, fleet, _, err := Fire(board, ShotGrid{}, fleet, NewCoordinates(0, 0))
	require.NoError(t, err)

	tests := []struct {
		name   string
		target Coordinates
	}{
		{name: "same cell twice", target: NewCoordinates(0, 0)},
		{name: "row out of range", target: NewCoordinates(GridSize, 0)},
		{name: "col out of range", target: NewCoordinates(0, GridSize)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			nextShots, nextFleet, result, err := Fire(board, shots, fleet, test.target)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cerr.ErrIllegalShot))
			assert.Equal(t, shots, nextShots)
			assert.Equal(t, fleet, nextFleet)
			assert.Equal(t, ShotResult{}, result)
		})
	}
}

func TestFleetIsDefeated(t *testing.T) {
	_, fleet := destroyerAtOrigin()

	assert.False(t, Fleet{}.IsDefeated())
	assert.False(t, fleet.IsDefeated())

	fleet[0].Hits = fleet[0].Size
	assert.True(t, fleet.IsDefeated())
	assert.Equal(t, 1, fleet.SunkenShips())
	assert.Equal(t, 0, fleet.RemainingCells())
}
