package battleship

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeRoundTrip(t *testing.T) {
	board, fleet := destroyerAtOrigin()
	var shots ShotGrid

	targets := []Coordinates{
		NewCoordinates(0, 0),
		NewCoordinates(3, 3),
		NewCoordinates(9, 9),
		NewCoordinates(0, 1),
	}
	for _, c := range targets {
		var err error
		shots, fleet, _, err = Fire(board, shots, fleet, c)
		require.NoError(t, err)
	}

	summary := Summarize(board, shots)
	assert.Equal(t, CellHit, summary[0][0])
	assert.Equal(t, CellHit, summary[0][1])
	assert.Equal(t, CellMiss, summary[3][3])
	assert.Equal(t, CellUnknown, summary[5][5])

	assert.Equal(t, shots, summary.Shots())
	assert.ElementsMatch(t, []Coordinates{NewCoordinates(0, 0), NewCoordinates(0, 1)}, summary.Hits())
	assert.ElementsMatch(t, []Coordinates{NewCoordinates(3, 3), NewCoordinates(9, 9)}, summary.Misses())
}

func TestGameSummaryPrompt(t *testing.T) {
	state, err := NewState().Deploy(seeded())
	require.NoError(t, err)

	state, _, err = state.Shoot(NewCoordinates(4, 4))
	require.NoError(t, err)

	summary := state.Summary()
	assert.Equal(t, state.Log.Last(), summary.LastPlayerShot)
	assert.Equal(t, 1, summary.PlayerShots.Shots().Count())
	assert.Equal(t, 0, summary.AiShots.Shots().Count())

	prompt := summary.Prompt()
	require.True(t, strings.HasPrefix(prompt, "Game state: "))
	require.True(t, strings.HasSuffix(prompt, ". Make your next move!"))

	raw := strings.TrimSuffix(strings.TrimPrefix(prompt, "Game state: "), ". Make your next move!")
	var decoded GameSummary
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, summary, decoded)
}
