package battleship

import (
	"context"
	"math/rand/v2"
)

// scriptedRandom replays script and then draws from a seeded source.
type scriptedRandom struct {
	script []int
	next   int
	rest   *rand.Rand
}

func newScriptedRandom(script ...int) *scriptedRandom {
	return &scriptedRandom{script: script, rest: rand.New(rand.NewPCG(7, 11))}
}

func (r *scriptedRandom) IntN(n int) int {
	if r.next < len(r.script) {
		v := r.script[r.next] % n
		r.next++
		return v
	}
	return r.rest.IntN(n)
}

type constRandom int

func (c constRandom) IntN(n int) int {
	return int(c) % n
}

func seeded() Randomizer {
	return rand.New(rand.NewPCG(42, 1024))
}

type moveSourceFunc func(ctx context.Context, summary GameSummary) (string, error)

func (f moveSourceFunc) NextMove(ctx context.Context, summary GameSummary) (string, error) {
	return f(ctx, summary)
}

func repeat(v, times int) []int {
	out := make([]int, times)
	for i := range out {
		out[i] = v
	}
	return out
}

// destroyerAtOrigin is a board holding a single destroyer on A1-A2.
func destroyerAtOrigin() (Board, Fleet) {
	cells := []Coordinates{NewCoordinates(0, 0), NewCoordinates(0, 1)}
	board, err := NewBoard().Occupy(cells, 5)
	if err != nil {
		panic(err)
	}
	return board, Fleet{NewShip(5, ShipClass{Name: "Destroyer", Size: 2}, cells)}
}
