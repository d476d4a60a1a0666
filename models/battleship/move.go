package battleship

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

// MoveSource supplies the opponent's next shot as free text. The reply
// is expected to hold a JSON move but nothing guarantees it.
type MoveSource interface {
	NextMove(ctx context.Context, summary GameSummary) (string, error)
}

const (
	StrategyHunting  = "hunting"
	StrategyFallback = "fallback"
)

type Move struct {
	Shot       Coordinates `json:"shot"`
	Commentary string      `json:"commentary"`
	Strategy   string      `json:"strategy"`
}

type rawMove struct {
	Shot       *string `json:"shot"`
	Commentary string  `json:"commentary"`
	Strategy   string  `json:"strategy"`
}

// ParseMove accepts a reply that is exactly one JSON object whose shot
// satisfies ParseCoordinates. Any deviation is a move source failure.
func ParseMove(reply string) (Move, error) {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return Move{}, cerr.ErrUnparsableMove(errors.New("empty reply"))
	}

	var raw rawMove
	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	if err := dec.Decode(&raw); err != nil {
		return Move{}, cerr.ErrUnparsableMove(err)
	}
	if dec.More() {
		return Move{}, cerr.ErrUnparsableMove(errors.New("trailing data after move"))
	}
	if raw.Shot == nil {
		return Move{}, cerr.ErrUnparsableMove(errors.New("missing shot"))
	}

	shot, err := ParseCoordinates(*raw.Shot)
	if err != nil {
		return Move{}, cerr.ErrUnparsableMove(err)
	}

	return Move{Shot: shot, Commentary: strings.TrimSpace(raw.Commentary), Strategy: raw.Strategy}, nil
}

// OpponentMove is the move that was actually played. Failure keeps the
// reason the move source's reply was replaced by a random shot.
type OpponentMove struct {
	Move
	Fallback bool  `json:"fallback"`
	Failure  error `json:"-"`
}

func randomMove(shots ShotGrid, rnd Randomizer, failure error) (OpponentMove, bool) {
	untried := shots.Untried()
	if len(untried) == 0 {
		return OpponentMove{}, false
	}

	return OpponentMove{
		Move: Move{
			Shot:     untried[rnd.IntN(len(untried))],
			Strategy: StrategyFallback,
		},
		Fallback: true,
		Failure:  failure,
	}, true
}
