package battleship

import (
	"fmt"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

type Phase uint8

const (
	PhaseSetup Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameOver"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhaseSetup, PhasePlaying, PhaseGameOver} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase: %q", text)
}

type Turn uint8

const (
	TurnPlayer Turn = iota
	TurnOpponent
)

func (t Turn) String() string {
	if t == TurnOpponent {
		return "opponent"
	}
	return "player"
}

func (t Turn) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Turn) UnmarshalText(text []byte) error {
	switch string(text) {
	case "player":
		*t = TurnPlayer
	case "opponent":
		*t = TurnOpponent
	default:
		return fmt.Errorf("unknown turn: %q", text)
	}
	return nil
}

const (
	logDeployed = "Fleets deployed. Battle begins!"
	logVictory  = "Victory! Every enemy ship has been sunk."
	logDefeat   = "Defeat! The Admiral sank your entire fleet."
)

// State is one immutable snapshot of a game. Every transition returns a
// new State and leaves the receiver as it was.
type State struct {
	Phase       Phase     `json:"phase"`
	Turn        Turn      `json:"turn"`
	MatchStatus int       `json:"match_status"`
	Player      Side      `json:"player"`
	Opponent    Side      `json:"opponent"`
	Log         BattleLog `json:"log"`
}

func NewState() State {
	return State{
		Phase:       PhaseSetup,
		Turn:        TurnPlayer,
		MatchStatus: PlayerMatchStatusUndefined,
	}
}

func (s State) IsPlayerTurn() bool {
	return s.Phase == PhasePlaying && s.Turn == TurnPlayer
}

func (s State) IsOpponentTurn() bool {
	return s.Phase == PhasePlaying && s.Turn == TurnOpponent
}

func (s State) IsMatchOver() bool {
	return s.Phase == PhaseGameOver
}

// Deploy places both fleets independently and starts the battle with
// the player to move.
func (s State) Deploy(rnd Randomizer) (State, error) {
	if s.Phase != PhaseSetup {
		return s, cerr.ErrCannotDeploy(s.Phase.String())
	}

	playerBoard, playerFleet, err := PlaceFleet(rnd)
	if err != nil {
		return s, err
	}
	opponentBoard, opponentFleet, err := PlaceFleet(rnd)
	if err != nil {
		return s, err
	}

	next := NewState()
	next.Phase = PhasePlaying
	next.Turn = TurnPlayer
	next.Player = Side{Board: playerBoard, Fleet: playerFleet}
	next.Opponent = Side{Board: opponentBoard, Fleet: opponentFleet}
	next.Log = BattleLog{}.Append(logDeployed)
	return next, nil
}

func (s State) Shoot(c Coordinates) (State, ShotResult, error) {
	if s.Phase != PhasePlaying {
		return s, ShotResult{}, cerr.ErrNotPlaying(s.Phase.String())
	}
	if s.Turn != TurnPlayer {
		return s, ShotResult{}, cerr.ErrNotPlayerTurn()
	}

	opponent, result, err := s.Opponent.receive(c)
	if err != nil {
		return s, result, err
	}

	next := s
	next.Opponent = opponent
	next.Log = s.Log.Append(playerShotEntry(result))

	if result.FleetDefeated {
		next.Phase = PhaseGameOver
		next.MatchStatus = PlayerMatchStatusWon
		next.Log = next.Log.Append(logVictory)
		return next, result, nil
	}

	next.Turn = TurnOpponent
	return next, result, nil
}

func (s State) OpponentShoot(move OpponentMove) (State, ShotResult, error) {
	if s.Phase != PhasePlaying {
		return s, ShotResult{}, cerr.ErrNotPlaying(s.Phase.String())
	}
	if s.Turn != TurnOpponent {
		return s, ShotResult{}, cerr.ErrNotOpponentTurn()
	}

	player, result, err := s.Player.receive(move.Shot)
	if err != nil {
		return s, result, err
	}

	next := s
	next.Player = player
	next.Log = s.Log.Append(opponentShotEntry(result))
	if move.Commentary != "" {
		next.Log = next.Log.Append("Admiral: " + move.Commentary)
	}

	if result.FleetDefeated {
		next.Phase = PhaseGameOver
		next.MatchStatus = PlayerMatchStatusLost
		next.Log = next.Log.Append(logDefeat)
		return next, result, nil
	}

	next.Turn = TurnPlayer
	return next, result, nil
}

func (s State) Reset() State {
	return NewState()
}

func (s State) Summary() GameSummary {
	return GameSummary{
		PlayerShots:    Summarize(s.Opponent.Board, s.Opponent.Shots),
		AiShots:        Summarize(s.Player.Board, s.Player.Shots),
		LastPlayerShot: s.Log.Last(),
	}
}

func playerShotEntry(r ShotResult) string {
	if !r.Hit {
		return fmt.Sprintf("You fired at %s: miss.", r.Coordinates)
	}
	if r.Sunk {
		return fmt.Sprintf("You fired at %s: hit! Enemy %s sunk!", r.Coordinates, r.ShipName)
	}
	return fmt.Sprintf("You fired at %s: hit!", r.Coordinates)
}

func opponentShotEntry(r ShotResult) string {
	if !r.Hit {
		return fmt.Sprintf("Admiral fired at %s: miss.", r.Coordinates)
	}
	if r.Sunk {
		return fmt.Sprintf("Admiral fired at %s: hit! Your %s is sunk!", r.Coordinates, r.ShipName)
	}
	return fmt.Sprintf("Admiral fired at %s: hit on your %s!", r.Coordinates, r.ShipName)
}
