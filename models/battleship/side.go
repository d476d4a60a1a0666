package battleship

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

// Side is everything that belongs to one player: their board, their
// fleet and the shots the other player fired at them.
type Side struct {
	Board Board    `json:"-"`
	Shots ShotGrid `json:"-"`
	Fleet Fleet    `json:"fleet"`
}

func (s Side) IsLoser() bool {
	return s.Fleet.IsDefeated()
}

func (s Side) SunkenShips() int {
	return s.Fleet.SunkenShips()
}

func (s Side) receive(c Coordinates) (Side, ShotResult, error) {
	shots, fleet, result, err := Fire(s.Board, s.Shots, s.Fleet, c)
	if err != nil {
		return s, result, err
	}
	s.Shots = shots
	s.Fleet = fleet
	return s, result, nil
}

// BattleLog only grows; Append never writes into the receiver's array.
type BattleLog []string

func (l BattleLog) Append(entries ...string) BattleLog {
	next := make(BattleLog, 0, len(l)+len(entries))
	next = append(next, l...)
	return append(next, entries...)
}

func (l BattleLog) Last() string {
	if len(l) == 0 {
		return ""
	}
	return l[len(l)-1]
}
