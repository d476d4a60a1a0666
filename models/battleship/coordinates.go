package battleship

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	cerr "github.com/saeidalz13/battleship-admiral/internal/error"
)

const GridSize = 10

// Row letter followed by a 1-based column; nothing else is accepted.
var coordinatesGrammar = regexp.MustCompile(`^([A-J])(10|[1-9])$`)

type Coordinates struct {
	Row uint8 `json:"row"`
	Col uint8 `json:"col"`
}

func NewCoordinates(row, col uint8) Coordinates {
	return Coordinates{Row: row, Col: col}
}

func (c Coordinates) InBounds() bool {
	return c.Row < GridSize && c.Col < GridSize
}

// String renders the display form, e.g. row 0 col 4 is "A5".
func (c Coordinates) String() string {
	return fmt.Sprintf("%c%d", 'A'+c.Row, int(c.Col)+1)
}

func ParseCoordinates(raw string) (Coordinates, error) {
	m := coordinatesGrammar.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Coordinates{}, cerr.ErrInvalidCoordinates(raw)
	}

	col, err := strconv.Atoi(m[2])
	if err != nil {
		return Coordinates{}, cerr.ErrInvalidCoordinates(raw)
	}

	return NewCoordinates(m[1][0]-'A', uint8(col-1)), nil
}

// AllCoordinates lists every cell of the grid in row-major order.
func AllCoordinates() []Coordinates {
	all := make([]Coordinates, 0, GridSize*GridSize)
	for row := uint8(0); row < GridSize; row++ {
		for col := uint8(0); col < GridSize; col++ {
			all = append(all, NewCoordinates(row, col))
		}
	}
	return all
}
