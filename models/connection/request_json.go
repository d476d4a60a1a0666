package connection

import (
	"fmt"

	mb "github.com/saeidalz13/battleship-admiral/models/battleship"
)

// ReqShoot names the target either by grid index or by its display form.
type ReqShoot struct {
	Row        *uint8 `json:"row,omitempty"`
	Col        *uint8 `json:"col,omitempty"`
	Coordinate string `json:"coordinate,omitempty"`
}

func (r ReqShoot) Target() (mb.Coordinates, error) {
	if r.Coordinate != "" {
		return mb.ParseCoordinates(r.Coordinate)
	}
	if r.Row == nil || r.Col == nil {
		return mb.Coordinates{}, fmt.Errorf("shot must contain row and col or coordinate")
	}

	return mb.NewCoordinates(*r.Row, *r.Col), nil
}

type ReqChat struct {
	Message string `json:"message"`
}
