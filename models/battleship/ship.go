package battleship

type ShipClass struct {
	Name string `json:"name"`
	Size uint8  `json:"size"`
}

// FleetClasses is the fixed fleet, in placement order.
var FleetClasses = []ShipClass{
	{Name: "Carrier", Size: 5},
	{Name: "Battleship", Size: 4},
	{Name: "Cruiser", Size: 3},
	{Name: "Submarine", Size: 3},
	{Name: "Destroyer", Size: 2},
}

const (
	FleetSize  = 5
	FleetCells = 17
)

type Ship struct {
	ID    ShipID        `json:"id"`
	Name  string        `json:"name"`
	Size  uint8         `json:"size"`
	Cells []Coordinates `json:"cells"`
	Hits  uint8         `json:"hits"`
}

func NewShip(id ShipID, class ShipClass, cells []Coordinates) Ship {
	return Ship{
		ID:    id,
		Name:  class.Name,
		Size:  class.Size,
		Cells: cells,
		Hits:  0,
	}
}

func (sh Ship) IsSunk() bool {
	return sh.Hits == sh.Size
}

type Fleet []Ship

// Ship returns the index of the ship with this id.
func (f Fleet) Ship(id ShipID) (int, bool) {
	for i := range f {
		if f[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// IsDefeated reports whether every ship is sunk. An empty fleet was
// never deployed and so cannot be defeated.
func (f Fleet) IsDefeated() bool {
	if len(f) == 0 {
		return false
	}
	for _, sh := range f {
		if !sh.IsSunk() {
			return false
		}
	}
	return true
}

func (f Fleet) SunkenShips() int {
	sunk := 0
	for _, sh := range f {
		if sh.IsSunk() {
			sunk++
		}
	}
	return sunk
}

func (f Fleet) RemainingCells() int {
	remaining := 0
	for _, sh := range f {
		remaining += int(sh.Size - sh.Hits)
	}
	return remaining
}

// Clone copies the ships so hit counters can change without touching f.
// Cell slices are never mutated after placement and are shared.
func (f Fleet) Clone() Fleet {
	if f == nil {
		return nil
	}
	clone := make(Fleet, len(f))
	copy(clone, f)
	return clone
}
