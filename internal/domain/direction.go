package domain

import "strings"

// Direction - единичный шаг по сетке
type Direction struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

var (
	North     = Direction{DRow: -1, DCol: 0}
	South     = Direction{DRow: 1, DCol: 0}
	West      = Direction{DRow: 0, DCol: -1}
	East      = Direction{DRow: 0, DCol: 1}
	NorthWest = Direction{DRow: -1, DCol: -1}
	NorthEast = Direction{DRow: -1, DCol: 1}
	SouthWest = Direction{DRow: 1, DCol: -1}
	SouthEast = Direction{DRow: 1, DCol: 1}
	Stay      = Direction{}
)

// AllDirections - восемь соседних направлений (ортогональные первыми)
var AllDirections = []Direction{North, South, West, East, NorthWest, NorthEast, SouthWest, SouthEast}

var directionNames = map[string]Direction{
	"N":  North,
	"S":  South,
	"W":  West,
	"E":  East,
	"NW": NorthWest,
	"NE": NorthEast,
	"SW": SouthWest,
	"SE": SouthEast,
}

// ParseDirection конвертирует "n", "NE" и т.п. в Direction
func ParseDirection(s string) (Direction, bool) {
	d, ok := directionNames[strings.ToUpper(s)]
	return d, ok
}

// IsDiagonal - оба компонента ненулевые
func (d Direction) IsDiagonal() bool {
	return d.DRow != 0 && d.DCol != 0
}

// IsZero - шаг на месте
func (d Direction) IsZero() bool {
	return d.DRow == 0 && d.DCol == 0
}

func (d Direction) String() string {
	for name, dir := range directionNames {
		if dir == d {
			return name
		}
	}
	return "STAY"
}
