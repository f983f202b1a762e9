package domain

import (
	"fmt"
	"strings"
)

// TileKind - тип клетки карты
type TileKind uint8

const (
	TileFloor TileKind = iota
	TileWall
	TileDoorClosed
	TileDoorOpen
	TileWater
)

// Tile - свойства клетки. Видимость и проходимость задаются типом.
type Tile struct {
	Kind TileKind `json:"kind"`
}

var tileGlyphs = map[rune]TileKind{
	'.':  TileFloor,
	'#':  TileWall,
	'+':  TileDoorClosed,
	'\'': TileDoorOpen,
	'~':  TileWater,
}

// IsTransparent - пропускает ли клетка свет
func (t Tile) IsTransparent() bool {
	return t.Kind != TileWall && t.Kind != TileDoorClosed
}

// IsPassable - можно ли на клетку встать
func (t Tile) IsPassable() bool {
	return t.Kind != TileWall && t.Kind != TileDoorClosed
}

// MoveMultiplier - множитель стоимости входа на клетку
func (t Tile) MoveMultiplier() float64 {
	if t.Kind == TileWater {
		return 2
	}
	return 1
}

// Level - прямоугольная карта уровня. Служит оракулом прозрачности
// и держит пространственный индекс акторов.
type Level struct {
	Bounds Bounds `json:"bounds"`
	Tiles  []Tile `json:"tiles"`

	// Плоский индекс клетки -> актор, стоящий на ней
	occupants map[int]*Actor
}

// NewLevel создает уровень, полностью заполненный полом
func NewLevel(bounds Bounds) *Level {
	return &Level{
		Bounds:    bounds,
		Tiles:     make([]Tile, bounds.Rows*bounds.Cols),
		occupants: make(map[int]*Actor),
	}
}

// ParseLevel строит уровень из ASCII-строк. Все строки должны быть одной длины.
func ParseLevel(lines []string) (*Level, error) {
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse level: %w", ErrInvalidBounds)
	}

	cols := len([]rune(rows[0]))
	lvl := NewLevel(Bounds{Rows: len(rows), Cols: cols})
	for r, line := range rows {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("parse level: row %d has %d cols, want %d", r, len(runes), cols)
		}
		for c, ch := range runes {
			kind, ok := tileGlyphs[ch]
			if !ok {
				return nil, fmt.Errorf("parse level: unknown tile %q at %s", ch, At(r, c))
			}
			lvl.Tiles[lvl.Bounds.Index(At(r, c))] = Tile{Kind: kind}
		}
	}
	return lvl, nil
}

// Tile возвращает клетку. Вне границ - стена.
func (l *Level) Tile(c Coord) Tile {
	if !l.Bounds.Contains(c) {
		return Tile{Kind: TileWall}
	}
	return l.Tiles[l.Bounds.Index(c)]
}

// SetTile меняет тип клетки (например, открыть дверь)
func (l *Level) SetTile(c Coord, kind TileKind) error {
	if !l.Bounds.Contains(c) {
		return fmt.Errorf("set tile %s: %w", c, ErrOutOfBounds)
	}
	l.Tiles[l.Bounds.Index(c)] = Tile{Kind: kind}
	return nil
}

// IsTransparent - оракул прозрачности для движка видимости
func (l *Level) IsTransparent(c Coord) bool {
	return l.Tile(c).IsTransparent()
}

// IsPassable учитывает и тайл, и занятость клетки
func (l *Level) IsPassable(c Coord) bool {
	return l.Tile(c).IsPassable() && l.ActorAt(c) == nil
}

// ActorAt возвращает актора в клетке или nil
func (l *Level) ActorAt(c Coord) *Actor {
	if !l.Bounds.Contains(c) {
		return nil
	}
	return l.occupants[l.Bounds.Index(c)]
}

// Place ставит актора на уровень в его текущую позицию
func (l *Level) Place(a *Actor) error {
	if !l.Bounds.Contains(a.Pos) {
		return fmt.Errorf("place %s at %s: %w", a.ID, a.Pos, ErrOutOfBounds)
	}
	if other := l.ActorAt(a.Pos); other != nil && other != a {
		return fmt.Errorf("place %s at %s: cell occupied by %s", a.ID, a.Pos, other.ID)
	}
	if l.occupants == nil {
		l.occupants = make(map[int]*Actor)
	}
	l.occupants[l.Bounds.Index(a.Pos)] = a
	return nil
}

// Lift убирает актора с уровня (смерть, уход)
func (l *Level) Lift(a *Actor) {
	idx := l.Bounds.Index(a.Pos)
	if l.occupants[idx] == a {
		delete(l.occupants, idx)
	}
}

// Move перемещает актора в новую клетку
func (l *Level) Move(a *Actor, to Coord) error {
	if !l.Bounds.Contains(to) {
		return fmt.Errorf("move %s to %s: %w", a.ID, to, ErrOutOfBounds)
	}
	if other := l.ActorAt(to); other != nil && other != a {
		return fmt.Errorf("move %s to %s: cell occupied by %s", a.ID, to, other.ID)
	}
	l.Lift(a)
	a.Pos = to
	return l.Place(a)
}
