package domain

import (
	"fmt"
	"math"
)

// Coord - адрес клетки на сетке (строка, столбец).
// Значимый тип: используется как ключ map и элемент множеств.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// At короткий конструктор координаты
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add возвращает новую координату, сдвинутую на направление
func (c Coord) Add(d Direction) Coord {
	return Coord{Row: c.Row + d.DRow, Col: c.Col + d.DCol}
}

// DistanceTo возвращает точное евклидово расстояние до другой клетки
func (c Coord) DistanceTo(other Coord) float64 {
	return math.Sqrt(float64(c.DistanceSquaredTo(other)))
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (c Coord) DistanceSquaredTo(other Coord) int {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	return dr*dr + dc*dc
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (c Coord) IsAdjacent(other Coord) bool {
	dr := abs(c.Row - other.Row)
	dc := abs(c.Col - other.Col)
	return dr <= 1 && dc <= 1 && (dr != 0 || dc != 0)
}

// DirectionTo возвращает шаг (-1..1 по каждой оси) в сторону цели
func (c Coord) DirectionTo(other Coord) Direction {
	return Direction{DRow: sign(other.Row - c.Row), DCol: sign(other.Col - c.Col)}
}

// Bounds - размеры прямоугольной сетки rows × cols.
type Bounds struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Valid проверяет, что обе стороны положительны
func (b Bounds) Valid() bool {
	return b.Rows > 0 && b.Cols > 0
}

// Contains проверяет, лежит ли координата внутри сетки
func (b Bounds) Contains(c Coord) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < b.Rows && c.Col < b.Cols
}

// Index переводит координату в плоский индекс (row * cols + col)
func (b Bounds) Index(c Coord) int {
	return c.Row*b.Cols + c.Col
}

// CoordOf обратное преобразование к Index
func (b Bounds) CoordOf(idx int) Coord {
	return Coord{Row: idx / b.Cols, Col: idx % b.Cols}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
