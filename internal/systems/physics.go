package systems

import (
	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Line возвращает клетки отрезка a-b по Брезенхэму, включая оба конца.
func Line(a, b domain.Coord) []domain.Coord {
	dCol := b.Col - a.Col
	if dCol < 0 {
		dCol = -dCol
	}
	dRow := b.Row - a.Row
	if dRow < 0 {
		dRow = -dRow
	}

	step := a.DirectionTo(b)
	err := dCol - dRow

	points := make([]domain.Coord, 0, max(dCol, dRow)+1)
	row, col := a.Row, a.Col
	for {
		points = append(points, domain.At(row, col))
		if row == b.Row && col == b.Col {
			break
		}

		e2 := err * 2
		if e2 > -dRow {
			err -= dRow
			col += step.DCol
		}
		if e2 < dCol {
			err += dCol
			row += step.DRow
		}
	}
	return points
}

// HasLineOfSight проверяет прямую видимость между двумя клетками.
// Начальная и конечная клетки не проверяются: стену рядом с собой видно.
func HasLineOfSight(isTransparent TransparencyFunc, bounds domain.Bounds, from, to domain.Coord) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"function":  "HasLineOfSight",
		"start_pos": from,
		"end_pos":   to,
	})

	if from == to {
		return true
	}

	for _, cell := range Line(from, to) {
		if cell == from || cell == to {
			continue
		}
		if !bounds.Contains(cell) {
			losLogger.WithField("blocking_point", cell).Debug("Line is blocked by map BOUNDS.")
			return false
		}
		if !isTransparent(cell) {
			losLogger.WithField("blocking_point", cell).Debug("Line is blocked by opaque cell.")
			return false
		}
	}
	return true
}

// CanSee - цель в круге зрения и на прямой видимости.
// Так NPC "замечает" игрока без полного расчета FOV.
func CanSee(isTransparent TransparencyFunc, bounds domain.Bounds, from, to domain.Coord, sight int) bool {
	if from.DistanceSquaredTo(to) > sight*sight {
		return false
	}
	return HasLineOfSight(isTransparent, bounds, from, to)
}
