package domain

import "math"

// Стоимость действий в единицах готовности (readiness key).
// Чем больше стоимость, тем позже следующий ход.
const (
	MovementCost = 1000
	AttackCost   = 1000
	WaitCost     = 500
)

// DiagonalModifier применяется только к перемещению, не к атаке
const DiagonalModifier = math.Sqrt2

// Параметры восприятия
const (
	DefaultSightRadius = 8
	DefaultSpeed       = 100
	MaxSpeed           = 4 * DefaultSpeed
	RecoveryPerTurn    = 100
)

// MoveCost считает стоимость шага в направлении dir на клетку со множителем tileCost.
func MoveCost(dir Direction, tileCost float64) float64 {
	cost := MovementCost * tileCost
	if dir.IsDiagonal() {
		cost *= DiagonalModifier
	}
	return cost
}
