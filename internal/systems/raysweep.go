package systems

import "github.com/jsuvanto/pyrl/internal/domain"

// Мультипликаторы для концов лучей в 8 октантах.
// Строки: шаг по строке, шаг по столбцу, смещение строки, смещение столбца.
var rayMultipliers = [4][8]int{
	{0, 0, 1, 1, 0, 0, -1, -1},
	{1, 1, 0, 0, -1, -1, 0, 0},
	{-1, -1, -1, 0, 1, 1, 1, 0},
	{-1, 0, 1, 1, 1, 0, -1, -1},
}

// RaySweep - веер лучей Брезенхэма к дальнему краю каждого октанта.
// На граничных клетках может расходиться с ShadowCast.
type RaySweep struct{}

func (RaySweep) Name() string { return StrategyRaySweep }

// Compute проходит каждый луч от центра наружу, пока он не упрется в стену,
// границу карты или радиус. Сам центр оракулу не передается.
func (RaySweep) Compute(origin domain.Coord, radius int, isTransparent TransparencyFunc, bounds domain.Bounds) *VisibleSet {
	visible := NewVisibleSet()
	visible.Add(origin)

	radiusSq := radius * radius
	for octant := 0; octant < 8; octant++ {
		incRow := rayMultipliers[0][octant]
		incCol := rayMultipliers[1][octant]
		sweepRow := rayMultipliers[2][octant]
		sweepCol := rayMultipliers[3][octant]

		for i := 0; i < radius; i++ {
			target := domain.At(
				origin.Row+radius*sweepRow+i*incRow,
				origin.Col+radius*sweepCol+i*incCol,
			)
			for _, cell := range Line(origin, target)[1:] {
				if radiusSq < origin.DistanceSquaredTo(cell) {
					break
				}
				if !bounds.Contains(cell) {
					break
				}
				visible.Add(cell)
				if !isTransparent(cell) {
					break
				}
			}
		}
	}
	return visible
}
