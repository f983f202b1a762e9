package systems

import "github.com/jsuvanto/pyrl/internal/domain"

// Мультипликаторы для трансформации координат в 8 октантов.
// Строки: xx, xy, yx, yy; столбцы - номер октанта.
var shadowMultipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// ShadowCast - рекурсивный shadowcasting (Bjorn Bergstrom).
type ShadowCast struct{}

func (ShadowCast) Name() string { return StrategyShadowCast }

// Compute запускает сканирование для каждого из 8 октантов. Центр всегда виден.
func (ShadowCast) Compute(origin domain.Coord, radius int, isTransparent TransparencyFunc, bounds domain.Bounds) *VisibleSet {
	visible := NewVisibleSet()
	visible.Add(origin)

	scan := octantScan{
		origin:        origin,
		radius:        radius,
		isTransparent: isTransparent,
		bounds:        bounds,
		visible:       visible,
	}
	for i := 0; i < 8; i++ {
		scan.castLight(1, 1.0, 0.0,
			shadowMultipliers[0][i], shadowMultipliers[1][i],
			shadowMultipliers[2][i], shadowMultipliers[3][i])
	}
	return visible
}

// octantScan - неизменяемые параметры одного вызова Compute
type octantScan struct {
	origin        domain.Coord
	radius        int
	isTransparent TransparencyFunc
	bounds        domain.Bounds
	visible       *VisibleSet
}

func (s *octantScan) castLight(row int, start, end float64, xx, xy, yx, yy int) {
	if start < end {
		return
	}

	radiusSq := s.radius * s.radius
	newStart := 0.0

	for j := row; j <= s.radius; j++ {
		dx, dy := -j-1, -j
		blocked := false

		for dx <= 0 {
			dx++

			// Трансформация координат в глобальные
			X := s.origin.Col + dx*xx + dy*xy
			Y := s.origin.Row + dx*yx + dy*yy
			cell := domain.At(Y, X)

			// За пределами карты ничего не считаем
			if !s.bounds.Contains(cell) {
				continue
			}

			// Наклоны левой и правой границ клетки
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if end > lSlope {
				break
			}
			if start < rSlope {
				continue
			}

			// Луч касается клетки. Радиус круглый, а не квадратный.
			if dx*dx+dy*dy <= radiusSq {
				s.visible.Add(cell)
			}

			opaque := !s.isTransparent(cell)
			if blocked {
				// Идем вдоль стены
				if opaque {
					newStart = rSlope
				} else {
					// Стена кончилась
					blocked = false
					start = newStart
				}
			} else if opaque && j < s.radius {
				// Наткнулись на стену: дочернее сканирование следующего ряда
				blocked = true
				s.castLight(j+1, start, lSlope, xx, xy, yx, yy)
				newStart = rSlope
			}
		}

		// Ряд закончился внутри тени - дальше в этом октанте света нет
		if blocked {
			break
		}
	}
}
