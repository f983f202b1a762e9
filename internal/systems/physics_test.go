package systems

import (
	"testing"

	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHasLineOfSight(t *testing.T) {
	// Карта 5x5
	// . . . . .
	// . . # . .  (1,2) - стена
	// . # # # .  (2,1), (2,2), (2,3) - стена
	// . . # . .  (3,2) - стена
	// . . . . .
	lvl := mustParse(t,
		".....",
		"..#..",
		".###.",
		"..#..",
		".....",
	)

	tests := []struct {
		name string
		from domain.Coord
		to   domain.Coord
		want bool
	}{
		{"Clear horizontal", domain.At(0, 0), domain.At(0, 4), true},
		{"Blocked horizontal", domain.At(2, 0), domain.At(2, 4), false},
		{"Clear diagonal", domain.At(0, 0), domain.At(1, 1), true},
		{"Blocked diagonal", domain.At(0, 0), domain.At(4, 4), false}, // через (2,2)
		{"Adjacent wall", domain.At(1, 2), domain.At(2, 2), true},     // Стоим рядом со стеной и смотрим на неё
		{"Behind wall", domain.At(0, 2), domain.At(4, 2), false},
		{"Same cell", domain.At(3, 3), domain.At(3, 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasLineOfSight(lvl.IsTransparent, lvl.Bounds, tt.from, tt.to)
			assert.Equal(t, tt.want, got, "HasLineOfSight(%v, %v)", tt.from, tt.to)
		})
	}
}

func TestLine(t *testing.T) {
	assert.Equal(t,
		[]domain.Coord{domain.At(3, 3), domain.At(2, 2), domain.At(1, 2), domain.At(0, 1)},
		Line(domain.At(3, 3), domain.At(0, 1)))

	assert.Equal(t,
		[]domain.Coord{domain.At(1, 1), domain.At(1, 2), domain.At(1, 3)},
		Line(domain.At(1, 1), domain.At(1, 3)))

	assert.Equal(t, []domain.Coord{domain.At(2, 2)}, Line(domain.At(2, 2), domain.At(2, 2)))

	// Отрезок симметричен по набору клеток на диагонали
	assert.Len(t, Line(domain.At(0, 0), domain.At(4, 4)), 5)
}

func TestCanSee(t *testing.T) {
	lvl := mustParse(t,
		"..........",
		"....#.....",
		"..........",
	)

	assert.True(t, CanSee(lvl.IsTransparent, lvl.Bounds, domain.At(1, 0), domain.At(1, 3), 5))
	assert.False(t, CanSee(lvl.IsTransparent, lvl.Bounds, domain.At(1, 0), domain.At(1, 6), 8), "wall in between")
	assert.False(t, CanSee(lvl.IsTransparent, lvl.Bounds, domain.At(0, 0), domain.At(0, 9), 5), "out of sight radius")
	assert.True(t, CanSee(lvl.IsTransparent, lvl.Bounds, domain.At(0, 0), domain.At(0, 9), 9))
}
