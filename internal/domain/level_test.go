package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel([]string{
		"#####",
		"#.+~#",
		"#'..#",
		"#####",
	})
	require.NoError(t, err)

	assert.Equal(t, Bounds{Rows: 4, Cols: 5}, lvl.Bounds)
	assert.False(t, lvl.IsTransparent(At(0, 0)), "wall blocks sight")
	assert.True(t, lvl.IsTransparent(At(1, 1)), "floor is transparent")
	assert.False(t, lvl.IsTransparent(At(1, 2)), "closed door blocks sight")
	assert.True(t, lvl.IsTransparent(At(2, 1)), "open door is transparent")
	assert.True(t, lvl.IsTransparent(At(1, 3)), "water is transparent")
	assert.Equal(t, 2.0, lvl.Tile(At(1, 3)).MoveMultiplier())
	assert.False(t, lvl.IsTransparent(At(-1, 0)), "outside the map counts as wall")
}

func TestParseLevel_Errors(t *testing.T) {
	_, err := ParseLevel(nil)
	assert.True(t, errors.Is(err, ErrInvalidBounds))

	_, err = ParseLevel([]string{"###", "##"})
	assert.Error(t, err)

	_, err = ParseLevel([]string{"#X#"})
	assert.Error(t, err)
}

func TestLevel_PlaceMoveLift(t *testing.T) {
	lvl := NewLevel(Bounds{Rows: 5, Cols: 5})
	a := &Actor{ID: "a", Pos: At(1, 1)}
	b := &Actor{ID: "b", Pos: At(1, 2)}

	require.NoError(t, lvl.Place(a))
	require.NoError(t, lvl.Place(b))
	assert.Same(t, a, lvl.ActorAt(At(1, 1)))
	assert.False(t, lvl.IsPassable(At(1, 2)), "occupied cell is not passable")

	assert.Error(t, lvl.Move(a, At(1, 2)), "cannot step onto another actor")
	assert.Equal(t, At(1, 1), a.Pos, "failed move keeps position")

	require.NoError(t, lvl.Move(a, At(2, 2)))
	assert.Nil(t, lvl.ActorAt(At(1, 1)))
	assert.Same(t, a, lvl.ActorAt(At(2, 2)))

	err := lvl.Move(a, At(9, 9))
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	lvl.Lift(b)
	assert.True(t, lvl.IsPassable(At(1, 2)))
}

func TestMoveCost(t *testing.T) {
	assert.Equal(t, float64(MovementCost), MoveCost(North, 1))
	assert.InDelta(t, MovementCost*math.Sqrt2, MoveCost(NorthEast, 1), 1e-9)
	assert.InDelta(t, 2*MovementCost*math.Sqrt2, MoveCost(SouthWest, 2), 1e-9)
}

func TestEnergy(t *testing.T) {
	e := Energy{Speed: DefaultSpeed}
	e.Spend(AttackCost)
	assert.Equal(t, float64(AttackCost), e.Readiness)

	e.Recover()
	assert.Equal(t, float64(AttackCost-RecoveryPerTurn), e.Readiness)

	fast := Energy{Speed: 2 * DefaultSpeed}
	fast.Spend(MovementCost)
	assert.Equal(t, float64(MovementCost)/2, fast.Readiness, "fast actors pay less")

	capped := Energy{Speed: 100 * DefaultSpeed}
	capped.Spend(WaitCost)
	assert.Greater(t, capped.Readiness, float64(RecoveryPerTurn), "speed is capped so waiting still costs more than recovery")

	frozen := Energy{}
	assert.False(t, frozen.CanAct())
}

func TestCoord(t *testing.T) {
	c := At(3, 4)
	assert.Equal(t, 25, c.DistanceSquaredTo(At(0, 0)))
	assert.Equal(t, 5.0, c.DistanceTo(At(0, 0)))
	assert.True(t, c.IsAdjacent(At(2, 5)))
	assert.False(t, c.IsAdjacent(c))
	assert.Equal(t, NorthWest, c.DirectionTo(At(0, 0)))
	assert.Equal(t, At(2, 5), c.Add(NorthEast))

	b := Bounds{Rows: 4, Cols: 7}
	assert.Equal(t, c, b.CoordOf(b.Index(c)))
	assert.False(t, b.Contains(At(4, 0)))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("ne")
	require.True(t, ok)
	assert.Equal(t, NorthEast, d)
	assert.True(t, d.IsDiagonal())
	assert.Equal(t, "NE", d.String())

	_, ok = ParseDirection("up")
	assert.False(t, ok)
}

func TestActor_TakeDamage(t *testing.T) {
	a := &Actor{ID: "orc", HP: 3, MaxHP: 3}
	assert.False(t, a.TakeDamage(2))
	assert.True(t, a.TakeDamage(5))
	assert.Equal(t, 0, a.HP)
	assert.False(t, a.TakeDamage(1), "already dead")
}
