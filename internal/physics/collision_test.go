package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircleCircle(t *testing.T) {
	assert.True(t, CircleCircle(0, 0, 1, 1.5, 0, 1), "круги должны пересекаться")
	assert.False(t, CircleCircle(0, 0, 1, 2, 0, 1), "касание не считается пересечением")
	assert.False(t, CircleCircle(0, 0, 0.5, 5, 5, 2))
}

func TestCircleBox(t *testing.T) {
	size := Size3{X: 4, Y: 2, Z: 4}

	t.Run("Centre inside", func(t *testing.T) {
		assert.True(t, CircleBox(0, 0, 0.5, 0, 0, size))
	})

	t.Run("Near edge", func(t *testing.T) {
		assert.True(t, CircleBox(2.4, 0, 0.5, 0, 0, size))
		assert.False(t, CircleBox(2.6, 0, 0.5, 0, 0, size))
	})

	t.Run("Near corner uses euclidean distance", func(t *testing.T) {
		// До угла (2,2) расстояние sqrt(0.18) ≈ 0.42
		assert.True(t, CircleBox(2.3, 2.3, 0.5, 0, 0, size))
		// До угла (2,2) расстояние sqrt(0.32) ≈ 0.57
		assert.False(t, CircleBox(2.4, 2.4, 0.5, 0, 0, size))
	})
}

func TestOverlapsDispatch(t *testing.T) {
	assert.True(t, Overlaps(5, 5, 0.5, 5, 5, NewCircle(2, 0)))
	assert.True(t, Overlaps(0, 0, 0.5, 1, 1, NewBox(Size3{X: 4, Y: 1, Z: 4})))
	assert.False(t, Overlaps(0, 0, 10, 0, 0, Shape{Kind: ShapeUnknown, Radius: 5}),
		"неизвестная форма никогда не пересекается")
}

func TestShapeBounds(t *testing.T) {
	assert.Equal(t, AABB{MinX: 3, MinZ: 3, MaxX: 7, MaxZ: 7}, NewCircle(2, 0).Bounds(5, 5, 1))
	assert.Equal(t, AABB{MinX: -2, MinZ: -1, MaxX: 2, MaxZ: 1}, NewBox(Size3{X: 4, Y: 1, Z: 2}).Bounds(0, 0, 1))
	assert.Equal(t, AABB{MinX: 9, MinZ: -1, MaxX: 11, MaxZ: 1}, Shape{}.Bounds(10, 0, 1),
		"неизвестная форма получает AABB ±1")
}

func TestShapeBounds_Malformed(t *testing.T) {
	assert.Equal(t, AABB{MinX: -15, MinZ: -5, MaxX: 15, MaxZ: 5},
		NewBox(Size3{X: -30, Y: 2, Z: 10}).Bounds(0, 0, 1), "отрицательный размер берётся по модулю")
	assert.Equal(t, AABB{MinX: 1, MinZ: 1, MaxX: 1, MaxZ: 1}, NewCircle(math.NaN(), 0).Bounds(1, 1, 1))
	assert.Equal(t, AABB{}, NewCircle(math.Inf(1), 0).Bounds(0, 0, 1))

	assert.True(t, CircleBox(14, 0, 0.5, 0, 0, Size3{X: -30, Z: 10}))
	assert.True(t, Overlaps(0, 0, 0.5, 2, 0, NewCircle(-2, 0)), "отрицательный радиус по модулю")

	assert.ErrorIs(t, NewCircle(math.NaN(), 0).Validate(), ErrInvalidRadius)
	assert.ErrorIs(t, NewCircle(math.Inf(1), 0).Validate(), ErrInvalidRadius)
	assert.ErrorIs(t, NewBox(Size3{X: math.NaN(), Z: 1}).Validate(), ErrInvalidSize)
}

func TestShapeTopHeight(t *testing.T) {
	inf := math.Inf(1)
	assert.Equal(t, 3.0, NewCircle(1, 3).TopHeight(inf))
	assert.Equal(t, 2.0, NewBox(Size3{X: 1, Y: 2, Z: 1}).TopHeight(inf))

	withOverride := NewBox(Size3{X: 1, Y: 2, Z: 1})
	withOverride.Height = 5
	assert.Equal(t, 5.0, withOverride.TopHeight(inf), "Height важнее Size.Y")

	assert.True(t, math.IsInf(NewCircle(1, 0).TopHeight(inf), 1), "без высоты: бесконечно высокий")
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, NewCircle(1, 0).Validate())
	assert.ErrorIs(t, NewCircle(0, 0).Validate(), ErrInvalidRadius)
	assert.NoError(t, NewBox(Size3{X: 1, Z: 1}).Validate())
	assert.ErrorIs(t, NewBox(Size3{X: 1}).Validate(), ErrInvalidSize)
	assert.ErrorIs(t, Shape{}.Validate(), ErrUnknownKind)
}

func TestParseShapeKind(t *testing.T) {
	assert.Equal(t, ShapeCircle, ParseShapeKind("Sphere"))
	assert.Equal(t, ShapeCircle, ParseShapeKind("cylinder"))
	assert.Equal(t, ShapeBox, ParseShapeKind(" box "))
	assert.Equal(t, ShapeUnknown, ParseShapeKind("capsule"))
	assert.Equal(t, "box", ShapeBox.String())
}
