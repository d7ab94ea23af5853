package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2FloatDistance(t *testing.T) {
	a := Vec2Float{X: 0, Z: 0}
	b := Vec2Float{X: 3, Z: 4}

	assert.Equal(t, 25.0, a.DistanceSq(b))
	assert.Equal(t, 5.0, a.DistanceTo(b))
	assert.Equal(t, 5.0, b.Sub(a).Length())
	assert.Equal(t, Vec2Float{X: 6, Z: 8}, b.Mul(2))
	assert.Equal(t, Vec2Float{X: 4, Z: 5}, b.Add(Vec2Float{X: 1, Z: 1}))
}

func TestVec2FloatClamp(t *testing.T) {
	min := Vec2Float{X: -2, Z: -1}
	max := Vec2Float{X: 2, Z: 1}

	assert.Equal(t, Vec2Float{X: 2, Z: -1}, Vec2Float{X: 5, Z: -7}.Clamp(min, max))
	assert.Equal(t, Vec2Float{X: 0.5, Z: 0.5}, Vec2Float{X: 0.5, Z: 0.5}.Clamp(min, max))
}

func TestVec3FloatAt(t *testing.T) {
	assert.Equal(t, Vec3Float{X: 1, Y: 3, Z: 2}, At(Vec2Float{X: 1, Z: 2}, 3))
}
