package levelgen

import (
	"testing"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(DefaultParams(7))
	b := Generate(DefaultParams(7))
	assert.Equal(t, a, b, "одинаковый сид даёт одинаковую раскладку")

	c := Generate(DefaultParams(8))
	assert.NotEqual(t, a.Props, c.Props)
}

func TestGenerate_ValidLayout(t *testing.T) {
	p := DefaultParams(1)
	layout := Generate(p)

	require.NoError(t, layout.Validate())
	assert.Equal(t, "generated-1", layout.Name)
	assert.Len(t, layout.Zones, p.Zones)
	assert.NotEmpty(t, layout.Props)

	walls := 0
	for _, prop := range layout.Props {
		if prop.Type == "wall" {
			walls++
			continue
		}
		assert.GreaterOrEqual(t, prop.X, 0.0)
		assert.LessOrEqual(t, prop.X, p.Width)
		assert.GreaterOrEqual(t, prop.Z, 0.0)
		assert.LessOrEqual(t, prop.Z, p.Depth)
	}
	assert.Equal(t, 4, walls)
}

func TestGenerate_WallsEncloseMap(t *testing.T) {
	p := DefaultParams(3)
	e := collision.NewEngine(collision.DefaultOptions())
	require.Len(t, e.AddPropsColliders(boundaryWalls(p.Width, p.Depth)), 4)

	// Агент у края не выходит за стену, на какой бы высоте ни был
	hit := e.CheckCollision(p.Width/2, -0.5, 0.5, 1000)
	require.NotNil(t, hit)
	assert.Equal(t, collision.TypeWall, hit.Type)

	assert.NotNil(t, e.CheckCollision(p.Width+0.5, p.Depth/2, 0.5, 0))
	assert.Nil(t, e.CheckCollision(p.Width/2, p.Depth/2, 0.5, 0))
}

func TestBiomeFor(t *testing.T) {
	assert.Equal(t, BiomeWater, biomeFor(0.1, 0.9))
	assert.Equal(t, BiomeMountains, biomeFor(0.9, 0.1))
	assert.Equal(t, BiomeDesert, biomeFor(0.5, 0.2))
	assert.Equal(t, BiomeForest, biomeFor(0.5, 0.8))
	assert.Equal(t, BiomePlains, biomeFor(0.5, 0.5))
}

func TestNoiseRange(t *testing.T) {
	n := newNoise2D(5)
	for i := 0; i < 100; i++ {
		v := n.at(float64(i)*0.13, float64(i)*0.07)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
