// Package levelgen процедурно расставляет объекты уровня для демо и нагрузочных тестов.
package levelgen

import (
	"fmt"
	"math/rand"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/physics"
	"github.com/annel0/zonegrid/internal/storage"
)

// BiomeType представляет тип биома
type BiomeType int

const (
	BiomePlains BiomeType = iota
	BiomeDesert
	BiomeForest
	BiomeMountains
	BiomeWater
)

// Пороги высоты
const (
	WaterMax      = 0.30 // Ниже - вода
	MountainStart = 0.70 // Выше - скалы
)

// Params параметры генерации
type Params struct {
	Name          string
	Seed          int64
	Width         float64 // размер карты по X
	Depth         float64 // размер карты по Z
	Step          float64 // шаг сетки выборки шума
	NoiseScale    float64 // масштаб шума высоты
	BiomeScale    float64 // масштаб шума биомов
	ForestDensity float64 // шанс дерева в лесу
	Zones         int     // количество зон-триггеров
	Walls         bool    // стены по периметру
}

// DefaultParams возвращает параметры комнаты 200×200
func DefaultParams(seed int64) Params {
	return Params{
		Name:          fmt.Sprintf("generated-%d", seed),
		Seed:          seed,
		Width:         200,
		Depth:         200,
		Step:          4,
		NoiseScale:    0.05,
		BiomeScale:    0.02,
		ForestDensity: 0.35,
		Zones:         4,
		Walls:         true,
	}
}

// Generate строит раскладку. Результат детерминирован для Params.
func Generate(p Params) *storage.Layout {
	if p.Step <= 0 {
		p.Step = 4
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("generated-%d", p.Seed)
	}

	height := newNoise2D(p.Seed)
	biomes := newNoise2D(p.Seed + 42)
	rng := rand.New(rand.NewSource(p.Seed))

	layout := &storage.Layout{Name: p.Name}

	for z := p.Step / 2; z < p.Depth; z += p.Step {
		for x := p.Step / 2; x < p.Width; x += p.Step {
			h := height.at(x*p.NoiseScale, z*p.NoiseScale)
			biome := biomeFor(h, biomes.at(x*p.BiomeScale, z*p.BiomeScale))

			// Смещение внутри клетки выборки, чтобы объекты не стояли по линейке
			jx := x + (rng.Float64()-0.5)*p.Step*0.5
			jz := z + (rng.Float64()-0.5)*p.Step*0.5

			if prop, ok := propFor(biome, h, jx, jz, p, rng); ok {
				layout.Props = append(layout.Props, prop)
			}
		}
	}

	if p.Walls {
		layout.Props = append(layout.Props, boundaryWalls(p.Width, p.Depth)...)
	}

	for i := 0; i < p.Zones; i++ {
		layout.Zones = append(layout.Zones, storage.Zone{
			Name:  fmt.Sprintf("zone-%d", i+1),
			X:     p.Width * (0.1 + rng.Float64()*0.8),
			Z:     p.Depth * (0.1 + rng.Float64()*0.8),
			Shape: collision.SpecFromShape(physics.NewCircle(2+rng.Float64()*3, 0)),
		})
	}

	return layout
}

// biomeFor определяет биом на основе высоты и значения биома
func biomeFor(height, biomeValue float64) BiomeType {
	switch {
	case height < WaterMax:
		return BiomeWater
	case height > MountainStart:
		return BiomeMountains
	case biomeValue < 0.4:
		return BiomeDesert
	case biomeValue > 0.55:
		return BiomeForest
	default:
		return BiomePlains
	}
}

func propFor(biome BiomeType, h, x, z float64, p Params, rng *rand.Rand) (collision.Prop, bool) {
	switch biome {
	case BiomeWater:
		return collision.Prop{
			Name: "water", X: x, Z: z, Type: collision.TypeWater.String(),
			Shape: collision.SpecFromShape(physics.NewCircle(p.Step*0.6, 0)),
		}, true
	case BiomeMountains:
		rockHeight := 2 + (h-MountainStart)*20
		return collision.Prop{
			Name: "rock", X: x, Z: z, Type: collision.TypeSolid.String(),
			Shape: collision.SpecFromShape(physics.NewBox(physics.Size3{X: p.Step * 0.8, Y: rockHeight, Z: p.Step * 0.8})),
		}, true
	case BiomeForest:
		if rng.Float64() < p.ForestDensity {
			return collision.Prop{
				Name: "tree", X: x, Z: z, Type: collision.TypeSolid.String(),
				Shape: collision.SpecFromShape(physics.NewCircle(0.5, 6)),
			}, true
		}
	case BiomeDesert:
		if rng.Float64() < 0.05 {
			return collision.Prop{
				Name: "cactus", X: x, Z: z, Type: collision.TypeDecoration.String(),
				Shape: collision.SpecFromShape(physics.NewCircle(0.3, 2)),
			}, true
		}
	case BiomePlains:
		if rng.Float64() < 0.03 {
			return collision.Prop{
				Name: "crate", X: x, Z: z, Type: collision.TypeSolid.String(),
				Shape: collision.SpecFromShape(physics.NewBox(physics.Size3{X: 1, Y: 1, Z: 1})),
			}, true
		}
	}
	return collision.Prop{}, false
}

// boundaryWalls стены без верхней грани по краям карты
func boundaryWalls(width, depth float64) []collision.Prop {
	const thickness = 1.0
	wall := func(name string, x, z, sx, sz float64) collision.Prop {
		return collision.Prop{
			Name: name, X: x, Z: z, Type: collision.TypeWall.String(),
			Shape: collision.SpecFromShape(physics.NewBox(physics.Size3{X: sx, Z: sz})),
		}
	}
	return []collision.Prop{
		wall("wall-north", width/2, -thickness/2, width+2*thickness, thickness),
		wall("wall-south", width/2, depth+thickness/2, width+2*thickness, thickness),
		wall("wall-west", -thickness/2, depth/2, thickness, depth),
		wall("wall-east", width+thickness/2, depth/2, thickness, depth),
	}
}
