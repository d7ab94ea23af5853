package levelgen

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина
const (
	noiseAlpha   = 2.0 // Сглаживание шума
	noiseBeta    = 2.0 // Частота шума
	noiseOctaves = 3   // Количество октав
)

// noise2D генератор шума со своим сидом (без глобального состояния)
type noise2D struct {
	p *perlin.Perlin
}

func newNoise2D(seed int64) noise2D {
	return noise2D{p: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)}
}

// at возвращает значение шума для координат в диапазоне [0, 1]
func (n noise2D) at(x, y float64) float64 {
	v := (n.p.Noise2D(x, y) + 1.0) / 2.0
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
