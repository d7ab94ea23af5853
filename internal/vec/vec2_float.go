package vec

import "math"

// Vec2Float представляет точку на плоскости земли (X, Z) с плавающей точкой.
// Высота (Y) хранится отдельно: мир 2.5D.
type Vec2Float struct {
	X, Z float64
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Z: v.Z + other.Z}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Z: v.Z - other.Z}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Z: v.Z * scalar}
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// DistanceSq возвращает квадрат расстояния до другой точки
func (v Vec2Float) DistanceSq(other Vec2Float) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return dx*dx + dz*dz
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2Float) DistanceTo(other Vec2Float) float64 {
	return math.Sqrt(v.DistanceSq(other))
}

// Clamp ограничивает точку прямоугольником [min, max] покомпонентно
func (v Vec2Float) Clamp(min, max Vec2Float) Vec2Float {
	return Vec2Float{
		X: math.Max(min.X, math.Min(v.X, max.X)),
		Z: math.Max(min.Z, math.Min(v.Z, max.Z)),
	}
}
