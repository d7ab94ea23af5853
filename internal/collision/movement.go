package collision

// CheckMovement вычисляет достижимую позицию при движении из (x, z) в (newX, newZ)
// со скольжением вдоль препятствий. Порядок фиксирован:
//  1. полное перемещение;
//  2. только по X (Z остаётся текущим);
//  3. только по Z;
//  4. остаться на месте.
//
// При упоре в угол по диагонали скольжение по X имеет приоритет над Z.
// Во всех заблокированных случаях Collider: препятствие полного перемещения.
func (e *Engine) CheckMovement(x, z, newX, newZ, radius, y float64) MoveResult {
	blocker := e.CheckCollision(newX, newZ, radius, y)
	if blocker == nil {
		return MoveResult{X: newX, Z: newZ}
	}

	if e.CheckCollision(newX, z, radius, y) == nil {
		return MoveResult{X: newX, Z: z, Collided: true, Collider: blocker}
	}

	if e.CheckCollision(x, newZ, radius, y) == nil {
		return MoveResult{X: x, Z: newZ, Collided: true, Collider: blocker}
	}

	return MoveResult{X: x, Z: z, Collided: true, Collider: blocker}
}
