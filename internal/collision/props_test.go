package collision

import (
	"encoding/json"
	"testing"

	"github.com/annel0/zonegrid/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPropsColliders(t *testing.T) {
	e := NewEngine(DefaultOptions())

	props := []Prop{
		{Name: "house", X: 0, Z: 0, Type: "solid", Shape: ShapeSpec{Kind: "box", Size: physics.Size3{X: 6, Y: 4, Z: 6}}},
		{Name: "pond", X: 20, Z: 0, Type: "water", Shape: ShapeSpec{Kind: "cylinder", Radius: 3}},
		{Name: "portal", X: 40, Z: 0, Type: "trigger", Shape: ShapeSpec{Kind: "sphere", Radius: 2}},
		{Name: "grass", X: 60, Z: 0, Type: "", Shape: ShapeSpec{Kind: "box", Size: physics.Size3{X: 1, Z: 1}}},
		{Name: "lava", X: 80, Z: 0, Type: "lava", Shape: ShapeSpec{Kind: "circle", Radius: 1},
			Meta: map[string]any{"damage": 5}},
		{Name: "statue", X: 100, Z: 0, Type: "decoration", Shape: ShapeSpec{Kind: "capsule"}},
	}

	ids := e.AddPropsColliders(props)
	require.Len(t, ids, 4, "trigger и none пропускаются")

	house, _ := e.Collider(ids[0])
	assert.Equal(t, TypeSolid, house.Type)
	assert.Equal(t, PropData{Name: "house"}, house.Data)
	assert.Equal(t, 4.0, house.Top(e.Options().UnboundedHeight))

	pond, _ := e.Collider(ids[1])
	assert.Equal(t, TypeWater, pond.Type)
	assert.Equal(t, physics.ShapeCircle, pond.Shape.Kind)

	lava, _ := e.Collider(ids[2])
	assert.Equal(t, TypeSolid, lava.Type, "неизвестный тип становится solid")
	assert.Equal(t, 5, lava.Data.(PropData).Meta["damage"])

	statue, _ := e.Collider(ids[3])
	assert.Equal(t, physics.ShapeUnknown, statue.Shape.Kind)
	assert.Len(t, statue.Cells, 4, "неизвестная форма деградирует до AABB ±1")

	assert.Empty(t, e.AddPropsColliders(nil))
}

func TestParseColliderType(t *testing.T) {
	typ, ok := ParseColliderType(" WALL ")
	assert.True(t, ok)
	assert.Equal(t, TypeWall, typ)

	typ, ok = ParseColliderType("")
	assert.True(t, ok)
	assert.Equal(t, TypeNone, typ)

	typ, ok = ParseColliderType("glass")
	assert.False(t, ok)
	assert.Equal(t, TypeSolid, typ)

	assert.Equal(t, "unknown", ColliderType(99).String())
	assert.True(t, TypeWater.Blocks())
	assert.False(t, TypeWater.Standable())
	assert.True(t, TypeDecoration.Standable())
}

func TestShapeSpecRoundTrip(t *testing.T) {
	shape := physics.NewCircle(2, 3)
	assert.Equal(t, shape, SpecFromShape(shape).Shape())
}

func TestDebugMesh(t *testing.T) {
	e := NewEngine(DefaultOptions())
	e.AddCollider(0, 0, physics.NewBox(physics.Size3{X: 4, Y: 2, Z: 6}), TypeSolid, nil)
	e.AddCollider(20, 0, physics.NewCircle(2, 0), TypeWater, nil)
	e.AddCollider(40, 0, physics.Shape{}, TypeWall, nil)
	e.AddTrigger(60, 0, physics.NewCircle(3, 0), nil, nil)
	e.CheckTriggers(60, 0, 0.5)

	mesh := e.DebugMesh()
	require.Len(t, mesh.Colliders, 3)
	require.Len(t, mesh.Triggers, 1)
	assert.Equal(t, 10.0, mesh.CellSize)

	box := mesh.Colliders[0]
	assert.Equal(t, "box", box.Kind)
	assert.Equal(t, "solid", box.Type)
	assert.Equal(t, physics.Size3{X: 4, Y: 2, Z: 6}, box.Size)
	assert.Equal(t, 1.0, box.Center.Y)

	water := mesh.Colliders[1]
	assert.Equal(t, "cylinder", water.Kind)
	assert.Equal(t, 20.0, water.Height, "бесконечная высота ограничивается DebugMaxHeight")
	assert.Equal(t, 2.0, water.Radius)

	bounds := mesh.Colliders[2]
	assert.Equal(t, "bounds", bounds.Kind)
	assert.Equal(t, 2.0, bounds.Size.X)

	trigger := mesh.Triggers[0]
	assert.True(t, trigger.Inside)
	assert.Equal(t, triggerActiveColor, trigger.Color)

	data, err := json.Marshal(mesh)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"water"`)
}

func TestTextUnmarshal(t *testing.T) {
	var typ ColliderType
	require.NoError(t, json.Unmarshal([]byte(`"wall"`), &typ))
	assert.Equal(t, TypeWall, typ)
	assert.Error(t, json.Unmarshal([]byte(`"glass"`), &typ))

	var kind EventKind
	require.NoError(t, json.Unmarshal([]byte(`"exit"`), &kind))
	assert.Equal(t, EventExit, kind)
	assert.Error(t, json.Unmarshal([]byte(`"leave"`), &kind))
}
