package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/logging"
	"github.com/annel0/zonegrid/internal/physics"
	"github.com/annel0/zonegrid/internal/room"
	"github.com/annel0/zonegrid/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "zonegrid-api-logs")
	if err != nil {
		panic(err)
	}
	logging.LogDir = dir
	code := m.Run()
	logging.GetLoggerManager().CloseAll()
	os.RemoveAll(dir)
	os.Exit(code)
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*RestServer, *room.Manager) {
	t.Helper()
	repo := storage.NewMemoryLayoutRepo()
	require.NoError(t, repo.Save(context.Background(), &storage.Layout{
		Name: "village",
		Props: []collision.Prop{
			{Name: "house", X: 0, Z: 0, Type: "solid",
				Shape: collision.ShapeSpec{Kind: "box", Size: physics.Size3{X: 4, Y: 2, Z: 4}}},
			{Name: "well", X: 20, Z: 0, Type: "water",
				Shape: collision.ShapeSpec{Kind: "circle", Radius: 1}},
		},
		Zones: []storage.Zone{
			{Name: "square", X: 10, Z: 10, Shape: collision.ShapeSpec{Kind: "circle", Radius: 3}},
		},
	}))

	rooms := room.NewManager(repo, nil, collision.DefaultOptions())
	srv := NewRestServer(Config{
		Rooms:  rooms,
		Logger: logging.NewWriterLogger("api", io.Discard, logging.ERROR),
	})
	return srv, rooms
}

func doJSON(t *testing.T, srv *RestServer, method, path string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func spawn(t *testing.T, srv *RestServer) room.Info {
	t.Helper()
	w, resp := doJSON(t, srv, http.MethodPost, "/api/rooms", SpawnRequest{Layout: "village"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var info room.Info
	require.NoError(t, json.Unmarshal(resp.Data, &info))
	return info
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRoomLifecycle(t *testing.T) {
	srv, rooms := newTestServer(t)

	info := spawn(t, srv)
	assert.Equal(t, 2, info.Stats.ColliderCount)
	assert.Equal(t, 1, rooms.Count())

	w, resp := doJSON(t, srv, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []room.Info
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, info.ID, list[0].ID)

	w, resp = doJSON(t, srv, http.MethodGet, "/api/rooms/"+info.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats collision.Stats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 1, stats.TriggerCount)

	w, _ = doJSON(t, srv, http.MethodDelete, "/api/rooms/"+info.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, srv, http.MethodDelete, "/api/rooms/"+info.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, resp.Success)

	w, _ = doJSON(t, srv, http.MethodGet, "/api/rooms/"+info.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpawnErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	w, _ := doJSON(t, srv, http.MethodPost, "/api/rooms", SpawnRequest{Layout: "castle"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, srv, http.MethodPost, "/api/rooms", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLayouts(t *testing.T) {
	srv, _ := newTestServer(t)

	w, _ := doJSON(t, srv, http.MethodPost, "/api/layouts", storage.Layout{
		Name: "arena",
		Props: []collision.Prop{
			{Name: "pillar", X: 5, Z: 5, Type: "wall", Shape: collision.ShapeSpec{Kind: "cylinder", Radius: 1}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = doJSON(t, srv, http.MethodPost, "/api/layouts", storage.Layout{
		Name:  "broken",
		Props: []collision.Prop{{Name: "x", Type: "lava", Shape: collision.ShapeSpec{Kind: "box"}}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := doJSON(t, srv, http.MethodGet, "/api/layouts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(resp.Data, &names))
	assert.Equal(t, []string{"arena", "village"}, names)
}

func TestMoveProbe(t *testing.T) {
	srv, _ := newTestServer(t)
	info := spawn(t, srv)

	w, resp := doJSON(t, srv, http.MethodPost, "/api/rooms/"+info.ID+"/move", MoveRequest{
		FromX: -5, FromZ: 0, ToX: 0, ToZ: 0, Radius: 0.5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res room.ProbeResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.True(t, res.Collided, "в дом не войти")
	assert.Equal(t, -5.0, res.X)

	w, resp = doJSON(t, srv, http.MethodPost, "/api/rooms/"+info.ID+"/move", MoveRequest{
		FromX: 5, FromZ: 10, ToX: 9, ToZ: 10, Radius: 0.5,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	require.Len(t, res.Events, 1)
	assert.Equal(t, collision.EventEnter, res.Events[0].Kind)
	assert.Equal(t, "square", res.Events[0].Zone)

	w, _ = doJSON(t, srv, http.MethodPost, "/api/rooms/"+info.ID+"/move", MoveRequest{Radius: -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, srv, http.MethodPost, "/api/rooms/missing/move", MoveRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDebugMeshEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	info := spawn(t, srv)

	w, _ := doJSON(t, srv, http.MethodGet, "/api/rooms/"+info.ID+"/debug", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mesh collision.DebugMesh
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mesh))
	assert.Len(t, mesh.Colliders, 2)
	assert.Len(t, mesh.Triggers, 1)
	assert.Equal(t, 10.0, mesh.CellSize)
}

func TestColliderEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	info := spawn(t, srv)
	base := "/api/rooms/" + info.ID + "/colliders"

	w, resp := doJSON(t, srv, http.MethodPost, base, ColliderRequest{
		Name: "crate", X: 40, Z: 40, Type: "solid",
		Shape: collision.ShapeSpec{Kind: "box", Size: physics.Size3{X: 1, Y: 1, Z: 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var crate ColliderView
	require.NoError(t, json.Unmarshal(resp.Data, &crate))
	assert.Equal(t, collision.TypeSolid, crate.Type)
	require.NotNil(t, crate.Top)
	assert.Equal(t, 1.0, *crate.Top)

	cid := "/" + jsonNumber(crate.ID)

	w, resp = doJSON(t, srv, http.MethodPatch, base+cid, PositionRequest{X: 45, Z: 40})
	require.Equal(t, http.StatusOK, w.Code)
	var moved ColliderView
	require.NoError(t, json.Unmarshal(resp.Data, &moved))
	assert.Equal(t, 45.0, moved.X)

	w, resp = doJSON(t, srv, http.MethodGet, "/api/rooms/"+info.ID+"/nearby?x=45&z=40&r=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var nearby []ColliderView
	require.NoError(t, json.Unmarshal(resp.Data, &nearby))
	require.Len(t, nearby, 1)
	assert.Equal(t, crate.ID, nearby[0].ID)

	w, _ = doJSON(t, srv, http.MethodGet, "/api/rooms/"+info.ID+"/nearby?x=abc&z=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, srv, http.MethodDelete, base+cid, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, srv, http.MethodDelete, base+cid, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, srv, http.MethodPatch, base+cid, PositionRequest{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, srv, http.MethodDelete, base+"/zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, srv, http.MethodPost, base, ColliderRequest{Type: "glass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestColliderEndpoints_RejectsBadGeometry(t *testing.T) {
	srv, rooms := newTestServer(t)
	info := spawn(t, srv)
	base := "/api/rooms/" + info.ID

	for name, shape := range map[string]collision.ShapeSpec{
		"negative size": {Kind: "box", Size: physics.Size3{X: -30, Y: 2, Z: 10}},
		"zero radius":   {Kind: "circle"},
		"unknown kind":  {Kind: "capsule", Radius: 1},
		"huge box":      {Kind: "box", Size: physics.Size3{X: 1e7, Y: 1, Z: 1}},
		"huge circle":   {Kind: "circle", Radius: 1e6},
	} {
		w, resp := doJSON(t, srv, http.MethodPost, base+"/colliders", ColliderRequest{X: 1, Z: 1, Type: "solid", Shape: shape})
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s: %s", name, w.Body.String())
		assert.False(t, resp.Success)
	}

	for _, r := range []string{"1e7", "-1", "NaN", "81"} {
		w, _ := doJSON(t, srv, http.MethodGet, base+"/nearby?x=0&z=0&r="+r, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "r=%s", r)
	}
	w, _ := doJSON(t, srv, http.MethodGet, base+"/nearby?x=0&z=0&r=80", nil)
	assert.Equal(t, http.StatusOK, w.Code, "предел 8 ячеек включительно")

	got, err := rooms.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.ColliderCount, "отклонённые запросы не меняют комнату")
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, srv, http.MethodGet, "/api/rooms", nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "zonegrid_api_http_request_duration_seconds")
}

func TestServerMetrics(t *testing.T) {
	sm := NewServerMetrics()
	assert.Equal(t, "0с", sm.GetUptime())
	assert.Greater(t, sm.GetMemoryUsage(), 0.0)

	snapshot := sm.Snapshot()
	assert.Contains(t, snapshot, "uptime")
	assert.Contains(t, snapshot, "goroutines")
}

func jsonNumber(id collision.ID) string {
	data, _ := json.Marshal(id)
	return string(data)
}
