package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pixelvide/sidemon/pkg/config"
	"github.com/pixelvide/sidemon/pkg/driver/redis"
	"github.com/pixelvide/sidemon/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const info = `{"hostname":"h","started_at":1.0,"pid":1,"tag":"t","concurrency":2,"queues":["default"],"labels":[],"identity":"p1"}`

func newTestServer(t *testing.T) (*Server, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	driver, err := redis.NewRedisDriver(config.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	pages, err := render.HTML()
	require.NoError(t, err)
	return New(driver, pages, 10), mr
}

func seed(t *testing.T, mr *miniredis.Miniredis) {
	t.Helper()
	_, err := mr.SAdd("processes", "p1")
	require.NoError(t, err)
	mr.HSet("p1", "busy", "2", "quiet", "false", "beat", "1700000000.0", "info", info)
	mr.HSet("p1:workers", "w1", `{"run_at":100,"queue":"default","payload":"{\"args\":[],\"class\":\"HardWorker\",\"created_at\":1.0,\"jid\":\"w\",\"queue\":\"default\",\"retry\":false}"}`)

	_, err = mr.SAdd("queues", "default")
	require.NoError(t, err)
	for _, jid := range []string{"a", "b", "c"} {
		_, err = mr.Push("queue:default", jobJSON(jid))
		require.NoError(t, err)
	}
}

func jobJSON(jid string) string {
	return `{"args":[],"class":"HardWorker","created_at":1.0,"jid":"` + jid + `","queue":"default","retry":true}`
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestIndex(t *testing.T) {
	s, mr := newTestServer(t)
	seed(t, mr)

	rec := get(t, s, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), "<h3>p1</h3>")
}

func TestAPI_Processes(t *testing.T) {
	s, mr := newTestServer(t)
	seed(t, mr)

	rec := get(t, s, "/api/processes")
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	decode(t, rec, &names)
	assert.Equal(t, []string{"p1"}, names)

	rec = get(t, s, "/api/processes/p1")
	require.Equal(t, http.StatusOK, rec.Code)
	var process map[string]any
	decode(t, rec, &process)
	assert.Equal(t, float64(2), process["busy"])
	assert.Equal(t, 1700000000.0, process["beat"])

	rec = get(t, s, "/api/processes/p1/workers")
	require.Equal(t, http.StatusOK, rec.Code)
	var workers map[string]map[string]any
	decode(t, rec, &workers)
	require.Contains(t, workers, "w1")
	assert.Equal(t, "default", workers["w1"]["queue"])
}

func TestAPI_ProcessGone(t *testing.T) {
	s, mr := newTestServer(t)
	_, err := mr.SAdd("processes", "gone")
	require.NoError(t, err)

	rec := get(t, s, "/api/processes/gone")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Contains(t, body["error"], "process not found")
}

func TestAPI_Queue(t *testing.T) {
	s, mr := newTestServer(t)
	seed(t, mr)

	rec := get(t, s, "/api/queues")
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	decode(t, rec, &names)
	assert.Equal(t, []string{"default"}, names)

	rec = get(t, s, "/api/queues/default?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var entry struct {
		Name string `json:"name"`
		Size uint64 `json:"size"`
		Jobs []struct {
			JID string `json:"jid"`
		} `json:"jobs"`
	}
	decode(t, rec, &entry)
	assert.Equal(t, "default", entry.Name)
	assert.Equal(t, uint64(3), entry.Size)
	require.Len(t, entry.Jobs, 2)
	assert.Equal(t, "a", entry.Jobs[0].JID)
	assert.Equal(t, "b", entry.Jobs[1].JID)
}

func TestAPI_BadLimit(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/dead?limit=ten")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_DecodeErrorIs500(t *testing.T) {
	s, mr := newTestServer(t)
	_, err := mr.ZAdd("retry", 1, `{"args":[],"class":"Foo"}`)
	require.NoError(t, err)

	rec := get(t, s, "/api/retry")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Contains(t, body["error"], `missing field "created_at"`)
}

func TestAPI_Overview(t *testing.T) {
	s, mr := newTestServer(t)
	seed(t, mr)
	_, err := mr.ZAdd("schedule", 1, jobJSON("later"))
	require.NoError(t, err)

	rec := get(t, s, "/api/overview?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var o struct {
		Processes []struct {
			Name string `json:"name"`
			Gone bool   `json:"gone"`
		} `json:"processes"`
		Queues []struct {
			Size uint64 `json:"size"`
			Jobs []any  `json:"jobs"`
		} `json:"queues"`
		Schedule struct {
			Size uint64 `json:"size"`
		} `json:"schedule"`
	}
	decode(t, rec, &o)
	require.Len(t, o.Processes, 1)
	assert.False(t, o.Processes[0].Gone)
	require.Len(t, o.Queues, 1)
	assert.Equal(t, uint64(3), o.Queues[0].Size)
	assert.Len(t, o.Queues[0].Jobs, 1)
	assert.Equal(t, uint64(1), o.Schedule.Size)
}

func TestHealth(t *testing.T) {
	s, mr := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, s, "/healthz").Code)

	mr.Close()
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/healthz").Code)
}

func TestAPI_NegativeLimitRejected(t *testing.T) {
	s, mr := newTestServer(t)
	_, err := mr.ZAdd("dead", 1, jobJSON("old"))
	require.NoError(t, err)

	for _, path := range []string{"/api/dead?limit=-1", "/api/overview?limit=-5", "/?limit=-1"} {
		rec := get(t, s, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}

	rec := get(t, s, "/api/dead?limit=0")
	require.Equal(t, http.StatusOK, rec.Code)
	var entry struct {
		Size uint64 `json:"size"`
		Jobs []any  `json:"jobs"`
	}
	decode(t, rec, &entry)
	assert.Equal(t, uint64(1), entry.Size)
	assert.Empty(t, entry.Jobs)
}

type failingPages struct{}

func (failingPages) Render(w io.Writer, name string, data any) error {
	_, _ = io.WriteString(w, "<!DOCTYPE html><html><body><h2>Processes")
	return errors.New("template: index: boom")
}

func TestIndex_RenderFailureIs500(t *testing.T) {
	mr := miniredis.RunT(t)
	driver, err := redis.NewRedisDriver(config.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	s := New(driver, failingPages{}, 10)

	rec := get(t, s, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<h2>Processes")
	assert.Contains(t, rec.Body.String(), "boom")
}
