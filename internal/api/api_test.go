// internal/api/api_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/cats-bridge/internal/metrics"
	"github.com/tamzrod/cats-bridge/internal/protocol"
	"github.com/tamzrod/cats-bridge/internal/pvstore"
)

type fakeReady struct {
	ready   bool
	pending []protocol.Channel
}

func (f fakeReady) Ready() bool                 { return f.ready }
func (f fakeReady) Pending() []protocol.Channel { return f.pending }

func newServer(t *testing.T, ready Readiness) (*httptest.Server, *pvstore.Store) {
	t.Helper()

	store, err := pvstore.New([]pvstore.Field{
		{Name: "ENABLED", Kind: pvstore.KindInt, Default: 1, Desc: "Robot Control"},
		{Name: "PAR:adjustX", Kind: pvstore.KindFloat, Units: "mm"},
		{Name: "STATE:inputs", Kind: pvstore.KindBits},
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics.New(reg).CommandSent("put")

	log, _ := test.NewNullLogger()
	srv := httptest.NewServer(NewRouter(store, ready, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), log))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newServer(t, nil)

	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadyz(t *testing.T) {
	srv, _ := newServer(t, fakeReady{pending: []protocol.Channel{protocol.ChannelStatus}})

	resp := do(t, http.MethodGet, srv.URL+"/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Ready   bool     `json:"ready"`
		Pending []string `json:"pending"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Ready)
	assert.Equal(t, []string{"STATUS"}, body.Pending)

	srv, _ = newServer(t, fakeReady{ready: true})
	resp = do(t, http.MethodGet, srv.URL+"/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListAndGet(t *testing.T) {
	srv, _ := newServer(t, nil)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/pv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []PV
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 3)
	assert.Equal(t, "ENABLED", list[0].Name)
	assert.Equal(t, "int", list[0].Kind)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/pv/PAR:adjustX", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var one PV
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	assert.Equal(t, "mm", one.Units)
	assert.Equal(t, 0.0, one.Value)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/pv/NOPE", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPut(t *testing.T) {
	srv, store := newServer(t, nil)

	resp := do(t, http.MethodPut, srv.URL+"/api/v1/pv/ENABLED", `{"value":0}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, store.Int("ENABLED"))

	resp = do(t, http.MethodPut, srv.URL+"/api/v1/pv/STATE:inputs", `{"value":"0b1011"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(11), store.Bits("STATE:inputs").Int64())

	resp = do(t, http.MethodPut, srv.URL+"/api/v1/pv/ENABLED", `{"value":"on"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/api/v1/pv/ENABLED", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/api/v1/pv/NOPE", `{"value":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
