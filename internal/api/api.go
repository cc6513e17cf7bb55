// internal/api/api.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/cats-bridge/internal/protocol"
	"github.com/tamzrod/cats-bridge/internal/pvstore"
)

// Readiness reports the bridge connection state.
type Readiness interface {
	Ready() bool
	Pending() []protocol.Channel
}

// PV is the JSON form of one store field.
type PV struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
	Desc  string `json:"desc,omitempty"`
	Units string `json:"units,omitempty"`
}

type putRequest struct {
	Value any `json:"value"`
}

type handler struct {
	store *pvstore.Store
	ready Readiness
	log   logrus.FieldLogger
}

// NewRouter builds the HTTP surface: health, readiness, metrics and
// read/write access to every store field. metrics may be nil.
func NewRouter(store *pvstore.Store, ready Readiness, metrics http.Handler, log logrus.FieldLogger) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &handler{store: store, ready: ready, log: log.WithField("component", "api")}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", h.readyz)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/v1/pv", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{name}", h.get)
		r.Put("/{name}", h.put)
	})

	return r
}

func (h *handler) readyz(w http.ResponseWriter, _ *http.Request) {
	if h.ready == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ready": true})
		return
	}

	pending := make([]string, 0, 2)
	for _, ch := range h.ready.Pending() {
		pending = append(pending, ch.String())
	}

	status := http.StatusOK
	ok := h.ready.Ready()
	if !ok {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"ready": ok, "pending": pending})
}

func (h *handler) list(w http.ResponseWriter, _ *http.Request) {
	snap := h.store.Snapshot()
	names := h.store.Names()

	out := make([]PV, 0, len(names))
	for _, name := range names {
		f, _ := h.store.Field(name)
		out = append(out, pv(f, snap[name]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, ok := h.store.Field(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown field")
		return
	}
	v, err := h.store.Get(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pv(f, v))
}

func (h *handler) put(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req putRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.store.Put(name, req.Value)
	switch {
	case err == nil:
		h.log.WithField("field", name).Debug("field written")
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, pvstore.ErrUnknownField):
		writeError(w, http.StatusNotFound, "unknown field")
	case errors.Is(err, pvstore.ErrType):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pv(f pvstore.Field, v any) PV {
	return PV{
		Name:  f.Name,
		Kind:  f.Kind.String(),
		Value: pvstore.JSONValue(v),
		Desc:  f.Desc,
		Units: f.Units,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
