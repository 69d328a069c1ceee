package network

import (
	"encoding/json"
	"expvar"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// StartAdminAPI exposes /healthz, /vars, and /metrics on binding, grounded
// in itzg-mc-router's server/api_server.go — a gorilla/mux router with
// the prometheus handler mounted alongside expvar, so the admin surface
// spec §2's expanded component table adds never blocks the protocol
// engine it reports on.
func (m *Manager) StartAdminAPI(binding string) {
	logrus.WithField("binding", binding).Info("serving admin API requests")

	router := mux.NewRouter()
	router.Path("/healthz").Methods("GET").HandlerFunc(m.healthzHandler)
	router.Path("/vars").Handler(expvar.Handler())
	router.Path("/metrics").Handler(promhttp.Handler())

	go func() {
		logrus.WithError(http.ListenAndServe(binding, router)).Error("admin API server failed")
	}()
}

func (m *Manager) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	body := struct {
		Status      string `json:"status"`
		Connections int    `json:"connections"`
	}{Status: "ok", Connections: m.Len()}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("failed to write healthz response")
	}
}
