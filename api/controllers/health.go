package controllers

import (
	"net/http"

	"github.com/gestionpedidos/pedidos-sync/api/responses"
	"github.com/gestionpedidos/pedidos-sync/pkg/config"
	"github.com/gestionpedidos/pedidos-sync/pkg/db"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pedidos-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pedidos-Env", cfg.App.Env)
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database unavailable"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
