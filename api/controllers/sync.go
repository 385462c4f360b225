package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gestionpedidos/pedidos-sync/api/responses"
	"github.com/gestionpedidos/pedidos-sync/internal/syncer"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/notify"
)

// RunSync kicks a refresh round. ?force=true bypasses the cache window.
func RunSync(svc syncer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}

		force := false
		if raw := strings.TrimSpace(r.URL.Query().Get("force")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "force must be a boolean"))
				return
			}
			force = value
		}

		result, err := svc.RefreshAll(r.Context(), force)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SyncStatus reports whether a refresh round is running.
func SyncStatus(svc syncer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]bool{"sincronizando": svc.InFlight()})
	}
}

// DrainNotifications returns and clears the queued user-facing messages.
func DrainNotifications(queue *notify.Queue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if queue == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification queue unavailable"))
			return
		}
		messages := queue.Drain()
		if messages == nil {
			messages = []string{}
		}
		responses.WriteSuccess(w, map[string]any{"mensajes": messages})
	}
}
