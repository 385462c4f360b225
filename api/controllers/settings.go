package controllers

import (
	"net/http"

	"github.com/gestionpedidos/pedidos-sync/api/responses"
	"github.com/gestionpedidos/pedidos-sync/api/validators"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/settings"
)

type serverURLRequest struct {
	URL string `json:"url" validate:"omitempty,url"`
}

// GetServerURL returns the configured remote server URL, "" when unset.
func GetServerURL(store *settings.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings store unavailable"))
			return
		}
		url, err := store.BaseURL(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading server url"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

// PutServerURL updates the remote server URL. An empty URL returns the
// app to local-only mode.
func PutServerURL(store *settings.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings store unavailable"))
			return
		}

		var body serverURLRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.SetBaseURL(r.Context(), body.URL); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving server url"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"url": body.URL})
	}
}
