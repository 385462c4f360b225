package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gestionpedidos/pedidos-sync/api/responses"
	"github.com/gestionpedidos/pedidos-sync/api/validators"
	"github.com/gestionpedidos/pedidos-sync/internal/delivery"
	"github.com/gestionpedidos/pedidos-sync/internal/purchase"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
)

type proveedorRequest struct {
	ProveedorID int `json:"proveedorId" validate:"required"`
}

// GetBorrador returns the in-progress order draft.
func GetBorrador(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Borrador(r.Context()))
	}
}

// PutBorradorProveedor sets the supplier the draft is built for.
func PutBorradorProveedor(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		var body proveedorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SeleccionarProveedor(r.Context(), body.ProveedorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Borrador(r.Context()))
	}
}

// PostBorradorLinea adds or replaces one product on the draft.
func PostBorradorLinea(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		var body purchase.DraftLineInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AgregarLineaBorrador(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Borrador(r.Context()))
	}
}

// DeleteBorradorLinea drops one product from the draft.
func DeleteBorradorLinea(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		productoID, err := strconv.Atoi(chi.URLParam(r, "productoId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productoId must be an integer"))
			return
		}
		if err := svc.EliminarLineaBorrador(r.Context(), productoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Borrador(r.Context()))
	}
}

// DeleteBorrador clears the draft entirely.
func DeleteBorrador(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		svc.LimpiarBorrador(r.Context())
		responses.WriteSuccess(w, map[string]bool{"limpio": true})
	}
}

// PostBorradorGuardar lands the draft as a local pending pedido without
// attempting delivery.
func PostBorradorGuardar(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		pedido, err := svc.GuardarPedidoLocal(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pedido)
	}
}

// PostBorradorEnviar lands the draft locally and attempts remote delivery.
func PostBorradorEnviar(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}
		outcome, err := svc.EnviarPedido(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

// PostReintentarPendientes retries delivery of every pending pedido.
func PostReintentarPendientes(svc delivery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}
		result, err := svc.ReintentarPendientes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
