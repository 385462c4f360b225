package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gestionpedidos/pedidos-sync/api/responses"
	"github.com/gestionpedidos/pedidos-sync/api/validators"
	"github.com/gestionpedidos/pedidos-sync/internal/purchase"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
)

type seleccionPedidoRequest struct {
	PedidoID int `json:"pedidoId" validate:"required"`
}

type seleccionLineaRequest struct {
	ProductoID int `json:"productoId" validate:"required"`
}

// ListCompras returns the persisted purchase history.
func ListCompras(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		compras, err := svc.Compras(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, compras)
	}
}

// DeleteCompra removes a persisted purchase.
func DeleteCompra(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		compraID, err := strconv.Atoi(chi.URLParam(r, "compraId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "compraId must be an integer"))
			return
		}
		if err := svc.EliminarCompra(r.Context(), compraID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"eliminado": true})
	}
}

// GetSesion returns the current receiving session snapshot.
func GetSesion(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Sesion(r.Context()))
	}
}

// PostSesion opens a receiving session against a pedido.
func PostSesion(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		var body seleccionPedidoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SeleccionarPedido(r.Context(), body.PedidoID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// DeleteSesion discards the receiving session without persisting.
func DeleteSesion(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		svc.CancelarSesion(r.Context())
		responses.WriteSuccess(w, map[string]bool{"cancelada": true})
	}
}

// PostSesionSeleccion points the session at one pedido line.
func PostSesionSeleccion(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		var body seleccionLineaRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SeleccionarLinea(r.Context(), body.ProductoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Sesion(r.Context()))
	}
}

// PostSesionLinea captures the received quantity and price for a line and
// confirms it on the pedido.
func PostSesionLinea(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		var body purchase.ConfirmLineInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ConfirmarLinea(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Sesion(r.Context()))
	}
}

// PutSesionLinea edits a captured line without changing its confirmation.
func PutSesionLinea(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		var body purchase.ConfirmLineInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.EditarLinea(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Sesion(r.Context()))
	}
}

// DeleteSesionLinea drops a captured line and unconfirms it on the pedido.
func DeleteSesionLinea(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
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
		if err := svc.EliminarLinea(r.Context(), productoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Sesion(r.Context()))
	}
}

// PostSesionFinalizar persists the compra, closes the pedido when fully
// confirmed, and clears the session.
func PostSesionFinalizar(svc purchase.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}
		compra, err := svc.Finalizar(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, compra)
	}
}
