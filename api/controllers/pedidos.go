package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gestionpedidos/pedidos-sync/api/responses"
	"github.com/gestionpedidos/pedidos-sync/api/validators"
	"github.com/gestionpedidos/pedidos-sync/internal/orders"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
)

type estadoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// ListPedidos returns cached pedidos, optionally filtered by
// ?proveedorId=, ?estado= and ?q=.
func ListPedidos(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filter := orders.PedidoFilter{
			Estado:   strings.TrimSpace(r.URL.Query().Get("estado")),
			Busqueda: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("proveedorId")); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "proveedorId must be an integer"))
				return
			}
			filter.ProveedorID = &id
		}

		pedidos, err := svc.Pedidos(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedidos)
	}
}

// ListPendientes returns every order still waiting for delivery.
func ListPendientes(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		pedidos, err := svc.Pendientes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedidos)
	}
}

// GetPedido returns one pedido with its lines.
func GetPedido(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := pedidoID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pedido, err := svc.Pedido(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedido)
	}
}

// UpdatePedidoEstado transitions a pedido's lifecycle status.
func UpdatePedidoEstado(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := pedidoID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body estadoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CambiarEstado(r.Context(), id, body.Estado); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pedido, err := svc.Pedido(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pedido)
	}
}

// DeletePedido removes a pedido and its lines.
func DeletePedido(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := pedidoID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Eliminar(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"eliminado": true})
	}
}

func pedidoID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "pedidoId"))
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "pedidoId must be an integer")
	}
	return id, nil
}
