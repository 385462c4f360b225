package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gestionpedidos/pedidos-sync/api/responses"
	"github.com/gestionpedidos/pedidos-sync/internal/catalog"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
)

// ListProveedores returns the cached supplier catalog.
func ListProveedores(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		proveedores, err := svc.Proveedores(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proveedores)
	}
}

// ListProductos returns the cached product catalog, optionally filtered
// by ?q=, ?categoriaId= and ?stockBajo=.
func ListProductos(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter := catalog.ProductoFilter{
			Busqueda: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("categoriaId")); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "categoriaId must be an integer"))
				return
			}
			filter.CategoriaID = &id
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("stockBajo")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stockBajo must be a boolean"))
				return
			}
			filter.StockBajo = value
		}

		productos, err := svc.Productos(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productos)
	}
}

// GetProducto returns one product with its presentations.
func GetProducto(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := strconv.Atoi(chi.URLParam(r, "productoId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productoId must be an integer"))
			return
		}
		producto, err := svc.Producto(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, producto)
	}
}

// ScanCodigoBarras resolves a barcode to its product and presentation.
func ScanCodigoBarras(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		hit, err := svc.PorCodigoBarras(r.Context(), chi.URLParam(r, "codigo"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hit)
	}
}
