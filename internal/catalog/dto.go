package catalog

import (
	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
)

// ProductoView is a product flattened around its principal presentation,
// which is what purchasing screens and barcode lookups work with.
type ProductoView struct {
	models.Producto
	PresentacionPrincipalID *int    `json:"presentacionPrincipalId"`
	CodigoBarras            *string `json:"codigoBarras"`
	Costo                   float64 `json:"costo"`
	PrecioVenta             float64 `json:"precioVenta"`
}

// ResolvePrincipal picks the presentation a purchase line defaults to:
// the configured purchase default when present, else the base unit, else
// the first presentation. Products without presentations have none.
func ResolvePrincipal(producto models.Producto) *models.Presentacion {
	if len(producto.Presentaciones) == 0 {
		return nil
	}
	if producto.PresentacionCompraDefaultID != nil {
		for i := range producto.Presentaciones {
			if producto.Presentaciones[i].ID == *producto.PresentacionCompraDefaultID {
				return &producto.Presentaciones[i]
			}
		}
	}
	for i := range producto.Presentaciones {
		if producto.Presentaciones[i].EsUnidadBase {
			return &producto.Presentaciones[i]
		}
	}
	return &producto.Presentaciones[0]
}

// NewProductoView flattens the principal presentation onto the product.
// Without one the cost and price are zero and the barcode is absent.
func NewProductoView(producto models.Producto) ProductoView {
	view := ProductoView{Producto: producto}
	principal := ResolvePrincipal(producto)
	if principal == nil {
		return view
	}
	id := principal.ID
	view.PresentacionPrincipalID = &id
	view.CodigoBarras = principal.CodigoBarras
	view.Costo = principal.Costo
	view.PrecioVenta = principal.PrecioVenta
	return view
}

// BarcodeHit is the result of a barcode scan: the matching presentation
// and the product it belongs to.
type BarcodeHit struct {
	Producto     ProductoView        `json:"producto"`
	Presentacion models.Presentacion `json:"presentacion"`
}

// ProductoFilter narrows catalog queries. Zero value lists everything.
type ProductoFilter struct {
	Busqueda    string
	CategoriaID *int
	StockBajo   bool
}

func proveedorFromPayload(p gateway.ProveedorPayload) models.Proveedor {
	return models.Proveedor{ID: p.ID, Nombre: p.Nombre}
}

func productoFromPayload(p gateway.ProductoPayload) models.Producto {
	presentaciones := make([]models.Presentacion, 0, len(p.Presentaciones))
	for _, pres := range p.Presentaciones {
		presentaciones = append(presentaciones, models.Presentacion{
			ID:                                   pres.ID,
			ProductoID:                           p.ID,
			Nombre:                               pres.Nombre,
			CodigoBarras:                         pres.CodigoBarras,
			Factor:                               pres.Factor,
			Costo:                                pres.Costo,
			PrecioVenta:                          pres.PrecioVenta,
			Orden:                                pres.Orden,
			EsUnidadBase:                         pres.EsUnidadBase,
			ExistenciasEnPresentacion:            pres.ExistenciasEnPresentacion,
			ExistenciasDisponiblesEnPresentacion: pres.ExistenciasDisponiblesEnPresentacion,
		})
	}
	return models.Producto{
		ID:                          p.ID,
		Nombre:                      p.Nombre,
		SKU:                         p.SKU,
		ImagenURL:                   p.ImagenURL,
		CategoriaID:                 p.CategoriaID,
		CategoriaNombre:             p.CategoriaNombre,
		SubcategoriaID:              p.SubcategoriaID,
		SubcategoriaNombre:          p.SubcategoriaNombre,
		EstadoID:                    p.EstadoID,
		EstadoNombre:                p.EstadoNombre,
		FamiliaID:                   p.FamiliaID,
		FamiliaNombre:               p.FamiliaNombre,
		MarcaID:                     p.MarcaID,
		MarcaNombre:                 p.MarcaNombre,
		PresentacionVentaDefaultID:  p.PresentacionVentaDefaultID,
		PresentacionCompraDefaultID: p.PresentacionCompraDefaultID,
		ExistenciasDisponibles:      p.ExistenciasDisponibles,
		TieneStockBajo:              p.TieneStockBajo,
		EsServicio:                  p.EsServicio,
		ManejaInventario:            p.ManejaInventario,
		PermiteVentaNegativa:        p.PermiteVentaNegativa,
		Presentaciones:              presentaciones,
	}
}
