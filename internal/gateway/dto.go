package gateway

// Wire payloads exchanged with the remote purchasing server. Field names
// follow the server's JSON contract.

type ProveedorPayload struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

type PresentacionPayload struct {
	ID                                   int     `json:"id"`
	Nombre                               string  `json:"nombre"`
	CodigoBarras                         *string `json:"codigoBarras"`
	Factor                               float64 `json:"factor"`
	Costo                                float64 `json:"costo"`
	PrecioVenta                          float64 `json:"precioVenta"`
	Orden                                int     `json:"orden"`
	EsUnidadBase                         bool    `json:"esUnidadBase"`
	ExistenciasEnPresentacion            float64 `json:"existenciasEnPresentacion"`
	ExistenciasDisponiblesEnPresentacion float64 `json:"existenciasDisponiblesEnPresentacion"`
}

type ProductoPayload struct {
	ID                          int                   `json:"id"`
	Nombre                      string                `json:"nombre"`
	SKU                         *string               `json:"sku"`
	ImagenURL                   *string               `json:"imagenUrl"`
	CategoriaID                 int                   `json:"categoriaId"`
	CategoriaNombre             string                `json:"categoriaNombre"`
	SubcategoriaID              int                   `json:"subcategoriaId"`
	SubcategoriaNombre          string                `json:"subcategoriaNombre"`
	EstadoID                    int                   `json:"estadoId"`
	EstadoNombre                string                `json:"estadoNombre"`
	FamiliaID                   *int                  `json:"familiaId"`
	FamiliaNombre               *string               `json:"familiaNombre"`
	MarcaID                     *int                  `json:"marcaId"`
	MarcaNombre                 *string               `json:"marcaNombre"`
	Presentaciones              []PresentacionPayload `json:"presentaciones"`
	PresentacionVentaDefaultID  *int                  `json:"presentacionVentaDefaultId"`
	PresentacionCompraDefaultID *int                  `json:"presentacionCompraDefaultId"`
	ExistenciasDisponibles      float64               `json:"existenciasDisponibles"`
	TieneStockBajo              bool                  `json:"tieneStockBajo"`
	EsServicio                  bool                  `json:"esServicio"`
	ManejaInventario            bool                  `json:"manejaInventario"`
	PermiteVentaNegativa        bool                  `json:"permiteVentaNegativa"`
}

type DetallePedidoPayload struct {
	ID                 int      `json:"id"`
	ProductoID         int      `json:"productoId"`
	ProductoNombre     string   `json:"productoNombre"`
	PresentacionID     *int     `json:"presentacionId"`
	PresentacionNombre *string  `json:"presentacionNombre"`
	CodigoBarras       *string  `json:"codigoBarras"`
	CantidadPedida     float64  `json:"cantidadPedida"`
	PrecioUnitario     float64  `json:"precioUnitario"`
	IVA                float64  `json:"iva"`
	CantidadRecibida   *float64 `json:"cantidadRecibida"`
	SubtotalProducto   float64  `json:"subtotalProducto"`
	CostoUnitarioFinal float64  `json:"costoUnitarioFinal"`
}

type PedidoPayload struct {
	ID                   int                    `json:"id"`
	FechaPedido          string                 `json:"fechaPedido"`
	FechaEntregaEsperada string                 `json:"fechaEntregaEsperada"`
	FechaEntregaReal     *string                `json:"fechaEntregaReal"`
	ProveedorID          int                    `json:"proveedorId"`
	ProveedorNombre      string                 `json:"proveedorNombre"`
	Estado               string                 `json:"estado"`
	Observaciones        *string                `json:"observaciones"`
	Flete                float64                `json:"flete"`
	Detalles             []DetallePedidoPayload `json:"detalles"`
	TotalNeto            float64                `json:"totalNeto"`
}

// DetallePedidoRequest is one line of an outbound order. The tax and
// discount fields are zero-valued extension points for a future pricing
// engine; the server tolerates them today.
type DetallePedidoRequest struct {
	ProductoID           int     `json:"productoId"`
	PresentacionID       *int    `json:"presentacionId"`
	CantidadPedida       float64 `json:"cantidadPedida"`
	PrecioUnitario       float64 `json:"precioUnitario"`
	DescuentoPreIVA      float64 `json:"descuentoPreIva"`
	IVA                  float64 `json:"iva"`
	OtrosImpuestos       float64 `json:"otrosImpuestos"`
	OtrosImpuestosDetail *string `json:"otrosImpuestosDetalle"`
	DescuentoPosIVA      float64 `json:"descuentoPosIva"`
	Neto                 float64 `json:"neto"`
	Flete                float64 `json:"flete"`
	Observacion          *string `json:"observacion"`
}

// PedidoRequest is the body POSTed to {base}/pedidos.
type PedidoRequest struct {
	FechaPedido           string                 `json:"fechaPedido"`
	FechaEntregaEsperada  string                 `json:"fechaEntregaEsperada"`
	ProveedorID           int                    `json:"proveedorId"`
	Estado                string                 `json:"estado"`
	Observaciones         *string                `json:"observaciones"`
	Flete                 float64                `json:"flete"`
	Detalles              []DetallePedidoRequest `json:"detalles"`
	SubtotalProductos     float64                `json:"subtotalProductos"`
	TotalDescuentosPreIVA float64                `json:"totalDescuentosPreIva"`
	BaseGravableTotal     float64                `json:"baseGravableTotal"`
	TotalIVA              float64                `json:"totalIva"`
	TotalOtrosImpuestos   float64                `json:"totalOtrosImpuestos"`
	SubtotalConImpuestos  float64                `json:"subtotalConImpuestos"`
	TotalDescuentosPosIVA float64                `json:"totalDescuentosPosIva"`
	SubtotalSinFlete      float64                `json:"subtotalSinFlete"`
	Neto                  float64                `json:"neto"`
}
