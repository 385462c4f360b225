package models

// Estados of a pedido as seen by this client. The server keeps a wider
// free-text status domain; these three drive the local lifecycle.
const (
	EstadoPendienteEnvio = "pendiente_envio"
	EstadoEnviado        = "enviado"
	EstadoCerrado        = "cerrado"

	// EstadoRequerido is the status the server expects on newly posted orders.
	EstadoRequerido = "requerido"
)

// Pedido is a purchase order, either server-sourced or drafted locally.
// Locally created rows are inserted with a zero ID and pick up a generated
// one; their lifecycle starts at EstadoPendienteEnvio.
type Pedido struct {
	ID                   int             `gorm:"column:id;primaryKey" json:"id"`
	FechaPedido          string          `gorm:"column:fecha_pedido;index" json:"fechaPedido"`
	FechaEntregaEsperada string          `gorm:"column:fecha_entrega_esperada" json:"fechaEntregaEsperada"`
	FechaEntregaReal     *string         `gorm:"column:fecha_entrega_real" json:"fechaEntregaReal"`
	ProveedorID          int             `gorm:"column:proveedor_id;index" json:"proveedorId"`
	ProveedorNombre      string          `gorm:"column:proveedor_nombre" json:"proveedorNombre"`
	Estado               string          `gorm:"column:estado;index" json:"estado"`
	Observaciones        *string         `gorm:"column:observaciones" json:"observaciones"`
	Flete                float64         `gorm:"column:flete" json:"flete"`
	TotalNeto            float64         `gorm:"column:total_neto" json:"totalNeto"`
	Detalles             []DetallePedido `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE" json:"detalles"`
}

func (Pedido) TableName() string { return "pedidos" }

// DetallePedido is one requested line of a pedido. Confirmado flips when
// the line is matched into a purchase during the build workflow.
type DetallePedido struct {
	ID                 int      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PedidoID           int      `gorm:"column:pedido_id;index;not null" json:"pedidoId"`
	ProductoID         int      `gorm:"column:producto_id;index" json:"productoId"`
	ProductoNombre     string   `gorm:"column:producto_nombre" json:"productoNombre"`
	PresentacionID     *int     `gorm:"column:presentacion_id" json:"presentacionId"`
	PresentacionNombre *string  `gorm:"column:presentacion_nombre" json:"presentacionNombre"`
	CodigoBarras       *string  `gorm:"column:codigo_barras" json:"codigoBarras"`
	CantidadPedida     float64  `gorm:"column:cantidad_pedida" json:"cantidadPedida"`
	PrecioUnitario     float64  `gorm:"column:precio_unitario" json:"precioUnitario"`
	IVA                float64  `gorm:"column:iva" json:"iva"`
	CantidadRecibida   *float64 `gorm:"column:cantidad_recibida" json:"cantidadRecibida"`
	SubtotalProducto   float64  `gorm:"column:subtotal_producto" json:"subtotalProducto"`
	CostoUnitarioFinal float64  `gorm:"column:costo_unitario_final" json:"costoUnitarioFinal"`
	Confirmado         bool     `gorm:"column:confirmado;not null;default:false" json:"confirmado"`
}

func (DetallePedido) TableName() string { return "detalle_pedidos" }
