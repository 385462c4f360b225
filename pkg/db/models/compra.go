package models

// CompraAbierta is the default status of a purchase under construction.
const CompraAbierta = "abierto"

// Compra records what was actually bought against a pedido. IDCompra is the
// user-visible sequence number (max existing + 1 at scaffold time); ID is
// the storage key.
type Compra struct {
	ID          int             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IDCompra    int             `gorm:"column:id_compra;uniqueIndex" json:"idCompra"`
	FechaCompra string          `gorm:"column:fecha_compra;index" json:"fechaCompra"`
	Proveedor   string          `gorm:"column:proveedor" json:"proveedor"`
	Estado      string          `gorm:"column:estado;default:abierto" json:"estado"`
	Detalles    []DetalleCompra `gorm:"foreignKey:CompraID;constraint:OnDelete:CASCADE" json:"detalles"`
}

func (Compra) TableName() string { return "compras" }

// DetalleCompra is one purchased line. At most one row per producto within
// a compra; re-confirming a product replaces the previous row.
type DetalleCompra struct {
	ID             int     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CompraID       int     `gorm:"column:compra_id;index;not null" json:"compraId"`
	ProductoID     int     `gorm:"column:producto_id;index" json:"productoId"`
	ProductoNombre string  `gorm:"column:producto_nombre" json:"productoNombre"`
	CodigoBarras   string  `gorm:"column:codigo_barras" json:"codigoDeBarras"`
	CantidadCompra float64 `gorm:"column:cantidad_compra" json:"cantidadCompra"`
	PrecioUnitario float64 `gorm:"column:precio_unitario" json:"precioUnitario"`
}

func (DetalleCompra) TableName() string { return "detalle_compras" }

// Total is the on-demand purchase total; never persisted.
func (c Compra) Total() float64 {
	var total float64
	for _, d := range c.Detalles {
		total += d.CantidadCompra * d.PrecioUnitario
	}
	return total
}
