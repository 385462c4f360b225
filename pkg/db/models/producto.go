package models

// Producto mirrors the remote product payload. Presentaciones are replaced
// as a unit whenever the product is re-synced.
type Producto struct {
	ID                          int            `gorm:"column:id;primaryKey" json:"id"`
	Nombre                      string         `gorm:"column:nombre;not null" json:"nombre"`
	SKU                         *string        `gorm:"column:sku" json:"sku"`
	ImagenURL                   *string        `gorm:"column:imagen_url" json:"imagenUrl"`
	CategoriaID                 int            `gorm:"column:categoria_id;index" json:"categoriaId"`
	CategoriaNombre             string         `gorm:"column:categoria_nombre" json:"categoriaNombre"`
	SubcategoriaID              int            `gorm:"column:subcategoria_id" json:"subcategoriaId"`
	SubcategoriaNombre          string         `gorm:"column:subcategoria_nombre" json:"subcategoriaNombre"`
	EstadoID                    int            `gorm:"column:estado_id" json:"estadoId"`
	EstadoNombre                string         `gorm:"column:estado_nombre" json:"estadoNombre"`
	FamiliaID                   *int           `gorm:"column:familia_id" json:"familiaId"`
	FamiliaNombre               *string        `gorm:"column:familia_nombre" json:"familiaNombre"`
	MarcaID                     *int           `gorm:"column:marca_id" json:"marcaId"`
	MarcaNombre                 *string        `gorm:"column:marca_nombre" json:"marcaNombre"`
	PresentacionVentaDefaultID  *int           `gorm:"column:presentacion_venta_default_id" json:"presentacionVentaDefaultId"`
	PresentacionCompraDefaultID *int           `gorm:"column:presentacion_compra_default_id" json:"presentacionCompraDefaultId"`
	ExistenciasDisponibles      float64        `gorm:"column:existencias_disponibles" json:"existenciasDisponibles"`
	TieneStockBajo              bool           `gorm:"column:tiene_stock_bajo" json:"tieneStockBajo"`
	EsServicio                  bool           `gorm:"column:es_servicio" json:"esServicio"`
	ManejaInventario            bool           `gorm:"column:maneja_inventario" json:"manejaInventario"`
	PermiteVentaNegativa        bool           `gorm:"column:permite_venta_negativa" json:"permiteVentaNegativa"`
	Presentaciones              []Presentacion `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE" json:"presentaciones"`
}

func (Producto) TableName() string { return "productos" }

// Presentacion is a unit-of-measure variant of a product.
type Presentacion struct {
	ID                                   int     `gorm:"column:id;primaryKey" json:"id"`
	ProductoID                           int     `gorm:"column:producto_id;index;not null" json:"productoId"`
	Nombre                               string  `gorm:"column:nombre;not null" json:"nombre"`
	CodigoBarras                         *string `gorm:"column:codigo_barras;index" json:"codigoBarras"`
	Factor                               float64 `gorm:"column:factor" json:"factor"`
	Costo                                float64 `gorm:"column:costo" json:"costo"`
	PrecioVenta                          float64 `gorm:"column:precio_venta" json:"precioVenta"`
	Orden                                int     `gorm:"column:orden" json:"orden"`
	EsUnidadBase                         bool    `gorm:"column:es_unidad_base" json:"esUnidadBase"`
	ExistenciasEnPresentacion            float64 `gorm:"column:existencias_en_presentacion" json:"existenciasEnPresentacion"`
	ExistenciasDisponiblesEnPresentacion float64 `gorm:"column:existencias_disponibles_en_presentacion" json:"existenciasDisponiblesEnPresentacion"`
}

func (Presentacion) TableName() string { return "presentaciones" }
