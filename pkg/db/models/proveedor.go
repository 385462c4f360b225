package models

// Proveedor is a supplier as delivered by the remote catalog. Rows are
// overwritten wholesale on each sync.
type Proveedor struct {
	ID     int    `gorm:"column:id;primaryKey" json:"id"`
	Nombre string `gorm:"column:nombre;not null" json:"nombre"`
}

func (Proveedor) TableName() string { return "proveedores" }
