package models

// Ajuste is a persisted key-value setting: the configured server URL and
// the per-entity last-sync timestamps.
type Ajuste struct {
	Clave string `gorm:"column:clave;primaryKey" json:"clave"`
	Valor string `gorm:"column:valor" json:"valor"`
}

func (Ajuste) TableName() string { return "ajustes" }
