package purchase

import (
	"context"

	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles compra persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to compra operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NextIDCompra returns the next user-visible purchase number.
func (r *Repository) NextIDCompra(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Compra{}).
		Select("MAX(id_compra)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// Save persists the compra with its lines.
func (r *Repository) Save(ctx context.Context, compra *models.Compra) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detalles := compra.Detalles
		compra.Detalles = nil
		if err := tx.Create(compra).Error; err != nil {
			return err
		}
		for i := range detalles {
			detalles[i].CompraID = compra.ID
		}
		if len(detalles) > 0 {
			if err := tx.Create(&detalles).Error; err != nil {
				return err
			}
		}
		compra.Detalles = detalles
		return nil
	})
}

// Delete removes the compra and, through the FK cascade, its lines.
func (r *Repository) Delete(ctx context.Context, compraID int) error {
	res := r.db.WithContext(ctx).Delete(&models.Compra{}, compraID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns persisted compras, newest purchase number first.
func (r *Repository) List(ctx context.Context) ([]models.Compra, error) {
	var compras []models.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Order("id_compra DESC").
		Find(&compras).Error
	if err != nil {
		return nil, err
	}
	return compras, nil
}
