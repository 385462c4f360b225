package catalog

import (
	"context"
	"errors"

	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles supplier and product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceProveedores swaps the supplier table for the remote snapshot.
func (r *Repository) ReplaceProveedores(ctx context.Context, proveedores []models.Proveedor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Proveedor{}).Error; err != nil {
			return err
		}
		if len(proveedores) == 0 {
			return nil
		}
		return tx.Create(&proveedores).Error
	})
}

// ReplaceProductos upserts each product and replaces its presentations as
// a unit, so stale presentations never survive a sync.
func (r *Repository) ReplaceProductos(ctx context.Context, productos []models.Producto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range productos {
			producto := productos[i]
			presentaciones := producto.Presentaciones
			producto.Presentaciones = nil

			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Omit("Presentaciones").
				Create(&producto).Error; err != nil {
				return err
			}
			if err := tx.Where("producto_id = ?", producto.ID).
				Delete(&models.Presentacion{}).Error; err != nil {
				return err
			}
			if len(presentaciones) > 0 {
				if err := tx.Create(&presentaciones).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ListProveedores returns all suppliers ordered by name.
func (r *Repository) ListProveedores(ctx context.Context) ([]models.Proveedor, error) {
	var proveedores []models.Proveedor
	if err := r.db.WithContext(ctx).Order("nombre ASC").Find(&proveedores).Error; err != nil {
		return nil, err
	}
	return proveedores, nil
}

// ListProductos returns products matching the filter, presentations
// preloaded, ordered by name.
func (r *Repository) ListProductos(ctx context.Context, filter ProductoFilter) ([]models.Producto, error) {
	query := r.db.WithContext(ctx).
		Preload("Presentaciones", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC")
		}).
		Order("nombre ASC")

	if filter.Busqueda != "" {
		like := "%" + filter.Busqueda + "%"
		query = query.Where("nombre LIKE ? OR sku LIKE ?", like, like)
	}
	if filter.CategoriaID != nil {
		query = query.Where("categoria_id = ?", *filter.CategoriaID)
	}
	if filter.StockBajo {
		query = query.Where("tiene_stock_bajo = ?", true)
	}

	var productos []models.Producto
	if err := query.Find(&productos).Error; err != nil {
		return nil, err
	}
	return productos, nil
}

// FindProducto loads one product with its presentations.
func (r *Repository) FindProducto(ctx context.Context, id int) (*models.Producto, error) {
	var producto models.Producto
	err := r.db.WithContext(ctx).
		Preload("Presentaciones", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC")
		}).
		Where("id = ?", id).
		First(&producto).Error
	if err != nil {
		return nil, err
	}
	return &producto, nil
}

// FindPresentacionPorCodigo resolves a scanned barcode to its presentation.
func (r *Repository) FindPresentacionPorCodigo(ctx context.Context, codigo string) (*models.Presentacion, error) {
	var presentacion models.Presentacion
	err := r.db.WithContext(ctx).
		Where("codigo_barras = ?", codigo).
		First(&presentacion).Error
	if err != nil {
		return nil, err
	}
	return &presentacion, nil
}

// IsNotFound reports whether the error is a missing-row lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
