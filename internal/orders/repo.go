package orders

import (
	"context"
	"errors"

	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles pedido persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to pedido operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the pedido header and replaces its lines as a unit. A zero
// ID inserts a fresh row and the generated ID is written back.
func (r *Repository) Save(ctx context.Context, pedido *models.Pedido) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detalles := pedido.Detalles
		pedido.Detalles = nil

		if pedido.ID == 0 {
			if err := tx.Create(pedido).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Omit("Detalles").
				Create(pedido).Error; err != nil {
				return err
			}
			if err := tx.Where("pedido_id = ?", pedido.ID).
				Delete(&models.DetallePedido{}).Error; err != nil {
				return err
			}
		}

		for i := range detalles {
			detalles[i].PedidoID = pedido.ID
		}
		if len(detalles) > 0 {
			if err := tx.Create(&detalles).Error; err != nil {
				return err
			}
		}
		pedido.Detalles = detalles
		return nil
	})
}

// ReplaceAll applies a remote snapshot. Locally drafted orders still
// pending delivery are preserved; everything else mirrors the server.
func (r *Repository) ReplaceAll(ctx context.Context, pedidos []models.Pedido) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pendientes []models.Pedido
		if err := tx.Preload("Detalles").
			Where("estado = ?", models.EstadoPendienteEnvio).
			Find(&pendientes).Error; err != nil {
			return err
		}

		if err := tx.Where("1 = 1").Delete(&models.DetallePedido{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Pedido{}).Error; err != nil {
			return err
		}

		remoteIDs := make(map[int]bool, len(pedidos))
		for i := range pedidos {
			remoteIDs[pedidos[i].ID] = true
		}
		for i := range pendientes {
			if !remoteIDs[pendientes[i].ID] {
				pedidos = append(pedidos, pendientes[i])
			}
		}

		for i := range pedidos {
			pedido := pedidos[i]
			detalles := pedido.Detalles
			pedido.Detalles = nil
			if err := tx.Create(&pedido).Error; err != nil {
				return err
			}
			for j := range detalles {
				detalles[j].PedidoID = pedido.ID
			}
			if len(detalles) > 0 {
				if err := tx.Create(&detalles).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Find loads one pedido with its lines.
func (r *Repository) Find(ctx context.Context, id int) (*models.Pedido, error) {
	var pedido models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("id = ?", id).
		First(&pedido).Error
	if err != nil {
		return nil, err
	}
	return &pedido, nil
}

// List returns pedidos matching the filter, newest order date first.
func (r *Repository) List(ctx context.Context, filter PedidoFilter) ([]models.Pedido, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Pedido{}).
		Preload("Detalles").
		Order("pedidos.fecha_pedido DESC, pedidos.id DESC")

	if filter.ProveedorID != nil {
		query = query.Where("pedidos.proveedor_id = ?", *filter.ProveedorID)
	}
	if filter.Estado != "" {
		query = query.Where("pedidos.estado = ?", filter.Estado)
	}
	if filter.Busqueda != "" {
		like := "%" + filter.Busqueda + "%"
		query = query.
			Joins("LEFT JOIN detalle_pedidos ON detalle_pedidos.pedido_id = pedidos.id").
			Where("pedidos.proveedor_nombre LIKE ? OR detalle_pedidos.producto_nombre LIKE ? OR detalle_pedidos.codigo_barras LIKE ?", like, like, like).
			Distinct("pedidos.*")
	}

	var pedidos []models.Pedido
	if err := query.Find(&pedidos).Error; err != nil {
		return nil, err
	}
	return pedidos, nil
}

// ListPendientes returns every order still waiting for delivery.
func (r *Repository) ListPendientes(ctx context.Context) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("estado = ?", models.EstadoPendienteEnvio).
		Order("id ASC").
		Find(&pedidos).Error
	if err != nil {
		return nil, err
	}
	return pedidos, nil
}

// FindUltimoPendiente returns the most recent pending order for the
// supplier, matching by highest ID.
func (r *Repository) FindUltimoPendiente(ctx context.Context, proveedorID int) (*models.Pedido, error) {
	var pedido models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Where("proveedor_id = ? AND estado = ?", proveedorID, models.EstadoPendienteEnvio).
		Order("id DESC").
		First(&pedido).Error
	if err != nil {
		return nil, err
	}
	return &pedido, nil
}

// UpdateEstado transitions the pedido's status.
func (r *Repository) UpdateEstado(ctx context.Context, pedidoID int, estado string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Pedido{}).
		Where("id = ?", pedidoID).
		Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetConfirmado flips the confirmation flag on the line for the product.
func (r *Repository) SetConfirmado(ctx context.Context, pedidoID, productoID int, confirmado bool) error {
	return r.db.WithContext(ctx).
		Model(&models.DetallePedido{}).
		Where("pedido_id = ? AND producto_id = ?", pedidoID, productoID).
		Update("confirmado", confirmado).Error
}

// Delete removes the pedido and, through the FK cascade, its lines.
func (r *Repository) Delete(ctx context.Context, pedidoID int) error {
	res := r.db.WithContext(ctx).Delete(&models.Pedido{}, pedidoID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether the error is a missing-row lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
