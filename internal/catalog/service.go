package catalog

import (
	"context"
	"fmt"

	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/watch"
)

// Service exposes the locally cached catalog and applies remote snapshots
// to it.
type Service interface {
	ApplyProveedores(ctx context.Context, payloads []gateway.ProveedorPayload) error
	ApplyProductos(ctx context.Context, payloads []gateway.ProductoPayload) error

	Proveedores(ctx context.Context) ([]models.Proveedor, error)
	Productos(ctx context.Context, filter ProductoFilter) ([]ProductoView, error)
	Producto(ctx context.Context, id int) (*ProductoView, error)
	PorCodigoBarras(ctx context.Context, codigo string) (*BarcodeHit, error)
}

type service struct {
	repo          *Repository
	logg          *logger.Logger
	proveedorFeed *watch.Feed[models.Proveedor]
	productoFeed  *watch.Feed[ProductoView]
}

// NewService builds the catalog service with the required dependencies.
func NewService(
	repo *Repository,
	logg *logger.Logger,
	proveedorFeed *watch.Feed[models.Proveedor],
	productoFeed *watch.Feed[ProductoView],
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if proveedorFeed == nil || productoFeed == nil {
		return nil, fmt.Errorf("catalog feeds required")
	}
	return &service{
		repo:          repo,
		logg:          logg,
		proveedorFeed: proveedorFeed,
		productoFeed:  productoFeed,
	}, nil
}

func (s *service) ApplyProveedores(ctx context.Context, payloads []gateway.ProveedorPayload) error {
	proveedores := make([]models.Proveedor, 0, len(payloads))
	for _, payload := range payloads {
		proveedores = append(proveedores, proveedorFromPayload(payload))
	}
	if err := s.repo.ReplaceProveedores(ctx, proveedores); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "replacing proveedores")
	}

	snapshot, err := s.repo.ListProveedores(ctx)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "reloading proveedores")
	}
	s.proveedorFeed.Publish(snapshot)
	s.logg.Info(s.logg.WithEntity(ctx, "proveedores"), "catalog snapshot applied")
	return nil
}

func (s *service) ApplyProductos(ctx context.Context, payloads []gateway.ProductoPayload) error {
	productos := make([]models.Producto, 0, len(payloads))
	for _, payload := range payloads {
		productos = append(productos, productoFromPayload(payload))
	}
	if err := s.repo.ReplaceProductos(ctx, productos); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "replacing productos")
	}

	views, err := s.Productos(ctx, ProductoFilter{})
	if err != nil {
		return err
	}
	s.productoFeed.Publish(views)
	s.logg.Info(s.logg.WithEntity(ctx, "productos"), "catalog snapshot applied")
	return nil
}

func (s *service) Proveedores(ctx context.Context) ([]models.Proveedor, error) {
	proveedores, err := s.repo.ListProveedores(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing proveedores")
	}
	return proveedores, nil
}

func (s *service) Productos(ctx context.Context, filter ProductoFilter) ([]ProductoView, error) {
	productos, err := s.repo.ListProductos(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing productos")
	}
	views := make([]ProductoView, 0, len(productos))
	for _, producto := range productos {
		views = append(views, NewProductoView(producto))
	}
	return views, nil
}

func (s *service) Producto(ctx context.Context, id int) (*ProductoView, error) {
	producto, err := s.repo.FindProducto(ctx, id)
	if IsNotFound(err) {
		return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("producto %d not found", id))
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading producto")
	}
	view := NewProductoView(*producto)
	return &view, nil
}

func (s *service) PorCodigoBarras(ctx context.Context, codigo string) (*BarcodeHit, error) {
	if codigo == "" {
		return nil, errors.New(errors.CodeValidation, "codigo de barras is required")
	}
	presentacion, err := s.repo.FindPresentacionPorCodigo(ctx, codigo)
	if IsNotFound(err) {
		return nil, errors.New(errors.CodeNotFound, "codigo de barras not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up codigo de barras")
	}

	producto, err := s.Producto(ctx, presentacion.ProductoID)
	if err != nil {
		return nil, err
	}
	return &BarcodeHit{Producto: *producto, Presentacion: *presentacion}, nil
}
