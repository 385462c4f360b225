package orders

import (
	"context"
	"fmt"

	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/watch"
)

var estadosPermitidos = map[string]bool{
	models.EstadoPendienteEnvio: true,
	models.EstadoEnviado:        true,
	models.EstadoCerrado:        true,
	models.EstadoRequerido:      true,
}

// Service exposes the locally cached pedidos and their lifecycle.
type Service interface {
	ApplyPedidos(ctx context.Context, payloads []gateway.PedidoPayload) error

	Pedidos(ctx context.Context, filter PedidoFilter) ([]models.Pedido, error)
	Pedido(ctx context.Context, id int) (*models.Pedido, error)
	Pendientes(ctx context.Context) ([]models.Pedido, error)

	GuardarLocal(ctx context.Context, pedido *models.Pedido) error
	CambiarEstado(ctx context.Context, pedidoID int, estado string) error
	MarcarUltimoEnviado(ctx context.Context, proveedorID int) (*models.Pedido, error)
	ConfirmarLinea(ctx context.Context, pedidoID, productoID int, confirmado bool) error
	Eliminar(ctx context.Context, pedidoID int) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
	feed *watch.Feed[models.Pedido]
}

// NewService builds the pedido service with the required dependencies.
func NewService(repo *Repository, logg *logger.Logger, feed *watch.Feed[models.Pedido]) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if feed == nil {
		return nil, fmt.Errorf("pedido feed required")
	}
	return &service{repo: repo, logg: logg, feed: feed}, nil
}

func (s *service) ApplyPedidos(ctx context.Context, payloads []gateway.PedidoPayload) error {
	pedidos := make([]models.Pedido, 0, len(payloads))
	for _, payload := range payloads {
		pedidos = append(pedidos, pedidoFromPayload(payload))
	}
	if err := s.repo.ReplaceAll(ctx, pedidos); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "replacing pedidos")
	}
	s.logg.Info(s.logg.WithEntity(ctx, "pedidos"), "pedido snapshot applied")
	return s.publish(ctx)
}

func (s *service) Pedidos(ctx context.Context, filter PedidoFilter) ([]models.Pedido, error) {
	pedidos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing pedidos")
	}
	return pedidos, nil
}

func (s *service) Pedido(ctx context.Context, id int) (*models.Pedido, error) {
	pedido, err := s.repo.Find(ctx, id)
	if IsNotFound(err) {
		return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("pedido %d not found", id))
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading pedido")
	}
	return pedido, nil
}

func (s *service) Pendientes(ctx context.Context) ([]models.Pedido, error) {
	pedidos, err := s.repo.ListPendientes(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing pendientes")
	}
	return pedidos, nil
}

func (s *service) GuardarLocal(ctx context.Context, pedido *models.Pedido) error {
	if pedido == nil {
		return errors.New(errors.CodeValidation, "pedido is required")
	}
	if pedido.ProveedorID == 0 {
		return errors.New(errors.CodeValidation, "pedido requires a proveedor")
	}
	if len(pedido.Detalles) == 0 {
		return errors.New(errors.CodeValidation, "pedido requires at least one linea")
	}
	if pedido.Estado == "" {
		pedido.Estado = models.EstadoPendienteEnvio
	}
	if err := s.repo.Save(ctx, pedido); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving pedido")
	}
	s.logg.Info(s.logg.WithPedidoID(ctx, pedido.ID), "pedido saved locally")
	return s.publish(ctx)
}

func (s *service) CambiarEstado(ctx context.Context, pedidoID int, estado string) error {
	if !estadosPermitidos[estado] {
		return errors.New(errors.CodeValidation, fmt.Sprintf("estado %q not allowed", estado))
	}

	actual, err := s.Pedido(ctx, pedidoID)
	if err != nil {
		return err
	}
	// Closure is terminal.
	if actual.Estado == models.EstadoCerrado && estado != models.EstadoCerrado {
		return errors.New(errors.CodeStateConflict, "pedido already cerrado")
	}

	if err := s.repo.UpdateEstado(ctx, pedidoID, estado); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating estado")
	}
	ctx = s.logg.WithField(s.logg.WithPedidoID(ctx, pedidoID), "estado", estado)
	s.logg.Info(ctx, "pedido estado updated")
	return s.publish(ctx)
}

// MarcarUltimoEnviado flips the supplier's most recent pending order to
// enviado after a successful delivery and returns it.
func (s *service) MarcarUltimoEnviado(ctx context.Context, proveedorID int) (*models.Pedido, error) {
	pedido, err := s.repo.FindUltimoPendiente(ctx, proveedorID)
	if IsNotFound(err) {
		return nil, errors.New(errors.CodeNotFound, "no pending pedido for proveedor")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading pending pedido")
	}
	if err := s.repo.UpdateEstado(ctx, pedido.ID, models.EstadoEnviado); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "marking pedido enviado")
	}
	pedido.Estado = models.EstadoEnviado
	s.logg.Info(s.logg.WithPedidoID(ctx, pedido.ID), "pedido marked enviado")
	if err := s.publish(ctx); err != nil {
		return nil, err
	}
	return pedido, nil
}

func (s *service) ConfirmarLinea(ctx context.Context, pedidoID, productoID int, confirmado bool) error {
	if err := s.repo.SetConfirmado(ctx, pedidoID, productoID, confirmado); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating linea confirmation")
	}
	return nil
}

func (s *service) Eliminar(ctx context.Context, pedidoID int) error {
	err := s.repo.Delete(ctx, pedidoID)
	if IsNotFound(err) {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("pedido %d not found", pedidoID))
	}
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting pedido")
	}
	return s.publish(ctx)
}

func (s *service) publish(ctx context.Context) error {
	pedidos, err := s.repo.List(ctx, PedidoFilter{})
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "reloading pedidos")
	}
	s.feed.Publish(pedidos)
	return nil
}
