package delivery

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/internal/orders"
	"github.com/gestionpedidos/pedidos-sync/internal/purchase"
	"github.com/gestionpedidos/pedidos-sync/internal/syncer"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/metrics"
	"github.com/gestionpedidos/pedidos-sync/pkg/notify"
)

// Status of a delivery attempt. Every attempt lands the order locally
// first, so none of these lose data.
type Status string

const (
	StatusEnviado       Status = "enviado"
	StatusGuardadoLocal Status = "guardado_local"
	StatusErrorServidor Status = "error_servidor"
	StatusSinConexion   Status = "sin_conexion"
)

// User-facing delivery messages.
const (
	MensajeEnviado       = "Pedido enviado correctamente."
	MensajeGuardadoLocal = "Pedido guardado localmente."
	MensajeSinConexion   = "Sin conexión con el servidor. El pedido quedó guardado localmente."
	MensajeSinPendientes = "No hay pedidos pendientes por enviar."
	MensajeSinServidor   = "No hay URL de servidor. No se puede enviar."
)

// Outcome reports how a single delivery attempt ended.
type Outcome struct {
	Status  Status         `json:"status"`
	Mensaje string         `json:"mensaje"`
	Pedido  *models.Pedido `json:"pedido,omitempty"`
}

// RetryResult tallies a retry round over all pending orders.
type RetryResult struct {
	Pendientes int    `json:"pendientes"`
	Enviados   int    `json:"enviados"`
	Fallidos   int    `json:"fallidos"`
	Mensaje    string `json:"mensaje"`
}

type draftSource interface {
	Borrador(ctx context.Context) purchase.DraftView
	GuardarPedidoLocal(ctx context.Context) (*models.Pedido, error)
}

type pedidoStore interface {
	Pendientes(ctx context.Context) ([]models.Pedido, error)
	MarcarUltimoEnviado(ctx context.Context, proveedorID int) (*models.Pedido, error)
	CambiarEstado(ctx context.Context, pedidoID int, estado string) error
}

type remoteSender interface {
	PostPedido(ctx context.Context, order gateway.PedidoRequest) error
}

type resyncer interface {
	RefreshAll(ctx context.Context, force bool) (*syncer.Result, error)
}

// Service pushes drafted and pending orders to the remote server.
type Service interface {
	EnviarPedido(ctx context.Context) (*Outcome, error)
	ReintentarPendientes(ctx context.Context) (*RetryResult, error)
}

type service struct {
	drafts  draftSource
	pedidos pedidoStore
	remote  remoteSender
	sync    resyncer
	queue   *notify.Queue
	metrics *metrics.SyncMetrics
	logg    *logger.Logger
}

// NewService builds the delivery service with the required dependencies.
func NewService(
	drafts draftSource,
	pedidos pedidoStore,
	remote remoteSender,
	sync resyncer,
	queue *notify.Queue,
	syncMetrics *metrics.SyncMetrics,
	logg *logger.Logger,
) (Service, error) {
	if drafts == nil {
		return nil, fmt.Errorf("draft source required")
	}
	if pedidos == nil {
		return nil, fmt.Errorf("pedido store required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote sender required")
	}
	if sync == nil {
		return nil, fmt.Errorf("resyncer required")
	}
	if queue == nil {
		return nil, fmt.Errorf("notification queue required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		drafts:  drafts,
		pedidos: pedidos,
		remote:  remote,
		sync:    sync,
		queue:   queue,
		metrics: syncMetrics,
		logg:    logg,
	}, nil
}

// EnviarPedido lands the draft as a pending pedido, then attempts the
// remote delivery. The order survives locally whatever the network does;
// only the reported status changes.
func (s *service) EnviarPedido(ctx context.Context) (*Outcome, error) {
	borrador := s.drafts.Borrador(ctx)
	if borrador.Proveedor == nil {
		return nil, errors.New(errors.CodeValidation, "borrador has no proveedor")
	}
	if len(borrador.Lineas) == 0 {
		return nil, errors.New(errors.CodeValidation, "borrador has no lineas")
	}

	pedido, err := s.drafts.GuardarPedidoLocal(ctx)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithPedidoID(ctx, pedido.ID)

	err = s.remote.PostPedido(ctx, orders.RequestFromPedido(*pedido))
	outcome := s.resolveOutcome(ctx, pedido, err)
	s.queue.Publish(outcome.Mensaje)
	return outcome, nil
}

func (s *service) resolveOutcome(ctx context.Context, pedido *models.Pedido, err error) *Outcome {
	switch {
	case err == nil:
		enviado, markErr := s.pedidos.MarcarUltimoEnviado(ctx, pedido.ProveedorID)
		if markErr != nil {
			s.logg.Error(ctx, "pedido delivered but could not be marked enviado", markErr)
			enviado = pedido
		}
		s.resync(ctx)
		s.metrics.IncDelivery(string(StatusEnviado))
		s.logg.Info(ctx, "pedido delivered")
		return &Outcome{Status: StatusEnviado, Mensaje: MensajeEnviado, Pedido: enviado}

	case stdErrors.Is(err, gateway.ErrNoBaseURL):
		s.metrics.IncDelivery(string(StatusGuardadoLocal))
		s.logg.Info(ctx, "no server configured, pedido kept local")
		return &Outcome{Status: StatusGuardadoLocal, Mensaje: MensajeGuardadoLocal, Pedido: pedido}

	case isConnectivity(err):
		s.metrics.IncDelivery(string(StatusSinConexion))
		s.logg.Warn(ctx, "server unreachable, pedido kept local")
		return &Outcome{Status: StatusSinConexion, Mensaje: MensajeSinConexion, Pedido: pedido}

	default:
		mensaje := "Error del servidor."
		if typed := errors.As(err); typed != nil && typed.Message() != "" {
			mensaje = "Error del servidor: " + typed.Message()
		}
		s.metrics.IncDelivery(string(StatusErrorServidor))
		s.logg.Error(ctx, "server rejected pedido", err)
		return &Outcome{Status: StatusErrorServidor, Mensaje: mensaje, Pedido: pedido}
	}
}

// ReintentarPendientes walks every pending pedido and attempts delivery
// independently, so one rejection does not block the rest. The tally is
// queued as a notification and a sync round runs when anything went out.
func (s *service) ReintentarPendientes(ctx context.Context) (*RetryResult, error) {
	pendientes, err := s.pedidos.Pendientes(ctx)
	if err != nil {
		return nil, err
	}

	result := &RetryResult{Pendientes: len(pendientes)}
	if len(pendientes) == 0 {
		result.Mensaje = MensajeSinPendientes
		s.queue.Publish(result.Mensaje)
		return result, nil
	}

	for i := range pendientes {
		pedido := pendientes[i]
		attemptCtx := s.logg.WithPedidoID(ctx, pedido.ID)

		err := s.remote.PostPedido(attemptCtx, orders.RequestFromPedido(pedido))
		if stdErrors.Is(err, gateway.ErrNoBaseURL) {
			// Without a server every remaining attempt fails the same way.
			result.Mensaje = MensajeSinServidor
			s.queue.Publish(result.Mensaje)
			return result, nil
		}
		if err != nil {
			result.Fallidos++
			s.metrics.IncDelivery(string(deliveryStatus(err)))
			s.logg.Warn(attemptCtx, "retry attempt failed")
			continue
		}

		if err := s.pedidos.CambiarEstado(attemptCtx, pedido.ID, models.EstadoEnviado); err != nil {
			s.logg.Error(attemptCtx, "pedido delivered but could not be marked enviado", err)
		}
		result.Enviados++
		s.metrics.IncDelivery(string(StatusEnviado))
		s.logg.Info(attemptCtx, "pending pedido delivered")
	}

	result.Mensaje = retryMensaje(result)
	s.queue.Publish(result.Mensaje)
	if result.Enviados > 0 {
		s.resync(ctx)
	}
	return result, nil
}

func (s *service) resync(ctx context.Context) {
	if _, err := s.sync.RefreshAll(ctx, true); err != nil {
		// An overlapping round already refreshes the same data.
		s.logg.Debug(ctx, "post-delivery sync skipped")
	}
}

func retryMensaje(result *RetryResult) string {
	switch {
	case result.Fallidos == 0:
		return fmt.Sprintf("%d pedidos enviados correctamente.", result.Enviados)
	case result.Enviados == 0:
		return fmt.Sprintf("%d pedidos no se pudieron enviar.", result.Fallidos)
	default:
		return fmt.Sprintf("%d pedidos enviados, %d no se pudieron enviar.", result.Enviados, result.Fallidos)
	}
}

func isConnectivity(err error) bool {
	typed := errors.As(err)
	return typed != nil && typed.Code() == errors.CodeConnectivity
}

func deliveryStatus(err error) Status {
	if isConnectivity(err) {
		return StatusSinConexion
	}
	return StatusErrorServidor
}
