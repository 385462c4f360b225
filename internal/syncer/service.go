package syncer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/metrics"
	"github.com/gestionpedidos/pedidos-sync/pkg/notify"
	"golang.org/x/sync/errgroup"
)

// MensajeSinServidor is queued once when every entity fails to refresh.
const MensajeSinServidor = "No se pudo sincronizar con el servidor."

type remoteSource interface {
	GetProveedores(ctx context.Context) ([]gateway.ProveedorPayload, error)
	GetProductos(ctx context.Context) ([]gateway.ProductoPayload, error)
	GetPedidos(ctx context.Context) ([]gateway.PedidoPayload, error)
}

type catalogApplier interface {
	ApplyProveedores(ctx context.Context, payloads []gateway.ProveedorPayload) error
	ApplyProductos(ctx context.Context, payloads []gateway.ProductoPayload) error
}

type pedidoApplier interface {
	ApplyPedidos(ctx context.Context, payloads []gateway.PedidoPayload) error
}

// EntityResult reports one entity's outcome inside a refresh round.
type EntityResult struct {
	Entity    string `json:"entity"`
	Refreshed bool   `json:"refreshed"`
	Skipped   bool   `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

// Result is the outcome of a full refresh round.
type Result struct {
	Proveedores EntityResult `json:"proveedores"`
	Productos   EntityResult `json:"productos"`
	Pedidos     EntityResult `json:"pedidos"`
	Duration    string       `json:"duration"`
}

// failedAll reports whether every entity failed. A fresh-cache skip counts
// as success, so it never triggers the offline notification on its own.
func (r Result) failedAll() bool {
	for _, entity := range []EntityResult{r.Proveedores, r.Productos, r.Pedidos} {
		if entity.Error == "" {
			return false
		}
	}
	return true
}

// Service drives the three-entity refresh round.
type Service interface {
	RefreshAll(ctx context.Context, force bool) (*Result, error)
	InFlight() bool
}

type service struct {
	remote   remoteSource
	catalog  catalogApplier
	pedidos  pedidoApplier
	policy   *Policy
	queue    *notify.Queue
	metrics  *metrics.SyncMetrics
	logg     *logger.Logger
	inFlight atomic.Bool
}

// NewService builds the sync orchestrator with the required dependencies.
func NewService(
	remote remoteSource,
	catalog catalogApplier,
	pedidos pedidoApplier,
	policy *Policy,
	queue *notify.Queue,
	syncMetrics *metrics.SyncMetrics,
	logg *logger.Logger,
) (Service, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote source required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog applier required")
	}
	if pedidos == nil {
		return nil, fmt.Errorf("pedido applier required")
	}
	if policy == nil {
		return nil, fmt.Errorf("refresh policy required")
	}
	if queue == nil {
		return nil, fmt.Errorf("notification queue required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		remote:  remote,
		catalog: catalog,
		pedidos: pedidos,
		policy:  policy,
		queue:   queue,
		metrics: syncMetrics,
		logg:    logg,
	}, nil
}

// RefreshAll fans the three entities out concurrently. Overlapping rounds
// coalesce: a second caller gets a conflict instead of a duplicate round.
// When every entity fails, a single notification is queued.
func (s *service) RefreshAll(ctx context.Context, force bool) (*Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, errors.New(errors.CodeConflict, "sync already in progress")
	}
	defer s.inFlight.Store(false)

	started := time.Now()
	result := &Result{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result.Proveedores = s.refreshProveedores(groupCtx, force)
		return nil
	})
	group.Go(func() error {
		result.Productos = s.refreshProductos(groupCtx, force)
		return nil
	})
	group.Go(func() error {
		// Pedidos bypass the cache window so deliveries are always visible.
		result.Pedidos = s.refreshPedidos(groupCtx)
		return nil
	})
	_ = group.Wait()

	result.Duration = time.Since(started).String()
	if result.failedAll() {
		s.queue.Publish(MensajeSinServidor)
		s.logg.Warn(ctx, "all entities failed to refresh")
	}
	return result, nil
}

func (s *service) InFlight() bool {
	return s.inFlight.Load()
}

func (s *service) refreshProveedores(ctx context.Context, force bool) EntityResult {
	return s.refreshEntity(ctx, EntityProveedores, force, true, func(ctx context.Context) error {
		payloads, err := s.remote.GetProveedores(ctx)
		if err != nil {
			return err
		}
		return s.catalog.ApplyProveedores(ctx, payloads)
	})
}

func (s *service) refreshProductos(ctx context.Context, force bool) EntityResult {
	return s.refreshEntity(ctx, EntityProductos, force, true, func(ctx context.Context) error {
		payloads, err := s.remote.GetProductos(ctx)
		if err != nil {
			return err
		}
		return s.catalog.ApplyProductos(ctx, payloads)
	})
}

func (s *service) refreshPedidos(ctx context.Context) EntityResult {
	return s.refreshEntity(ctx, EntityPedidos, true, false, func(ctx context.Context) error {
		payloads, err := s.remote.GetPedidos(ctx)
		if err != nil {
			return err
		}
		return s.pedidos.ApplyPedidos(ctx, payloads)
	})
}

func (s *service) refreshEntity(ctx context.Context, entity string, force, stamp bool, fetch func(context.Context) error) EntityResult {
	result := EntityResult{Entity: entity}
	ctx = s.logg.WithEntity(ctx, entity)

	needed, err := s.policy.ShouldRefresh(ctx, entity, force)
	if err != nil {
		result.Error = err.Error()
		s.metrics.IncFailure(entity)
		s.logg.Error(ctx, "refresh policy check failed", err)
		return result
	}
	if !needed {
		result.Skipped = true
		s.logg.Debug(ctx, "snapshot still fresh, refresh skipped")
		return result
	}

	started := time.Now()
	err = fetch(ctx)
	s.metrics.ObserveDuration(entity, time.Since(started))

	// A missing base URL fails the attempt like any other error. A full
	// round without a configured server ends in the offline notification.
	if err != nil {
		result.Error = err.Error()
		s.metrics.IncFailure(entity)
		s.logg.Error(ctx, "entity refresh failed", err)
		return result
	}

	result.Refreshed = true
	s.metrics.IncSuccess(entity)
	if stamp {
		if err := s.policy.MarkSynced(ctx, entity); err != nil {
			s.logg.Warn(ctx, "failed to stamp last sync")
		}
	}
	s.logg.Info(ctx, "entity refreshed")
	return result
}
