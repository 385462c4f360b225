package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	pkgerrors "github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/notify"
	"github.com/rs/zerolog"
)

type stubRemote struct {
	mu              sync.Mutex
	proveedoresErr  error
	productosErr    error
	pedidosErr      error
	proveedoresHits int
	productosHits   int
	pedidosHits     int
	block           chan struct{}
}

func (s *stubRemote) GetProveedores(ctx context.Context) ([]gateway.ProveedorPayload, error) {
	s.mu.Lock()
	s.proveedoresHits++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	if s.proveedoresErr != nil {
		return nil, s.proveedoresErr
	}
	return []gateway.ProveedorPayload{{ID: 1, Nombre: "Distribuidora Norte"}}, nil
}

func (s *stubRemote) GetProductos(ctx context.Context) ([]gateway.ProductoPayload, error) {
	s.mu.Lock()
	s.productosHits++
	s.mu.Unlock()
	if s.productosErr != nil {
		return nil, s.productosErr
	}
	return []gateway.ProductoPayload{{ID: 9, Nombre: "Cafe molido"}}, nil
}

func (s *stubRemote) GetPedidos(ctx context.Context) ([]gateway.PedidoPayload, error) {
	s.mu.Lock()
	s.pedidosHits++
	s.mu.Unlock()
	if s.pedidosErr != nil {
		return nil, s.pedidosErr
	}
	return []gateway.PedidoPayload{{ID: 3, ProveedorID: 1}}, nil
}

type stubCatalog struct {
	proveedoresErr error
	productosErr   error
}

func (s *stubCatalog) ApplyProveedores(ctx context.Context, payloads []gateway.ProveedorPayload) error {
	return s.proveedoresErr
}

func (s *stubCatalog) ApplyProductos(ctx context.Context, payloads []gateway.ProductoPayload) error {
	return s.productosErr
}

type stubPedidos struct {
	err error
}

func (s *stubPedidos) ApplyPedidos(ctx context.Context, payloads []gateway.PedidoPayload) error {
	return s.err
}

func newTestSyncer(t *testing.T, remote *stubRemote, clockMs int64) (Service, *notify.Queue) {
	t.Helper()
	policy, err := NewPolicy(newTestStore(t), fixedClock(clockMs))
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	queue := notify.NewQueue(16)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(remote, &stubCatalog{}, &stubPedidos{}, policy, queue, nil, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, queue
}

func TestRefreshAllSucceedsWithoutNotification(t *testing.T) {
	remote := &stubRemote{}
	svc, queue := newTestSyncer(t, remote, 1_000_000_000_000)

	result, err := svc.RefreshAll(context.Background(), false)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	for _, entity := range []EntityResult{result.Proveedores, result.Productos, result.Pedidos} {
		if !entity.Refreshed || entity.Error != "" {
			t.Fatalf("expected refreshed entity, got %+v", entity)
		}
	}
	if queue.Len() != 0 {
		t.Fatalf("expected no notification, queue has %d", queue.Len())
	}
}

func TestAllEntitiesFailingQueuesSingleNotification(t *testing.T) {
	boom := errors.New("connection refused")
	remote := &stubRemote{proveedoresErr: boom, productosErr: boom, pedidosErr: boom}
	svc, queue := newTestSyncer(t, remote, 1_000_000_000_000)

	result, err := svc.RefreshAll(context.Background(), false)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	if result.Proveedores.Error == "" || result.Pedidos.Error == "" {
		t.Fatalf("expected failures recorded, got %+v", result)
	}

	messages := queue.Drain()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one notification, got %v", messages)
	}
	if messages[0] != MensajeSinServidor {
		t.Fatalf("unexpected message %q", messages[0])
	}
}

func TestPartialFailureDoesNotNotify(t *testing.T) {
	remote := &stubRemote{productosErr: errors.New("HTTP 500")}
	svc, queue := newTestSyncer(t, remote, 1_000_000_000_000)

	result, err := svc.RefreshAll(context.Background(), false)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	if !result.Proveedores.Refreshed || result.Productos.Error == "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if queue.Len() != 0 {
		t.Fatalf("expected no notification on partial failure, got %d", queue.Len())
	}
}

func TestFreshSnapshotSkipsCatalogButNotPedidos(t *testing.T) {
	remote := &stubRemote{}
	store := newTestStore(t)
	now := int64(1_000_000_000_000)
	ctx := context.Background()
	_ = store.SetLastSync(ctx, EntityProveedores, now)
	_ = store.SetLastSync(ctx, EntityProductos, now)

	policy, _ := NewPolicy(store, fixedClock(now))
	queue := notify.NewQueue(16)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(remote, &stubCatalog{}, &stubPedidos{}, policy, queue, nil, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.RefreshAll(ctx, false)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	if !result.Proveedores.Skipped || !result.Productos.Skipped {
		t.Fatalf("expected catalog entities skipped, got %+v", result)
	}
	if !result.Pedidos.Refreshed {
		t.Fatalf("expected pedidos refreshed regardless of stamps, got %+v", result.Pedidos)
	}
	if remote.proveedoresHits != 0 || remote.productosHits != 0 {
		t.Fatalf("expected no catalog fetches, got %d/%d", remote.proveedoresHits, remote.productosHits)
	}

	// Force bypasses the window.
	result, err = svc.RefreshAll(ctx, true)
	if err != nil {
		t.Fatalf("forced refresh: %v", err)
	}
	if !result.Proveedores.Refreshed || !result.Productos.Refreshed {
		t.Fatalf("expected forced refresh, got %+v", result)
	}
}

func TestMissingServerURLFailsTheRound(t *testing.T) {
	remote := &stubRemote{
		proveedoresErr: gateway.ErrNoBaseURL,
		productosErr:   gateway.ErrNoBaseURL,
		pedidosErr:     gateway.ErrNoBaseURL,
	}
	svc, queue := newTestSyncer(t, remote, 1_000_000_000_000)

	result, err := svc.RefreshAll(context.Background(), false)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	for _, entity := range []EntityResult{result.Proveedores, result.Productos, result.Pedidos} {
		if entity.Error == "" || entity.Refreshed {
			t.Fatalf("expected failed entity without a server, got %+v", entity)
		}
	}

	messages := queue.Drain()
	if len(messages) != 1 || messages[0] != MensajeSinServidor {
		t.Fatalf("expected single offline notification, got %v", messages)
	}
}

func TestFreshCatalogWithoutServerStaysSilent(t *testing.T) {
	remote := &stubRemote{pedidosErr: gateway.ErrNoBaseURL}
	store := newTestStore(t)
	now := int64(1_000_000_000_000)
	ctx := context.Background()
	_ = store.SetLastSync(ctx, EntityProveedores, now)
	_ = store.SetLastSync(ctx, EntityProductos, now)

	policy, _ := NewPolicy(store, fixedClock(now))
	queue := notify.NewQueue(16)
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(remote, &stubCatalog{}, &stubPedidos{}, policy, queue, nil, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.RefreshAll(ctx, false)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	if !result.Proveedores.Skipped || !result.Productos.Skipped {
		t.Fatalf("expected fresh catalog skipped, got %+v", result)
	}
	if result.Pedidos.Error == "" {
		t.Fatalf("expected pedidos failure without a server, got %+v", result.Pedidos)
	}
	// A fresh cache counts as success, so the round is only partial.
	if queue.Len() != 0 {
		t.Fatalf("expected no notification, got %d", queue.Len())
	}
}

func TestOverlappingRoundsAreCoalesced(t *testing.T) {
	remote := &stubRemote{block: make(chan struct{})}
	svc, _ := newTestSyncer(t, remote, 1_000_000_000_000)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.RefreshAll(context.Background(), true)
	}()

	// Wait until the first round is holding the in-flight slot.
	deadline := time.After(time.Second)
	for !svc.InFlight() {
		select {
		case <-deadline:
			t.Fatal("first round never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := svc.RefreshAll(context.Background(), true)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for overlapping round, got %v", err)
	}

	close(remote.block)
	<-done
	if svc.InFlight() {
		t.Fatal("in-flight flag must clear after the round")
	}
}
