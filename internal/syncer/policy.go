package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/gestionpedidos/pedidos-sync/pkg/settings"
)

// Entities tracked by the sync policy.
const (
	EntityProveedores = "proveedores"
	EntityProductos   = "productos"
	EntityPedidos     = "pedidos"
)

// RefreshIntervalMillis is the cache window for catalog entities. A
// snapshot older than 24 hours is considered stale.
const RefreshIntervalMillis int64 = 86_400_000

// Policy decides whether a cached entity snapshot is still fresh enough
// to skip the network.
type Policy struct {
	stamps *settings.Store
	now    func() time.Time
}

// NewPolicy builds a refresh policy over the settings store. A nil clock
// defaults to time.Now.
func NewPolicy(stamps *settings.Store, now func() time.Time) (*Policy, error) {
	if stamps == nil {
		return nil, fmt.Errorf("settings store required")
	}
	if now == nil {
		now = time.Now
	}
	return &Policy{stamps: stamps, now: now}, nil
}

// ShouldRefresh reports whether the entity needs a network refresh: when
// forced, when it has never synced, or when the last sync is older than
// the refresh interval.
func (p *Policy) ShouldRefresh(ctx context.Context, entity string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	last, err := p.stamps.LastSync(ctx, entity)
	if err != nil {
		return false, err
	}
	if last == 0 {
		return true, nil
	}
	return p.now().UnixMilli()-last > RefreshIntervalMillis, nil
}

// MarkSynced stamps the entity with the current time.
func (p *Policy) MarkSynced(ctx context.Context, entity string) error {
	return p.stamps.SetLastSync(ctx, entity, p.now().UnixMilli())
}
