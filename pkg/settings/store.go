package settings

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Keys for the persisted settings table.
const (
	KeyBaseURL = "api_url"

	lastSyncPrefix = "ultima_sync_"
)

// Store persists user-level configuration and sync bookkeeping in the
// ajustes table: the server base URL and per-entity last-sync timestamps.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var row models.Ajuste
	err := s.db.WithContext(ctx).Where("clave = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Valor, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clave"}},
			DoUpdates: clause.AssignmentColumns([]string{"valor"}),
		}).
		Create(&models.Ajuste{Clave: key, Valor: value}).Error
}

// BaseURL returns the configured server URL with any trailing slash
// trimmed, or "" when no server has been configured.
func (s *Store) BaseURL(ctx context.Context) (string, error) {
	raw, err := s.get(ctx, KeyBaseURL)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(strings.TrimSpace(raw), "/"), nil
}

func (s *Store) SetBaseURL(ctx context.Context, url string) error {
	return s.set(ctx, KeyBaseURL, strings.TrimSpace(url))
}

// LastSync returns the epoch-millisecond stamp of the last successful sync
// for the entity, or 0 when the entity has never synced.
func (s *Store) LastSync(ctx context.Context, entity string) (int64, error) {
	raw, err := s.get(ctx, lastSyncPrefix+entity)
	if err != nil || raw == "" {
		return 0, err
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, nil
	}
	return ms, nil
}

func (s *Store) SetLastSync(ctx context.Context, entity string, epochMillis int64) error {
	return s.set(ctx, lastSyncPrefix+entity, strconv.FormatInt(epochMillis, 10))
}
