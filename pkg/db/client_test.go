package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gestionpedidos/pedidos-sync/pkg/config"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
)

func TestNewMigrateAndPing(t *testing.T) {
	cfg := config.DBConfig{Path: filepath.Join(t.TempDir(), "test.db"), MaxOpenConns: 1}

	client, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer client.Close()

	if err := client.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	// Cascade delete should remove detalle rows with their pedido.
	pedido := models.Pedido{
		FechaPedido:          "01/08/2026",
		FechaEntregaEsperada: "08/08/2026",
		ProveedorID:          1,
		ProveedorNombre:      "Distribuidora Norte",
		Estado:               models.EstadoPendienteEnvio,
		Detalles: []models.DetallePedido{
			{ProductoID: 7, ProductoNombre: "Cafe molido", CantidadPedida: 2, PrecioUnitario: 10},
		},
	}
	if err := client.DB().Create(&pedido).Error; err != nil {
		t.Fatalf("create pedido: %v", err)
	}
	if err := client.DB().Delete(&models.Pedido{}, pedido.ID).Error; err != nil {
		t.Fatalf("delete pedido: %v", err)
	}
	var count int64
	if err := client.DB().Model(&models.DetallePedido{}).Where("pedido_id = ?", pedido.ID).Count(&count).Error; err != nil {
		t.Fatalf("count detalles: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cascade delete, %d detalle rows remain", count)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}
