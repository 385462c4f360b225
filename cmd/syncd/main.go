package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gestionpedidos/pedidos-sync/api/routes"
	"github.com/gestionpedidos/pedidos-sync/internal/catalog"
	"github.com/gestionpedidos/pedidos-sync/internal/delivery"
	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/internal/orders"
	"github.com/gestionpedidos/pedidos-sync/internal/purchase"
	"github.com/gestionpedidos/pedidos-sync/internal/syncer"
	"github.com/gestionpedidos/pedidos-sync/pkg/config"
	"github.com/gestionpedidos/pedidos-sync/pkg/db"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/metrics"
	"github.com/gestionpedidos/pedidos-sync/pkg/notify"
	"github.com/gestionpedidos/pedidos-sync/pkg/settings"
	"github.com/gestionpedidos/pedidos-sync/pkg/watch"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "syncd"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "syncd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open local store", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing local store", err)
		}
	}()

	if err := dbClient.Migrate(); err != nil {
		logg.Error(context.Background(), "failed to migrate local schema", err)
		os.Exit(1)
	}

	settingsStore := settings.NewStore(dbClient.DB())
	queue := notify.NewQueue(cfg.Notify.QueueSize)

	registry := prometheus.NewRegistry()
	syncMetrics := metrics.NewSyncMetrics(registry)

	proveedorFeed := watch.NewFeed[models.Proveedor]()
	productoFeed := watch.NewFeed[catalog.ProductoView]()
	pedidoFeed := watch.NewFeed[models.Pedido]()

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg, proveedorFeed, productoFeed)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), logg, pedidoFeed)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	remote, err := gateway.NewClient(settingsStore, cfg.Remote, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	policy, err := syncer.NewPolicy(settingsStore, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh policy", err)
		os.Exit(1)
	}

	syncService, err := syncer.NewService(remote, catalogService, ordersService, policy, queue, syncMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	purchaseService, err := purchase.NewService(purchase.NewRepository(dbClient.DB()), ordersService, catalogService, logg, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	deliveryService, err := delivery.NewService(purchaseService, ordersService, remote, syncService, queue, syncMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting sync server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, settingsStore, queue, registry,
			syncService, catalogService, ordersService, purchaseService, deliveryService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "sync server stopped unexpectedly", err)
		os.Exit(1)
	}
}
