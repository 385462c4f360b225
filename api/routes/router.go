package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gestionpedidos/pedidos-sync/api/controllers"
	"github.com/gestionpedidos/pedidos-sync/api/middleware"
	"github.com/gestionpedidos/pedidos-sync/internal/catalog"
	"github.com/gestionpedidos/pedidos-sync/internal/delivery"
	"github.com/gestionpedidos/pedidos-sync/internal/orders"
	"github.com/gestionpedidos/pedidos-sync/internal/purchase"
	"github.com/gestionpedidos/pedidos-sync/internal/syncer"
	"github.com/gestionpedidos/pedidos-sync/pkg/config"
	"github.com/gestionpedidos/pedidos-sync/pkg/db"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/notify"
	"github.com/gestionpedidos/pedidos-sync/pkg/settings"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	settingsStore *settings.Store,
	queue *notify.Queue,
	gatherer prometheus.Gatherer,
	syncService syncer.Service,
	catalogService catalog.Service,
	ordersService orders.Service,
	purchaseService purchase.Service,
	deliveryService delivery.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/estado", controllers.SyncStatus(syncService, logg))
		r.Post("/sync", controllers.RunSync(syncService, logg))
		r.Get("/notificaciones", controllers.DrainNotifications(queue, logg))

		r.Route("/config", func(r chi.Router) {
			r.Get("/servidor", controllers.GetServerURL(settingsStore, logg))
			r.Put("/servidor", controllers.PutServerURL(settingsStore, logg))
		})

		r.Get("/proveedores", controllers.ListProveedores(catalogService, logg))
		r.Route("/productos", func(r chi.Router) {
			r.Get("/", controllers.ListProductos(catalogService, logg))
			r.Get("/{productoId}", controllers.GetProducto(catalogService, logg))
			r.Get("/codigo/{codigo}", controllers.ScanCodigoBarras(catalogService, logg))
		})

		r.Route("/pedidos", func(r chi.Router) {
			r.Get("/", controllers.ListPedidos(ordersService, logg))
			r.Get("/pendientes", controllers.ListPendientes(ordersService, logg))
			r.Post("/reintentar", controllers.PostReintentarPendientes(deliveryService, logg))

			r.Route("/borrador", func(r chi.Router) {
				r.Get("/", controllers.GetBorrador(purchaseService, logg))
				r.Delete("/", controllers.DeleteBorrador(purchaseService, logg))
				r.Put("/proveedor", controllers.PutBorradorProveedor(purchaseService, logg))
				r.Post("/lineas", controllers.PostBorradorLinea(purchaseService, logg))
				r.Delete("/lineas/{productoId}", controllers.DeleteBorradorLinea(purchaseService, logg))
				r.Post("/guardar", controllers.PostBorradorGuardar(purchaseService, logg))
				r.Post("/enviar", controllers.PostBorradorEnviar(deliveryService, logg))
			})

			r.Route("/{pedidoId}", func(r chi.Router) {
				r.Get("/", controllers.GetPedido(ordersService, logg))
				r.Post("/estado", controllers.UpdatePedidoEstado(ordersService, logg))
				r.Delete("/", controllers.DeletePedido(ordersService, logg))
			})
		})

		r.Route("/compras", func(r chi.Router) {
			r.Get("/", controllers.ListCompras(purchaseService, logg))
			r.Delete("/{compraId}", controllers.DeleteCompra(purchaseService, logg))

			r.Route("/sesion", func(r chi.Router) {
				r.Get("/", controllers.GetSesion(purchaseService, logg))
				r.Post("/", controllers.PostSesion(purchaseService, logg))
				r.Delete("/", controllers.DeleteSesion(purchaseService, logg))
				r.Post("/seleccion", controllers.PostSesionSeleccion(purchaseService, logg))
				r.Post("/lineas", controllers.PostSesionLinea(purchaseService, logg))
				r.Put("/lineas", controllers.PutSesionLinea(purchaseService, logg))
				r.Delete("/lineas/{productoId}", controllers.DeleteSesionLinea(purchaseService, logg))
				r.Post("/finalizar", controllers.PostSesionFinalizar(purchaseService, logg))
			})
		})
	})

	return r
}
