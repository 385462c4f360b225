package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gestionpedidos/pedidos-sync/internal/catalog"
	"github.com/gestionpedidos/pedidos-sync/internal/delivery"
	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/internal/orders"
	"github.com/gestionpedidos/pedidos-sync/internal/purchase"
	"github.com/gestionpedidos/pedidos-sync/internal/syncer"
	"github.com/gestionpedidos/pedidos-sync/pkg/config"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"github.com/gestionpedidos/pedidos-sync/pkg/notify"
	"github.com/gestionpedidos/pedidos-sync/pkg/settings"
	"github.com/gestionpedidos/pedidos-sync/pkg/watch"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// newTestRouter wires the full service stack over an in-memory store, the
// same composition main performs. No remote server is configured, so sync
// and delivery run in local-only mode.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Proveedor{}, &models.Producto{}, &models.Presentacion{},
		&models.Pedido{}, &models.DetallePedido{},
		&models.Compra{}, &models.DetalleCompra{},
		&models.Ajuste{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{App: config.AppConfig{Env: "dev", Port: "0"}}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	store := settings.NewStore(conn)
	queue := notify.NewQueue(8)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), logg, watch.NewFeed[models.Proveedor](), watch.NewFeed[catalog.ProductoView]())
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	ordersSvc, err := orders.NewService(orders.NewRepository(conn), logg, watch.NewFeed[models.Pedido]())
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	remote, err := gateway.NewClient(store, config.RemoteConfig{GetTimeout: time.Second, PostTimeout: time.Second}, logg)
	if err != nil {
		t.Fatalf("gateway client: %v", err)
	}
	policy, err := syncer.NewPolicy(store, nil)
	if err != nil {
		t.Fatalf("refresh policy: %v", err)
	}
	syncSvc, err := syncer.NewService(remote, catalogSvc, ordersSvc, policy, queue, nil, logg)
	if err != nil {
		t.Fatalf("sync service: %v", err)
	}
	purchaseSvc, err := purchase.NewService(purchase.NewRepository(conn), ordersSvc, catalogSvc, logg, nil)
	if err != nil {
		t.Fatalf("purchase service: %v", err)
	}
	deliverySvc, err := delivery.NewService(purchaseSvc, ordersSvc, remote, syncSvc, queue, nil, logg)
	if err != nil {
		t.Fatalf("delivery service: %v", err)
	}

	return NewRouter(cfg, logg, stubPinger{}, store, queue, nil,
		syncSvc, catalogSvc, ordersSvc, purchaseSvc, deliverySvc)
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthAndUnknownRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/health/live", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", w.Code)
	}
	if env := w.Header().Get("X-Pedidos-Env"); env != "dev" {
		t.Fatalf("unexpected env header %q", env)
	}

	w = doRequest(t, router, http.MethodGet, "/health/ready", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", w.Code)
	}
	if rid := w.Header().Get("X-Request-Id"); rid == "" {
		t.Fatalf("expected a request id header")
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", w.Code)
	}
}

func TestRouterServerURLRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/config/servidor", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get url: expected 200, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/config/servidor", map[string]string{"url": "http://192.168.1.50:8080"})
	if w.Code != http.StatusOK {
		t.Fatalf("put url: expected 200, got %d", w.Code)
	}

	var body struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	w = doRequest(t, router, http.MethodGet, "/api/v1/config/servidor", nil)
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode url: %v", err)
	}
	if body.Data.URL != "http://192.168.1.50:8080" {
		t.Fatalf("unexpected stored url %q", body.Data.URL)
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/config/servidor", map[string]string{"url": "not a url"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid url: expected 400, got %d", w.Code)
	}
}

func TestRouterSyncWithoutServerFailsAndNotifies(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/sync", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sync: expected 200, got %d", w.Code)
	}

	var body struct {
		Data syncer.Result `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode sync result: %v", err)
	}
	for _, entity := range []syncer.EntityResult{body.Data.Proveedores, body.Data.Productos, body.Data.Pedidos} {
		if entity.Error == "" || entity.Refreshed {
			t.Fatalf("expected %s to fail without a server, got %+v", entity.Entity, entity)
		}
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/notificaciones", nil)
	var notif struct {
		Data struct {
			Mensajes []string `json:"mensajes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&notif); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notif.Data.Mensajes) != 1 || notif.Data.Mensajes[0] != syncer.MensajeSinServidor {
		t.Fatalf("expected one offline notification, got %v", notif.Data.Mensajes)
	}
}

func TestRouterDraftLifecycle(t *testing.T) {
	router := newTestRouter(t)

	seedCatalogThroughSync(t, router)

	w := doRequest(t, router, http.MethodPut, "/api/v1/pedidos/borrador/proveedor", map[string]int{"proveedorId": 4})
	if w.Code != http.StatusOK {
		t.Fatalf("set proveedor: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPost, "/api/v1/pedidos/borrador/lineas", map[string]any{
		"productoId": 9, "cantidad": 3.0, "precio": 75.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add line: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodPost, "/api/v1/pedidos/borrador/guardar", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("save draft: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/pedidos/?estado=pendiente_envio", nil)
	var list struct {
		Data []models.Pedido `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decode pedidos: %v", err)
	}
	if len(list.Data) != 1 {
		t.Fatalf("expected 1 pending pedido, got %d", len(list.Data))
	}
	if list.Data[0].TotalNeto != 225 {
		t.Fatalf("expected total 225, got %v", list.Data[0].TotalNeto)
	}
}

func TestRouterRejectsMalformedIdentifiers(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/pedidos/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric pedido id, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/pedidos/999", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing pedido, got %d", w.Code)
	}
}

// seedCatalogThroughSync loads a supplier and a product via a fake remote
// server, exercising the full sync path.
func seedCatalogThroughSync(t *testing.T, router http.Handler) {
	t.Helper()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/proveedores":
			_, _ = w.Write([]byte(`[{"id":4,"nombre":"Distribuidora Norte"}]`))
		case "/productos":
			_, _ = w.Write([]byte(`[{"id":9,"nombre":"Cafe molido","presentaciones":[{"id":90,"nombre":"Bolsa 500g","esUnidadBase":true,"costo":80,"precioVenta":110}]}]`))
		case "/pedidos":
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer remote.Close()

	w := doRequest(t, router, http.MethodPut, "/api/v1/config/servidor", map[string]string{"url": remote.URL})
	if w.Code != http.StatusOK {
		t.Fatalf("point at fake server: expected 200, got %d", w.Code)
	}
	w = doRequest(t, router, http.MethodPost, "/api/v1/sync?force=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("seed sync: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	// Back to local-only so later requests never leave the process.
	w = doRequest(t, router, http.MethodPut, "/api/v1/config/servidor", map[string]string{"url": ""})
	if w.Code != http.StatusOK {
		t.Fatalf("reset url: expected 200, got %d", w.Code)
	}
}
