package purchase

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/gestionpedidos/pedidos-sync/internal/catalog"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
	"gorm.io/gorm"
)

type pedidoStore interface {
	Pedido(ctx context.Context, id int) (*models.Pedido, error)
	ConfirmarLinea(ctx context.Context, pedidoID, productoID int, confirmado bool) error
	CambiarEstado(ctx context.Context, pedidoID int, estado string) error
	GuardarLocal(ctx context.Context, pedido *models.Pedido) error
}

type productoSource interface {
	Producto(ctx context.Context, id int) (*catalog.ProductoView, error)
	Proveedores(ctx context.Context) ([]models.Proveedor, error)
}

// Service owns the receiving session and the order draft. Both are
// single-slot: selecting a new pedido or proveedor replaces the previous
// working state.
type Service interface {
	SeleccionarPedido(ctx context.Context, pedidoID int) (*SessionView, error)
	SeleccionarLinea(ctx context.Context, productoID int) error
	ConfirmarLinea(ctx context.Context, input ConfirmLineInput) error
	EditarLinea(ctx context.Context, input ConfirmLineInput) error
	EliminarLinea(ctx context.Context, productoID int) error
	Finalizar(ctx context.Context) (*models.Compra, error)
	CancelarSesion(ctx context.Context)
	Sesion(ctx context.Context) SessionView
	Compras(ctx context.Context) ([]models.Compra, error)
	EliminarCompra(ctx context.Context, compraID int) error

	SeleccionarProveedor(ctx context.Context, proveedorID int) error
	AgregarLineaBorrador(ctx context.Context, input DraftLineInput) error
	EliminarLineaBorrador(ctx context.Context, productoID int) error
	LimpiarBorrador(ctx context.Context)
	Borrador(ctx context.Context) DraftView
	GuardarPedidoLocal(ctx context.Context) (*models.Pedido, error)
}

type service struct {
	repo    *Repository
	pedidos pedidoStore
	catalog productoSource
	logg    *logger.Logger
	now     func() time.Time

	mu                   sync.Mutex
	pedidoActual         *models.Pedido
	productoSeleccionado *int
	compraActual         *models.Compra

	draftProveedor *models.Proveedor
	draftLineas    []models.DetallePedido
}

// NewService builds the purchase workflow with the required dependencies.
// A nil clock defaults to time.Now.
func NewService(
	repo *Repository,
	pedidos pedidoStore,
	productos productoSource,
	logg *logger.Logger,
	now func() time.Time,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("compra repository required")
	}
	if pedidos == nil {
		return nil, fmt.Errorf("pedido store required")
	}
	if productos == nil {
		return nil, fmt.Errorf("producto source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    repo,
		pedidos: pedidos,
		catalog: productos,
		logg:    logg,
		now:     now,
	}, nil
}

// SeleccionarPedido opens a receiving session against the pedido: a fresh
// compra scaffold with the next purchase number, today's date and the
// pedido's supplier. Any previous session is discarded.
func (s *service) SeleccionarPedido(ctx context.Context, pedidoID int) (*SessionView, error) {
	pedido, err := s.pedidos.Pedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.Estado == models.EstadoCerrado {
		return nil, errors.New(errors.CodeStateConflict, "pedido already cerrado")
	}

	nextID, err := s.repo.NextIDCompra(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "allocating compra number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pedidoActual = pedido
	s.productoSeleccionado = nil
	s.compraActual = &models.Compra{
		IDCompra:    nextID,
		FechaCompra: formatFecha(s.now()),
		Proveedor:   pedido.ProveedorNombre,
		Estado:      models.CompraAbierta,
	}

	s.logg.Info(s.logg.WithPedidoID(ctx, pedidoID), "receiving session opened")
	view := s.sessionViewLocked()
	return &view, nil
}

func (s *service) SeleccionarLinea(ctx context.Context, productoID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pedidoActual == nil {
		return errors.New(errors.CodeStateConflict, "no pedido selected")
	}
	if s.lineaDePedidoLocked(productoID) == nil {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("producto %d not in pedido", productoID))
	}
	s.productoSeleccionado = &productoID
	return nil
}

// ConfirmarLinea records the received quantity and price for the product
// and marks the pedido line confirmed. Re-confirming replaces the
// previous compra line.
func (s *service) ConfirmarLinea(ctx context.Context, input ConfirmLineInput) error {
	if err := s.upsertCompraLinea(ctx, input); err != nil {
		return err
	}

	s.mu.Lock()
	if s.pedidoActual == nil {
		s.mu.Unlock()
		return errors.New(errors.CodeStateConflict, "no pedido selected")
	}
	pedidoID := s.pedidoActual.ID
	if linea := s.lineaDePedidoLocked(input.ProductoID); linea != nil {
		linea.Confirmado = true
	}
	s.mu.Unlock()

	return s.pedidos.ConfirmarLinea(ctx, pedidoID, input.ProductoID, true)
}

// EditarLinea adjusts an already-captured line without touching the
// confirmation flag.
func (s *service) EditarLinea(ctx context.Context, input ConfirmLineInput) error {
	return s.upsertCompraLinea(ctx, input)
}

func (s *service) upsertCompraLinea(ctx context.Context, input ConfirmLineInput) error {
	if input.Cantidad <= 0 || input.Precio <= 0 {
		return errors.New(errors.CodeValidation, "cantidad and precio must be greater than zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pedidoActual == nil || s.compraActual == nil {
		return errors.New(errors.CodeStateConflict, "no pedido selected")
	}
	linea := s.lineaDePedidoLocked(input.ProductoID)
	if linea == nil {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("producto %d not in pedido", input.ProductoID))
	}

	codigo := ""
	if linea.CodigoBarras != nil {
		codigo = *linea.CodigoBarras
	}

	detalles := s.compraActual.Detalles[:0]
	for _, d := range s.compraActual.Detalles {
		if d.ProductoID != input.ProductoID {
			detalles = append(detalles, d)
		}
	}
	s.compraActual.Detalles = append(detalles, models.DetalleCompra{
		ProductoID:     input.ProductoID,
		ProductoNombre: linea.ProductoNombre,
		CodigoBarras:   codigo,
		CantidadCompra: input.Cantidad,
		PrecioUnitario: input.Precio,
	})
	return nil
}

// EliminarLinea drops the captured line and resets the pedido line to
// unconfirmed.
func (s *service) EliminarLinea(ctx context.Context, productoID int) error {
	s.mu.Lock()
	if s.pedidoActual == nil || s.compraActual == nil {
		s.mu.Unlock()
		return errors.New(errors.CodeStateConflict, "no pedido selected")
	}
	pedidoID := s.pedidoActual.ID

	detalles := s.compraActual.Detalles[:0]
	for _, d := range s.compraActual.Detalles {
		if d.ProductoID != productoID {
			detalles = append(detalles, d)
		}
	}
	s.compraActual.Detalles = detalles
	if linea := s.lineaDePedidoLocked(productoID); linea != nil {
		linea.Confirmado = false
	}
	if s.productoSeleccionado != nil && *s.productoSeleccionado == productoID {
		s.productoSeleccionado = nil
	}
	s.mu.Unlock()

	return s.pedidos.ConfirmarLinea(ctx, pedidoID, productoID, false)
}

// Finalizar persists the compra and closes the pedido when every line was
// confirmed. The session is cleared on success either way.
func (s *service) Finalizar(ctx context.Context) (*models.Compra, error) {
	s.mu.Lock()
	if s.pedidoActual == nil || s.compraActual == nil {
		s.mu.Unlock()
		return nil, errors.New(errors.CodeStateConflict, "no pedido selected")
	}
	pedidoID := s.pedidoActual.ID
	compra := s.compraActual
	s.mu.Unlock()

	if err := s.repo.Save(ctx, compra); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving compra")
	}

	pedido, err := s.pedidos.Pedido(ctx, pedidoID)
	if err != nil {
		return nil, err
	}
	todasConfirmadas := true
	for _, linea := range pedido.Detalles {
		if !linea.Confirmado {
			todasConfirmadas = false
			break
		}
	}
	if todasConfirmadas {
		if err := s.pedidos.CambiarEstado(ctx, pedidoID, models.EstadoCerrado); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.pedidoActual = nil
	s.productoSeleccionado = nil
	s.compraActual = nil
	s.mu.Unlock()

	ctx = s.logg.WithField(s.logg.WithPedidoID(ctx, pedidoID), "id_compra", compra.IDCompra)
	s.logg.Info(ctx, "compra finalized")
	return compra, nil
}

func (s *service) CancelarSesion(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pedidoActual = nil
	s.productoSeleccionado = nil
	s.compraActual = nil
}

func (s *service) Sesion(ctx context.Context) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionViewLocked()
}

func (s *service) Compras(ctx context.Context) ([]models.Compra, error) {
	compras, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing compras")
	}
	return compras, nil
}

// EliminarCompra removes a persisted compra with its lines.
func (s *service) EliminarCompra(ctx context.Context, compraID int) error {
	err := s.repo.Delete(ctx, compraID)
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("compra %d not found", compraID))
	}
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting compra")
	}
	s.logg.Info(s.logg.WithField(ctx, "compra_id", compraID), "compra deleted")
	return nil
}

// SeleccionarProveedor sets the supplier the order draft is built for.
func (s *service) SeleccionarProveedor(ctx context.Context, proveedorID int) error {
	proveedores, err := s.catalog.Proveedores(ctx)
	if err != nil {
		return err
	}
	for _, proveedor := range proveedores {
		if proveedor.ID == proveedorID {
			s.mu.Lock()
			s.draftProveedor = &models.Proveedor{ID: proveedor.ID, Nombre: proveedor.Nombre}
			s.mu.Unlock()
			return nil
		}
	}
	return errors.New(errors.CodeNotFound, fmt.Sprintf("proveedor %d not found", proveedorID))
}

// AgregarLineaBorrador adds the product to the draft, one line per
// product: re-adding replaces the previous quantity and price. A
// non-positive price falls back to the product's principal cost.
func (s *service) AgregarLineaBorrador(ctx context.Context, input DraftLineInput) error {
	if input.Cantidad <= 0 {
		return errors.New(errors.CodeValidation, "cantidad must be greater than zero")
	}

	producto, err := s.catalog.Producto(ctx, input.ProductoID)
	if err != nil {
		return err
	}
	precio := input.Precio
	if precio <= 0 {
		precio = producto.Costo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lineas := s.draftLineas[:0]
	for _, linea := range s.draftLineas {
		if linea.ProductoID != input.ProductoID {
			lineas = append(lineas, linea)
		}
	}
	s.draftLineas = append(lineas, models.DetallePedido{
		ProductoID:     producto.ID,
		ProductoNombre: producto.Nombre,
		PresentacionID: producto.PresentacionPrincipalID,
		CodigoBarras:   producto.CodigoBarras,
		CantidadPedida: input.Cantidad,
		PrecioUnitario: precio,
	})
	return nil
}

func (s *service) EliminarLineaBorrador(ctx context.Context, productoID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lineas := s.draftLineas[:0]
	removed := false
	for _, linea := range s.draftLineas {
		if linea.ProductoID == productoID {
			removed = true
			continue
		}
		lineas = append(lineas, linea)
	}
	s.draftLineas = lineas
	if !removed {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("producto %d not in borrador", productoID))
	}
	return nil
}

func (s *service) LimpiarBorrador(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftProveedor = nil
	s.draftLineas = nil
}

func (s *service) Borrador(ctx context.Context) DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := DraftView{Lineas: make([]models.DetallePedido, len(s.draftLineas))}
	copy(view.Lineas, s.draftLineas)
	view.Total = draftTotal(s.draftLineas)
	if s.draftProveedor != nil {
		proveedor := *s.draftProveedor
		view.Proveedor = &proveedor
	}
	return view
}

// GuardarPedidoLocal turns the draft into a pending pedido: today's order
// date, the expected delivery a week out, and the draft total. The draft
// is cleared on success.
func (s *service) GuardarPedidoLocal(ctx context.Context) (*models.Pedido, error) {
	s.mu.Lock()
	if s.draftProveedor == nil {
		s.mu.Unlock()
		return nil, errors.New(errors.CodeValidation, "borrador has no proveedor")
	}
	if len(s.draftLineas) == 0 {
		s.mu.Unlock()
		return nil, errors.New(errors.CodeValidation, "borrador has no lineas")
	}
	proveedor := *s.draftProveedor
	lineas := make([]models.DetallePedido, len(s.draftLineas))
	copy(lineas, s.draftLineas)
	s.mu.Unlock()

	today := s.now()
	pedido := &models.Pedido{
		FechaPedido:          formatFecha(today),
		FechaEntregaEsperada: formatFecha(today.AddDate(0, 0, DiasEntregaEsperada)),
		ProveedorID:          proveedor.ID,
		ProveedorNombre:      proveedor.Nombre,
		Estado:               models.EstadoPendienteEnvio,
		TotalNeto:            draftTotal(lineas),
		Detalles:             lineas,
	}
	if err := s.pedidos.GuardarLocal(ctx, pedido); err != nil {
		return nil, err
	}

	s.LimpiarBorrador(ctx)
	s.logg.Info(s.logg.WithPedidoID(ctx, pedido.ID), "borrador saved as local pedido")
	return pedido, nil
}

func (s *service) lineaDePedidoLocked(productoID int) *models.DetallePedido {
	if s.pedidoActual == nil {
		return nil
	}
	for i := range s.pedidoActual.Detalles {
		if s.pedidoActual.Detalles[i].ProductoID == productoID {
			return &s.pedidoActual.Detalles[i]
		}
	}
	return nil
}

func (s *service) sessionViewLocked() SessionView {
	view := SessionView{
		Pedido:               s.pedidoActual,
		ProductoSeleccionado: s.productoSeleccionado,
		Compra:               s.compraActual,
	}
	if s.compraActual != nil {
		view.Total = s.compraActual.Total()
	}
	return view
}
