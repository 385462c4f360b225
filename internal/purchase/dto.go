package purchase

import (
	"time"

	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
)

// FechaLayout is the day-first date format used across the app.
const FechaLayout = "02/01/2006"

// DiasEntregaEsperada is the delivery horizon stamped on locally drafted
// pedidos.
const DiasEntregaEsperada = 7

// ConfirmLineInput carries the received quantity and final price for one
// pedido line during the receiving session.
type ConfirmLineInput struct {
	ProductoID int     `json:"productoId" validate:"required"`
	Cantidad   float64 `json:"cantidad"`
	Precio     float64 `json:"precio"`
}

// DraftLineInput adds or replaces one product on the order draft.
type DraftLineInput struct {
	ProductoID int     `json:"productoId" validate:"required"`
	Cantidad   float64 `json:"cantidad" validate:"gt=0"`
	Precio     float64 `json:"precio" validate:"gte=0"`
}

// SessionView is a snapshot of the receiving session.
type SessionView struct {
	Pedido               *models.Pedido `json:"pedido,omitempty"`
	ProductoSeleccionado *int           `json:"productoSeleccionado,omitempty"`
	Compra               *models.Compra `json:"compra,omitempty"`
	Total                float64        `json:"total"`
}

// DraftView is a snapshot of the order draft.
type DraftView struct {
	Proveedor *models.Proveedor      `json:"proveedor,omitempty"`
	Lineas    []models.DetallePedido `json:"lineas"`
	Total     float64                `json:"total"`
}

func draftTotal(lineas []models.DetallePedido) float64 {
	var total float64
	for _, linea := range lineas {
		total += linea.CantidadPedida * linea.PrecioUnitario
	}
	return total
}

func formatFecha(t time.Time) string {
	return t.Format(FechaLayout)
}
