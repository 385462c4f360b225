package orders

import (
	"github.com/gestionpedidos/pedidos-sync/internal/gateway"
	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
)

// PedidoFilter narrows order listings. Busqueda matches the supplier
// name, a product name, or a line barcode.
type PedidoFilter struct {
	ProveedorID *int
	Estado      string
	Busqueda    string
}

func pedidoFromPayload(p gateway.PedidoPayload) models.Pedido {
	detalles := make([]models.DetallePedido, 0, len(p.Detalles))
	for _, d := range p.Detalles {
		detalles = append(detalles, models.DetallePedido{
			ID:                 d.ID,
			PedidoID:           p.ID,
			ProductoID:         d.ProductoID,
			ProductoNombre:     d.ProductoNombre,
			PresentacionID:     d.PresentacionID,
			PresentacionNombre: d.PresentacionNombre,
			CodigoBarras:       d.CodigoBarras,
			CantidadPedida:     d.CantidadPedida,
			PrecioUnitario:     d.PrecioUnitario,
			IVA:                d.IVA,
			CantidadRecibida:   d.CantidadRecibida,
			SubtotalProducto:   d.SubtotalProducto,
			CostoUnitarioFinal: d.CostoUnitarioFinal,
		})
	}
	return models.Pedido{
		ID:                   p.ID,
		FechaPedido:          p.FechaPedido,
		FechaEntregaEsperada: p.FechaEntregaEsperada,
		FechaEntregaReal:     p.FechaEntregaReal,
		ProveedorID:          p.ProveedorID,
		ProveedorNombre:      p.ProveedorNombre,
		Estado:               p.Estado,
		Observaciones:        p.Observaciones,
		Flete:                p.Flete,
		TotalNeto:            p.TotalNeto,
		Detalles:             detalles,
	}
}

// RequestFromPedido shapes a locally stored pedido into the POST body the
// server accepts. The server recomputes its own totals; the subtotal
// fields are sent as stored and the tax extension fields stay zero.
func RequestFromPedido(pedido models.Pedido) gateway.PedidoRequest {
	detalles := make([]gateway.DetallePedidoRequest, 0, len(pedido.Detalles))
	subtotal := 0.0
	for _, d := range pedido.Detalles {
		neto := d.CantidadPedida * d.PrecioUnitario
		subtotal += neto
		detalles = append(detalles, gateway.DetallePedidoRequest{
			ProductoID:     d.ProductoID,
			PresentacionID: d.PresentacionID,
			CantidadPedida: d.CantidadPedida,
			PrecioUnitario: d.PrecioUnitario,
			IVA:            d.IVA,
			Neto:           neto,
		})
	}
	return gateway.PedidoRequest{
		FechaPedido:          pedido.FechaPedido,
		FechaEntregaEsperada: pedido.FechaEntregaEsperada,
		ProveedorID:          pedido.ProveedorID,
		Estado:               models.EstadoRequerido,
		Observaciones:        pedido.Observaciones,
		Flete:                pedido.Flete,
		Detalles:             detalles,
		SubtotalProductos:    subtotal,
		BaseGravableTotal:    subtotal,
		SubtotalConImpuestos: subtotal,
		SubtotalSinFlete:     subtotal,
		Neto:                 subtotal + pedido.Flete,
	}
}
