package orders

import (
	"context"
	"testing"

	"github.com/gestionpedidos/pedidos-sync/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Pedido{}, &models.DetallePedido{}))
	return db
}

func savedPedido(t *testing.T, repo *Repository, fecha string, proveedorID int, estado string, detalles ...models.DetallePedido) *models.Pedido {
	t.Helper()
	pedido := &models.Pedido{
		FechaPedido:     fecha,
		ProveedorID:     proveedorID,
		ProveedorNombre: "Proveedor " + fecha,
		Estado:          estado,
		Detalles:        detalles,
	}
	require.NoError(t, repo.Save(context.Background(), pedido))
	return pedido
}

func TestRepositorySaveGeneratesIDAndBindsLineas(t *testing.T) {
	repo := NewRepository(setupRepoTestDB(t))

	pedido := savedPedido(t, repo, "10/08/2026", 4, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 9, ProductoNombre: "Cafe molido", CantidadPedida: 2, PrecioUnitario: 80},
		models.DetallePedido{ProductoID: 10, ProductoNombre: "Azucar", CantidadPedida: 1, PrecioUnitario: 30},
	)
	require.NotZero(t, pedido.ID)

	loaded, err := repo.Find(context.Background(), pedido.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Detalles, 2)
	for _, linea := range loaded.Detalles {
		assert.Equal(t, pedido.ID, linea.PedidoID)
	}
}

func TestRepositorySaveReplacesLineasOnUpdate(t *testing.T) {
	repo := NewRepository(setupRepoTestDB(t))

	pedido := savedPedido(t, repo, "10/08/2026", 4, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 9, ProductoNombre: "Cafe molido", CantidadPedida: 2, PrecioUnitario: 80},
	)

	pedido.Detalles = []models.DetallePedido{
		{ProductoID: 11, ProductoNombre: "Harina", CantidadPedida: 5, PrecioUnitario: 18},
	}
	require.NoError(t, repo.Save(context.Background(), pedido))

	loaded, err := repo.Find(context.Background(), pedido.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Detalles, 1)
	assert.Equal(t, 11, loaded.Detalles[0].ProductoID)
}

func TestRepositoryListOrdersNewestFirstAndSearchesLineas(t *testing.T) {
	repo := NewRepository(setupRepoTestDB(t))
	ctx := context.Background()

	viejo := savedPedido(t, repo, "01/08/2026", 4, models.EstadoEnviado,
		models.DetallePedido{ProductoID: 9, ProductoNombre: "Cafe molido", CantidadPedida: 1, PrecioUnitario: 80},
	)
	nuevo := savedPedido(t, repo, "15/08/2026", 5, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 10, ProductoNombre: "Azucar", CantidadPedida: 1, PrecioUnitario: 30},
	)

	list, err := repo.List(ctx, PedidoFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, nuevo.ID, list[0].ID)
	assert.Equal(t, viejo.ID, list[1].ID)

	// Search reaches into the lines but must not duplicate headers.
	conCafe := savedPedido(t, repo, "16/08/2026", 4, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 9, ProductoNombre: "Cafe molido", CantidadPedida: 2, PrecioUnitario: 80},
		models.DetallePedido{ProductoID: 12, ProductoNombre: "Cafe soluble", CantidadPedida: 1, PrecioUnitario: 95},
	)
	matches, err := repo.List(ctx, PedidoFilter{Busqueda: "Cafe"})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, conCafe.ID, matches[0].ID)
	assert.Equal(t, viejo.ID, matches[1].ID)
}

func TestRepositoryFindUltimoPendientePicksHighestID(t *testing.T) {
	repo := NewRepository(setupRepoTestDB(t))
	ctx := context.Background()

	savedPedido(t, repo, "10/08/2026", 4, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 9, CantidadPedida: 1, PrecioUnitario: 80},
	)
	ultimo := savedPedido(t, repo, "12/08/2026", 4, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 10, CantidadPedida: 1, PrecioUnitario: 30},
	)
	savedPedido(t, repo, "14/08/2026", 4, models.EstadoEnviado,
		models.DetallePedido{ProductoID: 11, CantidadPedida: 1, PrecioUnitario: 18},
	)

	pedido, err := repo.FindUltimoPendiente(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, ultimo.ID, pedido.ID)

	_, err = repo.FindUltimoPendiente(ctx, 99)
	assert.True(t, IsNotFound(err))
}

func TestRepositoryUpdateEstadoRequiresExistingRow(t *testing.T) {
	repo := NewRepository(setupRepoTestDB(t))
	ctx := context.Background()

	pedido := savedPedido(t, repo, "10/08/2026", 4, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 9, CantidadPedida: 1, PrecioUnitario: 80},
	)

	require.NoError(t, repo.UpdateEstado(ctx, pedido.ID, models.EstadoEnviado))
	loaded, err := repo.Find(ctx, pedido.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoEnviado, loaded.Estado)

	assert.True(t, IsNotFound(repo.UpdateEstado(ctx, 999, models.EstadoEnviado)))
}

func TestRepositorySetConfirmadoTargetsOneLinea(t *testing.T) {
	repo := NewRepository(setupRepoTestDB(t))
	ctx := context.Background()

	pedido := savedPedido(t, repo, "10/08/2026", 4, models.EstadoPendienteEnvio,
		models.DetallePedido{ProductoID: 9, CantidadPedida: 2, PrecioUnitario: 80},
		models.DetallePedido{ProductoID: 10, CantidadPedida: 1, PrecioUnitario: 30},
	)

	require.NoError(t, repo.SetConfirmado(ctx, pedido.ID, 9, true))

	loaded, err := repo.Find(ctx, pedido.ID)
	require.NoError(t, err)
	confirmados := map[int]bool{}
	for _, linea := range loaded.Detalles {
		confirmados[linea.ProductoID] = linea.Confirmado
	}
	assert.True(t, confirmados[9])
	assert.False(t, confirmados[10])
}
