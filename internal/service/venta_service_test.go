package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"
	"farmacia/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeCache struct{ invalidaciones int }

func (c *fakeCache) Invalidate(context.Context) { c.invalidaciones++ }

type fakeDispatcher struct {
	ventas  []uint
	correos []string
	err     error
}

func (d *fakeDispatcher) EnqueueComprobante(_ context.Context, ventaID uint, correo string) error {
	d.ventas = append(d.ventas, ventaID)
	d.correos = append(d.correos, correo)
	return d.err
}

type ventaEnv struct {
	db         *gorm.DB
	svc        VentaService
	cache      *fakeCache
	dispatcher *fakeDispatcher
	cliente    *model.Cliente
}

func newVentaEnv(t *testing.T, permitirNegativo bool) *ventaEnv {
	t.Helper()
	db := testutil.NewDB(t)
	cache := &fakeCache{}
	dispatcher := &fakeDispatcher{}
	svc := NewVentaService(
		repository.NewVentaRepository(db),
		repository.NewProductoRepository(db),
		repository.NewClienteRepository(db),
		VentaOptions{
			PermitirStockNegativo: permitirNegativo,
			Now:                   func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) },
		},
		cache,
		dispatcher,
	)
	return &ventaEnv{db: db, svc: svc, cache: cache, dispatcher: dispatcher, cliente: testutil.SeedCliente(t, db, "Ana Torres")}
}

func ventaRequest(clienteID uint, lineas ...dto.DetalleVentaRequest) dto.CrearVentaRequest {
	return dto.CrearVentaRequest{
		IDCliente:     clienteID,
		TipoComp:      "Boleta",
		NumeroDoc:     "B001-000123",
		MetodoPago:    "Efectivo",
		MontoEfectivo: decimal.NewFromInt(100),
		Total:         decimal.RequireFromString("37.50"),
		Detalle:       lineas,
	}
}

func linea(productoID uint, cantidad int, precio string) dto.DetalleVentaRequest {
	return dto.DetalleVentaRequest{IDProducto: productoID, Cantidad: cantidad, Precio: decimal.RequireFromString(precio)}
}

func contar(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func stock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p model.Producto
	require.NoError(t, db.First(&p, id).Error)
	return p.Cantidad
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func TestCrearVenta_DescuentaStockYPersisteDetalle(t *testing.T) {
	env := newVentaEnv(t, true)
	a := testutil.SeedProducto(t, env.db, "Paracetamol", 10, "2.50")
	b := testutil.SeedProducto(t, env.db, "Ibuprofeno", 5, "3.00")

	id, err := env.svc.Crear(context.Background(), 7, ventaRequest(env.cliente.ID,
		linea(b.ID, 2, "3.00"),
		linea(a.ID, 3, "2.50"),
		linea(a.ID, 1, "2.50"),
	))
	require.NoError(t, err)
	require.NotZero(t, id)

	assert.Equal(t, 6, stock(t, env.db, a.ID))
	assert.Equal(t, 3, stock(t, env.db, b.ID))
	assert.Equal(t, int64(3), contar(t, env.db, &model.DetalleVenta{}))

	v, err := env.svc.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, uint(7), v.IDUsuario)
	assert.Equal(t, "Ana Torres", v.Cliente)
	require.Len(t, v.Detalle, 3)
	assert.Equal(t, "Ibuprofeno", v.Detalle[0].Nombre)
	assert.True(t, v.Detalle[0].Subtotal.Equal(decimal.NewFromInt(6)))

	assert.Equal(t, 1, env.cache.invalidaciones)
	assert.Equal(t, []uint{id}, env.dispatcher.ventas)
	assert.Equal(t, []string{"cliente@farmacia.test"}, env.dispatcher.correos)
}

func TestCrearVenta_ProductoInexistenteRevierteTodo(t *testing.T) {
	env := newVentaEnv(t, true)
	a := testutil.SeedProducto(t, env.db, "Paracetamol", 10, "2.50")

	_, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID,
		linea(a.ID, 2, "2.50"),
		linea(9999, 1, "1.00"),
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVentaNoCreada))

	assert.Zero(t, contar(t, env.db, &model.Venta{}))
	assert.Zero(t, contar(t, env.db, &model.DetalleVenta{}))
	assert.Equal(t, 10, stock(t, env.db, a.ID))
	assert.Zero(t, env.cache.invalidaciones)
	assert.Empty(t, env.dispatcher.ventas)
}

func TestCrearVenta_StockNegativoPermitido(t *testing.T) {
	env := newVentaEnv(t, true)
	a := testutil.SeedProducto(t, env.db, "Amoxicilina", 1, "8.00")

	_, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID, linea(a.ID, 3, "8.00")))
	require.NoError(t, err)
	assert.Equal(t, -2, stock(t, env.db, a.ID))
}

func TestCrearVenta_StockInsuficienteConGuarda(t *testing.T) {
	env := newVentaEnv(t, false)
	a := testutil.SeedProducto(t, env.db, "Amoxicilina", 5, "8.00")
	b := testutil.SeedProducto(t, env.db, "Loratadina", 1, "4.00")

	_, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID,
		linea(a.ID, 2, "8.00"),
		linea(b.ID, 2, "4.00"),
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalido))

	assert.Zero(t, contar(t, env.db, &model.Venta{}))
	assert.Equal(t, 5, stock(t, env.db, a.ID))
	assert.Equal(t, 1, stock(t, env.db, b.ID))
}

func TestCrearVenta_SinDetalle(t *testing.T) {
	env := newVentaEnv(t, true)
	_, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID))
	assert.True(t, errors.Is(err, ErrInvalido))
}

func TestCrearVenta_FalloAlEncolarNoAfectaLaVenta(t *testing.T) {
	env := newVentaEnv(t, true)
	env.dispatcher.err = errors.New("redis down")
	a := testutil.SeedProducto(t, env.db, "Paracetamol", 10, "2.50")

	id, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID, linea(a.ID, 1, "2.50")))
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, int64(1), contar(t, env.db, &model.Venta{}))
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func TestEliminarVenta_BorraDetalleSinRestaurarStock(t *testing.T) {
	env := newVentaEnv(t, true)
	a := testutil.SeedProducto(t, env.db, "Paracetamol", 10, "2.50")
	id, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID, linea(a.ID, 4, "2.50")))
	require.NoError(t, err)

	require.NoError(t, env.svc.Eliminar(context.Background(), id))

	assert.Zero(t, contar(t, env.db, &model.Venta{}))
	assert.Zero(t, contar(t, env.db, &model.DetalleVenta{}))
	assert.Equal(t, 6, stock(t, env.db, a.ID))
	assert.Equal(t, 2, env.cache.invalidaciones)
}

func TestEliminarVenta_Inexistente(t *testing.T) {
	env := newVentaEnv(t, true)
	a := testutil.SeedProducto(t, env.db, "Paracetamol", 10, "2.50")
	_, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID, linea(a.ID, 1, "2.50")))
	require.NoError(t, err)

	err = env.svc.Eliminar(context.Background(), 424242)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEncontrado))
	assert.Equal(t, int64(1), contar(t, env.db, &model.Venta{}))
	assert.Equal(t, int64(1), contar(t, env.db, &model.DetalleVenta{}))
}

// ── Obtener / Listar / Comprobante ────────────────────────────────────────────

func TestObtenerVenta_Inexistente(t *testing.T) {
	env := newVentaEnv(t, true)
	_, err := env.svc.Obtener(context.Background(), 77)
	assert.True(t, errors.Is(err, ErrNoEncontrado))
}

func TestListarVentas_DataTables(t *testing.T) {
	env := newVentaEnv(t, true)
	otro := testutil.SeedCliente(t, env.db, "Bruno Díaz")
	a := testutil.SeedProducto(t, env.db, "Paracetamol", 100, "2.50")

	_, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID, linea(a.ID, 1, "2.50"), linea(a.ID, 1, "2.50")))
	require.NoError(t, err)
	_, err = env.svc.Crear(context.Background(), 1, ventaRequest(otro.ID, linea(a.ID, 1, "2.50")))
	require.NoError(t, err)

	res, err := env.svc.Listar(context.Background(), url.Values{
		"draw":             {"3"},
		"search[value]":    {"bruno"},
		"order[0][column]": {"7"},
		"order[0][dir]":    {"asc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Draw)
	assert.Equal(t, int64(2), res.RecordsTotal)
	assert.Equal(t, int64(1), res.RecordsFiltered)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Bruno Díaz", res.Data[0].Cliente)
	assert.Equal(t, int64(1), res.Data[0].Items)

	res, err = env.svc.Listar(context.Background(), url.Values{"order[0][column]": {"7"}, "order[0][dir]": {"desc"}})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, int64(2), res.Data[0].Items)
}

func TestComprobanteVenta(t *testing.T) {
	env := newVentaEnv(t, true)
	a := testutil.SeedProducto(t, env.db, "Paracetamol", 10, "2.50")
	id, err := env.svc.Crear(context.Background(), 1, ventaRequest(env.cliente.ID, linea(a.ID, 1, "2.50")))
	require.NoError(t, err)

	pdf, err := env.svc.Comprobante(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
