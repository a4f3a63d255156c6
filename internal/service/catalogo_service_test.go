package service

import (
	"context"
	"net/url"
	"testing"

	"farmacia/internal/dto"
	"farmacia/internal/repository"
	"farmacia/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestClientes_CRUD(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewClienteService(repository.NewClienteRepository(db))
	ctx := context.Background()

	c, err := svc.Crear(ctx, dto.ClienteRequest{DNI: "45678912", RUC: ptr(""), Nombres: "Luis Quispe", Correo: "luis@correo.test"})
	require.NoError(t, err)
	assert.Nil(t, c.RUC, "empty RUC is stored as NULL")

	c, err = svc.Actualizar(ctx, c.ID, dto.ClienteRequest{DNI: "45678912", RUC: ptr("20123456789"), Nombres: "Luis A. Quispe", Correo: "luis@correo.test"})
	require.NoError(t, err)

	got, err := svc.Obtener(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Luis A. Quispe", got.Nombres)
	assert.Equal(t, "20123456789", *got.RUC)

	_, err = svc.Actualizar(ctx, 999, dto.ClienteRequest{DNI: "1", Nombres: "x", Correo: "x@x.test"})
	assert.ErrorIs(t, err, ErrNoEncontrado)

	require.NoError(t, svc.Eliminar(ctx, c.ID))
	_, err = svc.Obtener(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.EqualError(t, svc.Eliminar(ctx, c.ID), "Cliente no encontrado")
}

func TestClientes_ListarOrdenPorDefectoDescendente(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewClienteService(repository.NewClienteRepository(db))
	for _, n := range []string{"Ana", "Beto", "Carla"} {
		testutil.SeedCliente(t, db, n)
	}

	res, err := svc.Listar(context.Background(), url.Values{})
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "Carla", res.Data[0].Nombres)

	res, err = svc.Listar(context.Background(), url.Values{"search": {"bet"}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.RecordsTotal)
	assert.Equal(t, int64(1), res.RecordsFiltered)
	assert.Equal(t, "Beto", res.Data[0].Nombres)
}

func TestProductos_FotoSeConservaSiNoSeEnvia(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewProductoService(repository.NewProductoRepository(db))
	ctx := context.Background()

	p, err := svc.Crear(ctx, dto.ProductoRequest{
		Nombre: "Paracetamol", Categoria: "Analgésicos",
		Cantidad: ptr(20), Precio: ptr(decimal.RequireFromString("1.50")),
		Foto: ptr("/9j/4AAQSkZJRg=="),
	})
	require.NoError(t, err)
	require.NotNil(t, p.Foto)
	assert.Equal(t, "data:image/jpeg;base64,/9j/4AAQSkZJRg==", *p.Foto)

	p, err = svc.Actualizar(ctx, p.ID, dto.ProductoRequest{
		Nombre: "Paracetamol 500mg", Categoria: "Analgésicos",
		Cantidad: ptr(0), Precio: ptr(decimal.RequireFromString("1.80")),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Cantidad)
	require.NotNil(t, p.Foto)
	assert.Equal(t, "data:image/jpeg;base64,/9j/4AAQSkZJRg==", *p.Foto)

	p, err = svc.Actualizar(ctx, p.ID, dto.ProductoRequest{
		Nombre: "Paracetamol 500mg", Categoria: "Analgésicos",
		Cantidad: ptr(5), Precio: ptr(decimal.RequireFromString("1.80")), Foto: ptr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, p.Foto)

	_, err = svc.Obtener(ctx, 404)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.ErrorIs(t, svc.Eliminar(ctx, 404), ErrNoEncontrado)
}
