package infra

import (
	"os"
	"testing"
	"time"

	"farmacia/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ventaDePrueba() *model.Venta {
	ruc := "20123456789"
	return &model.Venta{
		ID:              42,
		TipoComp:        "Boleta",
		NumeroDoc:       "B001-000042",
		RUC:             &ruc,
		MetodoPago:      "Efectivo",
		MontoEfectivo:   decimal.NewFromInt(50),
		MontoDevolucion: decimal.RequireFromString("12.50"),
		Total:           decimal.RequireFromString("37.50"),
		Fecha:           time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		Cliente:         &model.Cliente{Nombres: "María Pérez", DNI: "12345678"},
		Detalle: []model.DetalleVenta{
			{ProductoID: 1, Cantidad: 2, Precio: decimal.RequireFromString("12.50"), Producto: &model.Producto{Nombre: "Paracetamol 500mg x 10 tabletas recubiertas"}},
			{ProductoID: 2, Cantidad: 1, Precio: decimal.RequireFromString("12.50")},
		},
	}
}

func TestComprobantePDF(t *testing.T) {
	data, err := ComprobantePDF(ventaDePrueba())
	require.NoError(t, err)
	assert.True(t, len(data) > 100)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestSaveComprobantePDF(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveComprobantePDF(ventaDePrueba(), dir)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, "comprobante_42.pdf")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
