// Package testutil provides an in-memory SQLite store with the production
// schema for repository, service and handler tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"farmacia/internal/infra"
	"farmacia/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory database and migrates it. The pool is
// limited to one connection so every query sees the same memory store.
// Times are written as "YYYY-MM-DD HH:MM:SS-07:00" so SQLite's DATE() and
// text comparisons work on them.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_time_format=sqlite"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.RunMigrations(db))
	return db
}

// SeedPerfilAdmin creates a profile granting every module.
func SeedPerfilAdmin(t *testing.T, db *gorm.DB) *model.Perfil {
	t.Helper()
	accesos := make(model.Accesos, 0, len(model.Modulos))
	for _, m := range model.Modulos {
		accesos = append(accesos, model.Acceso{Modulo: m, Acceso: true})
	}
	p := &model.Perfil{Rol: "Administrador", Accesos: accesos}
	require.NoError(t, db.Create(p).Error)
	return p
}

func SeedCliente(t *testing.T, db *gorm.DB, nombres string) *model.Cliente {
	t.Helper()
	c := &model.Cliente{
		DNI:       fmt.Sprintf("%08d", time.Now().UnixNano()%100000000),
		Nombres:   nombres,
		Correo:    "cliente@farmacia.test",
		Direccion: "Av. Siempre Viva 742",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func SeedProducto(t *testing.T, db *gorm.DB, nombre string, cantidad int, precio string) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre:    nombre,
		Categoria: "Analgésicos",
		Cantidad:  cantidad,
		Precio:    decimal.RequireFromString(precio),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedVenta inserts a sale with one detail line per producto at fecha.
func SeedVenta(t *testing.T, db *gorm.DB, clienteID uint, fecha time.Time, total string, lineas map[uint]int) *model.Venta {
	t.Helper()
	v := &model.Venta{
		ClienteID:  clienteID,
		UsuarioID:  1,
		TipoComp:   "Boleta",
		NumeroDoc:  fmt.Sprintf("B001-%d", fecha.UnixNano()),
		MetodoPago: "Efectivo",
		Total:      decimal.RequireFromString(total),
		Fecha:      fecha,
	}
	require.NoError(t, db.Omit("Cliente", "Detalle").Create(v).Error)
	for pid, cant := range lineas {
		require.NoError(t, db.Omit("Producto").Create(&model.DetalleVenta{
			VentaID:    v.ID,
			ProductoID: pid,
			Cantidad:   cant,
			Precio:     decimal.NewFromInt(1),
		}).Error)
	}
	return v
}
