package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Row types for the dashboard aggregates. Numeric columns scan into
// NullDecimal because drivers return SUMs as strings, floats or NULL.
type KPIRow struct {
	Ingresos decimal.NullDecimal
	Ventas   decimal.NullDecimal
	Clientes decimal.NullDecimal
}

// VentaFechaRow is one sale in the window. Days are bucketed by the caller
// in its own time zone, never by the database session's.
type VentaFechaRow struct {
	Fecha time.Time
	Total decimal.Decimal
}

type TopClienteRow struct {
	ID      uint
	Nombres string
	Compras decimal.NullDecimal
	Gasto   decimal.NullDecimal
}

type TopProductoRow struct {
	ID       uint
	Nombre   string
	Unidades decimal.NullDecimal
}

type DashboardRepository interface {
	KPIs(ctx context.Context, desde time.Time) (KPIRow, error)
	ItemsVendidos(ctx context.Context, desde time.Time) (decimal.NullDecimal, error)
	VentasDesde(ctx context.Context, desde time.Time) ([]VentaFechaRow, error)
	TopClientes(ctx context.Context, desde time.Time, limite int) ([]TopClienteRow, error)
	TopProductos(ctx context.Context, desde time.Time, limite int) ([]TopProductoRow, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository { return &dashboardRepo{db: db} }

func (r *dashboardRepo) KPIs(ctx context.Context, desde time.Time) (KPIRow, error) {
	var row KPIRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(v.total), 0) AS ingresos,
		       COUNT(*) AS ventas,
		       COUNT(DISTINCT v.cliente_id) AS clientes
		FROM ventas v
		WHERE v.fecha >= ?`, desde).Scan(&row).Error
	return row, err
}

func (r *dashboardRepo) ItemsVendidos(ctx context.Context, desde time.Time) (decimal.NullDecimal, error) {
	var row struct{ Items decimal.NullDecimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(d.cantidad), 0) AS items
		FROM detalle_ventas d
		JOIN ventas v ON v.id = d.venta_id
		WHERE v.fecha >= ?`, desde).Scan(&row).Error
	return row.Items, err
}

func (r *dashboardRepo) VentasDesde(ctx context.Context, desde time.Time) ([]VentaFechaRow, error) {
	var rows []VentaFechaRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT v.fecha, v.total
		FROM ventas v
		WHERE v.fecha >= ?
		ORDER BY v.fecha`, desde).Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) TopClientes(ctx context.Context, desde time.Time, limite int) ([]TopClienteRow, error) {
	var rows []TopClienteRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.nombres,
		       COUNT(v.id) AS compras,
		       COALESCE(SUM(v.total), 0) AS gasto
		FROM ventas v
		JOIN clientes c ON c.id = v.cliente_id
		WHERE v.fecha >= ?
		GROUP BY c.id, c.nombres
		ORDER BY gasto DESC, c.id
		LIMIT ?`, desde, limite).Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) TopProductos(ctx context.Context, desde time.Time, limite int) ([]TopProductoRow, error) {
	var rows []TopProductoRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id, p.nombre,
		       COALESCE(SUM(d.cantidad), 0) AS unidades
		FROM detalle_ventas d
		JOIN ventas v ON v.id = d.venta_id
		JOIN productos p ON p.id = d.producto_id
		WHERE v.fecha >= ?
		GROUP BY p.id, p.nombre
		ORDER BY unidades DESC, p.id
		LIMIT ?`, desde, limite).Scan(&rows).Error
	return rows, err
}
