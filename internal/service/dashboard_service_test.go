package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/repository"
	"farmacia/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDashboardCache versions its keys the way the Redis cache does.
type memDashboardCache struct {
	entries map[string]*dto.Dashboard
	version int
	hits    int
}

func (c *memDashboardCache) Get(_ context.Context, dias int, dia string) (*dto.Dashboard, string, bool) {
	clave := fmt.Sprintf("v%d/%s/%d", c.version, dia, dias)
	d, ok := c.entries[clave]
	if ok {
		c.hits++
	}
	return d, clave, ok
}

func (c *memDashboardCache) Set(_ context.Context, clave string, d *dto.Dashboard) {
	c.entries[clave] = d
}

func (c *memDashboardCache) Invalidate(context.Context) { c.version++ }

// repoConVentaConcurrente runs despues right after the KPI query, standing in
// for a sale committed while the dashboard is being computed.
type repoConVentaConcurrente struct {
	repository.DashboardRepository
	despues func()
	calls   int
}

func (r *repoConVentaConcurrente) KPIs(ctx context.Context, desde time.Time) (repository.KPIRow, error) {
	r.calls++
	row, err := r.DashboardRepository.KPIs(ctx, desde)
	if r.despues != nil {
		r.despues()
		r.despues = nil
	}
	return row, err
}

var ahora = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestParseDias(t *testing.T) {
	cases := map[string]int{
		"":     30,
		"abc":  30,
		"7":    7,
		"0":    1,
		"-4":   1,
		"365":  365,
		"9999": 365,
		" 14 ": 14,
		"7.5":  7,
		"7d":   7,
		"+10":  10,
		"-":    30,
		"d7":   30,
		"99999999999999999999999": 365,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseDias(raw), "days=%q", raw)
	}
}

func TestDashboard_SerieDensaSieteDias(t *testing.T) {
	db := testutil.NewDB(t)
	ana := testutil.SeedCliente(t, db, "Ana")
	beto := testutil.SeedCliente(t, db, "Beto")
	para := testutil.SeedProducto(t, db, "Paracetamol", 100, "2.50")
	ibu := testutil.SeedProducto(t, db, "Ibuprofeno", 100, "3.00")

	// day 1, day 3 and day 7 of the window, plus one sale just before it
	testutil.SeedVenta(t, db, ana.ID, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), "100.00", map[uint]int{para.ID: 4})
	testutil.SeedVenta(t, db, beto.ID, time.Date(2026, 3, 6, 9, 30, 0, 0, time.UTC), "30.50", map[uint]int{ibu.ID: 1})
	testutil.SeedVenta(t, db, ana.ID, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), "50.00", map[uint]int{para.ID: 2, ibu.ID: 3})
	testutil.SeedVenta(t, db, beto.ID, time.Date(2026, 3, 3, 23, 0, 0, 0, time.UTC), "999.00", map[uint]int{ibu.ID: 50})

	svc := NewDashboardService(repository.NewDashboardRepository(db), nil, func() time.Time { return ahora })
	d, err := svc.Calcular(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, d.SerieIngresos, 7)
	esperado := []dto.PuntoSerie{
		{Fecha: "2026-03-04", Ingresos: 100},
		{Fecha: "2026-03-05", Ingresos: 0},
		{Fecha: "2026-03-06", Ingresos: 30.5},
		{Fecha: "2026-03-07", Ingresos: 0},
		{Fecha: "2026-03-08", Ingresos: 0},
		{Fecha: "2026-03-09", Ingresos: 0},
		{Fecha: "2026-03-10", Ingresos: 50},
	}
	assert.Equal(t, esperado, d.SerieIngresos)

	assert.Equal(t, 180.5, d.KPIs.Ingresos)
	assert.Equal(t, int64(3), d.KPIs.Ventas)
	assert.Equal(t, int64(2), d.KPIs.Clientes)
	assert.Equal(t, int64(10), d.KPIs.Items)

	require.Len(t, d.TopClientes, 2)
	assert.Equal(t, "Ana", d.TopClientes[0].Nombres)
	assert.Equal(t, int64(2), d.TopClientes[0].Compras)
	assert.Equal(t, 150.0, d.TopClientes[0].Gasto)

	require.Len(t, d.TopProductos, 2)
	assert.Equal(t, "Paracetamol", d.TopProductos[0].Nombre)
	assert.Equal(t, int64(6), d.TopProductos[0].Unidades)
	assert.Equal(t, int64(4), d.TopProductos[1].Unidades)
}

func TestDashboard_SinVentas(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDashboardService(repository.NewDashboardRepository(db), nil, func() time.Time { return ahora })

	d, err := svc.Calcular(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, d.SerieIngresos, 1)
	assert.Equal(t, "2026-03-10", d.SerieIngresos[0].Fecha)
	assert.Zero(t, d.KPIs.Ingresos)
	assert.Zero(t, d.KPIs.Ventas)
	assert.NotNil(t, d.TopClientes)
	assert.NotNil(t, d.TopProductos)
}

func TestDashboard_TopLimitadoAOcho(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProducto(t, db, "Paracetamol", 100, "2.50")
	for i := 0; i < 10; i++ {
		c := testutil.SeedCliente(t, db, "Cliente")
		testutil.SeedVenta(t, db, c.ID, ahora.Add(-time.Duration(i)*time.Minute), "10.00", map[uint]int{p.ID: 1})
	}
	svc := NewDashboardService(repository.NewDashboardRepository(db), nil, func() time.Time { return ahora })

	d, err := svc.Calcular(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, d.TopClientes, 8)
	assert.Len(t, d.SerieIngresos, 30)
	assert.Equal(t, 100.0, d.SerieIngresos[29].Ingresos)
}

func TestDashboard_UsaCache(t *testing.T) {
	db := testutil.NewDB(t)
	cache := &memDashboardCache{entries: map[string]*dto.Dashboard{}}
	svc := NewDashboardService(repository.NewDashboardRepository(db), cache, func() time.Time { return ahora })

	first, err := svc.Calcular(context.Background(), 7)
	require.NoError(t, err)
	second, err := svc.Calcular(context.Background(), 7)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

func TestDashboard_SerieEnZonaDeLaApp(t *testing.T) {
	db := testutil.NewDB(t)
	lima := time.FixedZone("PET", -5*60*60)
	ana := testutil.SeedCliente(t, db, "Ana")
	para := testutil.SeedProducto(t, db, "Paracetamol", 100, "2.50")

	// 20:00 local is already the next day in UTC
	testutil.SeedVenta(t, db, ana.ID, time.Date(2026, 3, 10, 20, 0, 0, 0, lima), "50.00", map[uint]int{para.ID: 1})
	testutil.SeedVenta(t, db, ana.ID, time.Date(2026, 3, 4, 0, 30, 0, 0, lima), "12.00", map[uint]int{para.ID: 1})
	testutil.SeedVenta(t, db, ana.ID, time.Date(2026, 3, 3, 23, 30, 0, 0, lima), "99.00", map[uint]int{para.ID: 1})

	now := time.Date(2026, 3, 10, 21, 0, 0, 0, lima)
	svc := NewDashboardService(repository.NewDashboardRepository(db), nil, func() time.Time { return now })
	d, err := svc.Calcular(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, d.SerieIngresos, 7)
	assert.Equal(t, dto.PuntoSerie{Fecha: "2026-03-04", Ingresos: 12}, d.SerieIngresos[0])
	assert.Equal(t, dto.PuntoSerie{Fecha: "2026-03-10", Ingresos: 50}, d.SerieIngresos[6])

	var total float64
	for _, p := range d.SerieIngresos {
		total += p.Ingresos
	}
	assert.Equal(t, d.KPIs.Ingresos, total)
	assert.Equal(t, 62.0, d.KPIs.Ingresos)
}

func TestDashboard_InvalidacionDuranteElCalculo(t *testing.T) {
	db := testutil.NewDB(t)
	ana := testutil.SeedCliente(t, db, "Ana")
	para := testutil.SeedProducto(t, db, "Paracetamol", 100, "2.50")
	cache := &memDashboardCache{entries: map[string]*dto.Dashboard{}}
	repo := &repoConVentaConcurrente{DashboardRepository: repository.NewDashboardRepository(db)}
	repo.despues = func() {
		testutil.SeedVenta(t, db, ana.ID, ahora.Add(-time.Hour), "20.00", map[uint]int{para.ID: 1})
		cache.Invalidate(context.Background())
	}
	svc := NewDashboardService(repo, cache, func() time.Time { return ahora })

	first, err := svc.Calcular(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, first.KPIs.Ventas)

	second, err := svc.Calcular(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Zero(t, cache.hits)
	assert.Equal(t, int64(1), second.KPIs.Ventas)
	assert.Equal(t, 20.0, second.KPIs.Ingresos)

	third, err := svc.Calcular(context.Background(), 7)
	require.NoError(t, err)
	assert.Same(t, second, third)
}
