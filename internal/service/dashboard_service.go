package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	DiasPorDefecto = 30
	DiasMaximo     = 365
	topLimite      = 8
)

// DashboardCache keeps computed dashboards keyed by window size and day.
// Get returns the key it resolved even on a miss; Set must write under that
// key so a dashboard computed before an invalidation is never stored as
// current. An empty key means the entry must not be stored.
type DashboardCache interface {
	Get(ctx context.Context, dias int, dia string) (d *dto.Dashboard, clave string, ok bool)
	Set(ctx context.Context, clave string, d *dto.Dashboard)
}

type DashboardService interface {
	Calcular(ctx context.Context, dias int) (*dto.Dashboard, error)
}

type dashboardService struct {
	repo  repository.DashboardRepository
	cache DashboardCache
	now   func() time.Time
}

// NewDashboardService builds the aggregator. cache may be nil; now defaults
// to time.Now.
func NewDashboardService(repo repository.DashboardRepository, cache DashboardCache, now func() time.Time) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{repo: repo, cache: cache, now: now}
}

// ParseDias reads the leading integer of the days query value, so "7d" and
// "7.5" both mean 7. No leading digits means 30; the result is clamped to
// [1, 365].
func ParseDias(raw string) int {
	s := strings.TrimSpace(raw)
	fin := 0
	if fin < len(s) && (s[0] == '+' || s[0] == '-') {
		fin++
	}
	digitos := fin
	for fin < len(s) && s[fin] >= '0' && s[fin] <= '9' {
		fin++
	}
	if fin == digitos {
		return DiasPorDefecto
	}
	// Out of range values come back saturated, which the clamp handles.
	n, err := strconv.Atoi(s[:fin])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return DiasPorDefecto
	}
	return acotarDias(n)
}

func acotarDias(n int) int {
	return min(max(n, 1), DiasMaximo)
}

func (s *dashboardService) Calcular(ctx context.Context, dias int) (*dto.Dashboard, error) {
	dias = acotarDias(dias)
	now := s.now()
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	desde := hoy.AddDate(0, 0, -(dias - 1))
	var clave string
	if s.cache != nil {
		d, k, ok := s.cache.Get(ctx, dias, hoy.Format(time.DateOnly))
		if ok {
			return d, nil
		}
		clave = k
	}

	kpi, err := s.repo.KPIs(ctx, desde)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ItemsVendidos(ctx, desde)
	if err != nil {
		return nil, err
	}
	ventas, err := s.repo.VentasDesde(ctx, desde)
	if err != nil {
		return nil, err
	}
	topC, err := s.repo.TopClientes(ctx, desde, topLimite)
	if err != nil {
		return nil, err
	}
	topP, err := s.repo.TopProductos(ctx, desde, topLimite)
	if err != nil {
		return nil, err
	}

	d := &dto.Dashboard{
		KPIs: dto.KPIs{
			Ingresos: aFloat(kpi.Ingresos),
			Ventas:   aEntero(kpi.Ventas),
			Clientes: aEntero(kpi.Clientes),
			Items:    aEntero(items),
		},
		SerieIngresos: serieDensa(desde, dias, ventas),
		TopClientes:   make([]dto.TopCliente, 0, len(topC)),
		TopProductos:  make([]dto.TopProducto, 0, len(topP)),
	}
	for _, c := range topC {
		d.TopClientes = append(d.TopClientes, dto.TopCliente{
			ID:      c.ID,
			Nombres: c.Nombres,
			Compras: aEntero(c.Compras),
			Gasto:   aFloat(c.Gasto),
		})
	}
	for _, p := range topP {
		d.TopProductos = append(d.TopProductos, dto.TopProducto{
			ID:       p.ID,
			Nombre:   p.Nombre,
			Unidades: aEntero(p.Unidades),
		})
	}

	if s.cache != nil && clave != "" {
		s.cache.Set(ctx, clave, d)
	}
	return d, nil
}

// serieDensa returns exactly dias points from desde, oldest first, with
// zero for days without sales. Sales are bucketed in desde's location, the
// same calendar the window was cut with.
func serieDensa(desde time.Time, dias int, ventas []repository.VentaFechaRow) []dto.PuntoSerie {
	loc := desde.Location()
	porDia := make(map[string]decimal.Decimal, dias)
	for _, v := range ventas {
		dia := v.Fecha.In(loc).Format(time.DateOnly)
		porDia[dia] = porDia[dia].Add(v.Total)
	}
	serie := make([]dto.PuntoSerie, dias)
	for i := 0; i < dias; i++ {
		dia := desde.AddDate(0, 0, i).Format(time.DateOnly)
		ingresos, _ := porDia[dia].Round(2).Float64()
		serie[i] = dto.PuntoSerie{Fecha: dia, Ingresos: ingresos}
	}
	return serie
}

func aFloat(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	f, _ := d.Decimal.Round(2).Float64()
	return f
}

func aEntero(d decimal.NullDecimal) int64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.IntPart()
}
