package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/infra"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CacheInvalidator drops derived data after a sale is written.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// ComprobanteDispatcher queues the e-mail delivery of a sale receipt.
type ComprobanteDispatcher interface {
	EnqueueComprobante(ctx context.Context, ventaID uint, correo string) error
}

type VentaOptions struct {
	// PermitirStockNegativo lets a sale drive product stock below zero.
	PermitirStockNegativo bool
	Now                   func() time.Time
}

type VentaService interface {
	Crear(ctx context.Context, usuarioID uint, req dto.CrearVentaRequest) (uint, error)
	Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error)
	Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.VentaListItem], error)
	Eliminar(ctx context.Context, id uint) error
	Comprobante(ctx context.Context, id uint) ([]byte, error)
}

type ventaService struct {
	repo       repository.VentaRepository
	productos  repository.ProductoRepository
	clientes   repository.ClienteRepository
	opts       VentaOptions
	cache      CacheInvalidator
	dispatcher ComprobanteDispatcher
}

// NewVentaService wires the sale manager. cache and dispatcher are optional.
func NewVentaService(
	repo repository.VentaRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	opts VentaOptions,
	cache CacheInvalidator,
	dispatcher ComprobanteDispatcher,
) VentaService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ventaService{
		repo:       repo,
		productos:  productos,
		clientes:   clientes,
		opts:       opts,
		cache:      cache,
		dispatcher: dispatcher,
	}
}

const msgVentaNoEncontrada = "Venta no encontrada"

// ── Crear ─────────────────────────────────────────────────────────────────────
// One transaction:
//   1. insert header
//   2. bulk insert detail rows
//   3. decrement stock per product, ascending product id
//   4. commit
// Any failure rolls back everything. The transaction is detached from the
// request context so a client disconnect cannot abort it halfway.

func (s *ventaService) Crear(ctx context.Context, usuarioID uint, req dto.CrearVentaRequest) (uint, error) {
	if len(req.Detalle) == 0 {
		return 0, invalido("La venta debe incluir al menos un producto")
	}
	venta := &model.Venta{
		ClienteID:       req.IDCliente,
		UsuarioID:       usuarioID,
		TipoComp:        req.TipoComp,
		NumeroDoc:       req.NumeroDoc,
		RUC:             req.RUC,
		RazonSocial:     req.RazonSocial,
		MetodoPago:      req.MetodoPago,
		NumTarjeta:      req.NumTarjeta,
		MontoEfectivo:   req.MontoEfectivo,
		MontoDevolucion: req.MontoDevolucion,
		Total:           req.Total,
		Fecha:           s.opts.Now(),
	}

	detalle := make([]model.DetalleVenta, 0, len(req.Detalle))
	porProducto := make(map[uint]int, len(req.Detalle))
	for _, d := range req.Detalle {
		if d.IDProducto == 0 || d.Cantidad <= 0 || d.Precio.IsNegative() {
			return 0, invalido("Detalle de venta inválido")
		}
		detalle = append(detalle, model.DetalleVenta{
			ProductoID: d.IDProducto,
			Cantidad:   d.Cantidad,
			Precio:     d.Precio,
		})
		porProducto[d.IDProducto] += d.Cantidad
	}
	ids := make([]uint, 0, len(porProducto))
	for id := range porProducto {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	txCtx := context.WithoutCancel(ctx)
	err := s.repo.DB().WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(txCtx, tx, venta); err != nil {
			return fmt.Errorf("insert venta: %w", err)
		}
		for i := range detalle {
			detalle[i].VentaID = venta.ID
		}
		if err := s.repo.CreateDetalle(txCtx, tx, detalle); err != nil {
			return fmt.Errorf("insert detalle: %w", err)
		}
		for _, id := range ids {
			n, err := s.productos.DescontarStock(txCtx, tx, id, porProducto[id], s.opts.PermitirStockNegativo)
			if err != nil {
				return fmt.Errorf("descontar stock producto %d: %w", id, err)
			}
			if n == 0 {
				if !s.opts.PermitirStockNegativo {
					return invalido(fmt.Sprintf("Stock insuficiente o producto inexistente (id %d)", id))
				}
				return fmt.Errorf("producto %d no existe", id)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalido) {
			return 0, err
		}
		log.Error().Err(err).Uint("cliente_id", req.IDCliente).Msg("venta: transaction rolled back")
		return 0, fmt.Errorf("%w: %v", ErrVentaNoCreada, err)
	}

	s.invalidar(txCtx)
	s.encolarComprobante(txCtx, venta.ID, venta.ClienteID)
	return venta.ID, nil
}

func (s *ventaService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// encolarComprobante is best effort: the sale is already committed.
func (s *ventaService) encolarComprobante(ctx context.Context, ventaID, clienteID uint) {
	if s.dispatcher == nil || s.clientes == nil {
		return
	}
	c, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil || c.Correo == "" {
		return
	}
	if err := s.dispatcher.EnqueueComprobante(ctx, ventaID, c.Correo); err != nil {
		log.Warn().Err(err).Uint("venta_id", ventaID).Msg("venta: failed to enqueue comprobante")
	}
}

func (s *ventaService) Obtener(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, msgVentaNoEncontrada)
	}
	return dto.VentaDesdeModelo(v), nil
}

func (s *ventaService) Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.VentaListItem], error) {
	q := repository.CatalogoVentas.ResolverDataTables(params)
	rows, total, filtrados, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return dto.NuevoListado(q.Draw, total, filtrados, rows), nil
}

// Eliminar deletes the sale and its detail rows. Stock is not restored.
func (s *ventaService) Eliminar(ctx context.Context, id uint) error {
	txCtx := context.WithoutCancel(ctx)
	err := s.repo.DB().WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		n, err := s.repo.Delete(txCtx, tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return noEncontrado(msgVentaNoEncontrada)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidar(txCtx)
	return nil
}

func (s *ventaService) Comprobante(ctx context.Context, id uint) ([]byte, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, msgVentaNoEncontrada)
	}
	return infra.ComprobantePDF(v)
}
