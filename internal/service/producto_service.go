package service

import (
	"context"
	"net/url"
	"strings"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"
)

type ProductoService interface {
	Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.ProductoResponse], error)
	Obtener(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type productoService struct{ repo repository.ProductoRepository }

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

const msgProductoNoEncontrado = "Producto no encontrado"

func (s *productoService) Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.ProductoResponse], error) {
	q := repository.CatalogoProductos.Resolver(params)
	rows, total, filtrados, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(rows))
	for i := range rows {
		data = append(data, dto.ProductoDesdeModelo(&rows[i]))
	}
	return dto.NuevoListado(q.Draw, total, filtrados, data), nil
}

func (s *productoService) Obtener(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, msgProductoNoEncontrado)
	}
	resp := dto.ProductoDesdeModelo(p)
	return &resp, nil
}

// fotoDesdeRequest stores the photo text as sent. An empty string clears it.
func fotoDesdeRequest(f *string) []byte {
	if f == nil || strings.TrimSpace(*f) == "" {
		return nil
	}
	return []byte(strings.TrimSpace(*f))
}

func (s *productoService) Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:    req.Nombre,
		Categoria: req.Categoria,
		Cantidad:  *req.Cantidad,
		Precio:    *req.Precio,
		Foto:      fotoDesdeRequest(req.Foto),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, traducir(err, msgProductoNoEncontrado)
	}
	resp := dto.ProductoDesdeModelo(p)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uint, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		ID:        id,
		Nombre:    req.Nombre,
		Categoria: req.Categoria,
		Cantidad:  *req.Cantidad,
		Precio:    *req.Precio,
		Foto:      fotoDesdeRequest(req.Foto),
	}
	n, err := s.repo.Update(ctx, p, req.Foto != nil)
	if err != nil {
		return nil, traducir(err, msgProductoNoEncontrado)
	}
	if n == 0 {
		return nil, noEncontrado(msgProductoNoEncontrado)
	}
	return s.Obtener(ctx, id)
}

func (s *productoService) Eliminar(ctx context.Context, id uint) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return traducir(err, msgProductoNoEncontrado)
	}
	if n == 0 {
		return noEncontrado(msgProductoNoEncontrado)
	}
	return nil
}
