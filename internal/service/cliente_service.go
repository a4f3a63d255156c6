package service

import (
	"context"
	"net/url"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"
)

type ClienteService interface {
	Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.ClienteResponse], error)
	Obtener(ctx context.Context, id uint) (*dto.ClienteResponse, error)
	Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type clienteService struct{ repo repository.ClienteRepository }

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

const msgClienteNoEncontrado = "Cliente no encontrado"

func (s *clienteService) Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.ClienteResponse], error) {
	q := repository.CatalogoClientes.Resolver(params)
	rows, total, filtrados, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(rows))
	for i := range rows {
		data = append(data, dto.ClienteDesdeModelo(&rows[i]))
	}
	return dto.NuevoListado(q.Draw, total, filtrados, data), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uint) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, msgClienteNoEncontrado)
	}
	resp := dto.ClienteDesdeModelo(c)
	return &resp, nil
}

func clienteDesdeRequest(req dto.ClienteRequest) *model.Cliente {
	c := &model.Cliente{
		DNI:       req.DNI,
		Nombres:   req.Nombres,
		Celular:   req.Celular,
		Direccion: req.Direccion,
		Correo:    req.Correo,
	}
	if req.RUC != nil && *req.RUC != "" {
		c.RUC = req.RUC
	}
	return c
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c := clienteDesdeRequest(req)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, traducir(err, msgClienteNoEncontrado)
	}
	resp := dto.ClienteDesdeModelo(c)
	return &resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uint, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c := clienteDesdeRequest(req)
	c.ID = id
	n, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, traducir(err, msgClienteNoEncontrado)
	}
	if n == 0 {
		return nil, noEncontrado(msgClienteNoEncontrado)
	}
	resp := dto.ClienteDesdeModelo(c)
	return &resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, id uint) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return traducir(err, msgClienteNoEncontrado)
	}
	if n == 0 {
		return noEncontrado(msgClienteNoEncontrado)
	}
	return nil
}
