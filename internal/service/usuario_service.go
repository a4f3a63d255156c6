package service

import (
	"context"
	"errors"
	"net/url"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"gorm.io/gorm"
)

type UsuarioService interface {
	Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.UsuarioResponse], error)
	Obtener(ctx context.Context, id uint) (*dto.UsuarioResponse, error)
	Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	Eliminar(ctx context.Context, id uint) error
	CambiarPassword(ctx context.Context, id uint, password string) error
	ListarRoles(ctx context.Context) ([]dto.RolResponse, error)
}

type usuarioService struct {
	repo     repository.UsuarioRepository
	perfiles repository.PerfilRepository
}

func NewUsuarioService(repo repository.UsuarioRepository, perfiles repository.PerfilRepository) UsuarioService {
	return &usuarioService{repo: repo, perfiles: perfiles}
}

const msgUsuarioNoEncontrado = "Usuario no encontrado"

func (s *usuarioService) Listar(ctx context.Context, params url.Values) (*dto.Listado[dto.UsuarioResponse], error) {
	q := repository.CatalogoUsuarios.Resolver(params)
	rows, total, filtrados, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return dto.NuevoListado(q.Draw, total, filtrados, rows), nil
}

func (s *usuarioService) Obtener(ctx context.Context, id uint) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, msgUsuarioNoEncontrado)
	}
	resp := dto.UsuarioDesdeModelo(u)
	return &resp, nil
}

// verificarUnicos checks email, DNI and username in that order so each
// conflict gets its own message.
func (s *usuarioService) verificarUnicos(ctx context.Context, email, dni, username string, exceptID uint) error {
	checks := []struct{ column, value, msg string }{
		{"email", email, "El email ya está registrado"},
		{"dni", dni, "El DNI ya está registrado"},
		{"username", username, "El nombre de usuario ya está registrado"},
	}
	for _, c := range checks {
		existe, err := s.repo.ExisteCampo(ctx, c.column, c.value, exceptID)
		if err != nil {
			return err
		}
		if existe {
			return duplicado(c.msg)
		}
	}
	return nil
}

func (s *usuarioService) verificarPerfil(ctx context.Context, perfilID uint) (*model.Perfil, error) {
	p, err := s.perfiles.FindByID(ctx, perfilID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalido("El perfil indicado no existe")
	}
	return p, err
}

func (s *usuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := s.verificarUnicos(ctx, req.Email, req.DNI, req.Username, 0); err != nil {
		return nil, err
	}
	perfil, err := s.verificarPerfil(ctx, req.PerfilID)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &model.Usuario{
		Username:       req.Username,
		NombreCompleto: req.NombreCompleto,
		Celular:        req.Celular,
		Email:          req.Email,
		PasswordHash:   hash,
		DNI:            req.DNI,
		Direccion:      req.Direccion,
		PerfilID:       req.PerfilID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// A concurrent insert can still win the unique index race.
		return nil, traducir(err, msgUsuarioNoEncontrado)
	}
	u.Perfil = perfil
	resp := dto.UsuarioDesdeModelo(u)
	return &resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, msgUsuarioNoEncontrado)
	}
	if err := s.verificarUnicos(ctx, req.Email, req.DNI, req.Username, id); err != nil {
		return nil, err
	}
	perfil, err := s.verificarPerfil(ctx, req.PerfilID)
	if err != nil {
		return nil, err
	}
	u.Username = req.Username
	u.NombreCompleto = req.NombreCompleto
	u.Celular = req.Celular
	u.Email = req.Email
	u.DNI = req.DNI
	u.Direccion = req.Direccion
	u.PerfilID = req.PerfilID
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, traducir(err, msgUsuarioNoEncontrado)
	}
	u.Perfil = perfil
	resp := dto.UsuarioDesdeModelo(u)
	return &resp, nil
}

func (s *usuarioService) Eliminar(ctx context.Context, id uint) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return traducir(err, msgUsuarioNoEncontrado)
	}
	if n == 0 {
		return noEncontrado(msgUsuarioNoEncontrado)
	}
	return nil
}

func (s *usuarioService) CambiarPassword(ctx context.Context, id uint, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	n, err := s.repo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return err
	}
	if n == 0 {
		return noEncontrado(msgUsuarioNoEncontrado)
	}
	return nil
}

func (s *usuarioService) ListarRoles(ctx context.Context) ([]dto.RolResponse, error) {
	perfiles, err := s.perfiles.List(ctx)
	if err != nil {
		return nil, err
	}
	roles := make([]dto.RolResponse, 0, len(perfiles))
	for _, p := range perfiles {
		roles = append(roles, dto.RolResponse{ID: p.ID, Rol: p.Rol})
	}
	return roles, nil
}
