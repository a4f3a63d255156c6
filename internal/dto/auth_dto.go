package dto

import "farmacia/internal/model"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CrearUsuarioRequest struct {
	Username       string `json:"username"       validate:"required,max=50"`
	NombreCompleto string `json:"nombreCompleto" validate:"required,max=150"`
	Celular        string `json:"celular"        validate:"omitempty,max=20"`
	Email          string `json:"email"          validate:"required,email,max=120"`
	Password       string `json:"password"       validate:"required,min=6"`
	DNI            string `json:"dni"            validate:"required,len=8,numeric"`
	Direccion      string `json:"direccion"      validate:"omitempty,max=200"`
	PerfilID       uint   `json:"idPerfil"       validate:"required"`
}

type ActualizarUsuarioRequest struct {
	Username       string `json:"username"       validate:"required,max=50"`
	NombreCompleto string `json:"nombreCompleto" validate:"required,max=150"`
	Celular        string `json:"celular"        validate:"omitempty,max=20"`
	Email          string `json:"email"          validate:"required,email,max=120"`
	DNI            string `json:"dni"            validate:"required,len=8,numeric"`
	Direccion      string `json:"direccion"      validate:"omitempty,max=200"`
	PerfilID       uint   `json:"idPerfil"       validate:"required"`
}

type CambiarPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	NombreCompleto string `json:"nombreCompleto"`
	Celular        string `json:"celular"`
	Email          string `json:"email"`
	DNI            string `json:"dni" gorm:"column:dni"`
	Direccion      string `json:"direccion"`
	PerfilID       uint   `json:"idPerfil"`
	Rol            string `json:"rol"`
}

// UsuarioSesion is the user block of a successful login. The front end gates
// its menu on AccesosPlano.
type UsuarioSesion struct {
	UsuarioResponse
	Accesos      []model.Acceso `json:"accesos"`
	AccesosPlano []string       `json:"accesosPlano"`
}

type LoginResponse struct {
	Message   string        `json:"message"`
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"` // seconds
	User      UsuarioSesion `json:"user"`
}

type RolResponse struct {
	ID  uint   `json:"id"`
	Rol string `json:"rol"`
}

func UsuarioDesdeModelo(u *model.Usuario) UsuarioResponse {
	r := UsuarioResponse{
		ID:             u.ID,
		Username:       u.Username,
		NombreCompleto: u.NombreCompleto,
		Celular:        u.Celular,
		Email:          u.Email,
		DNI:            u.DNI,
		Direccion:      u.Direccion,
		PerfilID:       u.PerfilID,
	}
	if u.Perfil != nil {
		r.Rol = u.Perfil.Rol
	}
	return r
}
