package repository

import (
	"context"

	"farmacia/internal/dto"
	"farmacia/internal/listado"
	"farmacia/internal/model"

	"gorm.io/gorm"
)

// CatalogoUsuarios lists users sorted ascending by id unless asked otherwise.
var CatalogoUsuarios = listado.Catalogo{
	Ordenables: map[string]listado.Columna{
		"id":             listado.Col("u.id"),
		"username":       listado.Col("u.username"),
		"nombreCompleto": listado.Col("u.nombre_completo"),
		"email":          listado.Col("u.email"),
		"dni":            listado.Col("u.dni"),
		"celular":        listado.Col("u.celular"),
		"direccion":      listado.Col("u.direccion"),
		"rol":            listado.Col("p.rol"),
	},
	PorDefecto:          listado.Col("u.id"),
	DireccionPorDefecto: listado.Asc,
	Buscables: []listado.Columna{
		listado.Col("u.id"),
		listado.Col("u.username"),
		listado.Col("u.nombre_completo"),
		listado.Col("u.email"),
		listado.Col("u.dni"),
	},
}

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uint) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	// ExisteCampo reports whether another user (id != exceptID) already has value in column.
	ExisteCampo(ctx context.Context, column, value string, exceptID uint) (bool, error)
	Update(ctx context.Context, u *model.Usuario) error
	UpdatePassword(ctx context.Context, id uint, hash string) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	List(ctx context.Context, q listado.Consulta) ([]dto.UsuarioResponse, int64, int64, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Omit("Perfil").Create(u).Error
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Perfil").First(&u, id).Error
	return &u, err
}

// FindByUsername accepts the username or the email (case-insensitive).
func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Perfil").
		Where("username = ? OR LOWER(email) = LOWER(?)", username, username).
		First(&u).Error
	return &u, err
}

var camposUnicos = map[string]bool{"email": true, "dni": true, "username": true}

func (r *usuarioRepo) ExisteCampo(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	if !camposUnicos[column] {
		return false, gorm.ErrInvalidField
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).
		Where(column+" = ? AND id <> ?", value, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Model(&model.Usuario{ID: u.ID}).
		Select("username", "nombre_completo", "celular", "email", "dni", "direccion", "perfil_id", "updated_at").
		Updates(u).Error
}

func (r *usuarioRepo) UpdatePassword(ctx context.Context, id uint, hash string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("password_hash", hash)
	return res.RowsAffected, res.Error
}

func (r *usuarioRepo) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Usuario{}, id)
	return res.RowsAffected, res.Error
}

func (r *usuarioRepo) List(ctx context.Context, q listado.Consulta) ([]dto.UsuarioResponse, int64, int64, error) {
	var rows []dto.UsuarioResponse
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("usuarios AS u").
			Joins("LEFT JOIN perfiles p ON p.id = u.perfil_id")
	}
	total, filtrados, err := paginar(base,
		"u.id, u.username, u.nombre_completo, u.celular, u.email, u.dni, u.direccion, u.perfil_id, COALESCE(p.rol, '') AS rol",
		q, &rows)
	return rows, total, filtrados, err
}
