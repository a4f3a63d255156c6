package repository

import (
	"context"

	"farmacia/internal/listado"
	"farmacia/internal/model"

	"gorm.io/gorm"
)

var CatalogoClientes = listado.Catalogo{
	Ordenables: map[string]listado.Columna{
		"id":        listado.Col("id"),
		"dni":       listado.Col("dni"),
		"ruc":       listado.Col("ruc"),
		"nombres":   listado.Col("nombres"),
		"celular":   listado.Col("celular"),
		"direccion": listado.Col("direccion"),
		"correo":    listado.Col("correo"),
	},
	PorDefecto:          listado.Col("id"),
	DireccionPorDefecto: listado.Desc,
	Buscables:           []listado.Columna{listado.Col("dni"), listado.Col("nombres"), listado.Col("correo")},
}

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uint) (*model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	List(ctx context.Context, q listado.Consulta) ([]model.Cliente, int64, int64, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uint) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Cliente{ID: c.ID}).
		Select("dni", "ruc", "nombres", "celular", "direccion", "correo", "updated_at").
		Updates(c)
	return res.RowsAffected, res.Error
}

func (r *clienteRepo) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Cliente{}, id)
	return res.RowsAffected, res.Error
}

func (r *clienteRepo) List(ctx context.Context, q listado.Consulta) ([]model.Cliente, int64, int64, error) {
	var rows []model.Cliente
	base := func() *gorm.DB { return r.db.WithContext(ctx).Model(&model.Cliente{}) }
	total, filtrados, err := paginar(base, "", q, &rows)
	return rows, total, filtrados, err
}
