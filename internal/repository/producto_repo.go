package repository

import (
	"context"

	"farmacia/internal/listado"
	"farmacia/internal/model"

	"gorm.io/gorm"
)

var CatalogoProductos = listado.Catalogo{
	Ordenables: map[string]listado.Columna{
		"id":        listado.Col("id"),
		"nombre":    listado.Col("nombre"),
		"categoria": listado.Col("categoria"),
		"cantidad":  listado.Col("cantidad"),
		"precio":    listado.Col("precio"),
	},
	PorDefecto:          listado.Col("id"),
	DireccionPorDefecto: listado.Desc,
	Buscables:           []listado.Columna{listado.Col("nombre"), listado.Col("categoria")},
}

type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uint) (*model.Producto, error)
	// Update writes every column; the photo only when conFoto is true.
	Update(ctx context.Context, p *model.Producto, conFoto bool) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	List(ctx context.Context, q listado.Consulta) ([]model.Producto, int64, int64, error)
	// DescontarStock subtracts cantidad from the product inside tx and returns
	// the rows affected. With permitirNegativo false the update only applies
	// while enough stock remains.
	DescontarStock(ctx context.Context, tx *gorm.DB, id uint, cantidad int, permitirNegativo bool) (int64, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uint) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto, conFoto bool) (int64, error) {
	cols := []any{"categoria", "cantidad", "precio", "updated_at"}
	if conFoto {
		cols = append(cols, "foto")
	}
	res := r.db.WithContext(ctx).Model(&model.Producto{ID: p.ID}).
		Select("nombre", cols...).
		Updates(p)
	return res.RowsAffected, res.Error
}

func (r *productoRepo) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Producto{}, id)
	return res.RowsAffected, res.Error
}

func (r *productoRepo) List(ctx context.Context, q listado.Consulta) ([]model.Producto, int64, int64, error) {
	var rows []model.Producto
	base := func() *gorm.DB { return r.db.WithContext(ctx).Model(&model.Producto{}) }
	total, filtrados, err := paginar(base, "", q, &rows)
	return rows, total, filtrados, err
}

func (r *productoRepo) DescontarStock(ctx context.Context, tx *gorm.DB, id uint, cantidad int, permitirNegativo bool) (int64, error) {
	q := tx.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id)
	if !permitirNegativo {
		q = q.Where("cantidad >= ?", cantidad)
	}
	res := q.Update("cantidad", gorm.Expr("cantidad - ?", cantidad))
	return res.RowsAffected, res.Error
}
