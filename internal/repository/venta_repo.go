package repository

import (
	"context"

	"farmacia/internal/dto"
	"farmacia/internal/listado"
	"farmacia/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogoVentas follows the DataTables column order of the sales table.
var CatalogoVentas = listado.Catalogo{
	PorIndice: []listado.Columna{
		listado.Col("v.id"),
		listado.Col("c.nombres"),
		listado.Col("c.correo"),
		listado.Col("c.direccion"),
		listado.Col("v.fecha"),
		listado.Col("v.numero_doc"),
		listado.Col("v.metodo_pago"),
		listado.Col("items"),
		listado.Col("v.total"),
	},
	PorDefecto:          listado.Col("v.id"),
	DireccionPorDefecto: listado.Desc,
	Buscables: []listado.Columna{
		listado.Col("c.nombres"),
		listado.Col("c.correo"),
		listado.Col("c.direccion"),
		listado.Col("v.numero_doc"),
	},
}

const seleccionVentas = `v.id, v.cliente_id AS id_cliente,
	COALESCE(c.nombres, '') AS cliente, COALESCE(c.correo, '') AS correo, COALESCE(c.direccion, '') AS direccion,
	v.fecha, v.numero_doc, v.tipo_comp, v.metodo_pago, v.total,
	(SELECT COUNT(*) FROM detalle_ventas d WHERE d.venta_id = v.id) AS items`

type VentaRepository interface {
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
	// Create inserts the header only; detail rows go through CreateDetalle.
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	CreateDetalle(ctx context.Context, tx *gorm.DB, detalle []model.DetalleVenta) error
	// Delete removes the detail rows and then the header, returning the
	// number of header rows deleted.
	Delete(ctx context.Context, tx *gorm.DB, id uint) (int64, error)
	FindByID(ctx context.Context, id uint) (*model.Venta, error)
	List(ctx context.Context, q listado.Consulta) ([]dto.VentaListItem, int64, int64, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *ventaRepo) CreateDetalle(ctx context.Context, tx *gorm.DB, detalle []model.DetalleVenta) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(&detalle).Error
}

func (r *ventaRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	if err := tx.WithContext(ctx).Where("venta_id = ?", id).Delete(&model.DetalleVenta{}).Error; err != nil {
		return 0, err
	}
	res := tx.WithContext(ctx).Delete(&model.Venta{}, id)
	return res.RowsAffected, res.Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uint) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Detalle", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Detalle.Producto").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, q listado.Consulta) ([]dto.VentaListItem, int64, int64, error) {
	var rows []dto.VentaListItem
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("ventas AS v").
			Joins("LEFT JOIN clientes c ON c.id = v.cliente_id")
	}
	total, filtrados, err := paginar(base, seleccionVentas, q, &rows)
	return rows, total, filtrados, err
}
