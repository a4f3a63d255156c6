package repository

import (
	"farmacia/internal/listado"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paginar runs the three queries behind a list endpoint: unfiltered count,
// filtered count and the requested page scanned into dest. base must return
// a fresh query (table and joins, no select) on every call.
func paginar(base func() *gorm.DB, seleccion string, q listado.Consulta, dest any) (total, filtrados int64, err error) {
	if err = base().Count(&total).Error; err != nil {
		return 0, 0, err
	}

	filtrada := func() *gorm.DB {
		db := base()
		if cond, args := q.Filtro(); cond != "" {
			db = db.Where(cond, args...)
		}
		return db
	}
	if err = filtrada().Count(&filtrados).Error; err != nil {
		return 0, 0, err
	}

	page := filtrada()
	if seleccion != "" {
		page = page.Select(seleccion)
	}
	err = page.
		Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.Orden.String(), Raw: true},
			Desc:   q.Direccion == listado.Desc,
		}).
		Offset(q.Offset).
		Limit(q.Limite).
		Scan(dest).Error
	return total, filtrados, err
}
