package dto

import (
	"farmacia/internal/foto"
	"farmacia/internal/model"

	"github.com/shopspring/decimal"
)

// ProductoRequest is the create/update body. Foto is a data URI or bare
// base64 payload; omitting it on update keeps the stored photo.
type ProductoRequest struct {
	Nombre    string           `json:"nombre"    validate:"required,max=150"`
	Categoria string           `json:"categoria" validate:"required,max=100"`
	Cantidad  *int             `json:"cantidad"  validate:"required"`
	Precio    *decimal.Decimal `json:"precio"    validate:"required,gte=0"`
	Foto      *string          `json:"foto"`
}

type ProductoResponse struct {
	ID        uint            `json:"id"`
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Cantidad  int             `json:"cantidad"`
	Precio    decimal.Decimal `json:"precio"`
	Foto      *string         `json:"foto"`
}

func ProductoDesdeModelo(p *model.Producto) ProductoResponse {
	return ProductoResponse{
		ID:        p.ID,
		Nombre:    p.Nombre,
		Categoria: p.Categoria,
		Cantidad:  p.Cantidad,
		Precio:    p.Precio,
		Foto:      foto.Normalizar(p.Foto),
	}
}
