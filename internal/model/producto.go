package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a catalog item. Cantidad is the stock on hand and may go
// negative when sales are allowed to oversell.
type Producto struct {
	ID        uint            `gorm:"primaryKey"`
	Nombre    string          `gorm:"size:150;index;not null"`
	Categoria string          `gorm:"size:100;not null"`
	Cantidad  int             `gorm:"not null;default:0"`
	Precio    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// Foto holds either raw image bytes or the text of a data URI / base64 payload.
	Foto      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
