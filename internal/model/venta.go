package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta is a sale header. Detail rows are created with it in one
// transaction and never modified afterwards.
type Venta struct {
	ID              uint            `gorm:"primaryKey"`
	ClienteID       uint            `gorm:"index;not null"`
	UsuarioID       uint            `gorm:"index;not null"`
	TipoComp        string          `gorm:"size:30;not null"`
	NumeroDoc       string          `gorm:"size:30;not null"`
	RUC             *string         `gorm:"column:ruc;size:11"`
	RazonSocial     *string         `gorm:"size:150"`
	MetodoPago      string          `gorm:"size:30;not null"`
	NumTarjeta      *string         `gorm:"size:30"`
	MontoEfectivo   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MontoDevolucion decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Fecha           time.Time       `gorm:"index;not null"`

	Cliente *Cliente       `gorm:"foreignKey:ClienteID"`
	Detalle []DetalleVenta `gorm:"foreignKey:VentaID"`
}

type DetalleVenta struct {
	ID         uint            `gorm:"primaryKey"`
	VentaID    uint            `gorm:"index;not null"`
	ProductoID uint            `gorm:"index;not null"`
	Cantidad   int             `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalle_ventas" }
