package model

import "time"

type Cliente struct {
	ID        uint    `gorm:"primaryKey"`
	DNI       string  `gorm:"column:dni;size:11;index;not null"`
	RUC       *string `gorm:"column:ruc;size:11"`
	Nombres   string  `gorm:"size:150;not null"`
	Celular   string  `gorm:"size:20"`
	Direccion string  `gorm:"size:200"`
	Correo    string  `gorm:"size:120;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
