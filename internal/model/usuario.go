package model

import "time"

// Usuario is a back-office staff account. Email, DNI and Username are unique.
type Usuario struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"size:50;uniqueIndex;not null"`
	NombreCompleto string `gorm:"size:150;not null"`
	Celular        string `gorm:"size:20"`
	Email          string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	// DNI is always 8 digits; the column tag avoids GORM splitting the initialism.
	DNI       string `gorm:"column:dni;size:8;uniqueIndex;not null"`
	Direccion string `gorm:"size:200"`
	PerfilID  uint   `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Perfil *Perfil `gorm:"foreignKey:PerfilID"`
}
