package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Modules that can be granted through a Perfil.
const (
	ModuloUsuarios  = "USUARIOS"
	ModuloClientes  = "CLIENTES"
	ModuloProductos = "PRODUCTOS"
	ModuloVentas    = "VENTAS"
	ModuloDashboard = "DASHBOARD"
)

// Modulos lists every module in menu order.
var Modulos = []string{ModuloDashboard, ModuloUsuarios, ModuloClientes, ModuloProductos, ModuloVentas}

// Perfil is a named role carrying the ordered list of module grants.
type Perfil struct {
	ID      uint    `gorm:"primaryKey"`
	Rol     string  `gorm:"size:50;uniqueIndex;not null"`
	Accesos Accesos `gorm:"type:text;not null"`
}

func (Perfil) TableName() string { return "perfiles" }

type Acceso struct {
	Modulo string `json:"modulo"`
	Acceso bool   `json:"acceso"`
}

// Accesos is persisted as a JSON array in a text column.
type Accesos []Acceso

func (a Accesos) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Accesos) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Accesos{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("accesos: tipo no soportado %T", src)
	}
	return json.Unmarshal(raw, a)
}

// Plano returns the upper-cased module names whose grant is true.
func (a Accesos) Plano() []string {
	plano := make([]string, 0, len(a))
	for _, acc := range a {
		if acc.Acceso {
			plano = append(plano, strings.ToUpper(acc.Modulo))
		}
	}
	return plano
}
