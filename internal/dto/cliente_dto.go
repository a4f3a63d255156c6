package dto

import "farmacia/internal/model"

type ClienteRequest struct {
	DNI       string  `json:"dni"       validate:"required,max=11"`
	RUC       *string `json:"ruc"       validate:"omitempty,max=11"`
	Nombres   string  `json:"nombres"   validate:"required,max=150"`
	Celular   string  `json:"celular"   validate:"omitempty,max=20"`
	Direccion string  `json:"direccion" validate:"omitempty,max=200"`
	Correo    string  `json:"correo"    validate:"required,email,max=120"`
}

type ClienteResponse struct {
	ID        uint    `json:"id"`
	DNI       string  `json:"dni"`
	RUC       *string `json:"ruc"`
	Nombres   string  `json:"nombres"`
	Celular   string  `json:"celular"`
	Direccion string  `json:"direccion"`
	Correo    string  `json:"correo"`
}

func ClienteDesdeModelo(c *model.Cliente) ClienteResponse {
	return ClienteResponse{
		ID:        c.ID,
		DNI:       c.DNI,
		RUC:       c.RUC,
		Nombres:   c.Nombres,
		Celular:   c.Celular,
		Direccion: c.Direccion,
		Correo:    c.Correo,
	}
}
