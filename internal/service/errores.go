package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is; the
// message of the wrapping error is safe to show to the user.
var (
	ErrNoEncontrado  = errors.New("no encontrado")
	ErrDuplicado     = errors.New("duplicado")
	ErrInvalido      = errors.New("invalido")
	ErrCredenciales  = errors.New("credenciales invalidas")
	ErrVentaNoCreada = errors.New("venta no registrada")
)

type errorNegocio struct {
	kind error
	msg  string
}

func (e *errorNegocio) Error() string { return e.msg }
func (e *errorNegocio) Unwrap() error { return e.kind }

func noEncontrado(msg string) error { return &errorNegocio{kind: ErrNoEncontrado, msg: msg} }
func duplicado(msg string) error    { return &errorNegocio{kind: ErrDuplicado, msg: msg} }
func invalido(msg string) error     { return &errorNegocio{kind: ErrInvalido, msg: msg} }

// traducir maps store errors that carry a user meaning; everything else is
// returned untouched.
func traducir(err error, noEncontradoMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return noEncontrado(noEncontradoMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicado("El registro ya existe")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return invalido("El registro está referenciado por otros datos")
	}
	return err
}
