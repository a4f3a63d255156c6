package dto

import (
	"time"

	"farmacia/internal/foto"
	"farmacia/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	IDProducto uint            `json:"idProducto" validate:"required"`
	Cantidad   int             `json:"cantidad"   validate:"required,gt=0"`
	Precio     decimal.Decimal `json:"precio"     validate:"gte=0"`
}

// CrearVentaRequest is the body of POST /api/ventas. The seller is always
// the authenticated user; an idUsuario in the body is ignored.
type CrearVentaRequest struct {
	IDCliente       uint                  `json:"idCliente"       validate:"required"`
	TipoComp        string                `json:"tipoComp"        validate:"required,max=30"`
	NumeroDoc       string                `json:"numeroDoc"       validate:"required,max=30"`
	RUC             *string               `json:"ruc"             validate:"omitempty,max=11"`
	RazonSocial     *string               `json:"razonSocial"     validate:"omitempty,max=150"`
	MetodoPago      string                `json:"metodoPago"      validate:"required,max=30"`
	NumTarjeta      *string               `json:"numTarjeta"      validate:"omitempty,max=30"`
	MontoEfectivo   decimal.Decimal       `json:"montoEfectivo"   validate:"gte=0"`
	MontoDevolucion decimal.Decimal       `json:"montoDevolucion" validate:"gte=0"`
	Total           decimal.Decimal       `json:"total"           validate:"gte=0"`
	Detalle         []DetalleVentaRequest `json:"detalle"         validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CrearVentaResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// VentaListItem is one row of GET /api/ventas. Column names match the
// aliases selected by the repository.
type VentaListItem struct {
	ID         uint            `json:"id"`
	IDCliente  uint            `json:"idCliente"  gorm:"column:id_cliente"`
	Cliente    string          `json:"cliente"`
	Correo     string          `json:"correo"`
	Direccion  string          `json:"direccion"`
	Fecha      time.Time       `json:"fecha"`
	NumeroDoc  string          `json:"numeroDoc"`
	TipoComp   string          `json:"tipoComp"`
	MetodoPago string          `json:"metodoPago"`
	Items      int64           `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

type DetalleVentaResponse struct {
	IDProducto uint            `json:"idProducto"`
	Nombre     string          `json:"nombre"`
	Cantidad   int             `json:"cantidad"`
	Precio     decimal.Decimal `json:"precio"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Foto       *string         `json:"foto"`
}

type VentaResponse struct {
	ID              uint                   `json:"id"`
	IDCliente       uint                   `json:"idCliente"`
	IDUsuario       uint                   `json:"idUsuario"`
	Cliente         string                 `json:"cliente"`
	Correo          string                 `json:"correo"`
	DNI             string                 `json:"dni"`
	TipoComp        string                 `json:"tipoComp"`
	NumeroDoc       string                 `json:"numeroDoc"`
	RUC             *string                `json:"ruc"`
	RazonSocial     *string                `json:"razonSocial"`
	MetodoPago      string                 `json:"metodoPago"`
	NumTarjeta      *string                `json:"numTarjeta"`
	MontoEfectivo   decimal.Decimal        `json:"montoEfectivo"`
	MontoDevolucion decimal.Decimal        `json:"montoDevolucion"`
	Total           decimal.Decimal        `json:"total"`
	Fecha           time.Time              `json:"fecha"`
	Detalle         []DetalleVentaResponse `json:"detalle"`
}

func VentaDesdeModelo(v *model.Venta) *VentaResponse {
	r := &VentaResponse{
		ID:              v.ID,
		IDCliente:       v.ClienteID,
		IDUsuario:       v.UsuarioID,
		TipoComp:        v.TipoComp,
		NumeroDoc:       v.NumeroDoc,
		RUC:             v.RUC,
		RazonSocial:     v.RazonSocial,
		MetodoPago:      v.MetodoPago,
		NumTarjeta:      v.NumTarjeta,
		MontoEfectivo:   v.MontoEfectivo,
		MontoDevolucion: v.MontoDevolucion,
		Total:           v.Total,
		Fecha:           v.Fecha,
		Detalle:         make([]DetalleVentaResponse, 0, len(v.Detalle)),
	}
	if v.Cliente != nil {
		r.Cliente = v.Cliente.Nombres
		r.Correo = v.Cliente.Correo
		r.DNI = v.Cliente.DNI
	}
	for _, d := range v.Detalle {
		item := DetalleVentaResponse{
			IDProducto: d.ProductoID,
			Cantidad:   d.Cantidad,
			Precio:     d.Precio,
			Subtotal:   d.Precio.Mul(decimal.NewFromInt(int64(d.Cantidad))),
		}
		if d.Producto != nil {
			item.Nombre = d.Producto.Nombre
			item.Foto = foto.Normalizar(d.Producto.Foto)
		}
		r.Detalle = append(r.Detalle, item)
	}
	return r
}
