package handler

import (
	"errors"
	"fmt"
	"net/http"

	"farmacia/internal/apierror"
	"farmacia/internal/dto"
	"farmacia/internal/middleware"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Listar follows the DataTables server-side protocol (start, length,
// search[value], order[0][column], order[0][dir]).
func (h *VentasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		responderError(c, err, "Error al listar ventas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al obtener venta")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear registers the sale in one transaction. Any failure inside it is
// reported as a single creation error.
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var usuarioID uint
	if claims := middleware.GetClaims(c); claims != nil {
		usuarioID = claims.UserID
	}

	id, err := h.svc.Crear(c.Request.Context(), usuarioID, req)
	if err != nil {
		if errors.Is(err, service.ErrVentaNoCreada) {
			log.Error().
				Str("request_id", c.GetString(middleware.RequestIDKey)).
				Err(err).
				Msg("venta no registrada")
			c.JSON(http.StatusInternalServerError, apierror.New("Error al crear venta"))
			return
		}
		responderError(c, err, "Error al crear venta")
		return
	}
	c.JSON(http.StatusCreated, dto.CrearVentaResponse{Message: "Venta registrada", ID: id})
}

// Eliminar deletes the detail lines and then the header. Stock is not restored.
func (h *VentasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		responderError(c, err, "Error al eliminar venta")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Venta eliminada"})
}

func (h *VentasHandler) Comprobante(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pdf, err := h.svc.Comprobante(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al generar comprobante")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="comprobante_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
