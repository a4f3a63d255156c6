package handler

import (
	"net/http"

	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Obtener serves GET /api/dashboard?days=N. N defaults to 30 and is clamped
// to [1, 365].
func (h *DashboardHandler) Obtener(c *gin.Context) {
	dias := service.ParseDias(c.Query("days"))
	resp, err := h.svc.Calcular(c.Request.Context(), dias)
	if err != nil {
		responderError(c, err, "Error al calcular dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}
