package handler

import (
	"net/http"

	"farmacia/internal/dto"
	"farmacia/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login accepts the username or the email. Bad credentials are a 401 with
// no hint about which part was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al iniciar sesión")
		return
	}
	c.JSON(http.StatusOK, resp)
}
