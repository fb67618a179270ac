package handlers

import (
	"newsdesk/helper"
	"newsdesk/middleware"
	"newsdesk/models"
	"newsdesk/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: h}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Register success", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login success", response)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.Helper.SendUnauthorizedError(c, "Authentication credentials were not provided.")
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}
