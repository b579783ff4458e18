package handlers

import (
	"net/http"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterAuthRoutes registers the public login routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/signin", h.SignIn)
	g.POST("/auth/firebase-login", h.FirebaseLogin)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.Request().Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, resp)
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, resp)
}

// FirebaseLogin exchanges a verified Firebase ID token for a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, resp)
}
