package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/dto"
	"github.com/teukusulthan/ninetyn-client/internal/session"
)

type AuthHandler struct {
	backend *api.Client
	session *session.Session
}

func NewAuthHandler(backend *api.Client, sess *session.Session) *AuthHandler {
	return &AuthHandler{backend: backend, session: sess}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	token, err := h.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, err, "Login gagal. Periksa email/password.")
	}

	if err := h.session.SetCredential(token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "persist credential")
	}
	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.backend.Register(ctx, req.Name, req.Email, req.Password); err != nil {
		return fail(c, err, "Registrasi gagal.")
	}
	return c.JSON(http.StatusCreated, dto.MessageResponse{Message: "Registrasi berhasil."})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.Logout()
	return c.NoContent(http.StatusNoContent)
}

// Me reports the cached profile. The loading flag tells the caller a refresh
// is still in flight.
func (h *AuthHandler) Me(c echo.Context) error {
	if h.session.Token() == "" {
		return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Belum login."})
	}
	return c.JSON(http.StatusOK, dto.MeResponse{
		Data:    h.session.User(),
		Loading: h.session.Loading(),
	})
}

// Refresh revalidates the credential synchronously and returns the outcome.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.session.RefreshProfile(ctx); err != nil {
		if api.IsUnauthorized(err) {
			return c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Sesi sudah berakhir."})
		}
		// Transient failure: the session keeps its state, tell the caller
		// nothing changed.
		return c.JSON(http.StatusOK, dto.MeResponse{
			Data:    h.session.User(),
			Loading: h.session.Loading(),
		})
	}
	return c.JSON(http.StatusOK, dto.MeResponse{
		Data:    h.session.User(),
		Loading: h.session.Loading(),
	})
}

// fail converts a backend rejection into the user-facing message the views
// show inline, keeping the backend's status when one exists.
func fail(c echo.Context, err error, fallback string) error {
	return c.JSON(
		api.StatusCode(err, http.StatusBadGateway),
		dto.MessageResponse{Message: api.Message(err, fallback)},
	)
}
