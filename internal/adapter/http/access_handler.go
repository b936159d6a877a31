package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loan-ledger/internal/usecase/access"
)

// HeaderAdminSecret carries ADMIN_SECRET_KEY for the one-time admin bootstrap.
const HeaderAdminSecret = "X-Admin-Secret"

type AccessHandler struct {
	uc  *access.Usecase
	log *zap.Logger
}

func NewAccessHandler(uc *access.Usecase, log *zap.Logger) *AccessHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccessHandler{uc: uc, log: log}
}

type registerReq struct {
	Username    string `json:"username"     validate:"required,max=150"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	AdminSecret string `json:"admin_secret"`
}

// RegisterAdmin takes the secret from X-Admin-Secret or the admin_secret field.
func (h *AccessHandler) RegisterAdmin(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	secret := c.Request().Header.Get(HeaderAdminSecret)
	if secret == "" {
		secret = req.AdminSecret
	}
	out, err := h.uc.RegisterAdmin(c.Request().Context(), secret, access.RegisterInput{Username: req.Username, Password: req.Password})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AccessHandler) RegisterUser(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.RegisterUser(c.Request().Context(), access.RegisterInput{Username: req.Username, Password: req.Password})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AccessHandler) RevokeKey(c echo.Context) error {
	if err := h.uc.RevokeKey(c.Request().Context(), c.Param("prefix")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
