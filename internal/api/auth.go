package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type tokenRequest struct {
	Passcode string `json:"passcode"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func registerAuthAPI(g *echo.Group, ex PasscodeExchanger) {
	g.POST("/auth/token", func(ctx echo.Context) error {
		if ex == nil {
			return echo.NewHTTPError(http.StatusNotImplemented, "token exchange is not configured")
		}
		var req tokenRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		token, expires, err := ex.Exchange(req.Passcode)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, tokenResponse{Token: token, ExpiresAt: expires})
	})
}
