package main

import (
	"net/http"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/middleware"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/labstack/echo/v4"
)

type discordRequest struct {
	Discord string `json:"discord"`
}

func registerProfileRoutes(g *echo.Group, ps *services.ProfileService) {
	p := g.Group("/profile")
	p.Use(middleware.JWTMiddleware())

	p.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		profile, err := ps.Get(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, profile)
	})

	p.PUT("/address", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		addr := new(model.Address)
		if err := c.Bind(addr); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := ps.UpdateAddress(c.Request().Context(), claims.UserID, *addr); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "address saved"})
	})

	p.PUT("/discord", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(discordRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := ps.UpdateDiscord(c.Request().Context(), claims.UserID, req.Discord); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "discord saved"})
	})
}
