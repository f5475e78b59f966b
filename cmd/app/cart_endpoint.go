package main

import (
	"errors"
	"net/http"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/middleware"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type addCartRequest struct {
	ProductID  string          `json:"productId"`
	Job        string          `json:"job,omitempty"`
	StartLevel int             `json:"startLevel,omitempty"`
	EndLevel   int             `json:"endLevel,omitempty"`
	GilAmount  decimal.Decimal `json:"gilAmount,omitempty"` // millions
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func cartErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrDuplicateJob),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrOutOfStock):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func registerCartRoutes(g *echo.Group, cs *services.CartService) {
	p := g.Group("/cart")
	p.Use(middleware.JWTMiddleware())

	// GET cart; prunes lines whose product went out of stock and reports
	// them in removedLines
	p.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		cart, err := cs.Load(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, cart)
	})

	// ADD line
	p.POST("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(addCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		err := cs.Add(c.Request().Context(), claims.UserID, services.AddRequest{
			ProductID:  req.ProductID,
			Job:        req.Job,
			StartLevel: req.StartLevel,
			EndLevel:   req.EndLevel,
			GilAmount:  req.GilAmount,
		})
		if err != nil {
			return c.JSON(cartErrorStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]string{"message": "added"})
	})

	// UPDATE quantity
	p.PUT("/:lineid", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(updateCartRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cs.UpdateQuantity(c.Request().Context(), claims.UserID, c.Param("lineid"), req.Quantity); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	})

	// REMOVE line
	p.DELETE("/:lineid", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if err := cs.Remove(c.Request().Context(), claims.UserID, c.Param("lineid")); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "removed"})
	})

	// CLEAR cart
	p.DELETE("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if err := cs.Clear(c.Request().Context(), claims.UserID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "cleared"})
	})
}
