package main

import (
	"net/http"
	"strconv"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/middleware"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/labstack/echo/v4"
)

type statusUpdateRequest struct {
	Status model.OrderStatus `json:"status"`
}

func registerOrderRoutes(g *echo.Group, osvc *services.OrderService) {
	p := g.Group("/orders")
	p.Use(middleware.JWTMiddleware())

	// own order history
	p.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		orders, err := osvc.ListByUser(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if orders == nil {
			orders = []model.Order{}
		}
		return c.JSON(http.StatusOK, orders)
	})

	// order confirmation view; owner or admin
	p.GET("/:id", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		o, err := osvc.Get(c.Request().Context(), c.Param("id"), claims.UserID, claims.Role == "admin")
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return c.JSON(http.StatusOK, o)
	})

	// admin back-office
	p.GET("/admin/all", middleware.AdminOnly(func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		orders, err := osvc.ListAll(c.Request().Context(), limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if orders == nil {
			orders = []model.Order{}
		}
		return c.JSON(http.StatusOK, orders)
	}))

	p.PUT("/:id/status", middleware.AdminOnly(func(c echo.Context) error {
		req := new(statusUpdateRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := osvc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "status updated"})
	}))
}
