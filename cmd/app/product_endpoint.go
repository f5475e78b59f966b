package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/middleware"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/labstack/echo/v4"
)

type stockToggleRequest struct {
	InStock bool `json:"inStock"`
}

type featuredToggleRequest struct {
	Featured bool `json:"featured"`
}

// registerProductRoutes mounts the catalog.
// Public:
//
//	GET /products            -> list (?category=&limit=&offset=)
//	GET /products/featured   -> home page highlights
//	GET /products/:id        -> detail
//
// Admin:
//
//	POST /products, PUT /products/:id, DELETE /products/:id
//	PUT /products/:id/stock, PUT /products/:id/featured
func registerProductRoutes(g *echo.Group, ps *services.ProductService) {
	g.GET("/products", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		category := model.Category(c.QueryParam("category"))

		list, err := ps.List(c.Request().Context(), category, limit, offset)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if list == nil {
			list = []model.Product{}
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/products/featured", func(c echo.Context) error {
		list, err := ps.ListFeatured(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if list == nil {
			list = []model.Product{}
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/products/:id", func(c echo.Context) error {
		p, err := ps.Get(c.Request().Context(), c.Param("id"))
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, p)
	})

	admin := g.Group("/products")
	admin.Use(middleware.JWTMiddleware())

	admin.POST("", middleware.AdminOnly(func(c echo.Context) error {
		p := new(model.Product)
		if err := c.Bind(p); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := ps.Create(c.Request().Context(), p)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]string{"id": id})
	}))

	admin.PUT("/:id", middleware.AdminOnly(func(c echo.Context) error {
		p := new(model.Product)
		if err := c.Bind(p); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		p.ProductID = c.Param("id")
		if err := ps.Update(c.Request().Context(), p); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	}))

	admin.DELETE("/:id", middleware.AdminOnly(func(c echo.Context) error {
		if err := ps.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
	}))

	admin.PUT("/:id/stock", middleware.AdminOnly(func(c echo.Context) error {
		req := new(stockToggleRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := ps.SetInStock(c.Request().Context(), c.Param("id"), req.InStock); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	}))

	admin.PUT("/:id/featured", middleware.AdminOnly(func(c echo.Context) error {
		req := new(featuredToggleRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := ps.SetFeatured(c.Request().Context(), c.Param("id"), req.Featured); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "updated"})
	}))
}
