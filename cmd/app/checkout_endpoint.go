package main

import (
	"errors"
	"net/http"

	"github.com/ViniciusLBarbosa/ffxivstore/external/viacep"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/middleware"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/labstack/echo/v4"
)

type contactRequest struct {
	Discord string `json:"discord"`
}

type paymentRequest struct {
	Currency model.Currency      `json:"currency"`
	Method   model.PaymentMethod `json:"paymentMethod"`
}

func checkoutErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNoCheckoutSession):
		return http.StatusNotFound
	case errors.Is(err, services.ErrWrongStep):
		return http.StatusConflict
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, repository.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// registerCheckoutRoutes mounts the stepper:
// start -> address -> contact -> payment -> confirm, with back-navigation.
// The postal lookup is a convenience; its failure never blocks checkout.
func registerCheckoutRoutes(g *echo.Group, cks *services.CheckoutService, cep *viacep.Client) {
	p := g.Group("/checkout")
	p.Use(middleware.JWTMiddleware())

	p.POST("/start", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		sess, err := cks.Start(c.Request().Context(), claims.UserID, claims.Email)
		if err != nil {
			return c.JSON(checkoutErrorStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, sess)
	})

	p.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		sess, err := cks.Current(claims.UserID)
		if err != nil {
			return c.JSON(checkoutErrorStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, sess)
	})

	p.POST("/address", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		addr := new(model.Address)
		if err := c.Bind(addr); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cks.SubmitAddress(c.Request().Context(), claims.UserID, *addr); err != nil {
			return c.JSON(checkoutErrorStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "address saved"})
	})

	p.POST("/contact", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(contactRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cks.SubmitContact(c.Request().Context(), claims.UserID, req.Discord); err != nil {
			return c.JSON(checkoutErrorStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "contact saved"})
	})

	p.POST("/payment", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		req := new(paymentRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		if err := cks.SubmitPayment(claims.UserID, req.Currency, req.Method); err != nil {
			return c.JSON(checkoutErrorStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "payment selected"})
	})

	p.POST("/back", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		if err := cks.Back(claims.UserID); err != nil {
			return c.JSON(checkoutErrorStatus(err), map[string]string{"error": err.Error()})
		}
		sess, _ := cks.Current(claims.UserID)
		return c.JSON(http.StatusOK, sess)
	})

	p.POST("/confirm", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		orderID, err := cks.Confirm(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(checkoutErrorStatus(err), map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"orderid": orderID})
	})

	p.DELETE("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		cks.Abandon(claims.UserID)
		return c.JSON(http.StatusOK, map[string]string{"message": "checkout abandoned"})
	})

	// CEP autofill for the address step
	p.GET("/cep/:cep", func(c echo.Context) error {
		addr, err := cep.Lookup(c.Request().Context(), c.Param("cep"))
		if err != nil {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, addr)
	})
}
