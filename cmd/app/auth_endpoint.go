package main

import (
	"net/http"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/middleware"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/labstack/echo/v4"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func registerAuthRoutes(g *echo.Group, authSvc *services.AuthService) {
	auth := g.Group("/auth")

	// public signup -> role "user"
	auth.POST("/signup", func(c echo.Context) error {
		req := new(signupRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := authSvc.Register(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"userid": id})
	})

	auth.POST("/login", func(c echo.Context) error {
		req := new(loginRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}

		user, err := authSvc.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}

		token, err := middleware.GenerateToken(user.UserID, user.Email, user.Role, 24)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create token"})
		}

		return c.JSON(http.StatusOK, echo.Map{
			"token": token,
			"user": echo.Map{
				"userid": user.UserID,
				"email":  user.Email,
				"role":   user.Role,
			},
		})
	})

	// admin creates back-office accounts
	admin := auth.Group("/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.POST("/signup", middleware.AdminOnly(func(c echo.Context) error {
		req := new(signupRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
		}
		id, err := authSvc.RegisterAdmin(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{"userid": id})
	}))

	// authenticated identity, resolved against the live account rather than
	// the token so deleted accounts stop answering before expiry
	me := auth.Group("/me")
	me.Use(middleware.JWTMiddleware())
	me.GET("", func(c echo.Context) error {
		claims := middleware.GetClaims(c)
		u, err := authSvc.Me(c.Request().Context(), claims.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "account not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"userid": u.UserID,
			"email":  u.Email,
			"role":   u.Role,
		})
	})
}
