package main

import (
	"log"
	"os"

	"github.com/ViniciusLBarbosa/ffxivstore/external/discord"
	"github.com/ViniciusLBarbosa/ffxivstore/external/viacep"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/db"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/repository"
	"github.com/ViniciusLBarbosa/ffxivstore/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect()
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	cepClient := viacep.NewClient()

	var notifier services.OrderNotifier
	if n, err := discord.NewNotifier(); err != nil {
		logger.Warn("order notifications disabled", zap.Error(err))
	} else {
		notifier = n
	}

	// ======================
	// REPOSITORIES
	// ======================
	authRepo := repository.NewAuthRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool, productRepo, cartRepo)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(authRepo, profileRepo)
	profileSvc := services.NewProfileService(profileRepo)
	productSvc := services.NewProductService(productRepo)
	cartSvc := services.NewCartService(cartRepo, productRepo, logger)
	checkoutSvc := services.NewCheckoutService(cartSvc, profileRepo, orderRepo, notifier, logger)
	orderSvc := services.NewOrderService(orderRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/store")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc)
	registerProfileRoutes(api, profileSvc)
	registerProductRoutes(api, productSvc)
	registerCartRoutes(api, cartSvc)
	registerCheckoutRoutes(api, checkoutSvc, cepClient)
	registerOrderRoutes(api, orderSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
