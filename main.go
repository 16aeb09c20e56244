// Package main rental agreement API.
//
// @title           Rental Agreement API
// @version         1.0
// @description     Rental lifecycle service (requests, contracts, payments).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer"
	contractctrl "github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer/controller/contract"
	paymentctrl "github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer/controller/payment"
	requestctrl "github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer/controller/request"
	"github.com/JunaidUthman/Rentale-Agreement-Microservice/app/echoServer/validation"
	"github.com/JunaidUthman/Rentale-Agreement-Microservice/config"
	contractrepo "github.com/JunaidUthman/Rentale-Agreement-Microservice/repository/contract"
	paymentrepo "github.com/JunaidUthman/Rentale-Agreement-Microservice/repository/payment"
	propertyrepo "github.com/JunaidUthman/Rentale-Agreement-Microservice/repository/property"
	requestrepo "github.com/JunaidUthman/Rentale-Agreement-Microservice/repository/request"
	contractsvc "github.com/JunaidUthman/Rentale-Agreement-Microservice/service/contract"
	paymentsvc "github.com/JunaidUthman/Rentale-Agreement-Microservice/service/payment"
	requestsvc "github.com/JunaidUthman/Rentale-Agreement-Microservice/service/request"
	"github.com/JunaidUthman/Rentale-Agreement-Microservice/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB over pgx
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// repos
	rr := requestrepo.New(db)
	cr := contractrepo.New(db)
	pr := paymentrepo.New(db)
	props := propertyrepo.NewHTTP(cfg.PropertyServiceURL)

	// services
	rs := requestsvc.New(db, rr, props)
	cs := contractsvc.New(db, cr)
	ps := paymentsvc.New(pr, cr)

	// stale PENDING requests get rejected on a schedule
	cleaner := requestsvc.NewCleaner(rr, time.Duration(cfg.RequestTTLHours)*time.Hour)
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.CleanupSchedule, func() {
		n, err := cleaner.RejectExpired(context.Background())
		if err != nil {
			log.Error("request cleanup failed", "err", err)
			return
		}
		if n > 0 {
			log.Info("expired requests rejected", "count", n)
		}
	}); err != nil {
		log.Error("cleanup schedule invalid", "err", err, "schedule", cfg.CleanupSchedule)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// controllers
	v := validator.New()
	requestC := &requestctrl.Controller{Svc: rs, V: v, Log: log}
	contractC := &contractctrl.Controller{Svc: cs, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ps, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Request:  requestC,
		Contract: contractC,
		Payment:  paymentC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
