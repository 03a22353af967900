// Package main librarydesk API.
//
// @title           librarydesk API
// @version         1.0
// @description     library management (catalog, shelves, borrowings, users).
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

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"librarydesk/app/echoServer"
	authctrl "librarydesk/app/echoServer/controller/auth"
	borrowctrl "librarydesk/app/echoServer/controller/borrowing"
	coverctrl "librarydesk/app/echoServer/controller/cover"
	itemctrl "librarydesk/app/echoServer/controller/item"
	shelfctrl "librarydesk/app/echoServer/controller/shelf"
	statsctrl "librarydesk/app/echoServer/controller/stats"
	"librarydesk/app/echoServer/validation"
	"librarydesk/config"
	coverrepo "librarydesk/repository/cover"
	authsvc "librarydesk/service/auth"
	borrowsvc "librarydesk/service/borrowing"
	catalogsvc "librarydesk/service/catalog"
	shelfsvc "librarydesk/service/shelf"
	"librarydesk/storage"
	"librarydesk/storage/memory"
	"librarydesk/storage/postgres"
	"librarydesk/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// store: Postgres when a DSN is configured, in-memory otherwise
	var store storage.Store
	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.New(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory store")
		store = memory.New()
	}

	// repos
	covers := coverrepo.NewHTTP(cfg.CoverEndpoint, cfg.CoverBucket)

	// services
	as := authsvc.New(store, cfg.JWTSecret)
	cs := catalogsvc.New(store)
	ss := shelfsvc.New(store)
	bs := borrowsvc.New(store, cs, cfg.LoanPeriodDays)

	// background overdue sweep
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go borrowsvc.NewSweeper(bs, cfg.SweepInterval, log).Run(sweepCtx)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	itemC := &itemctrl.Controller{Svc: cs, V: v, Log: log}
	shelfC := &shelfctrl.Controller{Svc: ss, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: bs, V: v, Log: log}
	coverC := &coverctrl.Controller{Svc: cs, Cover: covers, Log: log}
	statsC := &statsctrl.Controller{Src: store, Log: log}

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
		Auth:      authC,
		Item:      itemC,
		Shelf:     shelfC,
		Borrowing: borrowC,
		Cover:     coverC,
		Stats:     statsC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "env", cfg.Env, "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
