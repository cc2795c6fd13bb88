package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "lending-desk/internal/adapter/http"
	idemp "lending-desk/internal/adapter/middleware"
	"lending-desk/internal/adapter/repository/mysql"
	"lending-desk/internal/config"
	"lending-desk/internal/desk"
	"lending-desk/internal/desk/loandisbursement"
	"lending-desk/internal/domain/document"
	"lending-desk/internal/infrastructure/cache"
	"lending-desk/internal/infrastructure/db"
	"lending-desk/internal/usecase/deskview"
	ucDisbursement "lending-desk/internal/usecase/disbursement"
	ucRepayment "lending-desk/internal/usecase/repayment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := db.Migrate(cfg.MigrateURL(), cfg.MigrationsPath); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	// repositories + usecases
	tx := mysql.NewGormUoW(gdb)
	disbUC := ucDisbursement.NewUsecase(mysql.NewDisbursementRepository(gdb), tx)
	repUC := ucRepayment.NewUsecase(mysql.NewRepaymentRepository(gdb), tx)

	// desk bindings
	reg := desk.NewRegistry()
	if err := loandisbursement.Register(reg); err != nil {
		log.Fatal(err)
	}
	caller := desk.NewLocalCaller()
	caller.Handle(loandisbursement.MethodMakeRepaymentEntry, repUC.Serve)
	views := deskview.NewService(reg, map[string]deskview.Source{
		document.DoctypeLoanDisbursement: disbUC,
		document.DoctypeLoanRepayment:    repUC,
	})
	log.Printf("desk doctypes: %v", reg.Doctypes())

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	httpadp.Routes(e,
		httpadp.NewHandler(),
		httpadp.NewMethodHandler(repUC),
		httpadp.NewDeskHandler(views, disbUC, caller),
		idemp.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
