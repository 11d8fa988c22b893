package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/controller"
	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/middleware"
	"github.com/api-sage/intl-payments-portal/src/internal/adapter/http/router"
	"github.com/api-sage/intl-payments-portal/src/internal/adapter/repository/postgres"
	"github.com/api-sage/intl-payments-portal/src/internal/config"
	"github.com/api-sage/intl-payments-portal/src/internal/crypto"
	"github.com/api-sage/intl-payments-portal/src/internal/domain"
	"github.com/api-sage/intl-payments-portal/src/internal/usecase/services"
)

const defaultSeedEmail = "samantha.jones@paysmart.com"

func main() {
	_ = godotenv.Load()

	// A bad or missing key aborts startup here; running without the key
	// that encrypted existing data is never recoverable.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	fieldCipher, err := crypto.NewFieldCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("init field cipher: %v", err)
	}

	digester, err := crypto.NewLookupDigester(cfg.HMACKey)
	if err != nil {
		log.Fatalf("init lookup digester: %v", err)
	}

	passwords := crypto.NewPasswordHasher()
	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	customerRepo := postgres.NewCustomerRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	customerService := services.NewCustomerService(customerRepo, fieldCipher, digester, passwords, tokens)
	staffService := services.NewStaffService(staffRepo, fieldCipher, passwords, tokens)
	paymentService := services.NewPaymentService(paymentRepo, customerRepo, fieldCipher, time.Now, services.NewNameCache())

	if seedPassword := os.Getenv("SEED_EMPLOYEE_PASSWORD"); seedPassword != "" {
		if err := staffService.SeedDefaultEmployee(ctx, defaultSeedEmail, seedPassword); err != nil {
			log.Fatalf("seed default employee: %v", err)
		}
	}

	mux := router.New(
		controller.NewAuthController(customerService, staffService),
		controller.NewPaymentController(paymentService),
		controller.NewEmployeeController(paymentService),
		tokens.RequireRole(domain.RoleCustomer),
		tokens.RequireRole(domain.RoleEmployee),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	log.Printf("international payments portal listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("serve http: %v", err)
	}
}
