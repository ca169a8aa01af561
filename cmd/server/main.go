package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/in/http"
	memoryadapter "github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/memory"
	mysqladapter "github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/mysql"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/nominatim"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/logger"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

func main() {
	// 1. 載入設定
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger)

	// 2. 初始化儲存層
	var accountRepo usecase.AccountRepository
	var userRepo usecase.UserRepository

	switch cfg.Store {
	case config.StoreMySQL:
		dbClient, err := mysql.NewClient(cfg.MySQL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mysql")
		}
		defer dbClient.Close()
		log.Info().Msg("connected to mysql")

		ledgerRepo := mysqladapter.NewMySQLLedger(dbClient)
		if err := ledgerRepo.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate ledger tables")
		}
		usersRepo := mysqladapter.NewMySQLUsers(dbClient)
		if err := usersRepo.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate users table")
		}
		accountRepo = ledgerRepo
		userRepo = usersRepo

	case config.StoreMemory:
		journal, err := wal.Open(cfg.WALPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open wal")
		}
		defer journal.Close()

		memoryLedger, err := memoryadapter.NewMemoryLedger(journal)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init memory ledger")
		}
		accountRepo = memoryLedger
		userRepo = memoryadapter.NewMemoryUsers()
		log.Info().Str("wal", cfg.WALPath).Msg("using in-memory store")

	default:
		log.Fatal().Str("store", cfg.Store).Msg("invalid store type")
	}

	// 3. 組裝 UseCase 與 HTTP Adapter
	geocoder := nominatim.NewClient(cfg.Geocoder, log)
	userService := usecase.NewUserService(userRepo, geocoder, log)
	ledgerService := usecase.NewLedgerService(accountRepo, userService, log)
	server := httpadapter.NewServer(ledgerService, userService, log)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: server.Router(),
	}

	// 4. 啟動 HTTP Server
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server exited")
}
