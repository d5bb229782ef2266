package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	// Infraestrutura e utilitários
	"boardcamp/config"
	"boardcamp/internal/pkg/cache"
	"boardcamp/internal/pkg/database"
	"boardcamp/internal/pkg/logger"
	"boardcamp/internal/pkg/metrics"
	"boardcamp/internal/pkg/middleware"
	"boardcamp/internal/pkg/validation"

	// Camadas para Injeção de Dependências
	"boardcamp/internal/api/catalog"
	"boardcamp/internal/api/customer"
	"boardcamp/internal/api/rental"
	"boardcamp/internal/api/router"
	"boardcamp/internal/repository/categoryrepo"
	"boardcamp/internal/repository/customerrepo"
	"boardcamp/internal/repository/gamerepo"
	"boardcamp/internal/repository/rentalrepo"
	"boardcamp/internal/service/catalogservice"
	"boardcamp/internal/service/customerservice"
	"boardcamp/internal/service/rentalservice"
)

func main() {
	// 0. Variáveis de ambiente (.env é opcional: em Docker vêm do sistema)
	log.Println("⚡ Inicializando serviço Boardcamp...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e logger
	cfg := config.LoadConfig()
	log := logger.New(logger.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.IsProduction(),
		File:  cfg.LogFile,
	})
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "port": cfg.Port})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	pool := database.DefaultPoolConfig()
	pool.MaxOpenConns = cfg.DBMaxOpenConns
	pool.MaxIdleConns = cfg.DBMaxIdleConns
	db, err := database.NewPostgresDB(cfg.DatabaseURL, pool)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			log.Fatal("Falha ao aplicar migrações.", err)
		}
		log.Info("Migrações aplicadas.", nil)
	}

	// B. Cache (Redis). Sem REDIS_ADDR o cache vira no-op e o rate limit fica em memória.
	var cacheClient cache.Client = cache.NewNoopClient()
	var rateLimit middleware.Middleware
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			log.Fatal("Falha ao conectar ao Redis.", err)
		}
		cacheClient = redisClient
		log.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
		if cfg.RateLimitMaxRequests > 0 {
			rateLimit = middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod, log)
		}
	} else {
		log.Warn("REDIS_ADDR não definido: cache desabilitado.", nil)
		if cfg.RateLimitMaxRequests > 0 {
			limiter := middleware.NewLocalRateLimiter(cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)
			limiter.StartJanitor(ctx, time.Minute)
			rateLimit = limiter.Middleware()
		}
	}
	defer cacheClient.Close()

	// C. Métricas
	m := metrics.New(prometheus.NewRegistry())

	// 3. Injeção de dependências: Repository -> Service -> Handler
	validator := validation.New()

	categoryRepo := categoryrepo.NewCategoryRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	gameRepo := gamerepo.NewGameRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	customerRepo := customerrepo.NewCustomerRepository(db, cfg.DBTimeout, log)
	rentalRepo := rentalrepo.NewRentalRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	catalogSvc := catalogservice.NewService(categoryRepo, gameRepo, validator, log)
	customerSvc := customerservice.NewService(customerRepo, validator, log)
	rentalSvc := rentalservice.NewService(rentalRepo, validator, log, rentalservice.WithRecorder(m))
	log.Debug("Serviços inicializados.", nil)

	handler := router.NewRouter(router.Handlers{
		Catalog:  catalog.NewHandler(catalogSvc, log),
		Customer: customer.NewHandler(customerSvc, log),
		Rental:   rental.NewHandler(rentalSvc, log),
	}, router.Options{
		Logger:             log,
		Metrics:            m,
		DB:                 db,
		RateLimit:          rateLimit,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor Boardcamp ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	<-ctx.Done()
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
