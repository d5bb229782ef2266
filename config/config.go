package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config armazena todas as configurações do boardcamp.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	LogFile     string

	// Banco de Dados (PostgreSQL)
	DatabaseURL    string
	DBTimeout      time.Duration
	DBMaxOpenConns int
	DBMaxIdleConns int
	AutoMigrate    bool

	// Cache (Redis). RedisAddr vazio desliga o Redis.
	RedisAddr string
	CacheTTL  time.Duration

	// Rate Limiting por IP. Zero desliga.
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// CORS
	CORSAllowedOrigins []string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "4000"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),

		// 2. Banco de Dados (PostgreSQL)
		// mustGetEnv garante que a aplicação não inicie sem credenciais de DB
		DatabaseURL:    mustGetEnv("DATABASE_URL"),
		DBTimeout:      getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 10),
		AutoMigrate:    getBoolEnv("AUTO_MIGRATE", false),

		// 3. Cache (Redis)
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 60) * time.Second,

		// 4. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 5. CORS
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg
}

// IsProduction informa se o ambiente é de produção.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration (sem unidade).
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um booleano válido. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas.
func getListEnv(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
