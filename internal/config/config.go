package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing

	"github.com/joho/godotenv" // For loading .env files
)

// defaultIndexerURL is the testnet indexer GraphQL endpoint
const defaultIndexerURL = "https://api.testnet.aptoslabs.com/v1/graphql"

// Config holds the application configuration
type Config struct {
	AppPort          string   // Application port
	DBUser           string   // Database user
	DBPassword       string   // Database password
	DBHost           string   // Database host
	DBPort           string   // Database port
	DBName           string   // Database name
	JWTSecret        string   // JWT secret key for operator sessions
	RedisAddr        string   // Redis server address
	RedisPass        string   // Redis password
	RedisDB          int      // Redis database number
	IsProd           bool     // Is production environment
	AptosNetwork     string   // Network label reported by /api/health
	AptosNodeURL     string   // Fullnode REST base URL
	AptosIndexerURL  string   // Indexer GraphQL endpoint
	ModuleAddress    string   // Address the dapptrack modules are published under
	PinataJWT        string   // Pinata API token
	PinataAPIURL     string   // Pinata API base URL
	PinataGateway    string   // Gateway host used to build proof URLs
	CORSOrigins      []string // Allowed browser origins
	RefreshCron      string   // Cron spec for the ledger snapshot refresh
	OperatorUsername string   // Seed operator created by cmd/migrate
	OperatorPassword string   // Seed operator password
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:          envOrDefault("APP_PORT", "3001"),                                       // Application port
		DBUser:           os.Getenv("DB_USER"),                                                   // Database user
		DBPassword:       os.Getenv("DB_PASSWORD"),                                               // Database password
		DBHost:           envOrDefault("DB_HOST", "127.0.0.1"),                                   // Database host
		DBPort:           envOrDefault("DB_PORT", "3306"),                                        // Database port
		DBName:           envOrDefault("DB_NAME", "dapptrack"),                                   // Database name
		JWTSecret:        os.Getenv("JWT_SECRET"),                                                // JWT secret key
		RedisAddr:        os.Getenv("REDIS_ADDR"),                                                // Redis server address
		RedisPass:        os.Getenv("REDIS_PASS"),                                                // Redis password
		RedisDB:          redisDB,                                                                // Redis database number
		IsProd:           os.Getenv("IS_PROD") == "true",                                         // Is production environment
		AptosNetwork:     envOrDefault("APTOS_NETWORK", "testnet"),                               // Network label
		AptosNodeURL:     envOrDefault("APTOS_NODE_URL", "https://api.testnet.aptoslabs.com/v1"), // Fullnode
		AptosIndexerURL:  envOrDefault("APTOS_INDEXER_URL", defaultIndexerURL),                   // Indexer
		ModuleAddress:    os.Getenv("VITE_MODULE_PUBLISHER_ACCOUNT_ADDRESS"),                     // Shared with the frontend build
		PinataJWT:        os.Getenv("PINATA_JWT"),                                                // Pinata token
		PinataAPIURL:     envOrDefault("PINATA_API_URL", "https://api.pinata.cloud"),             // Pinata API
		PinataGateway:    envOrDefault("PINATA_GATEWAY", "gateway.pinata.cloud"),                 // Gateway host
		CORSOrigins:      splitList(envOrDefault("CORS_ORIGINS", "*")),                           // Allowed origins
		RefreshCron:      envOrDefault("REFRESH_CRON", "@every 30s"),                             // Refresh period
		OperatorUsername: os.Getenv("OPERATOR_USERNAME"),                                         // Seed operator
		OperatorPassword: os.Getenv("OPERATOR_PASSWORD"),                                         // Seed operator password
	}
}

// DSN builds the MySQL Data Source Name for gorm
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

// PinataConfigured reports whether uploads can reach the pinning service
func (c *Config) PinataConfigured() bool {
	return c.PinataJWT != ""
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
