package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	AppPort      string   // HTTP listen port
	DBUser       string   // Database user
	DBPassword   string   // Database password
	DBHost       string   // Database host
	DBPort       string   // Database port
	DBName       string   // Database name
	JWTSecret    string   // JWT signing secret
	RedisAddr    string   // Redis server address, empty disables caching
	RedisPass    string   // Redis password
	RedisDB      int      // Redis database number
	KafkaBrokers []string // Kafka brokers, empty disables event publishing
	IsProd       bool     // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3333"
	}

	return &Config{
		AppPort:      port,
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       os.Getenv("DB_PORT"),
		DBName:       os.Getenv("DB_NAME"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      redisDB,
		KafkaBrokers: brokers,
		IsProd:       os.Getenv("IS_PROD") == "true",
	}
}

// DSN builds the MySQL data source name used by GORM.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
