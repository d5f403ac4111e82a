package config

import (
	"os"
	"strconv"
	"time"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

type Config struct {
	AppEnv   string
	LogLevel string

	// Order service as seen by cart clients
	OrderServiceTransport string
	OrderServiceURL       string
	OrderServiceGRPCAddr  string
	RequestTimeout        time.Duration

	// Reference order service
	HTTPPort  int
	GRPCPort  int
	MySQLDSN  string
	RedisAddr string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OrderServiceTransport: getEnv("ORDER_SERVICE_TRANSPORT", TransportHTTP),
		OrderServiceURL:       getEnv("ORDER_SERVICE_URL", "http://localhost:8080"),
		OrderServiceGRPCAddr:  getEnv("ORDER_SERVICE_GRPC_ADDR", "localhost:50051"),
		RequestTimeout:        getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),

		HTTPPort:  getEnvInt("HTTP_PORT", 8080),
		GRPCPort:  getEnvInt("GRPC_PORT", 50051),
		MySQLDSN:  getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/cartdrawer?parseTime=true"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}

	return d
}
