package app

import (
	"fmt"
	"os"
)

const connectRetries = 5

// Config is read from the environment; cmd mains load .env first.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	RBACModelPath  string
	RBACPolicyPath string
}

func LoadConfig() Config {
	return Config{
		Port:           getenv("PORT", "3000"),
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBSSLMode:      getenv("DB_SSLMODE", "disable"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		RBACModelPath:  os.Getenv("RBAC_MODEL_PATH"),
		RBACPolicyPath: os.Getenv("RBAC_POLICY_PATH"),
	}
}

// requireKafka is checked by the binaries that cannot run without a broker.
func (c Config) requireKafka() error {
	if c.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
