package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	// Chain
	RPCURL          string
	ChainID         int64
	ContractAddress string

	// Wallet keystore
	KeystoreDir        string
	KeystorePassphrase string

	// Redis
	RedisURL string

	// Indexer
	IndexerPollInterval time.Duration
	IndexerBlockBatch   uint64

	// Session chain watcher
	ChainPollInterval time.Duration

	// Server
	APIPort string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		RPCURL:          getEnv("RPC_URL", "http://localhost:8545"),
		ChainID:         int64(getEnvInt("CHAIN_ID", 11155111)),
		ContractAddress: getEnv("CONTRACT_ADDRESS", ""),

		KeystoreDir:        getEnv("KEYSTORE_DIR", "keystore"),
		KeystorePassphrase: getEnv("KEYSTORE_PASSPHRASE", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		IndexerPollInterval: time.Duration(getEnvInt("INDEXER_POLL_INTERVAL_SECONDS", 5)) * time.Second,
		IndexerBlockBatch:   uint64(getEnvInt("INDEXER_BLOCK_BATCH", 2000)),

		ChainPollInterval: time.Duration(getEnvInt("CHAIN_POLL_INTERVAL_SECONDS", 15)) * time.Second,

		APIPort: getEnv("API_PORT", "3000"),
	}
}

func (c *Config) Validate(log *zap.Logger) {
	if c.ContractAddress == "" {
		log.Warn("CONTRACT_ADDRESS is not set")
	}
	if c.KeystorePassphrase == "" {
		log.Warn("KEYSTORE_PASSPHRASE is empty, account unlock will fail for encrypted keys")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
