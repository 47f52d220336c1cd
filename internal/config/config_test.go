package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"RPC_URL", "CHAIN_ID", "CONTRACT_ADDRESS", "KEYSTORE_DIR",
		"KEYSTORE_PASSPHRASE", "REDIS_URL", "INDEXER_POLL_INTERVAL_SECONDS",
		"INDEXER_BLOCK_BATCH", "CHAIN_POLL_INTERVAL_SECONDS", "API_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.RPCURL != "http://localhost:8545" {
		t.Errorf("RPCURL = %q", cfg.RPCURL)
	}
	if cfg.ChainID != 11155111 {
		t.Errorf("ChainID = %d, want sepolia default", cfg.ChainID)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.IndexerPollInterval != 5*time.Second {
		t.Errorf("IndexerPollInterval = %v", cfg.IndexerPollInterval)
	}
	if cfg.IndexerBlockBatch != 2000 {
		t.Errorf("IndexerBlockBatch = %d", cfg.IndexerBlockBatch)
	}
	if cfg.ChainPollInterval != 15*time.Second {
		t.Errorf("ChainPollInterval = %v", cfg.ChainPollInterval)
	}
	if cfg.APIPort != "3000" {
		t.Errorf("APIPort = %q", cfg.APIPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RPC_URL", "https://rpc.example.org")
	t.Setenv("CHAIN_ID", "1337")
	t.Setenv("CONTRACT_ADDRESS", "0x00000000000000000000000000000000000000aa")
	t.Setenv("INDEXER_POLL_INTERVAL_SECONDS", "30")
	t.Setenv("API_PORT", "8080")

	cfg := Load()

	if cfg.RPCURL != "https://rpc.example.org" {
		t.Errorf("RPCURL = %q", cfg.RPCURL)
	}
	if cfg.ChainID != 1337 {
		t.Errorf("ChainID = %d, want 1337", cfg.ChainID)
	}
	if cfg.ContractAddress != "0x00000000000000000000000000000000000000aa" {
		t.Errorf("ContractAddress = %q", cfg.ContractAddress)
	}
	if cfg.IndexerPollInterval != 30*time.Second {
		t.Errorf("IndexerPollInterval = %v, want 30s", cfg.IndexerPollInterval)
	}
	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("CHAIN_ID", "not-a-number")
	cfg := Load()
	if cfg.ChainID != 11155111 {
		t.Errorf("ChainID = %d, want default when unparsable", cfg.ChainID)
	}
}
