package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("GATEWAY_FAILURE_RATE", "")
	t.Setenv("DECLINE_RATE", "")
	cfg := Load()
	if cfg.HTTPAddr != ":8081" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr)
	}
	if cfg.GatewayFailureRate != 0.10 || cfg.DeclineRate != 0.25 {
		t.Fatalf("unexpected rates %v %v", cfg.GatewayFailureRate, cfg.DeclineRate)
	}
	if cfg.Storage != "postgres" {
		t.Fatalf("unexpected storage %q", cfg.Storage)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")
	t.Setenv("GATEWAY_FAILURE_RATE", "0.5")
	t.Setenv("STORAGE", "memory")
	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.GatewayFailureRate != 0.5 {
		t.Fatalf("unexpected rate %v", cfg.GatewayFailureRate)
	}
	if cfg.Storage != "memory" {
		t.Fatalf("unexpected storage %q", cfg.Storage)
	}
}

func TestLoadRejectsOutOfRangeRates(t *testing.T) {
	t.Setenv("DECLINE_RATE", "1.5")
	cfg := Load()
	if cfg.DeclineRate != 0.25 {
		t.Fatalf("expected default for out-of-range rate, got %v", cfg.DeclineRate)
	}
}
