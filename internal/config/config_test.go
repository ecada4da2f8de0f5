package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected Port=8080, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Qdrant.Host != "localhost" {
		t.Errorf("expected Qdrant.Host=localhost, got %q", cfg.Qdrant.Host)
	}
	if cfg.Qdrant.Port != 6334 {
		t.Errorf("expected Qdrant.Port=6334, got %d", cfg.Qdrant.Port)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected default embedding model, got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("expected Dimensions=1536, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Redis.CacheTTLDays != 30 {
		t.Errorf("expected CacheTTLDays=30, got %d", cfg.Redis.CacheTTLDays)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 0},
		Qdrant:    QdrantConfig{Port: 6334},
		Embedding: EmbeddingConfig{Dimensions: 1536},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidDimensions(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Qdrant:    QdrantConfig{Port: 6334},
		Embedding: EmbeddingConfig{Dimensions: 0},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

func TestProviderConfigured(t *testing.T) {
	cfg := Config{}
	if cfg.ProviderConfigured() {
		t.Error("expected provider unconfigured with empty api_key")
	}

	cfg.Embedding.APIKey = "sk-test"
	if !cfg.ProviderConfigured() {
		t.Error("expected provider configured with api_key set")
	}
}

func TestCacheEnabled(t *testing.T) {
	cfg := Config{}
	if cfg.CacheEnabled() {
		t.Error("expected cache disabled with no redis addrs")
	}

	cfg.Redis.Addrs = []string{"localhost:6379"}
	if !cfg.CacheEnabled() {
		t.Error("expected cache enabled with redis addrs set")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FORUMSEARCH_TEST_KEY", "secret")

	in := []byte("api_key: ${FORUMSEARCH_TEST_KEY}\nhost: ${FORUMSEARCH_TEST_MISSING:-fallback}\n")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nhost: fallback\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
