package service

import (
	"strings"
	"testing"

	"backoffice-agent/internal/config"
)

func TestSummaryDescribesDefaults(t *testing.T) {
	cfg := &config.Config{
		App:        config.AppConfig{Port: 8088},
		API:        config.APIConfig{BaseURL: config.DefaultBaseURL},
		Credential: config.CredentialConfig{Backend: config.CredentialBackendMemory},
		Files:      config.FilesConfig{DownloadDir: "downloads"},
	}

	got := strings.Join(Summary(cfg), "\n")
	for _, want := range []string{
		"Gateway:     http://localhost:8088",
		"Back office: " + config.DefaultBaseURL,
		"Credentials: memory",
		"API log:     off",
		"Previews:    log only",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestSummaryDescribesRedisAndDatabase(t *testing.T) {
	cfg := &config.Config{
		App:        config.AppConfig{Port: 8088, BaseURL: "https://agent.local/"},
		Credential: config.CredentialConfig{Backend: config.CredentialBackendRedis, Profile: "ops"},
		Redis:      config.RedisConfig{Host: "cache", Port: 6380},
		Database:   config.DatabaseConfig{Enabled: true, Driver: "postgres", Host: "db", Port: 5432, DBName: "agent"},
		Files:      config.FilesConfig{OpenInBrowser: true},
	}

	got := strings.Join(Summary(cfg), "\n")
	for _, want := range []string{
		"Gateway:     https://agent.local",
		"Credentials: redis cache:6380 (profile ops)",
		"API log:     postgres db:5432/agent",
		"Previews:    system browser",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
