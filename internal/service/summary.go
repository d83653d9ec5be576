package service

import (
	"fmt"
	"strings"

	"backoffice-agent/internal/config"
	"backoffice-agent/internal/version"
)

// Summary describes the configured agent, one line per setting, for the
// console banner and the service event log.
func Summary(cfg *config.Config) []string {
	gateway := strings.TrimRight(cfg.App.BaseURL, "/")
	if gateway == "" {
		gateway = fmt.Sprintf("http://localhost:%d", cfg.App.Port)
	}

	credentials := cfg.Credential.Backend
	if credentials == config.CredentialBackendRedis {
		credentials = fmt.Sprintf("redis %s:%d (profile %s)", cfg.Redis.Host, cfg.Redis.Port, cfg.Credential.Profile)
	}

	apiLog := "off"
	if cfg.Database.Enabled {
		apiLog = fmt.Sprintf("%s %s:%d/%s", cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}

	browser := "log only"
	if cfg.Files.OpenInBrowser {
		browser = "system browser"
	}

	return []string{
		"Version:     " + version.Version,
		"Gateway:     " + gateway,
		"Back office: " + cfg.API.BaseURL,
		"Credentials: " + credentials,
		"API log:     " + apiLog,
		"Downloads:   " + cfg.Files.DownloadDir,
		"Previews:    " + browser,
	}
}
