// cmd/sema/main.go
//
// Entry point for the sema TUI.
//
// Flow:
// 1. Load .env and the ~/.sema config directory
// 2. Resolve the API base URL and session token
// 3. Launch the TUI against the live backend
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/Negibkaya/Mias-sema/internal/api"
	"github.com/Negibkaya/Mias-sema/internal/config"
	"github.com/Negibkaya/Mias-sema/internal/logbook"
	"github.com/Negibkaya/Mias-sema/internal/tui"
)

func main() {
	// A .env in the working directory may provide SEMA_API_URL / SEMA_TOKEN.
	// Missing files are fine; real env vars win either way.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		fatal("resolve home directory: %v", err)
	}
	if err := config.Init(home); err != nil {
		fatal("initialize %s: %v", config.SemaDir, err)
	}
	cfg, err := config.New(home)
	if err != nil {
		fatal("load config: %v", err)
	}

	if cfg.APIURL() == "" {
		fatal("no API URL configured; set api_url in %s or SEMA_API_URL", cfg.SettingsPath())
	}
	token := cfg.Token()
	if token == "" {
		fatal("no session token; set SEMA_TOKEN or write %s", cfg.TokenPath())
	}

	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fatal("open logbook: %v", err)
	}
	defer lb.Close()

	// When the backend rejects the token the stored copy is wiped so the
	// next start asks for a fresh one instead of looping on 401s.
	session := api.NewSession(cfg.APIURL(), token,
		api.WithUnauthorizedHook(func() {
			cfg.ClearToken()
			lb.Warn("session token rejected; stored token cleared")
		}),
	)

	p := tea.NewProgram(
		tui.NewApp(cfg, session, lb),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fatal("run TUI: %v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "sema: "+format+"\n", args...)
	os.Exit(1)
}
