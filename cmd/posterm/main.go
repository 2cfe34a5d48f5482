package main

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"posterm/internal/api"
	"posterm/internal/config"
	"posterm/internal/pos"
	"posterm/internal/session"
	"posterm/internal/till"
	"posterm/internal/tui"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON. The TUI owns stdout, so
	// logs go to a file next to the session, not the terminal.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := zerolog.Nop()
	if logFile, err := openLogFile(cfg.SessionFile); err == nil {
		defer logFile.Close()
		if cfg.Env == "development" {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: logFile, TimeFormat: time.RFC3339, NoColor: true}).With().Timestamp().Logger()
		} else {
			logger = zerolog.New(logFile).With().Timestamp().Logger()
		}
	}

	store := session.New(cfg.SessionFile)
	client := api.New(cfg.APIURL, store, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, logger)
	tillMgr := till.NewManager(client)
	cart := pos.NewComposer(client)

	app := tui.NewApp(tui.Deps{
		Client:      client,
		Session:     store,
		Till:        tillMgr,
		Cart:        cart,
		ReceiptPath: cfg.ReceiptPath,
		Log:         logger,
	})

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal().Err(err).Msg("terminal error")
	}
}

// openLogFile puts posterm.log in the same directory as the session file.
func openLogFile(sessionFile string) (*os.File, error) {
	dir := filepath.Dir(sessionFile)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "posterm.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}
