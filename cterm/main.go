package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"contactapp/cterm/internal/api"
	"contactapp/cterm/internal/audit"
	"contactapp/cterm/internal/config"
	"contactapp/cterm/internal/events"
	"contactapp/cterm/internal/logging"
	"contactapp/cterm/internal/storage"
	"contactapp/cterm/internal/views"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := logging.Setup(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger, closer = logging.Fallback(), io.NopCloser(nil)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	store, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		logger.Warn("failed to load preferences", slog.Any("error", err))
	} else {
		cfg.ApplyPreferences(prefs)
	}

	client, err := api.NewClient(cfg.ToAPIConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}

	feed := events.NewChangeFeed(logger)
	contacts := api.NewContactService(client, feed, logger)
	auth := api.NewAuthService(client, store, logger)

	if journal, err := audit.NewJournal(cfg.DataDir); err != nil {
		logger.Warn("contact journal disabled", slog.Any("error", err))
	} else {
		contacts.SetJournal(journal, func() string { return auth.CurrentUser().Email })
	}

	if restored, err := auth.Restore(); err != nil {
		logger.Warn("ignoring saved session", slog.Any("error", err))
	} else if restored {
		logger.Info("restored saved session")
	}

	logger.Info("starting cterm",
		slog.String("api_url", cfg.APIURL),
		slog.Int("page_size", cfg.PageSize))

	app := views.NewAppModel(views.Deps{
		Auth:     auth,
		Contacts: contacts,
		Storage:  store,
		Config:   cfg,
		Logger:   logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
