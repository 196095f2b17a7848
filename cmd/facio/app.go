package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/facio/facio/i18n"
	"github.com/facio/facio/internal/config"
	"github.com/facio/facio/internal/models"
	"github.com/facio/facio/internal/server"
	"github.com/facio/facio/internal/services"
	"github.com/facio/facio/internal/store"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "facio",
		Usage: "invoice and payment-stamp tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "lang",
				Usage:   "document language (en, sv)",
				EnvVars: []string{"DEFAULT_LANG"},
				Value:   i18n.DefaultLang,
			},
			&cli.StringFlag{
				Name:    "storage",
				Usage:   "record store backend (file, memory, sqlite, postgres, redis)",
				EnvVars: []string{"STORAGE_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "folder of the file backend",
				EnvVars: []string{"FACIO_DATA_DIR"},
			},
		},
		Commands: []*cli.Command{
			renderCommand(),
			totalsCommand(),
			stampCommand(),
			stampDirCommand(),
			watchCommand(),
			clientsCommand(),
			nextNumberCommand(),
		},
	}
}

// env holds the services a command works with.
type env struct {
	cfg      *config.Config
	storage  *server.Storage
	settings *services.SettingsService
	clients  *store.ClientStore
	history  *store.HistoryStore
	transfer *services.ClientTransfer
}

func openEnv(c *cli.Context) (*env, error) {
	cfg := config.Load()
	if c.IsSet("storage") {
		cfg.Storage.Backend = config.NormalizeBackend(c.String("storage"))
	}
	if c.IsSet("data-dir") {
		cfg.Storage.DataDir = c.String("data-dir")
	}
	st, err := server.OpenStorage(cfg)
	if err != nil {
		return nil, err
	}
	clients := store.NewClientStore(st.Backend)
	return &env{
		cfg:      cfg,
		storage:  st,
		settings: services.NewSettingsService(st.Backend),
		clients:  clients,
		history:  store.NewHistoryStore(st.Backend, 0),
		transfer: services.NewClientTransfer(clients),
	}, nil
}

func (e *env) Close() { _ = e.storage.Close() }

func lang(c *cli.Context) string { return i18n.Normalize(c.String("lang")) }

func readInvoice(path string) (*models.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inv models.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &inv, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// parseStamp reads the payment flags shared by stamp and stamp-dir.
func parseStamp(c *cli.Context) (models.PaymentStamp, error) {
	s := models.PaymentStamp{
		Date:      time.Now(),
		Method:    strings.TrimSpace(c.String("method")),
		Amount:    strings.TrimSpace(c.String("amount")),
		Reference: strings.TrimSpace(c.String("ref")),
	}
	if d := strings.TrimSpace(c.String("date")); d != "" {
		t, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			return s, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", d)
		}
		s.Date = t
	}
	return s, nil
}

var stampFlags = []cli.Flag{
	&cli.StringFlag{Name: "date", Usage: "payment date, YYYY-MM-DD (default today)"},
	&cli.StringFlag{Name: "method", Usage: "payment method, e.g. bank_transfer, swish"},
	&cli.StringFlag{Name: "amount", Usage: "amount paid, printed after the PAID label"},
	&cli.StringFlag{Name: "ref", Usage: "payment reference"},
}

func firstArg(c *cli.Context, what string) (string, error) {
	if c.NArg() < 1 {
		return "", cli.Exit(fmt.Sprintf("missing %s argument", what), 2)
	}
	return c.Args().First(), nil
}
