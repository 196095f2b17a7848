package server

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/facio/facio/internal/artifact"
	"github.com/facio/facio/internal/config"
	"github.com/facio/facio/internal/db"
	"github.com/facio/facio/internal/handlers"
	"github.com/facio/facio/internal/hostenv"
	"github.com/facio/facio/internal/store"
)

// Storage is an opened record-store backend.
type Storage struct {
	Backend store.Backend
	Ping    func(ctx context.Context) error
	Close   func() error
}

// OpenStorage opens the backend selected by cfg.Storage.Backend.
func OpenStorage(cfg *config.Config) (*Storage, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return &Storage{Backend: store.NewMemory(), Close: noop}, nil

	case config.BackendSQLite, config.BackendPostgres:
		conn, err := db.Open(db.Options{
			Driver:        cfg.Storage.SQLDriver(),
			DSN:           cfg.Storage.SQLDSN(),
			SQLMigrations: cfg.App.Migrations,
		})
		if err != nil {
			return nil, err
		}
		if cfg.App.Seed {
			if err := db.Seed(conn); err != nil {
				return nil, fmt.Errorf("seed: %w", err)
			}
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		return &Storage{Backend: store.NewSQL(conn), Ping: sqlDB.PingContext, Close: sqlDB.Close}, nil

	case config.BackendRedis:
		rc := cfg.Storage.Redis
		client, err := store.ConnectRedis(rc.Addr, rc.Password, rc.DB)
		if err != nil {
			return nil, err
		}
		log.Printf("[store] Using redis at %s (prefix %q)", rc.Addr, rc.Prefix)
		return &Storage{
			Backend: store.NewRedis(client, rc.Prefix),
			Ping:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:   client.Close,
		}, nil

	default:
		dir := cfg.Storage.DataDir
		log.Printf("[store] Using data folder %s", dir)
		return &Storage{
			Backend: store.NewFile(dir),
			Ping: func(context.Context) error {
				_, err := os.Stat(dir)
				if os.IsNotExist(err) {
					return nil
				}
				return err
			},
			Close: noop,
		}, nil
	}
}

// OutputsFrom builds the output folders and the optional S3 fallback.
func OutputsFrom(ctx context.Context, cfg *config.Config) (handlers.Outputs, error) {
	out := handlers.Outputs{InvoiceDir: cfg.Output.InvoiceDir, StampedDir: cfg.Output.StampedDir}
	if cfg.Output.S3Bucket == "" {
		return out, nil
	}
	s3sink, err := artifact.NewS3Sink(ctx, artifact.S3Config{
		Bucket:          cfg.Output.S3Bucket,
		Region:          cfg.Output.S3Region,
		Prefix:          cfg.Output.S3Prefix,
		Endpoint:        cfg.Output.S3Endpoint,
		AccessKeyID:     cfg.Output.S3KeyID,
		SecretAccessKey: cfg.Output.S3Secret,
	})
	if err != nil {
		return out, err
	}
	out.Remote = s3sink
	return out, nil
}

// ResolveStaticDir finds the built web client: STATIC_DIR first, then the
// packaged and development layouts.
func ResolveStaticDir(cfg *config.Config) string {
	cwd, _ := os.Getwd()
	candidates := []hostenv.Candidate{hostenv.StaticDir(cfg.App.StaticDir)}
	candidates = append(candidates, hostenv.DefaultStaticCandidates(hostenv.ExecutableDir(), cwd, cfg.App.ResourcesDir)...)
	res := hostenv.Locate(candidates...)
	if res.Found {
		log.Printf("Serving web client from %s", res.Path)
		return res.Path
	}
	log.Printf("No web client found, tried: %s", strings.Join(res.Tried, ", "))
	return ""
}
