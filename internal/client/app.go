package client

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/MKhiriev/go-finance-keeper/internal/backup"
	"github.com/MKhiriev/go-finance-keeper/internal/cli"
	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/internal/session"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/tui"
	"github.com/MKhiriev/go-finance-keeper/internal/utils"
	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/internal/workers"
	"github.com/MKhiriev/go-finance-keeper/models"
)

const appName = "finkeeper"

// App is one finkeeper process: the storages, the session gate and the
// command set, built once from the configuration.
type App struct {
	storages *store.ClientStorages
	gate     *session.Gate
	workers  *workers.Workers
	env      *cli.Env
	logger   *logger.Logger

	output io.Writer
	error  io.Writer
}

// NewApp opens the local database and wires every layer on top of it.
func NewApp(ctx context.Context, cfg *config.ClientConfig, build models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log.WithComponent("store"))
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	provider := crypto.NewProvider()
	records := vault.NewStore(
		storages.Envelopes,
		storages.PlainValues,
		crypto.NewKeyDeriver(provider),
		crypto.NewRecordCipher(provider),
		log.WithComponent("vault"),
	)
	gate := session.NewGate(records, storages.PlainValues, provider, cfg.Workers.AutoLockCheckInterval, log.WithComponent("session"))

	a := &App{
		storages: storages,
		gate:     gate,
		workers:  workers.NewWorkers(gate.AutoLockWorker()),
		logger:   log,
		output:   os.Stdout,
		error:    os.Stderr,
	}
	a.env = &cli.Env{
		Gate:      gate,
		Store:     records,
		Codec:     backup.NewCodec(provider, log.WithComponent("backup")),
		Services:  service.NewServices(records, utils.NewUUIDGenerator(), log.WithComponent("service")),
		Prompt:    tui.New(log.WithComponent("tui")),
		Clipboard: cli.SystemClipboard,
		BackupDir: cfg.App.BackupDir,
		Build:     build,
		Out:       a.output,
		Err:       a.error,
		Logger:    log.WithComponent("cli"),
		Now:       time.Now,
	}

	log.Debug().Str("dsn", cfg.Storage.DB.DSN).Msg("client app initialized")
	return a, nil
}

// Run executes the command named by args[0] with the remaining arguments.
func (a *App) Run(ctx context.Context, args []string) subcommands.ExitStatus {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(a.error)

	commander := subcommands.NewCommander(fs, appName)
	commander.Output = a.output
	commander.Error = a.error
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cli.Register(commander, a.env)

	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}

	return commander.Execute(a.logger.WithContext(ctx))
}

// Close locks the session, stops background jobs and releases the database.
func (a *App) Close() error {
	a.gate.Logout()
	a.workers.Stop()
	return a.storages.Close()
}
