package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/localauth/internal/config"
	"github.com/dmitrijs2005/localauth/internal/cryptox"
	"github.com/dmitrijs2005/localauth/internal/logging"
	"github.com/dmitrijs2005/localauth/internal/repositories/credentials"
	"github.com/dmitrijs2005/localauth/internal/services"
	"github.com/dmitrijs2005/localauth/internal/store"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	store       *store.Store
	reader      *bufio.Reader
	out         io.Writer
	stdinFd     int
	log         logging.Logger
}

// NewApp builds the logger, opens the configured backend, loads the store
// and constructs the authentication service. Logs go to stderr so they do
// not interleave with the menu on stdout.
//
// With ListUsers set and a file store that does not exist yet, the store is
// left empty instead of being created on disk.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, level, c.LogJSON)

	repo, err := openRepository(ctx, c, log)
	if err != nil {
		log.Error(ctx, "error opening credential storage", "error", err)
		return nil, err
	}

	st := store.New(repo, log)
	if c.ListUsers && storeFileMissing(c) {
		log.Debug(ctx, "no store file, nothing to list", "path", c.StorePath)
	} else if err := st.Load(ctx); err != nil {
		_ = st.Close()
		log.Error(ctx, "error loading credential store", "error", err)
		return nil, err
	}

	kdf, err := cryptox.NewKDF(c.Iterations)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	as := services.NewAuthService(st, kdf, log)

	return &App{
		config:      c,
		authService: as,
		store:       st,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		stdinFd:     int(os.Stdin.Fd()),
		log:         log,
	}, nil
}

func openRepository(ctx context.Context, c *config.Config, log logging.Logger) (credentials.Repository, error) {
	switch c.Backend {
	case config.BackendSQLite:
		return credentials.OpenSQLite(ctx, c.SQLiteDSN, log)
	default:
		return credentials.NewFileRepository(c.StorePath, c.BackupPath, c.MaxLoadAttempts, log), nil
	}
}

func storeFileMissing(c *config.Config) bool {
	if c.Backend != config.BackendFile {
		return false
	}
	_, err := os.Stat(c.StorePath)
	return errors.Is(err, fs.ErrNotExist)
}

// Run either lists users (with -list) or runs the menu loop until the input
// ends. Only storage faults are returned; EOF is a normal exit.
func (a *App) Run(ctx context.Context) error {
	if a.config.ListUsers {
		return a.listUsers()
	}

	err := a.mainMenu(ctx)
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		fmt.Fprintln(a.out, "Bye!")
		return nil
	}
	return err
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) listUsers() error {
	for _, u := range a.store.Usernames() {
		if _, err := fmt.Fprintln(a.out, u); err != nil {
			return err
		}
	}
	return nil
}
