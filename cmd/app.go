package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sheeladecor/paintsadmin/internal/utils"
	"github.com/sheeladecor/paintsadmin/pkg/backend"
	"github.com/sheeladecor/paintsadmin/pkg/cache"
	"github.com/sheeladecor/paintsadmin/pkg/collections"
	"github.com/sheeladecor/paintsadmin/pkg/permissions"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
	"github.com/sheeladecor/paintsadmin/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is what a command runs against: the local store and a Remote whose
// writes are recorded in it.
type app struct {
	db   *storage.DB
	lock *utils.StoreLock
	deps screens.Deps
}

// openStore opens the local SQLite store, creating its directory. When
// writing is set the store lock is held until close.
func openStore(writing bool) (*storage.DB, *utils.StoreLock, error) {
	path, err := utils.GetAbsStorePath(viper.GetString("storage.path"))
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating store directory: %w", err)
	}

	var lock *utils.StoreLock
	if writing {
		if lock, err = utils.NewStoreLock(path); err != nil {
			return nil, nil, err
		}
		if err := lock.Lock(context.Background(), viper.GetDuration("storage.lockwait")); err != nil {
			return nil, nil, err
		}
	}

	db, err := storage.Open(path)
	if err != nil {
		if lock != nil {
			lock.Unlock()
		}
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	utils.Log.Debugf("Using local store %s", path)
	return db, lock, nil
}

func openApp(cmd *cobra.Command, writing bool) (*app, error) {
	db, lock, err := openStore(writing)
	if err != nil {
		return nil, err
	}
	a := &app{db: db, lock: lock}

	proxy, _ := cmd.Flags().GetString("proxy")
	client, err := backend.NewClient(backend.Config{
		BaseURL: viper.GetString("backend.baseurl"),
		Retries: viper.GetInt("backend.retries"),
		Timeout: viper.GetDuration("backend.timeout"),
		Proxy:   proxy,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	cacheCfg := cache.DefaultConfig().WithCapacity(viper.GetInt("cache.capacity"))
	cacheCfg.TTL = viper.GetDuration("cache.ttl")
	store, err := cache.New(cacheCfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	remote, err := collections.NewRemote(collections.Config{
		Store:     store,
		Backend:   client,
		Log:       utils.Log,
		Notifier:  collections.NotifierFunc(func(m string) { utils.Log.Info(m) }),
		Mutations: db,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	perms, err := permissions.Load(context.Background(), db)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("reading permissions: %w", err)
	}
	a.deps = screens.Deps{Remote: remote, Perms: perms, Now: utils.Now}
	return a, nil
}

func (a *app) Close() { closeStore(a.db, a.lock) }

func closeStore(db *storage.DB, lock *utils.StoreLock) {
	if db != nil {
		db.Close()
	}
	if lock != nil {
		if err := lock.Unlock(); err != nil {
			utils.Log.Warn(err)
		}
	}
}

// outcomeErr turns a refused write into a command failure.
func outcomeErr(out backend.Outcome, err error) error {
	if err != nil {
		return err
	}
	if !out.Success {
		if out.Message == "" {
			return fmt.Errorf("%s", collections.GenericFailure)
		}
		return fmt.Errorf("backend refused: %s", out.Message)
	}
	return nil
}
