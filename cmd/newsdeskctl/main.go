// Command newsdeskctl runs administrative operations against the newsdesk
// database.
package main

import (
	"context"
	"os"

	"newsdesk/cache"
	"newsdesk/cmd/newsdeskctl/cli"
	"newsdesk/config"
	"newsdesk/helper"
	"newsdesk/repositories"
	"newsdesk/services"
)

func main() {
	root := cli.NewRootCommand(open)
	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func open(ctx context.Context) (*cli.Env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := helper.NewLogger(os.Stderr, cfg.Log.Level, "text")

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	// Publisher deletes must reach the same feed cache the server reads.
	var feedCache services.FeedCache
	release := closeDB
	if cfg.Redis.Enabled() {
		rdb, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		feedCache = cache.New(rdb, cfg.Redis.FeedCacheTTL)
		release = func() {
			rdb.Close()
			closeDB()
		}
	}

	userRepo := repositories.NewUserRepository(db)
	admin := services.NewAdminService(
		userRepo,
		repositories.NewPublisherRepository(db),
		feedCache,
		logger,
		services.NewRoleGroupSync(userRepo),
	)

	return &cli.Env{
		Admin: admin,
		Migrate: func(ctx context.Context) error {
			return config.Migrate(db.WithContext(ctx))
		},
	}, release, nil
}
