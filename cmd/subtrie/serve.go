package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dictx/subtrie/internal/logger"
	"github.com/dictx/subtrie/pkg/cache"
	"github.com/dictx/subtrie/pkg/config"
	"github.com/dictx/subtrie/pkg/engine"
	"github.com/dictx/subtrie/pkg/server"
)

func newServeCommand() *cobra.Command {
	var cacheSize int
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve <db.bin>",
		Short: "Load a database and serve it over msgpack IPC on stdin/stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := args[0]

			log.SetDefault(logger.New(appName))

			cfg, _, err := config.LoadConfigWithPriority(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("cache-size") {
				cacheSize = cfg.Server.CacheSize
			}

			e := engine.New()
			if err := e.SetCharTable([]byte(cfg.Build.CharTable)); err != nil {
				return err
			}
			n, err := e.Read(dbPath)
			if err != nil {
				return err
			}
			log.Debugf("loaded %d bytes from %s (%d dwords)", n, dbPath, e.DwordCount())

			var qc *cache.QueryCache
			if cacheSize > 0 {
				qc, err = cache.New(cacheSize)
				if err != nil {
					return err
				}
			}

			srv := server.NewStdioServer(e, qc)
			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&cacheSize, "cache-size", 0, "number of recent queries to cache (overrides config, 0 disables caching)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml")
	return cmd
}
