package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dictx/subtrie/internal/cli"
	"github.com/dictx/subtrie/pkg/config"
	"github.com/dictx/subtrie/pkg/engine"
)

func newSearchCommand() *cobra.Command {
	var minCommonLen int
	var maxDwordLen int
	var limit int
	var depthFirst bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "search <db.bin>",
		Short: "Load a database and search it interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := args[0]

			cfg, _, err := config.LoadConfigWithPriority(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-common-len") {
				minCommonLen = cfg.Search.MinCommonLen
			}
			if !cmd.Flags().Changed("max-dword-len") {
				maxDwordLen = cfg.Search.MaxDwordLen
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.Search.Limit
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

			handler := cli.NewInputHandler(e, minCommonLen, maxDwordLen, limit, depthFirst)
			return handler.Start()
		},
	}

	cmd.Flags().IntVar(&minCommonLen, "min-common-len", 0, "minimum shared substring length (overrides config)")
	cmd.Flags().IntVar(&maxDwordLen, "max-dword-len", 0, "maximum dword length to consider (overrides config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results per query (overrides config)")
	cmd.Flags().BoolVar(&depthFirst, "depth-first", false, "use depth-first subtree expansion instead of breadth-first")
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml")
	return cmd
}
