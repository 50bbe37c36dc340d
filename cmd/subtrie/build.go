package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dictx/subtrie/pkg/config"
	"github.com/dictx/subtrie/pkg/engine"
	"github.com/dictx/subtrie/pkg/indexbuild"
)

func newBuildCommand() *cobra.Command {
	var suffixRatio float64
	var minSuffix int
	var configPath string

	cmd := &cobra.Command{
		Use:   "build <dict.txt> <db.bin>",
		Short: "Build a binary search database from a text dictionary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dictPath, dbPath := args[0], args[1]

			cfg, _, err := config.LoadConfigWithPriority(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("suffix-ratio") {
				suffixRatio = cfg.Build.SuffixRatio
			}
			if !cmd.Flags().Changed("min-suffix") {
				minSuffix = cfg.Build.MinSuffix
			}

			opts, err := indexbuild.NewOptions(suffixRatio, minSuffix)
			if err != nil {
				return err
			}

			e := engine.New()
			if err := e.SetCharTable([]byte(cfg.Build.CharTable)); err != nil {
				return err
			}
			if err := e.Build(dictPath, dbPath, opts); err != nil {
				return err
			}
			log.Infof("built %d dwords into %s", e.DwordCount(), dbPath)
			return nil
		},
	}

	cmd.Flags().Float64Var(&suffixRatio, "suffix-ratio", 0, "fraction of each word's length used as the minimum suffix length (overrides config)")
	cmd.Flags().IntVar(&minSuffix, "min-suffix", 0, "minimum suffix length in bytes (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml")
	return cmd
}
