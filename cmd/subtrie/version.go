package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dictx/subtrie/internal/logger"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the subtrie version",
		Run: func(cmd *cobra.Command, args []string) {
			charmLog := logger.NewWithConfig("", log.GetLevel(), false, false, log.TextFormatter)
			charmLog.SetOutput(os.Stderr)

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
				Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			charmLog.SetStyles(styles)

			charmLog.Print("")
			charmLog.Print("[ subtrie ] common-substring dictionary search")
			charmLog.Print("", "version", version)
			charmLog.Print("")
			charmLog.Print("use -h or --help to see available options")
			charmLog.Print("Github Repo", "gh", gh)
		},
	}
}
