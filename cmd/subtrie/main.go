/*
Command subtrie builds, queries, and serves a common-substring
dictionary search index.

A dictionary is a plain text file of key<TAB>value<LF> lines. Build
compiles it into a binary database:

	subtrie build dict.txt db.bin

Search loads that database and drops into an interactive REPL:

	subtrie search db.bin

Serve starts a msgpack IPC server over stdin/stdout for editor and
tooling integration, in the same spirit as wordserve's completion
server but carrying search.Query/search.Result payloads instead of
completion requests:

	subtrie serve db.bin
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dictx/subtrie/internal/logger"
)

const (
	version = "0.1.0"
	appName = "subtrie"
	gh      = "https://github.com/dictx/subtrie"
)

func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Print("\nExiting...")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	log.SetDefault(logger.Default(appName))

	var debugMode bool

	root := &cobra.Command{
		Use:   appName,
		Short: "A common-substring dictionary search engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugMode {
				log.SetLevel(log.DebugLevel)
				log.SetReportTimestamp(true)
			} else {
				log.SetLevel(log.WarnLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newBuildCommand())
	root.AddCommand(newSearchCommand())
	root.AddCommand(newServeCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
