package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"nexustab/config"
	"nexustab/events"
	"nexustab/store"
	"nexustab/tui"
)

var storePath string

var rootCmd = &cobra.Command{
	Use:   "nexustab",
	Short: "Nexus Tab is a personal dashboard with an AI assistant",
	Long: `Nexus Tab is a personal dashboard with tasks, quick links, notes and
feeds, driven by an AI assistant. The assistant turns natural-language
requests into widget actions; destructive ones require confirmation.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		s, err := openStore()
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}

		setupLogging(filepath.Dir(s.Path()))

		cfg, err := config.LoadConfig(ctx, s)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		bus := events.NewEventBus()

		// Pick up settings saved by another running instance
		watcher := store.NewWatcher(s, bus)
		if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("could not watch store file")
		} else {
			defer watcher.Stop()
		}

		if err := tui.StartTUI(s, bus, cfg); err != nil {
			fmt.Printf("Error starting TUI: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// openStore resolves the store path, creates its directory and returns
// the shared store
func openStore() (*store.Store, error) {
	path := storePath
	if path == "" {
		defaultPath, err := store.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	return store.NewStore(path), nil
}

// setupLogging routes logs to a file so they never corrupt the TUI
func setupLogging(dir string) {
	logFile, err := os.OpenFile(filepath.Join(dir, "nexustab.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return
	}
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the store file (default ~/.nexustab/store.json)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(layoutCmd)
}
