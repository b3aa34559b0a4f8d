package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/igm/organizer/internal/config"
	"github.com/igm/organizer/internal/export"
	"github.com/igm/organizer/internal/logger"
	"github.com/igm/organizer/internal/menu"
	"github.com/igm/organizer/internal/storage"
)

var (
	cfgFile     string
	dataFile    string
	showVersion bool

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "organizer",
	Short: "Personal organizer for short dated entries",
	Long: `organizer keeps short entries (title, description, date) in a plain
text file, three lines per entry. Run it without a subcommand for the
interactive menu, or use the subcommands from scripts.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.organizer/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataFile, "data", "d", "", "backing file (overrides storage.data_file)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads configuration, initializes logging and opens the store
func setup() (*config.Config, *storage.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger.Init(cfg.Logging, nil)

	if dataFile != "" {
		if err := applyDataFlag(cfg); err != nil {
			return nil, nil, err
		}
	} else if err := cfg.EnsureWorkDir(); err != nil {
		return nil, nil, fmt.Errorf("creating work directory: %w", err)
	}

	store, err := storage.Open(cfg.DataPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Component("cli").Debug("store opened", "path", store.Path(), "entries", store.Len())

	return cfg, store, nil
}

// applyDataFlag resolves --data against the current directory, not the work dir
func applyDataFlag(cfg *config.Config) error {
	if dataFile == "" {
		return nil
	}
	abs, err := filepath.Abs(dataFile)
	if err != nil {
		return fmt.Errorf("resolving data file: %w", err)
	}
	cfg.Storage.DataFile = abs
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), "organizer", version)
		return nil
	}

	cfg, store, err := setup()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return fmt.Errorf("export.format: %w", err)
	}

	// Every mutation is already on disk, so an interrupt can exit right away.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		if _, ok := <-sigChan; ok {
			fmt.Fprintln(cmd.OutOrStdout(), "\nExiting...")
			os.Exit(0)
		}
	}()

	m := menu.New(store, cmd.InOrStdin(), cmd.OutOrStdout(), menu.Options{
		Color:        cfg.Menu.Color,
		ExportFormat: format,
	})
	return m.Run(context.Background())
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the interactive menu",
	Args:  cobra.NoArgs,
	RunE:  runMenu,
}

// configCmd handles configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()

		fmt.Printf("Data file [%s]: ", cfg.Storage.DataFile)
		var data string
		fmt.Scanln(&data)
		if data != "" {
			cfg.Storage.DataFile = data
		}

		fmt.Printf("Export format (text/yaml/xlsx) [%s]: ", cfg.Export.Format)
		var format string
		fmt.Scanln(&format)
		if format != "" {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg.Export.Format = string(f)
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Printf("Configuration saved to: %s\n", cfg.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := applyDataFlag(cfg); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Work Dir: %s\n", cfg.Storage.WorkDir)
		fmt.Fprintf(out, "Data File: %s\n", cfg.DataPath())
		fmt.Fprintf(out, "Export Format: %s\n", cfg.Export.Format)
		fmt.Fprintf(out, "Menu Color: %t\n", cfg.Menu.Color)
		fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)
		fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
