package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/shopr/internal/api"
	"github.com/pders01/shopr/internal/config"
	"github.com/pders01/shopr/internal/debuglog"
	"github.com/pders01/shopr/internal/fixture"
	"github.com/pders01/shopr/internal/opener"
	"github.com/pders01/shopr/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	apiURL     string
	quiet      bool

	serveAddr    string
	serveFixture string
)

var rootCmd = &cobra.Command{
	Use:           "shopr",
	Short:         "Terminal shop client with parcel tracking",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shopr %s\n", Version)
		fmt.Println("Shop & parcel tracking client")
		fmt.Println("github.com/pders01/shopr")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.DefaultPath()
		if err := config.GenerateDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development fixture backend",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.Flags().StringVar(&apiURL, "api", "", "Backend base URL (overrides config)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveFixture, "fixture", "", "Fixture TOML file (default: built-in data)")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and starts file logging from [log].
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	client, err := api.NewClient(cfg.API)
	if err != nil {
		return err
	}

	if !quiet {
		tui.ShowBanner(Version, cfg.UI.Colors)
	}

	app := tui.NewApp(cfg, tui.Services{
		Parcels: client,
		Cart:    client,
		Opener:  opener.New(cfg.UI.Opener),
	})
	debuglog.Infof("starting against %s", client.BaseURL())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	addr := cfg.Fixture.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	file := cfg.Fixture.File
	if serveFixture != "" {
		file = serveFixture
	}

	srv, err := newFixtureServer(cfg, file)
	if err != nil {
		return err
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		fmt.Printf("Fixture backend listening on http://%s\n", a)
	})
}

func newFixtureServer(cfg *config.Config, file string) (*fixture.Server, error) {
	data, err := fixture.Load(file)
	if err != nil {
		return nil, err
	}
	return fixture.New(cfg, data)
}
