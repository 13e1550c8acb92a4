// Package cli provides the command-line interface for the pattern analyzer.
package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"candle-analyzer/internal/catalog"
	"candle-analyzer/internal/chart"
	"candle-analyzer/internal/config"
	"candle-analyzer/internal/explain"
	"candle-analyzer/internal/logging"
	"candle-analyzer/internal/models"
	"candle-analyzer/internal/store"
	"candle-analyzer/internal/widget"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Renderer  *chart.Renderer
	Store     store.KeyValue
	Favorites *store.Favorites
	Explainer *explain.Service // nil without an API key
	Session   *explain.Session // nil without an API key
	Embedder  *widget.Embedder
}

// NewApp wires the application components from configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	chartCfg, err := cfg.ChartConfig()
	if err != nil {
		return nil, err
	}
	if app.Renderer, err = chart.NewRenderer(chartCfg); err != nil {
		return nil, err
	}

	kv, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open favorites database, favorites will not persist")
		app.Store = store.NewMemoryStore()
	} else {
		app.Store = kv
		logger.Debug().Str("path", cfg.Store.Path).Msg("SQLite store initialized")
	}

	if app.Favorites, err = store.LoadFavorites(ctx, app.Store, cfg.Store.FavoritesKey); err != nil {
		// A corrupt list is replaced on the next toggle.
		logger.Warn().Err(err).Msg("Failed to load favorites, starting empty")
		app.Favorites, _ = store.LoadFavorites(ctx, store.NewMemoryStore(), cfg.Store.FavoritesKey)
	}

	if cfg.HasAPIKey() {
		client := explain.NewOpenAIClient(explain.ClientConfig{
			APIKey:  cfg.Credentials.APIKey,
			Model:   cfg.Explain.Model,
			BaseURL: cfg.Explain.BaseURL,
			Timeout: cfg.Explain.Timeout,
		})
		app.UseLLM(client)
		logger.Debug().Str("model", client.GetModel()).Msg("LLM client initialized")
	}

	app.Embedder = widget.NewEmbedder(widget.DefaultOptions(""), logger)
	return app, nil
}

// UseLLM enables explanations through client.
func (a *App) UseLLM(client explain.LLMClient) {
	a.Explainer = explain.NewService(client, explain.ServiceConfig{
		Timeout:           a.Config.Explain.Timeout,
		RequestsPerMinute: a.Config.Explain.RequestsPerMinute,
	}, a.Logger)
	a.Session = explain.NewSession(a.Explainer, a.Logger)
}

// Close releases the store.
func (a *App) Close() error {
	if a.Embedder != nil {
		a.Embedder.Close()
	}
	if a.Session != nil {
		a.Session.Clear()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// currency resolves a --currency flag value, defaulting to the configured
// market.
func (a *App) currency(value string) (models.Currency, error) {
	if value == "" {
		value = a.Config.UI.DefaultCurrency
	}
	return catalog.LookupCurrency(value)
}

// NewRootCmd creates the root command for the CLI. A nil app is built from
// the --config directory before any command runs.
func NewRootCmd(app *App) *cobra.Command {
	owned := app == nil
	if owned {
		app = &App{}
	}

	rootCmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Forex candlestick pattern analyzer",
		Long: `Forex Candlestick Pattern Analyzer browses a library of candlestick patterns,
draws them as thumbnails, explains them with an AI model and embeds a live
market chart for EUR/USD, GBP/USD and GOLD.

Use 'analyzer serve' to open the browser UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if owned {
				if err := initApp(cmd, app, debug); err != nil {
					return err
				}
			} else if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			if app.Config != nil && !app.Config.UI.ColorEnabled {
				color.NoColor = true
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if owned {
				return app.Close()
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/candle-analyzer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newPatternsCmd(app))
	rootCmd.AddCommand(newFavoritesCmd(app))
	rootCmd.AddCommand(newExplainCmd(app))
	rootCmd.AddCommand(newChartCmd(app))
	rootCmd.AddCommand(newCurrenciesCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

func initApp(cmd *cobra.Command, app *App, debug bool) error {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logCfg.FilePath = cfg.Logging.Path
	if debug {
		logCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithConfig(logCfg)

	built, err := NewApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	*app = *built
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd(nil)
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Candlestick Pattern Analyzer v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			path := config.Path(app.Config.Dir)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": path})
			} else {
				output.Println(path)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Chart")
	output.Printf("  Size:            %s x %s\n", FormatPrice(cfg.Chart.Width), FormatPrice(cfg.Chart.Height))
	output.Printf("  Padding:         %s\n", FormatPrice(cfg.Chart.Padding))
	output.Println()

	output.Bold("Explanations")
	output.Printf("  Model:           %s\n", cfg.Explain.Model)
	output.Printf("  Endpoint:        %s\n", cfg.Explain.BaseURL)
	output.Printf("  Timeout:         %s\n", cfg.Explain.Timeout)
	output.Printf("  Requests/min:    %d\n", cfg.Explain.RequestsPerMinute)
	output.Printf("  API key:         %s\n", presence(cfg.Credentials.APIKey))
	output.Println()

	output.Bold("Favorites")
	output.Printf("  Database:        %s\n", cfg.Store.Path)
	output.Printf("  Key:             %s\n", cfg.Store.FavoritesKey)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:         %s\n", cfg.Addr())
	output.Printf("  Origins:         %v\n", cfg.Server.AllowedOrigins)
	output.Println()

	output.Bold("UI")
	output.Printf("  Currency:        %s\n", cfg.UI.DefaultCurrency)
	output.Printf("  Color:           %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Log level:       %s\n", cfg.Logging.Level)
}

func presence(key string) string {
	if key != "" {
		return "configured (" + logging.MaskCredential(key) + ")"
	}
	return "not set (API_KEY)"
}
