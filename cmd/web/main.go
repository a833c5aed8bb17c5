package main

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"time"

	"github.com/de-tools/compliance-atlas/pkg/server"
	"github.com/de-tools/compliance-atlas/pkg/services/checks/aws"
	"github.com/de-tools/compliance-atlas/pkg/services/config"
	"github.com/de-tools/compliance-atlas/pkg/store/duckdb"
	"github.com/de-tools/compliance-atlas/pkg/store/duckdb/scans"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	settingsPath string
	awsCfgPath   string
	dbPath       string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the compliance scanner",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultAwsCfg := fmt.Sprintf("%s/.aws/config", usr.HomeDir)

	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "",
		"Path to the scan profile file (defaults apply when omitted)")
	rootCmd.Flags().StringVarP(&awsCfgPath, "config", "c", defaultAwsCfg,
		"Path to the AWS shared config file (default is $HOME/.aws/config)")
	rootCmd.Flags().StringVar(&dbPath, "db", "compliance-atlas.db",
		"Path to the scan history database")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	settings := config.DefaultSettings()
	if settingsPath != "" {
		loaded, err := config.LoadSettings(settingsPath)
		if err != nil {
			return fmt.Errorf("failed to load scan profile: %w", err)
		}
		settings = *loaded
		logger.Info().Msgf("Scan profile found at `%s` successfully loaded.", settingsPath)
	}
	logger.Info().Msgf("Scanning region `%s` with %d disabled rules.",
		settings.Region, len(settings.DisabledRules))

	if shared, err := config.NewSharedConfig(awsCfgPath); err != nil {
		logger.Warn().Err(err).Msgf("No AWS shared config at `%s`", awsCfgPath)
	} else {
		logger.Info().Msgf("Found the following AWS profiles:")
		for _, profile := range shared.Profiles() {
			region, err := shared.Region(profile)
			if err != nil {
				region = "unset"
			}
			logger.Info().Msgf("Name: `%s`, Region: `%s`", profile, region)
		}
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: dbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	scanStore, err := scans.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create scan store: %w", err)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	addr := net.JoinHostPort(host, port)
	logger.Info().Msgf("starting server on %s", addr)

	api := server.NewWebAPI(server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Logger:   logger,
			Factory:  aws.ScannerFactory,
			Settings: settings,
			Store:    scanStore,
		},
	})

	return api.Start()
}
