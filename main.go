package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/arkdale/photon/cmd"
	"github.com/arkdale/photon/config"
	"github.com/arkdale/photon/faces"
	"github.com/arkdale/photon/filestore"
	"github.com/arkdale/photon/handlers"
	"github.com/arkdale/photon/indexer"
	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/scancrop"
	"github.com/arkdale/photon/utils"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var Version = "develop"

func defaultDataDirectory() string {
	if envDataDir := os.Getenv("PHOTON_DATA_DIR"); envDataDir != "" {
		return envDataDir
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "photon")
	case "darwin":
		return filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "photon")
	default:
		return filepath.Join(os.Getenv("HOME"), "photon")
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}

func main() {
	var dataDirectory string

	rootCmd := &cobra.Command{
		Use:   "photon",
		Short: "Photon is a self-hosted photo library server",
		RunE: func(c *cobra.Command, args []string) error {
			return serve(dataDirectory)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDirectory, "data-directory", defaultDataDirectory(), "Path to the data directory")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		RunE: func(c *cobra.Command, args []string) error {
			return serve(dataDirectory)
		},
	}

	rootCmd.AddCommand(
		serveCmd,
		cmd.NewRootFolderCmd(&dataDirectory),
		cmd.NewUserCmd(&dataDirectory),
		cmd.NewInviteCmd(&dataDirectory),
		cmd.NewSecretKeyCmd(&dataDirectory),
		cmd.NewVersionCmd(Version),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(dataDirectory string) error {
	if err := os.MkdirAll(dataDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg, err := config.Load(dataDirectory)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.Log.Level)

	log.Info("Starting Photon!")

	utils.SetJWTKey(cfg.SecretKey)
	utils.SetRefreshTokenTTL(cfg.Auth.TokenExpiry)
	utils.InitializeConsoleLogger()

	if err := models.Initialize(dataDirectory); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := models.Close(); err != nil {
			log.Errorf("Failed to close database: %v", err)
		}
	}()

	backendConfig, err := filestore.ParseBackendConfigFromEnv(filepath.Join(dataDirectory, "cache"))
	if err != nil {
		return fmt.Errorf("failed to read cache backend configuration: %w", err)
	}
	if err := backendConfig.Validate(); err != nil {
		return fmt.Errorf("invalid cache backend configuration: %w", err)
	}
	backend, err := backendConfig.CreateBackend()
	if err != nil {
		return fmt.Errorf("failed to create cache backend: %w", err)
	}
	store := filestore.NewThumbnailStore(backend)

	if cfg.Faces.Enabled {
		faces.Initialize(cfg.Faces.CascadeFile, cfg.Faces.DistanceThreshold)
	}

	roots, err := models.GetRootFolders()
	if err != nil {
		return fmt.Errorf("failed to get root folders: %w", err)
	}
	indexer.Initialize(cfg.Scan.Workers, roots)
	defer indexer.StopAllIndexers()

	if err := scancrop.SyncScanRoots(); err != nil {
		log.Warnf("Failed to sync scan roots: %v", err)
	}

	app := fiber.New(fiber.Config{
		ServerHeader: "Photon",
		AppName:      fmt.Sprintf("Photon %s", Version),
	})

	handlers.Initialize(app, cfg, store)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
