package servecmder

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitchdeskco/pitchdesk/pkg/assistant"
	"github.com/pitchdeskco/pitchdesk/pkg/gateway"
	"github.com/pitchdeskco/pitchdesk/pkg/logger"
	"github.com/pitchdeskco/pitchdesk/pkg/persona"
	"github.com/pitchdeskco/pitchdesk/pkg/storage"
	"github.com/pitchdeskco/pitchdesk/server"
)

const serveLongDesc string = `Start the chat server.

The server requires a Google API key in GOOGLE_API_KEY (or
GEMINI_API_KEY); a .env file in the working directory is loaded if
present. A missing key is fatal: the process refuses to serve.

Examples:
  pitchdesk serve
  pitchdesk serve --config pitchdesk.toml --listen :9000
  pitchdesk serve --db transcripts.db --debug`

const serveShortDesc string = "Start the chat server"

type serveCommander struct {
	configPath string
	listenAddr string
	dbPath     string
	debug      bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVarP(&cmder.listenAddr, "listen", "l", "", "Address to listen on (overrides config)")
	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "Path to SQLite transcript database (overrides config)")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	config, err := server.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.listenAddr != "" {
		config.ListenAddr = c.listenAddr
	}
	if c.dbPath != "" {
		config.DBPath = c.dbPath
	}
	if c.debug {
		config.Debug = true
	}

	log := logger.NewLogger(config.Debug)
	defer log.Sync()

	// Missing credential is a fatal startup condition, not a
	// degradation.
	_ = godotenv.Load()
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY not set (checked environment and .env)")
	}

	gw, err := gateway.NewGemini(ctx, apiKey, config.TextModel, config.ImageModel, log)
	if err != nil {
		return fmt.Errorf("could not create model gateway: %w", err)
	}
	defer gw.Close()

	var recorder storage.Recorder
	if config.DBPath != "" {
		recorder, err = storage.NewSQLiteRecorder(config.DBPath)
		if err != nil {
			return fmt.Errorf("could not open transcript database %s: %w", config.DBPath, err)
		}
		log.Info("using SQLite transcripts", zap.String("path", config.DBPath))
	} else {
		recorder = storage.NewMemoryRecorder()
		log.Info("using in-memory transcripts")
	}
	defer recorder.Close()

	catalog := persona.DefaultCatalog()
	svc := assistant.New(catalog, gw, recorder, nil, log)

	srv := server.New(config, svc, catalog, log)
	return srv.Run()
}
