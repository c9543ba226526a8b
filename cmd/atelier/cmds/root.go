package cmds

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/atelier-studio/atelier/pkg/agent"
	"github.com/atelier-studio/atelier/pkg/config"
	"github.com/atelier-studio/atelier/pkg/conversation"
	"github.com/atelier-studio/atelier/pkg/history"
	"github.com/atelier-studio/atelier/pkg/library"
	"github.com/atelier-studio/atelier/pkg/session"
	"github.com/atelier-studio/atelier/pkg/view"
)

var (
	configPath string
	logLevel   string
	agentURL   string
	agentID    string
	dataDir    string
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "atelier",
		Short: "AI graphic design studio",
		Long:  "Atelier turns natural-language prompts into finished graphics with full design specifications, via a remote design agent.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.atelier/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&agentURL, "agent-url", "", "design agent endpoint")
	rootCmd.PersistentFlags().StringVar(&agentID, "agent-id", "", "design agent identifier")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for the design library and history")

	rootCmd.AddCommand(NewStudioCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if agentURL != "" {
		cfg.AgentURL = agentURL
	}
	if agentID != "" {
		cfg.AgentID = agentID
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// initLogging configures the global zerolog logger. The TUI owns stdout, so
// when toFile is set the log goes to a file under the data dir instead.
func initLogging(cfg config.Config, toFile bool) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	zerolog.SetGlobalLevel(level)

	if toFile {
		path := cfg.LogFile
		if path == "" {
			path = filepath.Join(cfg.DataDir, "atelier.log")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrap(err, "create log dir")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return nil
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}

// buildSession assembles the stores, agent client and history recorder from
// the configuration.
func buildSession(cfg config.Config) (*session.Session, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	client := agent.NewClient(cfg.AgentURL, &http.Client{Timeout: 120 * time.Second})
	conv := conversation.NewStore()
	lib := library.NewStore(library.NewFileRecord(cfg.DataDir))
	lib.Load()
	coord := view.NewCoordinator()

	histPath := cfg.HistoryDB
	if histPath == "" {
		histPath = filepath.Join(cfg.DataDir, "history.db")
	}
	hist, err := history.NewSQLiteHistory(histPath)
	if err != nil {
		// history is best-effort; run without it rather than failing startup
		log.Warn().Err(err).Str("path", histPath).Msg("could not open generation history")
		hist = nil
	}

	return session.New(client, cfg.AgentID, conv, lib, coord, hist), nil
}
