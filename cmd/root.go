package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/worktime/internal/config"
	"github.com/Tiliavir/worktime/internal/logging"
	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/storage"
)

// Exit codes.
const (
	exitUser = 1
	exitIO   = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUser, err: fmt.Errorf(format, args...)}
}

func ioError(err error) error {
	return &exitError{code: exitIO, err: err}
}

// app is the state shared by all commands, set up before each run.
type app struct {
	cfg      config.Config
	settings model.EffectiveSettings
	store    storage.Store
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

var (
	env         *app
	flagConfig  string
	flagVerbose bool

	// clock and openStore are swapped in tests.
	clock     = time.Now
	openStore = storage.Open
)

var rootCmd = &cobra.Command{
	Use:   "wt",
	Short: "worktime – compensated work-hour tracker",
	Long: `wt logs work time and turns it into compensated hours for timesheets.
Travel time is credited at configurable driver/passenger percentages; sick
leave, PTO and bank holidays are credited with the default work hours.
Data and configuration live in ~/.worktime/.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(exitUser)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.worktime/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log diagnostics at debug level")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(outlookCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return userError("config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, flagVerbose)
	if err != nil {
		return userError("config: %w", err)
	}

	settings, err := cfg.Effective()
	if err != nil {
		logger.Warn("ignoring team overrides", zap.String("team_file", cfg.TeamFile), zap.Error(err))
	}

	path, err := cfg.StoragePath()
	if err != nil {
		return ioError(err)
	}
	store, err := openStore(cfg.Storage.Driver, path, logger)
	if err != nil {
		return ioError(err)
	}
	logger.Debug("store opened", zap.String("driver", cfg.Storage.Driver), zap.String("path", path))

	env = &app{
		cfg:      cfg,
		settings: settings,
		store:    store,
		logger:   logger,
		loc:      time.Local,
		now:      clock,
	}
	return nil
}

// execute runs the command tree. The store and logger are released even when
// the command fails, which cobra's post-run hooks do not cover.
func execute() error {
	err := rootCmd.Execute()
	if cerr := teardown(); err == nil {
		err = cerr
	}
	return err
}

func teardown() error {
	if env == nil {
		return nil
	}
	a := env
	env = nil
	_ = a.logger.Sync()
	if err := a.store.Close(); err != nil {
		return ioError(err)
	}
	return nil
}
