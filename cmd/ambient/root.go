package main

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/ambient"
)

// app is the state shared by every subcommand.
type app struct {
	cfgFile     string
	contentFile string
	logFile     string
	logJSON     bool
	verbose     bool
	seed        uint64

	session string
	v       *viper.Viper
	cfg     ambient.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	defaults := ambient.DefaultConfig()

	root := &cobra.Command{
		Use:   "ambient",
		Short: "Frame-driven ambient animation engine",
		Long: `ambient draws a drifting traffic network with agents travelling its
edges, particle bursts on click, and scroll-revealed content panels.

Configuration comes from flags, AMBIENT_* environment variables and an
optional YAML file given with --config. Burst and reveal settings reload
when the file changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML config file")
	pf.StringVar(&a.contentFile, "content", "", "YAML content file for the page panels")
	pf.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.BoolVar(&a.logJSON, "log-json", false, "log JSON lines")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.Uint64Var(&a.seed, "seed", 0, "random seed; 0 picks one")
	pf.Int("burst-count", defaults.BurstCount, "particles per click burst")
	pf.Int("width", defaults.Width, "viewport width in pixels")
	pf.Int("height", defaults.Height, "viewport height in pixels")
	pf.Bool("debug", defaults.Debug, "log frame stats every second")

	root.AddCommand(newWindowCmd(a), newTermCmd(a), newHeadlessCmd(a))
	return root
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"burst-count": "burst_count",
	"width":       "width",
	"height":      "height",
	"debug":       "debug",
}

func (a *app) setup(cmd *cobra.Command) error {
	a.session = uuid.NewString()

	log, err := newLogger(a.logJSON, a.verbose, a.logFile, cmd.Name() == "term")
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	a.log = log.With(zap.String("session", a.session))

	a.v, err = newViper(a.cfgFile)
	if err != nil {
		return err
	}
	for flag, key := range flagKeys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "bind flag %s", flag)
		}
	}
	a.cfg, err = decodeConfig(a.v)
	if err != nil {
		return err
	}
	a.log.Debug("config loaded", zap.String("file", a.v.ConfigFileUsed()))
	return nil
}

// newLogger builds a development logger, or a production JSON logger with
// jsonOut. A terminal session without a log file logs nowhere so output does
// not tear the screen.
func newLogger(jsonOut, verbose bool, file string, terminal bool) (*zap.Logger, error) {
	if terminal && file == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	if jsonOut {
		cfg = zap.NewProductionConfig()
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	}
	return cfg.Build()
}

// newEngine builds an engine over world and overlay from the loaded config.
func (a *app) newEngine(world, overlay ambient.Scene, metrics *ambient.Metrics) (*ambient.Engine, error) {
	opts := []ambient.Option{ambient.WithLogger(a.log), ambient.WithMetrics(metrics)}
	if a.seed != 0 {
		opts = append(opts, ambient.WithRand(rand.New(rand.NewPCG(a.seed, a.seed))))
	}
	e, err := ambient.NewEngine(world, overlay, a.cfg, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "start engine")
	}
	return e, nil
}

// watch starts watching the config file, if one was given.
func (a *app) watch() *reloader {
	if a.cfgFile == "" {
		return nil
	}
	return watchConfig(a.v, a.log)
}
