package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/builder"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	debug      bool
}

// runtime is the loaded configuration plus the process logger.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	cleanup func()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "formbuilder",
		Short:        "Define form fields, fill the generated form, submit it",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(serveCmd(opts), tuiCmd(opts), schemaCmd(opts))
	return cmd
}

// load reads config and builds the logger. console receives log lines when
// no log file is configured.
func (o *rootOptions) load(console io.Writer) (*runtime, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	logger, cleanup, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
	})
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, cleanup: cleanup}, nil
}

func (rt *runtime) builderOptions() []builder.Option {
	return []builder.Option{
		builder.WithDefaultKind(rt.cfg.DefaultKind()),
		builder.WithReorder(rt.cfg.Builder.Reorder),
		builder.WithLogger(rt.logger),
	}
}
