package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/notify"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/result"
)

func tuiCmd(opts *rootOptions) *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:   "tui",
		Short: "Build and fill a form in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Log lines would interleave with prompts; keep them in the log
			// file or drop them.
			console := io.Discard
			if opts.debug {
				console = cmd.ErrOrStderr()
			}
			rt, err := opts.load(console)
			if err != nil {
				return err
			}
			defer rt.cleanup()

			format := rt.cfg.OutputFormat()
			if output != "" {
				if format, err = result.ParseFormat(output); err != nil {
					return err
				}
			}

			b := builder.New(append(rt.builderOptions(),
				builder.WithNotifier(notify.NewWriterNotifier(cmd.ErrOrStderr())),
			)...)
			runner, err := tui.New(b,
				tui.WithOutput(cmd.OutOrStdout()),
				tui.WithOutputFormat(format),
				tui.WithLogger(rt.logger),
			)
			if err != nil {
				return err
			}

			if _, err := runner.Run(cmd.Context()); err != nil && !errors.Is(err, tui.ErrAborted) {
				return err
			}
			return nil
		},
	}

	c.Flags().StringVarP(&output, "output", "o", "", "result format: pretty, json or form (overrides config)")
	return c
}
