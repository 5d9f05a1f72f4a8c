package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/youruser/reframe/internal/batch"
	"github.com/youruser/reframe/internal/watch"
)

func (c *CLI) watchCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Convert images as they are written into a folder",
		Long: `Watch converts every image created or rewritten in DIR with the configured
settings. Files already carrying the output suffix are ignored, so --out may
point at DIR itself. A rewritten image replaces its earlier output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			dir := args[0]
			if out == "" {
				out = dir
			}
			if opts.Suffix == "" && filepath.Clean(out) == filepath.Clean(dir) {
				return fmt.Errorf("an empty suffix with --out equal to the watched folder would convert outputs again")
			}

			engine := cfg.Engine()
			w := &watch.Watcher{
				Dir:      dir,
				Suffix:   opts.Suffix,
				Debounce: cfg.Watch.Debounce,
				Logger:   logger,
				Runner: &batch.Driver{
					Options: opts,
					Engine:  &engine,
					Decoder: cfg.Decoder(),
					Encoder: cfg.Encoder(),
					Sink:    batch.DirSink{Dir: out, Overwrite: true},
					Logger:  logger,
				},
			}
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: the watched folder)")
	return cmd
}
