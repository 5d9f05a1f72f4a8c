package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/youruser/reframe/internal/batch"
	"github.com/youruser/reframe/internal/config"
)

// convertOpts holds the command-line flags for convert. Empty means "use config".
type convertOpts struct {
	aspect     string // "<int>/<int>"
	format     string // image/jpeg or image/png
	background string // CSS color
	style      string // plain or shadowed
	suffix     string // appended to output base names
	out        string // output directory
	zipPath    string // write a zip archive instead of loose files
}

func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "convert [files or urls...]",
		Short: "Lay images out on a fixed-aspect canvas and export them",
		Long: `Convert resizes each image onto a canvas of the given aspect ratio, filled with
the background color, and writes <name>` + defaults.Suffix + `.<ext> for each input.

Files are processed one at a time in the order given. A file that fails is
reported and the rest still convert.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.aspect, "aspect", "a", defaults.Aspect, "target aspect ratio w/h")
	f.StringVarP(&opts.format, "format", "f", defaults.Format, "output format: image/jpeg or image/png")
	f.StringVar(&opts.background, "bg", defaults.Background, "background color (hex, rgb(), rgba() or name)")
	f.StringVar(&opts.style, "style", defaults.Style, "plain or shadowed")
	f.StringVar(&opts.suffix, "suffix", defaults.Suffix, "suffix appended to output names")
	f.StringVarP(&opts.out, "out", "o", ".", "output directory")
	f.StringVar(&opts.zipPath, "zip", "", "write outputs into this zip file instead of --out")
	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, args []string, opts convertOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	overrideString(cmd, "aspect", &cfg.Aspect, opts.aspect)
	overrideString(cmd, "format", &cfg.Format, opts.format)
	overrideString(cmd, "bg", &cfg.Background, opts.background)
	overrideString(cmd, "style", &cfg.Style, opts.style)
	overrideString(cmd, "suffix", &cfg.Suffix, opts.suffix)

	bopts, err := cfg.Options()
	if err != nil {
		return err
	}

	var sink batch.Sink = batch.DirSink{Dir: opts.out}
	var zs *batch.ZipSink
	if opts.zipPath != "" {
		f, err := os.Create(opts.zipPath)
		if err != nil {
			return err
		}
		defer f.Close()
		zs = batch.NewZipSink(f)
		sink = zs
	}

	engine := cfg.Engine()
	d := &batch.Driver{
		Options: bopts,
		Engine:  &engine,
		Decoder: cfg.Decoder(),
		Encoder: cfg.Encoder(),
		Sink:    sink,
		Logger:  logger,
	}

	prog := newProgress(logger)
	rep, err := d.Run(ctx, batch.Sources(args))
	if zs != nil {
		if cerr := zs.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Converted %d of %d file(s)", rep.Succeeded(), len(rep.Outcomes)))
	return nil
}

// overrideString copies v into dst when the flag was set explicitly.
func overrideString(cmd *cobra.Command, flag string, dst *string, v string) {
	if cmd.Flags().Changed(flag) {
		*dst = v
	}
}
