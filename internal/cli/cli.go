// Package cli implements the reframe command-line interface.
//
// Commands:
//   - convert: lay images out on a fixed-aspect canvas and export them
//   - plan: print the canvas geometry for a source size
//   - watch: convert images as they land in a folder
//   - serve: run the HTTP API
//
// All commands accept --verbose (-v) for debug logging and --config for a YAML
// file of defaults. Flags given on the command line win over the file.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/youruser/reframe/internal/buildinfo"
	"github.com/youruser/reframe/internal/config"
)

const appName = "reframe"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Reframe lays images out on fixed-aspect canvases",
		Long:         `Reframe resizes images onto a canvas of a fixed aspect ratio with a solid background, optionally adds soft edge shadows, and exports JPEG or PNG files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (default $"+config.EnvPath+")")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	return root
}

// loadConfig reads the config file, if any.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.LoadDefault(c.configPath)
}
