package cli

import (
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	imagepkg "github.com/youruser/reframe/internal/image"
	"github.com/youruser/reframe/internal/util"
)

func (c *CLI) planCommand() *cobra.Command {
	var aspect string
	cmd := &cobra.Command{
		Use:   "plan WIDTHxHEIGHT|file|url",
		Short: "Print the canvas geometry for a source image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			overrideString(cmd, "aspect", &cfg.Aspect, aspect)
			a, err := imagepkg.ParseAspect(cfg.Aspect)
			if err != nil {
				return err
			}
			w, h, err := sourceSize(args[0])
			if err != nil {
				return err
			}
			engine := cfg.Engine()
			p, err := engine.Plan(w, h, a)
			if err != nil {
				return err
			}
			writePlan(cmd.OutOrStdout(), w, h, a, p, engine.Shadow)
			return nil
		},
	}
	cmd.Flags().StringVarP(&aspect, "aspect", "a", "4/5", "target aspect ratio w/h")
	return cmd
}

// sourceSize accepts "4000x3000", a local image or an image URL.
func sourceSize(arg string) (int, int, error) {
	if ws, hs, ok := strings.Cut(strings.ToLower(arg), "x"); ok {
		w, werr := strconv.Atoi(ws)
		h, herr := strconv.Atoi(hs)
		if werr == nil && herr == nil {
			return w, h, nil
		}
	}

	var img image.Image
	var err error
	if util.IsURL(arg) {
		img, err = imagepkg.DownloadImage(arg)
	} else {
		var f *os.File
		if f, err = os.Open(arg); err != nil {
			return 0, 0, err
		}
		defer f.Close()
		img, err = imagepkg.Decode(f)
	}
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

func writePlan(w io.Writer, srcW, srcH int, a imagepkg.AspectRatio, p imagepkg.RenderPlan, s imagepkg.ShadowParams) {
	left, right := p.ShadowStrips(s)
	fmt.Fprintf(w, "source:  %dx%d\n", srcW, srcH)
	fmt.Fprintf(w, "aspect:  %s\n", a)
	fmt.Fprintf(w, "canvas:  %dx%d\n", p.CanvasW, p.CanvasH)
	fmt.Fprintf(w, "scale:   %.4f\n", p.Scale)
	fmt.Fprintf(w, "draw:    %dx%d at (%d,%d)\n", p.DrawW, p.DrawH, p.OffsetX, p.OffsetY)
	fmt.Fprintf(w, "shadows: width %d, left %v, right %v\n", p.ShadowWidth(s), left, right)
}
