// Package batch runs a selection of images through decode, layout, encode and
// delivery, one file at a time.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/log"

	imagepkg "github.com/youruser/reframe/internal/image"
)

var (
	// ErrNoFiles is the only condition that stops a batch before it starts.
	ErrNoFiles = errors.New("no files selected")

	// ErrSinkFailure is returned when an artifact could not be delivered.
	ErrSinkFailure = errors.New("sink failure")
)

// Decoder turns a source stream into an image.
type Decoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// Encoder turns a composite into bytes of the given format.
type Encoder interface {
	Encode(img image.Image, f imagepkg.Format) ([]byte, error)
}

// Options are the per-batch conversion settings.
type Options struct {
	Aspect     imagepkg.AspectRatio
	Format     imagepkg.Format
	Background color.NRGBA
	Style      imagepkg.Style
	Suffix     string
}

// DefaultOptions returns 4/5 JPEG on dark gray, no shadows.
func DefaultOptions() Options {
	bg, _ := imagepkg.ParseColor(imagepkg.DefaultBackground)
	return Options{
		Aspect:     imagepkg.AspectRatio{W: 4, H: 5},
		Format:     imagepkg.FormatJPEG,
		Background: bg,
		Style:      imagepkg.StylePlain,
		Suffix:     DefaultSuffix,
	}
}

// Outcome is the result for one source. Output is the name the sink stored it
// under and is empty when Err is set.
type Outcome struct {
	Name   string
	Output string
	Err    error
}

// Report lists outcomes in selection order.
type Report struct {
	Outcomes []Outcome
}

func (r Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

func (r Report) Failed() int { return len(r.Outcomes) - r.Succeeded() }

// Driver converts sources sequentially. Decoder, Encoder and Engine default to the
// imagepkg implementations; Sink is required.
type Driver struct {
	Options Options
	Engine  *imagepkg.Engine
	Decoder Decoder
	Encoder Encoder
	Sink    Sink
	Logger  *log.Logger
}

// Run processes sources in order. A failing file is logged and recorded and the
// loop moves on; only an empty selection or a cancelled context ends it early.
func (d *Driver) Run(ctx context.Context, sources []Source) (Report, error) {
	logger := d.logger()
	var rep Report
	if len(sources) == 0 {
		logger.Error("No files selected")
		return rep, ErrNoFiles
	}
	if d.Sink == nil {
		return rep, fmt.Errorf("%w: no sink configured", ErrSinkFailure)
	}

	logger.Infof("Processing %d file(s)...", len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		name := src.Name()
		logger.Infof("Processing %s...", name)

		out, err := d.convert(ctx, src)
		rep.Outcomes = append(rep.Outcomes, Outcome{Name: name, Output: out, Err: err})
		if err != nil {
			logger.Errorf("Error processing %s: %v", name, err)
			continue
		}
		logger.Infof("Downloaded %s", out)
	}
	logger.Info("All done")
	return rep, nil
}

func (d *Driver) convert(ctx context.Context, src Source) (string, error) {
	img, err := d.decode(ctx, src)
	if err != nil {
		return "", err
	}

	engine := imagepkg.DefaultEngine()
	if d.Engine != nil {
		engine = *d.Engine
	}
	canvas, err := engine.Layout(img, d.Options.Aspect, d.Options.Background, d.Options.Style)
	if err != nil {
		return "", err
	}

	var enc Encoder = imagepkg.Encoder{}
	if d.Encoder != nil {
		enc = d.Encoder
	}
	data, err := enc.Encode(canvas, d.Options.Format)
	if err != nil {
		return "", err
	}

	name := OutputName(src.Name(), d.Options.Suffix, d.Options.Format)
	stored, err := d.Sink.Save(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSinkFailure, name, err)
	}
	return stored, nil
}

// decode holds the source handle only for the duration of decoding.
func (d *Driver) decode(ctx context.Context, src Source) (image.Image, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imagepkg.ErrDecodeFailure, err)
	}
	defer rc.Close()

	var dec Decoder = imagepkg.Decoder{}
	if d.Decoder != nil {
		dec = d.Decoder
	}
	img, err := dec.Decode(rc)
	if err != nil {
		if !errors.Is(err, imagepkg.ErrDecodeFailure) {
			err = fmt.Errorf("%w: %v", imagepkg.ErrDecodeFailure, err)
		}
		return nil, err
	}
	return img, nil
}

func (d *Driver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}
