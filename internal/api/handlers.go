package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/reframe/internal/batch"
	"github.com/youruser/reframe/internal/config"
	imagepkg "github.com/youruser/reframe/internal/image"
)

// Handler serves conversion requests with defaults taken from cfg.
type Handler struct {
	cfg    *config.Config
	logger *log.Logger
}

func NewHandler(cfg *config.Config, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{cfg: cfg, logger: logger}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// plan answers the geometry for a width x height source without any pixels.
func (h *Handler) plan(c *gin.Context) {
	width, err := strconv.Atoi(c.Query("width"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width must be an integer"})
		return
	}
	height, err := strconv.Atoi(c.Query("height"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "height must be an integer"})
		return
	}
	aspect, err := imagepkg.ParseAspect(c.DefaultQuery("aspect", h.cfg.Aspect))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine := h.cfg.Engine()
	p, err := engine.Plan(width, height, aspect)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	left, right := p.ShadowStrips(engine.Shadow)
	c.JSON(http.StatusOK, gin.H{
		"plan":         p,
		"shadow_width": p.ShadowWidth(engine.Shadow),
		"shadow_left":  rect(left),
		"shadow_right": rect(right),
	})
}

// convert takes multipart "files" plus optional aspect, format, background and
// style fields, and answers a zip of the converted images and the batch log.
func (h *Handler) convert(c *gin.Context) {
	cfg := *h.cfg
	for field, dst := range map[string]*string{
		"aspect":     &cfg.Aspect,
		"format":     &cfg.Format,
		"background": &cfg.Background,
		"style":      &cfg.Style,
	} {
		if v, ok := c.GetPostForm(field); ok {
			*dst = v
		}
	}
	opts, err := cfg.Options()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var files []*multipart.FileHeader
	form, err := c.MultipartForm()
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	case err == nil:
		files = form.File["files"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": batch.ErrNoFiles.Error()})
		return
	}
	sources := make([]batch.Source, len(files))
	for i, fh := range files {
		sources[i] = uploadSource{fh}
	}

	var logBuf, zipBuf bytes.Buffer
	sink := batch.NewZipSink(&zipBuf)
	batchLog := log.NewWithOptions(&logBuf, log.Options{ReportTimestamp: true, TimeFormat: time.TimeOnly}).
		With("request_id", c.GetString(requestIDKey))
	engine := cfg.Engine()
	d := &batch.Driver{
		Options: opts,
		Engine:  &engine,
		Decoder: cfg.Decoder(),
		Encoder: cfg.Encoder(),
		Sink:    sink,
		Logger:  batchLog,
	}
	rep, err := d.Run(c.Request.Context(), sources)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, batch.ErrNoFiles) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if _, err := sink.Save(c.Request.Context(), "convert.log", logBuf.Bytes()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := sink.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("batch converted", "request_id", c.GetString(requestIDKey),
		"files", len(sources), "converted", rep.Succeeded(), "failed", rep.Failed())

	c.Header("Content-Disposition", `attachment; filename="converted.zip"`)
	c.Header("X-Reframe-Converted", strconv.Itoa(rep.Succeeded()))
	c.Header("X-Reframe-Failed", strconv.Itoa(rep.Failed()))
	c.Data(http.StatusOK, "application/zip", zipBuf.Bytes())
}

// uploadSource adapts an uploaded file to a batch source.
type uploadSource struct {
	fh *multipart.FileHeader
}

func (s uploadSource) Name() string { return s.fh.Filename }

func (s uploadSource) Open(context.Context) (io.ReadCloser, error) {
	f, err := s.fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", s.fh.Filename, err)
	}
	return f, nil
}

func rect(r image.Rectangle) gin.H {
	return gin.H{"x0": r.Min.X, "y0": r.Min.Y, "x1": r.Max.X, "y1": r.Max.Y}
}
