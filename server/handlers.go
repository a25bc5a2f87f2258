package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"

	"github.com/chaos-io/transpalentor/api"
	"github.com/chaos-io/transpalentor/assets"
	"github.com/chaos-io/transpalentor/chroma"
	"github.com/chaos-io/transpalentor/storage"
	"github.com/chaos-io/transpalentor/util"
)

// multipartSlack 请求体上限比文件上限多留出的空间，给 multipart 头部用
const multipartSlack = 1 << 20

// maxThumbnail ?w= 允许的最大边长
const maxThumbnail = 4096

func imageURL(sessionID, filename string) string {
	return "/api/images/" + sessionID + "/" + filename
}

// processedName a.jpg -> a_processed.png
func processedName(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return stem + "_processed.png"
}

func (s *Server) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", assets.Index())
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) upload(c *gin.Context) {
	limit := s.cfg.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fileTooLarge(c, limit)
			return
		}
		validationError(c, fmt.Errorf("file: %w", err))
		return
	}
	if fh.Size > limit {
		fileTooLarge(c, limit)
		return
	}

	f, err := fh.Open()
	if err != nil {
		processingError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer func() {
		_ = f.Close()
	}()

	format, err := util.DetectFormat(f)
	if err != nil || !util.SupportedFormat(format) {
		unsupportedFormat(c)
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		processingError(c, fmt.Errorf("rewind upload: %w", err))
		return
	}

	sid := storage.NewSessionID()
	name := storage.WithExt(storage.SanitizeFilename(fh.Filename), util.FormatExt(format))
	_, n, err := s.store.Save(sid, name, f)
	if err != nil {
		processingError(c, err)
		return
	}

	s.log.Debug("image uploaded", "session", sid, "filename", name, "format", format, "bytes", n)
	c.JSON(http.StatusOK, api.UploadResponse{
		SessionID: sid,
		Filename:  name,
		ImageURL:  imageURL(sid, name),
		Size:      n,
	})
}

func (s *Server) process(c *gin.Context) {
	var req api.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if len(req.RGB) == 0 {
		colorNotSpecified(c)
		return
	}
	if len(req.RGB) > api.MaxColors {
		validationError(c, fmt.Errorf("rgb: at most %d colors", api.MaxColors))
		return
	}
	for _, col := range req.RGB {
		if !col.Valid() {
			validationError(c, fmt.Errorf("rgb: %v out of range 0-255", col))
			return
		}
	}

	src, err := s.store.Lookup(req.SessionID, req.Filename)
	if err != nil {
		sessionNotFound(c, req.SessionID)
		return
	}

	unlock := s.store.Lock(req.SessionID)
	defer unlock()

	img, err := util.OpenImage(src)
	if err != nil {
		processingError(c, fmt.Errorf("open image: %w", err))
		return
	}
	out, err := chroma.MakeTransparent(img, req.RGB, req.Threshold)
	if err != nil {
		processingError(c, err)
		return
	}

	name := processedName(req.Filename)
	dst, err := s.store.Path(req.SessionID, name)
	if err != nil {
		processingError(c, err)
		return
	}
	if err := util.SavePNG(dst, out); err != nil {
		processingError(c, err)
		return
	}

	s.log.Debug("image processed", "session", req.SessionID, "colors", len(req.RGB), "threshold", req.Threshold)
	c.JSON(http.StatusOK, api.ProcessResponse{
		SessionID:    req.SessionID,
		Filename:     name,
		ProcessedURL: imageURL(req.SessionID, name),
	})
}

func (s *Server) erase(c *gin.Context) {
	var req api.EraseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	if len(req.Strokes) == 0 {
		validationError(c, errors.New("strokes: at least one point is required"))
		return
	}

	p, err := s.store.Lookup(req.SessionID, req.Filename)
	if err != nil {
		sessionNotFound(c, req.SessionID)
		return
	}

	unlock := s.store.Lock(req.SessionID)
	defer unlock()

	img, err := util.OpenImage(p)
	if err != nil {
		processingError(c, fmt.Errorf("open image: %w", err))
		return
	}
	if err := util.SavePNG(p, chroma.EraseAt(img, req.Strokes, req.BrushSize)); err != nil {
		processingError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.EraseResponse{
		SessionID:    req.SessionID,
		Filename:     req.Filename,
		ProcessedURL: fmt.Sprintf("%s?t=%d", imageURL(req.SessionID, req.Filename), s.now().UnixMilli()),
	})
}

func (s *Server) image(c *gin.Context) {
	sid := c.Param("sid")
	p, err := s.store.Lookup(sid, c.Param("name"))
	if err != nil {
		sessionNotFound(c, sid)
		return
	}

	c.Header("Cache-Control", "no-cache")
	w := c.Query("w")
	if w == "" {
		c.File(p)
		return
	}

	n, err := strconv.Atoi(w)
	if err != nil || n <= 0 || n > maxThumbnail {
		validationError(c, fmt.Errorf("w: must be between 1 and %d", maxThumbnail))
		return
	}
	img, err := util.OpenImage(p)
	if err != nil {
		processingError(c, fmt.Errorf("open image: %w", err))
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, resize.Thumbnail(uint(n), uint(n), img, resize.Lanczos3)); err != nil {
		processingError(c, fmt.Errorf("encode thumbnail: %w", err))
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
