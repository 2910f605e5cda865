package vision

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gocv.io/x/gocv"
)

// Template is an immutable reference image in BGR order, optionally with a single channel
// transparency mask restricting which pixels take part in matching.
type Template struct {
	Name string
	bgr  gocv.Mat
	mask gocv.Mat
}

func (t *Template) Width() int  { return t.bgr.Cols() }
func (t *Template) Height() int { return t.bgr.Rows() }

func (t *Template) HasMask() bool {
	return !t.mask.Empty()
}

func (t *Template) Close() {
	t.bgr.Close()
	t.mask.Close()
}

// newTemplate takes ownership of src. Four channel images are split into BGR plus alpha mask.
func newTemplate(name string, src gocv.Mat) (*Template, error) {
	defer src.Close()

	t := &Template{Name: name, bgr: gocv.NewMat(), mask: gocv.NewMat()}
	switch src.Channels() {
	case 4:
		channels := gocv.Split(src)
		defer func() {
			for _, c := range channels {
				c.Close()
			}
		}()
		gocv.Merge(channels[:3], &t.bgr)
		t.mask.Close()
		t.mask = channels[3].Clone()
	case 3:
		t.bgr.Close()
		t.bgr = src.Clone()
	case 1:
		gocv.CvtColor(src, &t.bgr, gocv.ColorGrayToBGR)
	default:
		t.Close()
		return nil, fmt.Errorf("template %s: unsupported channel count %d", name, src.Channels())
	}

	if t.bgr.Empty() {
		t.Close()
		return nil, fmt.Errorf("template %s: empty image", name)
	}

	return t, nil
}

// NewTemplate builds a template from an in-memory image. Images that are not fully opaque keep
// their alpha as the match mask.
func NewTemplate(name string, img image.Image) (*Template, error) {
	var (
		m   gocv.Mat
		err error
	)
	if op, ok := img.(interface{ Opaque() bool }); ok && !op.Opaque() {
		m, err = gocv.ImageToMatRGBA(img)
	} else {
		m, err = gocv.ImageToMatRGB(img)
	}
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	return newTemplate(name, m)
}

// TemplateStore holds every template by logical key. It is filled once and read-only afterwards.
type TemplateStore struct {
	templates map[string]*Template
}

// LoadTemplates reads every file eagerly. Files that are missing or cannot be decoded are
// skipped with a warning, lookups for those keys report not found.
func LoadTemplates(logger *slog.Logger, dir string, files map[string]string) *TemplateStore {
	s := &TemplateStore{templates: make(map[string]*Template, len(files))}

	for key, filename := range files {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err != nil {
			logger.Warn("Template image not found, skipping", slog.String("key", key), slog.String("path", path))
			continue
		}

		m := gocv.IMRead(path, gocv.IMReadUnchanged)
		if m.Empty() {
			m.Close()
			logger.Warn("Template image could not be decoded, skipping", slog.String("key", key), slog.String("path", path))
			continue
		}

		t, err := newTemplate(key, m)
		if err != nil {
			logger.Warn("Template image rejected", slog.String("key", key), slog.Any("error", err))
			continue
		}
		s.templates[key] = t
	}

	logger.Debug("Templates loaded", slog.Int("loaded", len(s.templates)), slog.Int("configured", len(files)))

	return s
}

// NewTemplateStore wraps already built templates.
func NewTemplateStore(templates ...*Template) *TemplateStore {
	s := &TemplateStore{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		s.templates[t.Name] = t
	}
	return s
}

func (s *TemplateStore) Get(key string) (*Template, bool) {
	t, ok := s.templates[key]
	return t, ok
}

// Keys returns the loaded keys, sorted.
func (s *TemplateStore) Keys() []string {
	keys := make([]string, 0, len(s.templates))
	for k := range s.templates {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *TemplateStore) Close() {
	for _, t := range s.templates {
		t.Close()
	}
}
