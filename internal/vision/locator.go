package vision

import (
	"fmt"
	"image"
	"math"

	"github.com/filipesarturi/summoner/internal/event"
	"github.com/filipesarturi/summoner/internal/game"
	"gocv.io/x/gocv"
)

const (
	DefaultConfidence = 0.7

	// float32 correlation of an exact copy lands a hair under 1.0
	scoreEpsilon = 1e-5
)

type MatchResult struct {
	Found      bool
	Point      game.Point
	Confidence float64
}

// NotFound is the zero MatchResult.
var NotFound = MatchResult{}

// Locator finds templates inside regions of the live screen.
type Locator struct {
	templates *TemplateStore
	capturer  game.Capturer
	events    event.Sink
}

func NewLocator(templates *TemplateStore, capturer game.Capturer, events event.Sink) *Locator {
	return &Locator{templates: templates, capturer: capturer, events: events}
}

// Locate captures region and returns the center of the best match of the template when its
// score reaches threshold. A threshold <= 0 uses DefaultConfidence. Any failure is reported as
// not found.
func (l *Locator) Locate(key string, region game.Region, threshold float64) MatchResult {
	if threshold <= 0 {
		threshold = DefaultConfidence
	}

	tmpl, found := l.templates.Get(key)
	if !found {
		l.events.Emit(event.Error, fmt.Sprintf("Template '%s' not in cache!", key))
		return NotFound
	}

	img, err := l.capturer.Grab(region)
	if err != nil {
		l.events.Emit(event.Error, fmt.Sprintf("Image search error for %s: %v", key, err))
		return NotFound
	}

	score, loc, err := Match(img, tmpl)
	if err != nil {
		l.events.Emit(event.Error, fmt.Sprintf("Image search error for %s: %v", key, err))
		return NotFound
	}

	if score+scoreEpsilon < threshold {
		return MatchResult{Confidence: score}
	}

	return MatchResult{
		Found: true,
		Point: game.Point{
			X: region.Left + loc.X + tmpl.Width()/2,
			Y: region.Top + loc.Y + tmpl.Height()/2,
		},
		Confidence: score,
	}
}

// Match runs normalized correlation-coefficient matching of tmpl over img at native scale and
// returns the global maximum score and the top-left corner where it occurs.
func Match(img image.Image, tmpl *Template) (float64, image.Point, error) {
	b := img.Bounds()
	if b.Dx() < tmpl.Width() || b.Dy() < tmpl.Height() {
		return 0, image.Point{}, fmt.Errorf("capture %dx%d smaller than template %dx%d", b.Dx(), b.Dy(), tmpl.Width(), tmpl.Height())
	}

	frame, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return 0, image.Point{}, fmt.Errorf("converting capture: %w", err)
	}
	defer frame.Close()

	result := gocv.NewMat()
	defer result.Close()

	gocv.MatchTemplate(frame, tmpl.bgr, &result, gocv.TmCcoeffNormed, tmpl.mask)
	if result.Empty() {
		return 0, image.Point{}, fmt.Errorf("template matching produced no result")
	}

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	score := float64(maxVal)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, image.Point{}, nil
	}

	return score, maxLoc, nil
}
