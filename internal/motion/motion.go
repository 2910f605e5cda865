// Package motion generates humanlike pointer trajectories and keystroke timings.
package motion

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/filipesarturi/summoner/internal/game"
)

const (
	minSteps        = 12
	pixelsPerStep   = 50
	minDuration     = 100 * time.Millisecond
	maxDuration     = 400 * time.Millisecond
	pixelsPerSecond = 2000
	minJitter       = 10
	jitterFactor    = 0.15
	controlOffset   = 0.3

	keyHoldMin = 60 * time.Millisecond
	keyHoldMax = 110 * time.Millisecond
)

// Step is one pointer position and the time to spend reaching it.
type Step struct {
	Point    game.Point
	Duration time.Duration
}

type Synthesizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededSynthesizer returns a synthesizer with a reproducible random source.
func NewSeededSynthesizer(seed uint64) *Synthesizer {
	return &Synthesizer{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// StepCount is max(12, distance/50).
func StepCount(distance float64) int {
	return max(minSteps, int(distance/pixelsPerStep))
}

// TotalDuration scales with distance, clamped to [100ms, 400ms].
func TotalDuration(distance float64) time.Duration {
	d := time.Duration(distance / pixelsPerSecond * float64(time.Second))
	return min(maxDuration, max(minDuration, d))
}

// Path returns a cubic bezier trajectory from start to end with randomized control points and
// ease-out timing. The start point itself is not part of the path; the last step is end.
func (s *Synthesizer) Path(start, end game.Point) []Step {
	distance := game.Distance(start, end)
	steps := StepCount(distance)
	stepDuration := TotalDuration(distance) / time.Duration(steps)

	variance := max(minJitter, int(distance*jitterFactor))
	p0 := vec{float64(start.X), float64(start.Y)}
	p3 := vec{float64(end.X), float64(end.Y)}
	delta := p3.sub(p0)
	p1 := p0.add(delta.scale(controlOffset)).add(s.jitter(variance))
	p2 := p3.sub(delta.scale(controlOffset)).add(s.jitter(variance))

	path := make([]Step, 0, steps)
	for i := 1; i <= steps; i++ {
		t := easeOut(float64(i) / float64(steps))
		pt := bezier(p0, p1, p2, p3, t)
		path = append(path, Step{
			Point:    game.Point{X: int(pt.x), Y: int(pt.y)},
			Duration: stepDuration,
		})
	}
	path[len(path)-1].Point = end

	return path
}

// KeyHold returns how long a key stays pressed, uniform in [60ms, 110ms].
func (s *Synthesizer) KeyHold() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keyHoldMin + time.Duration(s.rnd.Int64N(int64(keyHoldMax-keyHoldMin)+1))
}

// Jitter returns p displaced by an integer offset in [-r, r] on each axis.
func (s *Synthesizer) Jitter(p game.Point, r int) game.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.Point{
		X: p.X + s.rnd.IntN(2*r+1) - r,
		Y: p.Y + s.rnd.IntN(2*r+1) - r,
	}
}

func (s *Synthesizer) jitter(variance int) vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return vec{
		float64(s.rnd.IntN(2*variance+1) - variance),
		float64(s.rnd.IntN(2*variance+1) - variance),
	}
}

func easeOut(t float64) float64 {
	return 1 - math.Pow(1-t, 2)
}

func bezier(p0, p1, p2, p3 vec, t float64) vec {
	u := 1 - t
	return p0.scale(u * u * u).
		add(p1.scale(3 * u * u * t)).
		add(p2.scale(3 * u * t * t)).
		add(p3.scale(t * t * t))
}

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec       { return vec{a.x + b.x, a.y + b.y} }
func (a vec) sub(b vec) vec       { return vec{a.x - b.x, a.y - b.y} }
func (a vec) scale(f float64) vec { return vec{a.x * f, a.y * f} }
