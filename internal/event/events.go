package event

import (
	"fmt"
	"log/slog"
	"time"
)

type Category string

const (
	Success Category = "success"
	Error   Category = "error"
	Action  Category = "action"
	Info    Category = "info"
	Wait    Category = "wait"
	System  Category = "system"
)

var categories = []Category{Success, Error, Action, Info, Wait, System}

func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}

	return "", fmt.Errorf("unknown event category %q", s)
}

// Level maps a category to the slog level it is logged with.
func (c Category) Level() slog.Level {
	switch c {
	case Error:
		return slog.LevelError
	case Wait:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

type Event struct {
	Time     time.Time `json:"time"`
	RunID    string    `json:"runId,omitempty"`
	Category Category  `json:"category"`
	Message  string    `json:"message"`
}

// Sink receives status narration from the worker. Implementations must not block.
type Sink interface {
	Emit(c Category, msg string)
}

// Emitf formats and emits a message.
func Emitf(s Sink, c Category, format string, args ...any) {
	s.Emit(c, fmt.Sprintf(format, args...))
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Category, string) {}
