// Package remote forwards worker events to chat services.
package remote

import (
	"fmt"

	"github.com/filipesarturi/summoner/internal/event"
)

// Categories parses configured category names.
func Categories(names []string) ([]event.Category, error) {
	out := make([]event.Category, 0, len(names))
	for _, n := range names {
		c, err := event.ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Format renders an event as a single chat line.
func Format(e event.Event) string {
	msg := fmt.Sprintf("[%s] %s", e.Category, e.Message)
	if e.RunID != "" {
		msg = fmt.Sprintf("%s (run %.8s)", msg, e.RunID)
	}
	return msg
}
