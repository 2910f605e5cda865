package shop

import (
	"fmt"
	"slices"
	"strings"
)

// Pack is one purchasable shelf item.
type Pack struct {
	Name  string
	Short string
	// Index is the position on the shelf, top to bottom.
	Index int
}

// TemplateKey is the name of the template image that identifies the pack on the shelf.
func (p Pack) TemplateKey() string {
	return strings.ReplaceAll(p.Name, " ", "")
}

// Catalog is the shelf in the order the game shows it. Scroll and resume logic is relative to
// this order, never to the order packs were selected in.
var Catalog = []Pack{
	{Name: "Dragon Realm Pack", Short: "Dragon", Index: 0},
	{Name: "Sorcerer Realm Pack", Short: "Sorcerer", Index: 1},
	{Name: "Pirate Realm Pack", Short: "Pirate", Index: 2},
	{Name: "Demon Realm Pack", Short: "Demon", Index: 3},
	{Name: "Hunter Realm Pack", Short: "Hunter", Index: 4},
	{Name: "Shinobi Realm Pack", Short: "Shinobi", Index: 5},
}

// FindPack accepts the full name, the short name or the template key, case-insensitively.
func FindPack(name string) (Pack, bool) {
	n := strings.TrimSpace(name)
	for _, p := range Catalog {
		if strings.EqualFold(p.Name, n) || strings.EqualFold(p.Short, n) || strings.EqualFold(p.TemplateKey(), n) {
			return p, true
		}
	}
	return Pack{}, false
}

// PackAt returns the pack at canonical index i.
func PackAt(i int) (Pack, bool) {
	if i < 0 || i >= len(Catalog) {
		return Pack{}, false
	}
	return Catalog[i], true
}

// ParseSelection resolves names into a deduplicated selection in shelf order.
func ParseSelection(names []string) ([]Pack, error) {
	seen := make(map[int]bool, len(names))
	selection := make([]Pack, 0, len(names))
	for _, n := range names {
		p, found := FindPack(n)
		if !found {
			return nil, fmt.Errorf("unknown pack %q", n)
		}
		if seen[p.Index] {
			continue
		}
		seen[p.Index] = true
		selection = append(selection, p)
	}

	slices.SortFunc(selection, func(a, b Pack) int { return a.Index - b.Index })

	return selection, nil
}

// SearchOrder sorts the selection by shelf position. Once the shelf position is known the
// order is rotated to begin at the first pack at or after lastClicked, so the search continues
// from where the shelf currently is instead of rescanning from the top.
func SearchOrder(selection []Pack, lastClicked int, initialSearchDone bool) []Pack {
	sorted := slices.Clone(selection)
	slices.SortFunc(sorted, func(a, b Pack) int { return a.Index - b.Index })

	if !initialSearchDone {
		return sorted
	}

	start := 0
	for i, p := range sorted {
		if p.Index >= lastClicked {
			start = i
			break
		}
	}

	return slices.Concat(sorted[start:], sorted[:start])
}
