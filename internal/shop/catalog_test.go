package shop

import (
	"testing"

	"github.com/filipesarturi/summoner/internal/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(packs []Pack) []string {
	out := make([]string, 0, len(packs))
	for _, p := range packs {
		out = append(out, p.Short)
	}
	return out
}

func TestFindPack(t *testing.T) {
	for _, n := range []string{"Pirate Realm Pack", "pirate", "PirateRealmPack", "  PIRATE "} {
		p, found := FindPack(n)
		require.True(t, found, n)
		assert.Equal(t, 2, p.Index)
		assert.Equal(t, "PirateRealmPack", p.TemplateKey())
	}

	_, found := FindPack("Wizard")
	assert.False(t, found)
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection([]string{"Shinobi", "Dragon Realm Pack", "dragon", "Demon"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dragon", "Demon", "Shinobi"}, names(sel))

	_, err = ParseSelection([]string{"Dragon", "Unicorn"})
	assert.ErrorContains(t, err, "Unicorn")
}

func TestSearchOrderFirstRunKeepsShelfOrder(t *testing.T) {
	sel := []Pack{Catalog[2], Catalog[0]} // Pirate, Dragon in selection order

	order := SearchOrder(sel, 0, false)
	assert.Equal(t, []string{"Dragon", "Pirate"}, names(order))

	// lastClicked is ignored until the shelf position is known
	order = SearchOrder(sel, 4, false)
	assert.Equal(t, []string{"Dragon", "Pirate"}, names(order))
}

func TestSearchOrderRotatesToLastClicked(t *testing.T) {
	for k := range Catalog {
		order := SearchOrder(Catalog, k, true)

		require.Len(t, order, len(Catalog))
		for i, p := range order {
			assert.Equal(t, (k+i)%len(Catalog), p.Index, "lastClicked %d position %d", k, i)
		}
	}
}

func TestSearchOrderPartialSelection(t *testing.T) {
	sel := []Pack{Catalog[0], Catalog[2], Catalog[4]} // Dragon, Pirate, Hunter

	assert.Equal(t, []string{"Pirate", "Hunter", "Dragon"}, names(SearchOrder(sel, 1, true)))
	assert.Equal(t, []string{"Hunter", "Dragon", "Pirate"}, names(SearchOrder(sel, 4, true)))
	// nothing at or after index 5: no rotation
	assert.Equal(t, []string{"Dragon", "Pirate", "Hunter"}, names(SearchOrder(sel, 5, true)))
	// the input slice is untouched
	assert.Equal(t, []string{"Dragon", "Pirate", "Hunter"}, names(sel))
}

func TestScrollDirectionFor(t *testing.T) {
	assert.Equal(t, action.ScrollDown, ScrollDirectionFor(Catalog[0], 0))
	assert.Equal(t, action.ScrollDown, ScrollDirectionFor(Catalog[3], 3))
	assert.Equal(t, action.ScrollDown, ScrollDirectionFor(Catalog[5], 2))
	assert.Equal(t, action.ScrollUp, ScrollDirectionFor(Catalog[1], 4))
}

func TestPackAt(t *testing.T) {
	p, ok := PackAt(5)
	require.True(t, ok)
	assert.Equal(t, "Shinobi", p.Short)

	_, ok = PackAt(6)
	assert.False(t, ok)
	_, ok = PackAt(-1)
	assert.False(t, ok)
}
