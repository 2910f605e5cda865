package remote

import (
	"testing"

	"github.com/filipesarturi/summoner/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	cats, err := Categories([]string{"success", "error"})
	require.NoError(t, err)
	assert.Equal(t, []event.Category{event.Success, event.Error}, cats)

	_, err = Categories([]string{"success", "loud"})
	assert.ErrorContains(t, err, "loud")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "[success] SHOP RESTOCKED!", Format(event.Event{Category: event.Success, Message: "SHOP RESTOCKED!"}))
	assert.Equal(t, "[error] Cannot find Sell Button. (run 0123abcd)",
		Format(event.Event{Category: event.Error, Message: "Cannot find Sell Button.", RunID: "0123abcd-ffff"}))
}
