package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackRestoresClampedSelection(t *testing.T) {
	home := NewHome()
	home.Selection = 7

	cat := home.PushCategory("Chess")
	assert.Equal(t, 0, cat.Selection)
	cat.Selection = 3

	back := cat.Back()
	assert.Same(t, home, back)
	assert.Equal(t, 7, back.Selection)

	// the listing shrank since the selection was recorded
	back.Clamp(5)
	assert.Equal(t, 4, back.Selection)

	// it fits, nothing changes
	back.Selection = 2
	back.Clamp(5)
	assert.Equal(t, 2, back.Selection)
}

func TestBackOnHomeResetsSelection(t *testing.T) {
	home := NewHome()
	home.Selection = 12

	back := home.Back()
	assert.Same(t, home, back)
	assert.Equal(t, 0, back.Selection)
}

func TestClampEmptyListing(t *testing.T) {
	p := NewHome()
	p.Selection = 3
	p.Clamp(0)
	assert.Equal(t, 0, p.Selection)
}

func TestDepthAndTitles(t *testing.T) {
	p := NewHome().PushCategory("Chess").PushSearch("gm blitz")
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, "Search: gm blitz", p.Title())
	assert.Equal(t, "Chess", p.Back().Title())
	assert.Equal(t, "Home", p.Back().Back().Title())
}

func TestRequestShapes(t *testing.T) {
	home := NewHome()
	assert.NotEqual(t,
		home.Request(false).Extensions,
		home.Request(true).Extensions,
	)

	cat := home.PushCategory("Tetris")
	search := cat.PushSearch("speedrun")
	assert.NotEqual(t, cat.Request(false).Extensions, search.Request(false).Extensions)
}
