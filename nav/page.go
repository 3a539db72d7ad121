// Package nav tracks which catalog page is showing and how the user got
// there. Pages form a singly linked stack: each page owns its predecessor,
// so "back" is a pop that also restores where the cursor was.
package nav

import "github.com/whisper-darkly/tuitch/twitch"

// Kind names a page type.
type Kind int

const (
	Home Kind = iota
	Category
	Search
)

// Page is one frame of the navigation stack. Name holds the category name
// or search query for the respective kinds and is empty on Home.
type Page struct {
	Kind      Kind
	Name      string
	Selection int

	prev *Page
}

// NewHome returns a fresh stack bottom.
func NewHome() *Page {
	return &Page{Kind: Home}
}

// PushCategory returns a new category page stacked on top of this one. The
// new page starts at row zero; this page keeps its selection for the way
// back.
func (p *Page) PushCategory(name string) *Page {
	return &Page{Kind: Category, Name: name, prev: p}
}

// PushSearch stacks a search page on top of this one.
func (p *Page) PushSearch(query string) *Page {
	return &Page{Kind: Search, Name: query, prev: p}
}

// Back pops to the owned predecessor, keeping its saved selection. On Home
// there is no predecessor; the only effect is resetting the cursor to the
// first row. The caller re-issues the returned page's request and then
// clamps against the fresh row count.
func (p *Page) Back() *Page {
	if p.prev == nil {
		p.Selection = 0
		return p
	}
	return p.prev
}

// Clamp bounds the selection to the current row count. Used after a back
// navigation or a manual refresh, where the listing may have shrunk since
// the selection was recorded.
func (p *Page) Clamp(rows int) {
	if p.Selection >= rows {
		p.Selection = rows - 1
	}
	if p.Selection < 0 {
		p.Selection = 0
	}
}

// Depth reports the stack depth, counting this page.
func (p *Page) Depth() int {
	n := 0
	for q := p; q != nil; q = q.prev {
		n++
	}
	return n
}

// Title is the heading shown above the listing.
func (p *Page) Title() string {
	switch p.Kind {
	case Category:
		return p.Name
	case Search:
		return "Search: " + p.Name
	default:
		return "Home"
	}
}

// Request builds the catalog request for this page. Home fetches either the
// followed/recommended sections or the full discovery shelves, a startup
// preference.
func (p *Page) Request(homeShelves bool) twitch.Request {
	switch p.Kind {
	case Category:
		return twitch.CategoryRequest(p.Name)
	case Search:
		return twitch.SearchRequest(p.Name)
	default:
		if homeShelves {
			return twitch.ShelvesRequest()
		}
		return twitch.PersonalSectionsRequest()
	}
}
