// Package browse turns decoded catalog responses into the flat row sequence
// the interface navigates: one label plus one detail block per entry, with a
// content node attached to every row (header rows carry the none node).
package browse

import (
	"time"

	"github.com/whisper-darkly/tuitch/twitch"
)

// Row is one navigable list entry. Detail is the multi-line text shown when
// the row is under the cursor; blank strings separate paragraphs.
type Row struct {
	Label  string
	Header bool   // section heading, rendered underlined
	Color  string // hex foreground without '#', empty = default
	Detail []string
	Node   twitch.Node
}

// Config carries the presentation knobs projection depends on. It is passed
// explicitly so projection stays a pure function of (response, config).
type Config struct {
	// DateFormat is a Go time layout for absolute dates; empty renders
	// relative dates ("3 Hours ago").
	DateFormat string
	// Now overrides the clock for relative dates. Nil means time.Now.
	Now func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
