// Package chat is the in-terminal overlay shown while watching a live
// channel: the channel's chat over anonymous IRC, live events over the
// pubsub websocket, and the player's own output, split across three tabs.
package chat

import "time"

// Tab names one of the overlay panes.
type Tab int

const (
	TabChat Tab = iota
	TabInfo
	TabLog
)

func (t Tab) String() string {
	switch t {
	case TabChat:
		return "Chat"
	case TabInfo:
		return "Info"
	default:
		return "Log"
	}
}

// Line is one rendered row destined for a tab.
type Line struct {
	Tab  Tab
	Text string
	When time.Time
}

// lineQueue keeps the newest max lines, dropping from the front. One queue
// per tab, owned by the single update loop; no locking.
type lineQueue struct {
	max   int
	lines []string
}

func newLineQueue(max int) *lineQueue {
	return &lineQueue{max: max}
}

func (q *lineQueue) push(line string) {
	q.lines = append(q.lines, line)
	if len(q.lines) > q.max {
		q.lines = q.lines[len(q.lines)-q.max:]
	}
}

func (q *lineQueue) all() []string {
	return q.lines
}
