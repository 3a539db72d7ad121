package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	systemStyle       = lipgloss.NewStyle().Faint(true)
	noticeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	fallbackNameStyle = lipgloss.NewStyle().Bold(true)
)

// badgeGlyphs maps the badge set names worth showing to a one-glyph prefix.
var badgeGlyphs = []struct {
	name  string
	glyph string
}{
	{"broadcaster", "@"},
	{"moderator", "+"},
	{"vip", "^"},
	{"subscriber", "~"},
	{"founder", "~"},
}

// renderChatMessage is "[glyphs]name: text" with the sender's declared
// color applied to the name.
func renderChatMessage(msg ircMessage) string {
	name := msg.Tags["display-name"]
	if name == "" {
		name = msg.Nick()
	}

	style := fallbackNameStyle
	if c := msg.Tags["color"]; c != "" {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}

	var b strings.Builder
	b.WriteString(badgePrefix(msg.Tags["badges"]))
	b.WriteString(style.Render(name))
	b.WriteString(": ")
	b.WriteString(msg.Trailing())
	return b.String()
}

func badgePrefix(badges string) string {
	if badges == "" {
		return ""
	}
	var b strings.Builder
	for _, badge := range strings.Split(badges, ",") {
		set, _, _ := strings.Cut(badge, "/")
		for _, g := range badgeGlyphs {
			if g.name == set {
				b.WriteString(g.glyph)
				break
			}
		}
	}
	return b.String()
}

// renderClearChat covers both a full chat clear and a single-user timeout
// or ban.
func renderClearChat(msg ircMessage) string {
	target := msg.Trailing()
	// CLEARCHAT without a target user wipes the room
	if len(msg.Params) < 2 {
		return systemStyle.Render("chat was cleared by a moderator")
	}
	if secs := msg.Tags["ban-duration"]; secs != "" {
		return systemStyle.Render(target + " was timed out for " + secs + "s")
	}
	return systemStyle.Render(target + " was banned")
}

// renderUserNotice shows subs, raids and similar system events.
func renderUserNotice(msg ircMessage) string {
	system := msg.Tags["system-msg"]
	if system == "" {
		return ""
	}
	if text := msg.Trailing(); text != "" && text != system {
		return noticeStyle.Render(system) + " " + text
	}
	return noticeStyle.Render(system)
}

// roomStateTags are the ROOMSTATE settings worth surfacing, with their
// off value.
var roomStateTags = []struct {
	tag   string
	label string
	off   string
}{
	{"emote-only", "emote-only mode", "0"},
	{"followers-only", "followers-only mode", "-1"},
	{"r9k", "unique-messages mode", "0"},
	{"slow", "slow mode", "0"},
	{"subs-only", "subscribers-only mode", "0"},
}

func renderRoomState(msg ircMessage) []string {
	var out []string
	for _, rs := range roomStateTags {
		v, ok := msg.Tags[rs.tag]
		if !ok {
			continue
		}
		if v == rs.off {
			out = append(out, systemStyle.Render(rs.label+" off"))
		} else {
			out = append(out, systemStyle.Render(rs.label+" on ("+v+")"))
		}
	}
	return out
}
