package chat

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIRCPrivmsg(t *testing.T) {
	line := `@badges=moderator/1,subscriber/12;color=#FF4500;display-name=SomeMod :somemod!somemod@somemod.tmi.twitch.tv PRIVMSG #channel :hello there`
	msg := parseIRC(line)

	assert.Equal(t, "PRIVMSG", msg.Command)
	assert.Equal(t, "somemod", msg.Nick())
	assert.Equal(t, []string{"#channel", "hello there"}, msg.Params)
	assert.Equal(t, "hello there", msg.Trailing())
	assert.Equal(t, "SomeMod", msg.Tags["display-name"])
	assert.Equal(t, "#FF4500", msg.Tags["color"])
}

func TestParseIRCPing(t *testing.T) {
	msg := parseIRC("PING :tmi.twitch.tv")
	assert.Equal(t, "PING", msg.Command)
	assert.Equal(t, "tmi.twitch.tv", msg.Trailing())
}

func TestParseIRCNoTrailing(t *testing.T) {
	msg := parseIRC(":tmi.twitch.tv CAP * ACK")
	assert.Equal(t, "CAP", msg.Command)
	assert.Equal(t, []string{"*", "ACK"}, msg.Params)
}

func TestUnescapeTag(t *testing.T) {
	cases := map[string]string{
		`plain`:            "plain",
		`with\sspace`:      "with space",
		`semi\:colon`:      "semi;colon",
		`back\\slash`:      `back\slash`,
		`cr\rlf\n`:         "cr\rlf\n",
		`trailing\`:        `trailing\`,
	}
	for in, want := range cases {
		assert.Equal(t, want, unescapeTag(in), in)
	}
}

func TestBadgePrefix(t *testing.T) {
	assert.Equal(t, "", badgePrefix(""))
	assert.Equal(t, "@", badgePrefix("broadcaster/1"))
	assert.Equal(t, "+~", badgePrefix("moderator/1,subscriber/24"))
	// unknown badge sets contribute nothing
	assert.Equal(t, "^", badgePrefix("bits/1000,vip/1"))
}

func TestRenderClearChat(t *testing.T) {
	timeout := parseIRC(`@ban-duration=600 :tmi.twitch.tv CLEARCHAT #channel :baduser`)
	assert.Contains(t, renderClearChat(timeout), "baduser was timed out for 600s")

	ban := parseIRC(`:tmi.twitch.tv CLEARCHAT #channel :baduser`)
	assert.Contains(t, renderClearChat(ban), "baduser was banned")

	wipe := parseIRC(`:tmi.twitch.tv CLEARCHAT #channel`)
	assert.Contains(t, renderClearChat(wipe), "chat was cleared")
}

func TestLineQueueBounded(t *testing.T) {
	q := newLineQueue(3)
	for i := 0; i < 5; i++ {
		q.push("line " + strconv.Itoa(i))
	}
	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, q.all())
}

func TestRenderPubsubMessage(t *testing.T) {
	redeemed := `{"type":"reward-redeemed","data":{"redemption":{"user":{"display_name":"Viewer"},"reward":{"title":"Highlight My Message","cost":100}}}}`
	assert.Contains(t, renderPubsubMessage(redeemed), "Viewer redeemed Highlight My Message (100 points)")

	viewers := `{"type":"viewcount","viewers":1234}`
	assert.Contains(t, renderPubsubMessage(viewers), "viewers: 1234")

	assert.Equal(t, "", renderPubsubMessage("not json"))
	assert.Equal(t, "", renderPubsubMessage(`{"type":"commercial"}`))
}
