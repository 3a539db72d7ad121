package chat

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/whisper-darkly/tuitch/logger"
)

const (
	ircAddr = "irc.chat.twitch.tv:6667"
	// any justinfan nick reads chat without credentials
	ircNick = "justinfan0"
)

// ircMessage is one parsed IRC line: IRCv3 tags, source prefix, command and
// parameters with the trailing parameter last.
type ircMessage struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
}

// Nick extracts the sender nick from the prefix.
func (m ircMessage) Nick() string {
	if i := strings.IndexByte(m.Prefix, '!'); i != -1 {
		return m.Prefix[:i]
	}
	return m.Prefix
}

// Trailing is the last parameter, usually the message text.
func (m ircMessage) Trailing() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// parseIRC splits one raw line into tags, prefix, command and params.
func parseIRC(line string) ircMessage {
	msg := ircMessage{}

	if strings.HasPrefix(line, "@") {
		raw := line[1:]
		if i := strings.IndexByte(raw, ' '); i != -1 {
			msg.Tags = parseTags(raw[:i])
			line = raw[i+1:]
		}
	}

	if strings.HasPrefix(line, ":") {
		if i := strings.IndexByte(line, ' '); i != -1 {
			msg.Prefix = line[1:i]
			line = line[i+1:]
		}
	}

	// params split on spaces until a ":"-led trailing parameter
	for line != "" {
		if strings.HasPrefix(line, ":") {
			msg.Params = append(msg.Params, line[1:])
			break
		}
		token := line
		if i := strings.IndexByte(line, ' '); i != -1 {
			token, line = line[:i], line[i+1:]
		} else {
			line = ""
		}
		if msg.Command == "" {
			msg.Command = token
		} else {
			msg.Params = append(msg.Params, token)
		}
	}
	// a prefix-only or tags-only line has the command in Params position
	if msg.Command == "" && len(msg.Params) > 0 {
		msg.Command = msg.Params[0]
		msg.Params = msg.Params[1:]
	}
	return msg
}

func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		k, v, _ := strings.Cut(pair, "=")
		tags[k] = unescapeTag(v)
	}
	return tags
}

// unescapeTag reverses the IRCv3 tag value escaping.
func unescapeTag(v string) string {
	if !strings.ContainsRune(v, '\\') {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] != '\\' || i == len(v)-1 {
			b.WriteByte(v[i])
			continue
		}
		i++
		switch v[i] {
		case ':':
			b.WriteByte(';')
		case 's':
			b.WriteByte(' ')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

// runIRC keeps one anonymous chat connection alive for the channel,
// delivering rendered lines until the context is cancelled. Failures are
// reported on the Log tab and the connection is reopened immediately,
// without cap or backoff.
func runIRC(ctx context.Context, channel string, lines chan<- Line, log *logger.Logger) {
	for ctx.Err() == nil {
		if err := ircSession(ctx, channel, lines); err != nil && ctx.Err() == nil {
			log.Warn("chat: connection lost: %v", err)
			emit(ctx, lines, Line{Tab: TabLog, Text: "chat: reconnecting: " + err.Error(), When: time.Now()})
		}
	}
}

func ircSession(ctx context.Context, channel string, lines chan<- Line) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", ircAddr)
	if err != nil {
		return fmt.Errorf("dial chat: %w", err)
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for _, cmd := range []string{
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
		"NICK " + ircNick,
		"JOIN #" + channel,
	} {
		if _, err := fmt.Fprintf(conn, "%s\r\n", cmd); err != nil {
			return fmt.Errorf("chat handshake: %w", err)
		}
	}

	emit(ctx, lines, Line{Tab: TabLog, Text: "chat: joined #" + channel, When: time.Now()})

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 16*1024), 64*1024)
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		msg := parseIRC(raw)

		switch msg.Command {
		case "PING":
			fmt.Fprintf(conn, "PONG :%s\r\n", msg.Trailing())
		case "PRIVMSG":
			emit(ctx, lines, Line{Tab: TabChat, Text: renderChatMessage(msg), When: time.Now()})
		case "CLEARCHAT":
			emit(ctx, lines, Line{Tab: TabChat, Text: renderClearChat(msg), When: time.Now()})
		case "USERNOTICE":
			if text := renderUserNotice(msg); text != "" {
				emit(ctx, lines, Line{Tab: TabChat, Text: text, When: time.Now()})
			}
		case "NOTICE":
			emit(ctx, lines, Line{Tab: TabInfo, Text: msg.Trailing(), When: time.Now()})
		case "ROOMSTATE":
			for _, text := range renderRoomState(msg) {
				emit(ctx, lines, Line{Tab: TabInfo, Text: text, When: time.Now()})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read chat: %w", err)
	}
	return fmt.Errorf("chat connection closed")
}

// emit delivers a line unless the overlay is shutting down.
func emit(ctx context.Context, lines chan<- Line, l Line) {
	select {
	case lines <- l:
	case <-ctx.Done():
	}
}
