package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/whisper-darkly/tuitch/logger"
)

const (
	pubsubURL = "wss://pubsub-edge.twitch.tv/v1"
	// the server drops connections idle for ~5 minutes
	pubsubPingEvery = 4 * time.Minute
)

type pubsubEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Topic   string `json:"topic"`
		Message string `json:"message"`
	} `json:"data"`
	Error string `json:"error"`
}

type pubsubListen struct {
	Type string `json:"type"`
	Data struct {
		Topics []string `json:"topics"`
	} `json:"data"`
}

// runPubsub follows the channel's live events: community point redemptions
// and viewer count updates. Same lifetime and reconnect policy as the chat
// connection.
func runPubsub(ctx context.Context, channelID string, lines chan<- Line, log *logger.Logger) {
	for ctx.Err() == nil {
		if err := pubsubSession(ctx, channelID, lines); err != nil && ctx.Err() == nil {
			log.Warn("pubsub: connection lost: %v", err)
			emit(ctx, lines, Line{Tab: TabLog, Text: "pubsub: reconnecting: " + err.Error(), When: time.Now()})
		}
	}
}

func pubsubSession(ctx context.Context, channelID string, lines chan<- Line) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, pubsubURL, nil)
	if err != nil {
		return fmt.Errorf("dial pubsub: %w", err)
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	listen := pubsubListen{Type: "LISTEN"}
	listen.Data.Topics = []string{
		"community-points-channel-v1." + channelID,
		"video-playback-by-id." + channelID,
	}
	if err := conn.WriteJSON(listen); err != nil {
		return fmt.Errorf("pubsub listen: %w", err)
	}

	// keep-alive pings ride a separate goroutine; gorilla allows one
	// concurrent writer alongside the reader
	pingDone := make(chan struct{})
	defer close(pingDone)
	go func() {
		ticker := time.NewTicker(pubsubPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.WriteJSON(map[string]string{"type": "PING"})
			case <-pingDone:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var env pubsubEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			return fmt.Errorf("read pubsub: %w", err)
		}
		switch env.Type {
		case "MESSAGE":
			if text := renderPubsubMessage(env.Data.Message); text != "" {
				emit(ctx, lines, Line{Tab: TabInfo, Text: text, When: time.Now()})
			}
		case "RECONNECT":
			return fmt.Errorf("pubsub server requested reconnect")
		case "RESPONSE":
			if env.Error != "" {
				return fmt.Errorf("pubsub listen rejected: %s", env.Error)
			}
		}
	}
}

// renderPubsubMessage decodes the inner payload, which is itself a JSON
// document in a string field. Only the event types the Info tab shows are
// decoded; everything else is dropped.
func renderPubsubMessage(payload string) string {
	var probe struct {
		Type string `json:"type"`
		Data struct {
			Redemption struct {
				User struct {
					DisplayName string `json:"display_name"`
				} `json:"user"`
				Reward struct {
					Title string `json:"title"`
					Cost  int    `json:"cost"`
				} `json:"reward"`
			} `json:"redemption"`
		} `json:"data"`
		Viewers int `json:"viewers"`
	}
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return ""
	}

	switch probe.Type {
	case "reward-redeemed":
		r := probe.Data.Redemption
		return noticeStyle.Render(
			r.User.DisplayName + " redeemed " + r.Reward.Title +
				" (" + strconv.Itoa(r.Reward.Cost) + " points)")
	case "viewcount":
		return systemStyle.Render("viewers: " + strconv.Itoa(probe.Viewers))
	case "stream-up":
		return systemStyle.Render("stream went live")
	case "stream-down":
		return systemStyle.Render("stream went offline")
	}
	return ""
}
