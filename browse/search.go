package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whisper-darkly/tuitch/twitch"
)

// Search results come back as five independently scored groups. Each
// non-empty group lands whole in the bucket its score names; buckets are
// then concatenated score-ascending. Within one bucket the insertion order
// is fixed: channels, channels-with-tag, categories, videos, related live
// channels.
const bucketCount = 5

func projectSearch(search *twitch.SearchFor, cfg Config) ([]Row, error) {
	var buckets [bucketCount][]Row

	place := func(score int, group string, rows []Row) error {
		if score < 1 || score > bucketCount {
			return fmt.Errorf("%w: %s score %d outside [1,%d]", twitch.ErrMalformedResponse, group, score, bucketCount)
		}
		buckets[score-1] = append(buckets[score-1], rows...)
		return nil
	}

	if len(search.Channels.Edges) != 0 {
		rows := []Row{{
			Label:  "Channels",
			Header: true,
			Detail: []string{"Total matches: " + strconv.Itoa(search.Channels.TotalMatches)},
			Node:   twitch.Node{Kind: twitch.KindNone},
		}}
		for _, edge := range search.Channels.Edges {
			rows = append(rows, channelRows(edge.Item, cfg)...)
		}
		if err := place(search.Channels.Score, "channels", rows); err != nil {
			return nil, err
		}
	}

	if len(search.ChannelsWithTag.Edges) != 0 {
		rows := []Row{{
			Label:  "Live channels with tag",
			Header: true,
			Detail: []string{"Total matches: " + strconv.Itoa(search.ChannelsWithTag.TotalMatches)},
			Node:   twitch.Node{Kind: twitch.KindNone},
		}}
		for _, edge := range search.ChannelsWithTag.Edges {
			rows = append(rows, channelRows(edge.Item, cfg)...)
		}
		if err := place(search.ChannelsWithTag.Score, "channelsWithTag", rows); err != nil {
			return nil, err
		}
	}

	if len(search.Games.Edges) != 0 {
		rows := []Row{{
			Label:  "Categories",
			Header: true,
			Detail: []string{"Total matches: " + strconv.Itoa(search.Games.TotalMatches)},
			Node:   twitch.Node{Kind: twitch.KindNone},
		}}
		for _, edge := range search.Games.Edges {
			var detail []string
			if edge.Item.ViewersCount != nil {
				detail = append(detail, "Viewers: "+strconv.Itoa(*edge.Item.ViewersCount))
			}
			if edge.Item.Tags != nil {
				detail = append(detail, "Tags: "+joinTags(edge.Item.Tags))
			}
			rows = append(rows, Row{
				Label:  edge.Item.Title(),
				Detail: detail,
				Node:   twitch.GameNodeFor(edge.Item.Name),
			})
		}
		if err := place(search.Games.Score, "games", rows); err != nil {
			return nil, err
		}
	}

	if len(search.Videos.Edges) != 0 {
		rows := []Row{{
			Label:  "Past videos",
			Header: true,
			Detail: []string{"Total matches: " + strconv.Itoa(search.Videos.TotalMatches)},
			Node:   twitch.Node{Kind: twitch.KindNone},
		}}
		for _, edge := range search.Videos.Edges {
			v := edge.Item
			detail := []string{
				v.Owner.DisplayName,
				"",
				"Created: " + formatDate(cfg, v.CreatedAt),
				"Game: " + v.Game.Title(),
				"Length: " + strconv.Itoa(v.LengthSeconds) + " s",
				"Views: " + strconv.Itoa(v.ViewCount),
			}
			if v.Owner.Roles != nil {
				detail = append(detail, "Partner: "+yesNo(v.Owner.Roles.IsPartner))
			}
			rows = append(rows, Row{
				Label:  v.Title,
				Detail: detail,
				Node:   twitch.VideoNodeFor(v.ID),
			})
		}
		if err := place(search.Videos.Score, "videos", rows); err != nil {
			return nil, err
		}
	}

	if len(search.RelatedLiveChannels.Edges) != 0 {
		rows := []Row{{
			Label:  "People searching also watch:",
			Header: true,
			Node:   twitch.Node{Kind: twitch.KindNone},
		}}
		for _, edge := range search.RelatedLiveChannels.Edges {
			stream := edge.Item.Stream
			var detail []string
			if stream.Broadcaster.BroadcastSettings != nil {
				detail = append(detail, stream.Broadcaster.BroadcastSettings.Title, "")
			}
			detail = append(detail,
				"Viewers: "+strconv.Itoa(stream.ViewersCount),
				"Game: "+stream.Game.Name,
			)
			if stream.Broadcaster.Roles != nil {
				detail = append(detail, "Partner: "+yesNo(stream.Broadcaster.Roles.IsPartner))
			}
			rows = append(rows, Row{
				Label:  stream.Broadcaster.DisplayName,
				Color:  stream.Broadcaster.PrimaryColorHex,
				Detail: detail,
				Node:   twitch.StreamNodeFor(stream.Broadcaster.Login),
			})
		}
		if err := place(search.RelatedLiveChannels.Score, "relatedLiveChannels", rows); err != nil {
			return nil, err
		}
	}

	var rows []Row
	for _, bucket := range buckets {
		rows = append(rows, bucket...)
	}
	return rows, nil
}

// channelRows renders one matched channel: the channel row itself, plus an
// extra top-clip row when the channel has exactly one.
func channelRows(ch twitch.SearchChannel, cfg Config) []Row {
	started := "Never"
	if ch.LastBroadcast.StartedAt != nil {
		started = formatDate(cfg, *ch.LastBroadcast.StartedAt)
	}
	detail := []string{
		ch.BroadcastSettings.Title,
		"",
		"Followers: " + strconv.Itoa(ch.Followers.TotalCount),
		"Started: " + started,
		"Partner: " + yesNo(ch.Roles.IsPartner),
	}

	node := twitch.Node{Kind: twitch.KindNone}
	switch {
	case ch.LastBroadcast.StartedAt == nil:
		// never streamed, nothing to watch
	case ch.Stream != nil:
		detail = append(detail,
			"Game: "+ch.Stream.Game.Title(),
			"Viewers: "+strconv.Itoa(ch.Stream.ViewersCount),
			"Tags: "+joinFreeform(ch.Stream.FreeformTags),
		)
		node = twitch.StreamNodeFor(ch.Login)
	case len(ch.LatestVideo.Edges) != 0:
		latest := ch.LatestVideo.Edges[0].Node
		detail = append(detail,
			"",
			"Not currently streaming, you can watch their latest VOD",
			"Length: "+strconv.Itoa(latest.LengthSeconds)+" s",
		)
		node = twitch.VideoNodeFor(latest.ID)
	}

	if ch.Description != "" {
		detail = append(detail, "", ch.Description)
	}

	if ch.Channel.Schedule != nil && ch.Channel.Schedule.NextSegment != nil {
		seg := ch.Channel.Schedule.NextSegment
		ends := "tbd"
		if seg.EndAt != nil {
			ends = formatDate(cfg, *seg.EndAt)
		}
		categories := make([]string, len(seg.Categories))
		for i, c := range seg.Categories {
			categories[i] = c.Name
		}
		detail = append(detail,
			"",
			"Next scheduled stream:",
			seg.Title,
			"Starts: "+formatDate(cfg, seg.StartAt),
			"Ends: "+ends,
			"Categories: "+strings.Join(categories, ", "),
		)
	}

	rows := []Row{{Label: ch.DisplayName, Detail: detail, Node: node}}

	if len(ch.TopClip.Edges) == 1 {
		clip := ch.TopClip.Edges[0].Node
		rows = append(rows, Row{
			Label: "| Top clip",
			Detail: []string{
				clip.Title,
				"",
				"Duration: " + strconv.Itoa(clip.DurationSeconds) + " s",
			},
			Node: twitch.ClipNodeFor(clip.Slug),
		})
	}
	return rows
}
