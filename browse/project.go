package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whisper-darkly/tuitch/twitch"
	"github.com/whisper-darkly/tuitch/units"
)

// Project flattens a decoded response into the ordered row sequence. The
// order produced here is what the user navigates; it only changes on the
// next full fetch.
func Project(env *twitch.Envelope, cfg Config) ([]Row, error) {
	switch {
	case env.PersonalSections != nil:
		return projectPersonalSections(env.PersonalSections, cfg), nil
	case env.Shelves != nil:
		return projectShelves(env.Shelves, cfg), nil
	case env.Category != nil:
		return projectCategory(env.Category, cfg), nil
	case env.Search != nil:
		return projectSearch(env.Search, cfg)
	}
	return nil, fmt.Errorf("%w: empty envelope", twitch.ErrMalformedResponse)
}

func projectPersonalSections(sections []twitch.PersonalSection, cfg Config) []Row {
	var rows []Row
	for _, sec := range sections {
		rows = append(rows, Row{
			Label:  sec.Title.LocalizedFallback,
			Header: true,
			Node:   twitch.Node{Kind: twitch.KindNone},
		})

		for _, ch := range sec.Items {
			title := ""
			if ch.User.BroadcastSettings != nil {
				title = ch.User.BroadcastSettings.Title
			}
			rows = append(rows, Row{
				Label: ch.User.DisplayName,
				Color: ch.User.PrimaryColorHex,
				Detail: []string{
					title,
					"",
					ch.User.DisplayName,
					"Viewers: " + strconv.Itoa(ch.Content.ViewersCount),
					"Game: " + ch.Content.Game.Title(),
				},
				Node: twitch.StreamNodeFor(ch.User.Login),
			})
		}
	}
	return rows
}

func projectShelves(shelves *twitch.ShelfConnection, cfg Config) []Row {
	var rows []Row
	for _, edge := range shelves.Edges {
		shelf := edge.Node
		rows = append(rows, Row{
			Label:  shelfTitle(shelf.Title),
			Header: true,
			Node:   twitch.Node{Kind: twitch.KindNone},
		})

		for _, content := range shelf.Content.Edges {
			node := content.Node
			switch node.Kind {
			case twitch.KindClip:
				clip := node.Clip
				rows = append(rows, Row{
					Label: clip.Title,
					Detail: []string{
						clip.Title,
						"",
						"Views: " + strconv.Itoa(clip.ViewCount),
						"Curator: " + clip.Curator.DisplayName,
						"Game: " + clip.Game.Title(),
						"Broadcaster: " + clip.Broadcaster.DisplayName,
						"Clip created: " + formatDate(cfg, clip.CreatedAt),
						"Duration: " + strconv.Itoa(clip.DurationSeconds) + "s",
						"Language: " + clip.Language,
					},
					Node: node,
				})

			case twitch.KindGame:
				game := node.Game
				detail := []string{game.Title(), ""}
				if game.ViewersCount != nil {
					detail = append(detail, "Viewers: "+strconv.Itoa(*game.ViewersCount))
				}
				if game.Tags != nil {
					detail = append(detail, "Tags: "+joinTags(game.Tags))
				}
				if game.OriginalReleaseDate != "" {
					detail = append(detail, "Released: "+formatDate(cfg, game.OriginalReleaseDate))
				}
				rows = append(rows, Row{Label: game.Title(), Detail: detail, Node: node})

			case twitch.KindStream:
				stream := node.Stream
				// Entries without broadcast settings are inactive or
				// malformed; they contribute no row.
				if stream.Broadcaster.BroadcastSettings == nil {
					continue
				}
				detail := []string{
					stream.Broadcaster.BroadcastSettings.Title,
					"",
					stream.Broadcaster.DisplayName,
					"Tags: " + joinFreeform(stream.FreeformTags),
					"Viewers: " + strconv.Itoa(stream.ViewersCount),
				}
				if stream.Game != nil {
					detail = append(detail, "Game: "+stream.Game.Title())
				}
				if stream.CreatedAt != "" {
					detail = append(detail, "Created: "+formatDate(cfg, stream.CreatedAt))
				}
				rows = append(rows, Row{
					Label:  stream.Broadcaster.DisplayName,
					Color:  stream.Broadcaster.PrimaryColorHex,
					Detail: detail,
					Node:   node,
				})

			default:
				// video references and placeholders are not shown on shelves
			}
		}
	}
	return rows
}

// shelfTitle builds a shelf heading from its localized tokens, falling back
// to the single fallback title when any token is the none sentinel.
func shelfTitle(title twitch.ShelfTitle) string {
	if len(title.LocalizedTitleTokens) == 0 {
		return title.FallbackLocalizedTitle
	}
	for _, edge := range title.LocalizedTitleTokens {
		if edge.Node.Kind() == twitch.TokenNone {
			return title.FallbackLocalizedTitle
		}
	}

	var b strings.Builder
	for _, edge := range title.LocalizedTitleTokens {
		tok := edge.Node
		switch tok.Kind() {
		case twitch.TokenCollection:
			b.WriteString(tok.CollectionName.FallbackLocalizedTitle)
		case twitch.TokenGame:
			if tok.DisplayName != "" {
				b.WriteString(tok.DisplayName)
			} else {
				b.WriteString(tok.Name)
			}
		case twitch.TokenText:
			b.WriteString(*tok.Text)
		}
	}
	return b.String()
}

func projectCategory(cat *twitch.Category, cfg Config) []Row {
	var rows []Row
	for _, edge := range cat.Streams.Edges {
		s := edge.Node
		rows = append(rows, Row{
			Label: s.Broadcaster.DisplayName,
			Color: s.Broadcaster.PrimaryColorHex,
			Detail: []string{
				s.Title,
				"",
				s.Broadcaster.DisplayName,
				"Viewers: " + strconv.Itoa(s.ViewersCount),
				"Game: " + s.Game.Title(),
				"Created: " + formatDate(cfg, s.CreatedAt),
				"Tags: " + joinFreeform(s.FreeformTags),
			},
			Node: twitch.StreamNodeFor(s.Broadcaster.Login),
		})
	}
	return rows
}

func formatDate(cfg Config, iso string) string {
	return units.FormatDate(iso, cfg.DateFormat, cfg.now())
}

func joinTags(tags []twitch.Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.LocalizedName
	}
	return strings.Join(names, ", ")
}

func joinFreeform(tags []twitch.FreeformTag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
