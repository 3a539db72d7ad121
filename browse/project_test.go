package browse

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisper-darkly/tuitch/twitch"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testConfig() Config {
	return Config{Now: fixedClock}
}

func personalSection(title string, channels int) twitch.PersonalSection {
	sec := twitch.PersonalSection{
		Title: twitch.PersonalSectionTitle{LocalizedFallback: title},
	}
	for i := 0; i < channels; i++ {
		login := title + "-user" + strconv.Itoa(i)
		sec.Items = append(sec.Items, twitch.PersonalSectionChannel{
			User: twitch.User{
				Login:             login,
				DisplayName:       login,
				BroadcastSettings: &twitch.BroadcastSettings{Title: "live now"},
			},
			Content: twitch.PersonalSectionContent{
				ViewersCount: 10 * i,
				Game:         twitch.Game{Name: "tetris"},
			},
		})
	}
	return sec
}

func TestProjectPersonalSectionsRowCount(t *testing.T) {
	// N sections with M_i items project to sum(1 + M_i) rows.
	env := &twitch.Envelope{PersonalSections: []twitch.PersonalSection{
		personalSection("a", 3),
		personalSection("b", 0),
		personalSection("c", 5),
	}}

	rows, err := Project(env, testConfig())
	require.NoError(t, err)
	assert.Len(t, rows, (1+3)+(1+0)+(1+5))

	assert.True(t, rows[0].Header)
	assert.Equal(t, "a", rows[0].Label)
	assert.Equal(t, twitch.KindNone, rows[0].Node.Kind)

	assert.False(t, rows[1].Header)
	assert.Equal(t, twitch.KindStream, rows[1].Node.Kind)
	assert.Equal(t, "a-user0", rows[1].Node.Stream.Broadcaster.Login)
}

func textToken(s string) twitch.TitleTokenEdge {
	return twitch.TitleTokenEdge{Node: twitch.TitleToken{Text: &s}}
}

func TestShelfTitleTokens(t *testing.T) {
	title := twitch.ShelfTitle{
		FallbackLocalizedTitle: "Fallback title",
		LocalizedTitleTokens: []twitch.TitleTokenEdge{
			textToken("Popular in "),
			{Node: twitch.TitleToken{CollectionName: &twitch.BrowsableCollectionTitle{FallbackLocalizedTitle: "Esports"}}},
			{Node: twitch.TitleToken{Name: "chess", DisplayName: "Chess"}},
		},
	}
	assert.Equal(t, "Popular in EsportsChess", shelfTitle(title))
}

func TestShelfTitleNoneSentinelFallsBack(t *testing.T) {
	// Any none token forces the fallback, whatever the other tokens hold.
	title := twitch.ShelfTitle{
		FallbackLocalizedTitle: "Fallback title",
		LocalizedTitleTokens: []twitch.TitleTokenEdge{
			textToken("Popular in "),
			{Node: twitch.TitleToken{}},
			textToken(" right now"),
		},
	}
	assert.Equal(t, "Fallback title", shelfTitle(title))
}

func TestProjectShelvesSkipsStreamsWithoutBroadcastSettings(t *testing.T) {
	env := &twitch.Envelope{Shelves: &twitch.ShelfConnection{
		Edges: []twitch.ShelfEdge{{Node: twitch.Shelf{
			Title: twitch.ShelfTitle{FallbackLocalizedTitle: "Live channels"},
			Content: twitch.ShelfContentConnection{Edges: []twitch.ShelfContentEdge{
				{Node: twitch.Node{Kind: twitch.KindStream, Stream: &twitch.StreamNode{
					Broadcaster: twitch.User{DisplayName: "NoSettings"},
				}}},
				{Node: twitch.Node{Kind: twitch.KindStream, Stream: &twitch.StreamNode{
					Broadcaster: twitch.User{
						DisplayName:       "WithSettings",
						BroadcastSettings: &twitch.BroadcastSettings{Title: "hello"},
					},
					ViewersCount: 3,
				}}},
				{Node: twitch.Node{Kind: twitch.KindVideo, VideoID: "1"}},
				{Node: twitch.Node{Kind: twitch.KindNone}},
			}},
		}}},
	}}

	rows, err := Project(env, testConfig())
	require.NoError(t, err)
	// header + the one renderable stream
	require.Len(t, rows, 2)
	assert.Equal(t, "WithSettings", rows[1].Label)
}

func TestProjectShelfClipDetail(t *testing.T) {
	env := &twitch.Envelope{Shelves: &twitch.ShelfConnection{
		Edges: []twitch.ShelfEdge{{Node: twitch.Shelf{
			Title: twitch.ShelfTitle{FallbackLocalizedTitle: "Clips"},
			Content: twitch.ShelfContentConnection{Edges: []twitch.ShelfContentEdge{
				{Node: twitch.Node{Kind: twitch.KindClip, Clip: &twitch.ClipNode{
					Slug:            "Clip-slug",
					Title:           "unreal save",
					ViewCount:       42,
					Curator:         twitch.User{DisplayName: "someone"},
					Game:            twitch.Game{Name: "chess", DisplayName: "Chess"},
					Broadcaster:     twitch.User{DisplayName: "GM Live"},
					CreatedAt:       "2024-06-01T09:00:00Z",
					DurationSeconds: 31,
					Language:        "EN",
				}}},
			}},
		}}},
	}}

	rows, err := Project(env, testConfig())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"unreal save",
		"",
		"Views: 42",
		"Curator: someone",
		"Game: Chess",
		"Broadcaster: GM Live",
		"Clip created: 3 Hours ago",
		"Duration: 31s",
		"Language: EN",
	}, rows[1].Detail)
}

func TestProjectCategory(t *testing.T) {
	env := &twitch.Envelope{Category: &twitch.Category{
		Streams: twitch.StreamConnection{Edges: []twitch.StreamEdge{
			{Node: twitch.Stream{
				Title:        "ranked grind",
				ViewersCount: 77,
				CreatedAt:    "2024-06-01T11:00:00Z",
				Broadcaster:  twitch.User{Login: "grinder", DisplayName: "Grinder", PrimaryColorHex: "FF0000"},
				FreeformTags: []twitch.FreeformTag{{Name: "English"}, {Name: "NoBackseating"}},
				Game:         twitch.Game{Name: "apex", DisplayName: "Apex Legends"},
			}},
		}},
	}}

	rows, err := Project(env, testConfig())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.False(t, row.Header)
	assert.Equal(t, "Grinder", row.Label)
	assert.Equal(t, "FF0000", row.Color)
	assert.Equal(t, []string{
		"ranked grind",
		"",
		"Grinder",
		"Viewers: 77",
		"Game: Apex Legends",
		"Created: 1 Hours ago",
		"Tags: English, NoBackseating",
	}, row.Detail)
	assert.Equal(t, "grinder", row.Node.Stream.Broadcaster.Login)
}

func TestProjectCategoryReleaseDateFallback(t *testing.T) {
	// Categories without a parseable release date render the fixed
	// fallback instead of a relative time.
	env := &twitch.Envelope{Shelves: &twitch.ShelfConnection{
		Edges: []twitch.ShelfEdge{{Node: twitch.Shelf{
			Title: twitch.ShelfTitle{FallbackLocalizedTitle: "Categories"},
			Content: twitch.ShelfContentConnection{Edges: []twitch.ShelfContentEdge{
				{Node: twitch.Node{Kind: twitch.KindGame, Game: &twitch.Game{
					Name:                "music",
					DisplayName:         "Music",
					OriginalReleaseDate: "invalid",
				}}},
			}},
		}}},
	}}

	rows, err := Project(env, testConfig())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1].Detail, "Released: 200,000 years ago")
}
