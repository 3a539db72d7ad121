package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisper-darkly/tuitch/twitch"
)

func searchChannel(login string) twitch.SearchChannel {
	started := "2024-06-01T10:00:00Z"
	return twitch.SearchChannel{
		BroadcastSettings: twitch.BroadcastSettings{Title: "playing games"},
		DisplayName:       login,
		Login:             login,
		LastBroadcast:     twitch.Broadcast{StartedAt: &started},
		Stream: &twitch.SearchStream{
			Game:         twitch.Game{Name: "chess", DisplayName: "Chess"},
			ViewersCount: 9,
		},
	}
}

func TestProjectSearchBucketOrder(t *testing.T) {
	// Groups land in their score bucket and concatenate score-ascending,
	// regardless of the order they arrive in the payload.
	search := &twitch.SearchFor{
		Channels: twitch.SearchChannels{
			Edges: []twitch.SearchChannelEdge{{Item: searchChannel("alpha")}},
			Score: 5, TotalMatches: 1,
		},
		Games: twitch.SearchGames{
			Edges: []twitch.SearchGameEdge{{Item: twitch.Game{Name: "chess", DisplayName: "Chess"}}},
			Score: 1, TotalMatches: 12,
		},
		Videos: twitch.SearchVideos{
			Edges: []twitch.SearchVideoEdge{{Item: twitch.SearchVideo{
				ID: "222", Title: "old run", CreatedAt: "2024-05-01T10:00:00Z",
				Owner: twitch.User{DisplayName: "alpha"},
			}}},
			Score: 3, TotalMatches: 4,
		},
	}

	rows, err := projectSearch(search, testConfig())
	require.NoError(t, err)

	var labels []string
	for _, r := range rows {
		if r.Header {
			labels = append(labels, r.Label)
		}
	}
	assert.Equal(t, []string{"Categories", "Past videos", "Channels"}, labels)

	assert.Equal(t, []string{"Total matches: 12"}, rows[0].Detail)
}

func TestProjectSearchSameBucketKeepsInsertionOrder(t *testing.T) {
	search := &twitch.SearchFor{
		Channels: twitch.SearchChannels{
			Edges: []twitch.SearchChannelEdge{{Item: searchChannel("alpha")}},
			Score: 2,
		},
		Games: twitch.SearchGames{
			Edges: []twitch.SearchGameEdge{{Item: twitch.Game{Name: "chess"}}},
			Score: 2,
		},
		Videos: twitch.SearchVideos{
			Edges: []twitch.SearchVideoEdge{{Item: twitch.SearchVideo{ID: "1", Title: "v"}}},
			Score: 2,
		},
	}

	rows, err := projectSearch(search, testConfig())
	require.NoError(t, err)

	var labels []string
	for _, r := range rows {
		if r.Header {
			labels = append(labels, r.Label)
		}
	}
	assert.Equal(t, []string{"Channels", "Categories", "Past videos"}, labels)
}

func TestProjectSearchEmptyGroupsContributeNothing(t *testing.T) {
	// An empty channels group adds no rows, not even its header; a single
	// category at score 3 projects to exactly its header plus one row.
	search := &twitch.SearchFor{
		Channels: twitch.SearchChannels{Score: 1, TotalMatches: 0},
		Games: twitch.SearchGames{
			Edges: []twitch.SearchGameEdge{{Item: twitch.Game{Name: "tetris", DisplayName: "Tetris"}}},
			Score: 3, TotalMatches: 1,
		},
	}

	rows, err := projectSearch(search, testConfig())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Categories", rows[0].Label)
	assert.True(t, rows[0].Header)
	assert.Equal(t, "Tetris", rows[1].Label)
	assert.Equal(t, twitch.KindGame, rows[1].Node.Kind)
	assert.Equal(t, "tetris", rows[1].Node.Game.Name)
}

func TestProjectSearchScoreOutOfRange(t *testing.T) {
	for _, score := range []int{0, 6, -1} {
		search := &twitch.SearchFor{
			Games: twitch.SearchGames{
				Edges: []twitch.SearchGameEdge{{Item: twitch.Game{Name: "chess"}}},
				Score: score,
			},
		}
		_, err := projectSearch(search, testConfig())
		assert.ErrorIs(t, err, twitch.ErrMalformedResponse, "score %d", score)
	}
}

func TestChannelRowsNeverStreamed(t *testing.T) {
	ch := twitch.SearchChannel{
		BroadcastSettings: twitch.BroadcastSettings{Title: ""},
		DisplayName:       "quiet",
		Login:             "quiet",
	}
	rows := channelRows(ch, testConfig())
	require.Len(t, rows, 1)
	assert.Equal(t, twitch.KindNone, rows[0].Node.Kind)
	assert.Contains(t, rows[0].Detail, "Started: Never")
}

func TestChannelRowsOfflineWithLatestVideo(t *testing.T) {
	started := "2024-05-30T10:00:00Z"
	ch := twitch.SearchChannel{
		BroadcastSettings: twitch.BroadcastSettings{Title: "was live"},
		DisplayName:       "offline",
		Login:             "offline",
		LastBroadcast:     twitch.Broadcast{StartedAt: &started},
		LatestVideo: twitch.VideoConnection{Edges: []twitch.VideoEdge{
			{Node: twitch.Video{ID: "777", LengthSeconds: 120}},
		}},
	}
	rows := channelRows(ch, testConfig())
	require.Len(t, rows, 1)
	assert.Equal(t, twitch.KindVideo, rows[0].Node.Kind)
	assert.Equal(t, "777", rows[0].Node.VideoID)
	assert.Contains(t, rows[0].Detail, "Not currently streaming, you can watch their latest VOD")
}

func TestChannelRowsTopClip(t *testing.T) {
	ch := searchChannel("clippy")
	ch.TopClip = twitch.ClipConnection{Edges: []twitch.ClipEdge{
		{Node: twitch.SearchClip{Title: "big play", DurationSeconds: 28, Slug: "BigPlay-abc"}},
	}}
	rows := channelRows(ch, testConfig())
	require.Len(t, rows, 2)
	assert.Equal(t, "| Top clip", rows[1].Label)
	assert.Equal(t, twitch.KindClip, rows[1].Node.Kind)
	assert.Equal(t, "BigPlay-abc", rows[1].Node.Clip.Slug)

	// two or more top clips render no extra row
	ch.TopClip.Edges = append(ch.TopClip.Edges, twitch.ClipEdge{
		Node: twitch.SearchClip{Slug: "Other-def"},
	})
	rows = channelRows(ch, testConfig())
	require.Len(t, rows, 1)
}
