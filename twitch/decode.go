package twitch

import (
	"encoding/json"
	"fmt"
)

// PersonalSectionTitle holds the fallback title of a recommendation section.
type PersonalSectionTitle struct {
	LocalizedFallback string `json:"localizedFallback"`
}

// PersonalSectionContent is what a recommended channel is currently doing.
type PersonalSectionContent struct {
	ViewersCount int  `json:"viewersCount"`
	Game         Game `json:"game"`
}

// PersonalSectionChannel is one recommended live channel.
type PersonalSectionChannel struct {
	User    User                   `json:"user"`
	Content PersonalSectionContent `json:"content"`
}

// PersonalSection is one titled group of recommended channels.
type PersonalSection struct {
	Title PersonalSectionTitle     `json:"title"`
	Items []PersonalSectionChannel `json:"items"`
}

// BrowsableCollectionTitle is the name of a nested collection in a shelf title.
type BrowsableCollectionTitle struct {
	FallbackLocalizedTitle string `json:"fallbackLocalizedTitle"`
}

// TokenKind discriminates the shelf title token union.
type TokenKind int

const (
	TokenNone TokenKind = iota
	TokenCollection
	TokenGame
	TokenText
)

// TitleToken is one localized token of a shelf title. The wire format is
// untagged; Kind classifies by which keys are present.
type TitleToken struct {
	CollectionName *BrowsableCollectionTitle `json:"collectionName"`
	Text           *string                   `json:"text"`
	HasEmphasis    bool                      `json:"hasEmphasis"`
	Name           string                    `json:"name"`
	DisplayName    string                    `json:"displayName"`
}

// Kind reports which variant of the token union this is.
func (t TitleToken) Kind() TokenKind {
	switch {
	case t.CollectionName != nil:
		return TokenCollection
	case t.Text != nil:
		return TokenText
	case t.Name != "":
		return TokenGame
	default:
		return TokenNone
	}
}

// TitleTokenEdge wraps a title token.
type TitleTokenEdge struct {
	Node TitleToken `json:"node"`
}

// ShelfTitle is a shelf heading: localized tokens plus a single fallback.
type ShelfTitle struct {
	FallbackLocalizedTitle string           `json:"fallbackLocalizedTitle"`
	LocalizedTitleTokens   []TitleTokenEdge `json:"localizedTitleTokens"`
}

// ShelfContentEdge wraps one shelf entry.
type ShelfContentEdge struct {
	Node Node `json:"node"`
}

// ShelfContentConnection is the entry list of a shelf.
type ShelfContentConnection struct {
	Edges []ShelfContentEdge `json:"edges"`
}

// Shelf is one titled horizontal grouping on the discovery page.
type Shelf struct {
	Title   ShelfTitle             `json:"title"`
	Content ShelfContentConnection `json:"content"`
}

// ShelfEdge wraps a shelf.
type ShelfEdge struct {
	Node Shelf `json:"node"`
}

// ShelfConnection is the discovery page shelf list.
type ShelfConnection struct {
	Edges []ShelfEdge `json:"edges"`
}

// Stream is one live stream on a category page.
type Stream struct {
	Title        string        `json:"title"`
	ViewersCount int           `json:"viewersCount"`
	CreatedAt    string        `json:"createdAt"`
	Broadcaster  User          `json:"broadcaster"`
	FreeformTags []FreeformTag `json:"freeformTags"`
	Game         Game          `json:"game"`
}

// StreamEdge wraps a category page stream.
type StreamEdge struct {
	Node Stream `json:"node"`
}

// StreamConnection is the stream list of a category page.
type StreamConnection struct {
	Edges []StreamEdge `json:"edges"`
}

// Category is a directory/game page.
type Category struct {
	Streams StreamConnection `json:"streams"`
}

// FollowerConnection carries a follower total.
type FollowerConnection struct {
	TotalCount int `json:"totalCount"`
}

// Broadcast records when a channel last went live, if ever.
type Broadcast struct {
	StartedAt *string `json:"startedAt"`
}

// ScheduleSegmentGame names a category of a scheduled stream.
type ScheduleSegmentGame struct {
	Name string `json:"name"`
}

// ScheduleSegment is one upcoming scheduled stream.
type ScheduleSegment struct {
	StartAt    string                `json:"startAt"`
	EndAt      *string               `json:"endAt"`
	Title      string                `json:"title"`
	Categories []ScheduleSegmentGame `json:"categories"`
}

// Schedule holds the next scheduled segment of a channel, if any.
type Schedule struct {
	NextSegment *ScheduleSegment `json:"nextSegment"`
}

// Channel wraps a channel schedule.
type Channel struct {
	Schedule *Schedule `json:"schedule"`
}

// Video is a recorded broadcast reference.
type Video struct {
	ID            string `json:"id"`
	LengthSeconds int    `json:"lengthSeconds"`
}

// VideoEdge wraps a video.
type VideoEdge struct {
	Node Video `json:"node"`
}

// VideoConnection is a list of videos.
type VideoConnection struct {
	Edges []VideoEdge `json:"edges"`
}

// SearchClip is a channel's top clip in search results.
type SearchClip struct {
	Title           string `json:"title"`
	DurationSeconds int    `json:"durationSeconds"`
	Slug            string `json:"slug"`
}

// ClipEdge wraps a search top clip.
type ClipEdge struct {
	Node SearchClip `json:"node"`
}

// ClipConnection is a list of search top clips.
type ClipConnection struct {
	Edges []ClipEdge `json:"edges"`
}

// SearchStream is the live-stream part of a matched channel.
type SearchStream struct {
	Game         Game          `json:"game"`
	FreeformTags []FreeformTag `json:"freeformTags"`
	ViewersCount int           `json:"viewersCount"`
}

// SearchChannel is one channel matched by a search.
type SearchChannel struct {
	BroadcastSettings BroadcastSettings  `json:"broadcastSettings"`
	DisplayName       string             `json:"displayName"`
	Followers         FollowerConnection `json:"followers"`
	LastBroadcast     Broadcast          `json:"lastBroadcast"`
	Login             string             `json:"login"`
	Description       string             `json:"description"`
	Channel           Channel            `json:"channel"`
	LatestVideo       VideoConnection    `json:"latestVideo"`
	TopClip           ClipConnection     `json:"topClip"`
	Roles             UserRoles          `json:"roles"`
	Stream            *SearchStream      `json:"stream"`
}

// SearchChannelEdge wraps a matched channel.
type SearchChannelEdge struct {
	Item SearchChannel `json:"item"`
}

// SearchChannels is a scored group of matched channels.
type SearchChannels struct {
	Edges        []SearchChannelEdge `json:"edges"`
	Score        int                 `json:"score"`
	TotalMatches int                 `json:"totalMatches"`
}

// SearchGameEdge wraps a matched category.
type SearchGameEdge struct {
	Item Game `json:"item"`
}

// SearchGames is a scored group of matched categories.
type SearchGames struct {
	Edges        []SearchGameEdge `json:"edges"`
	Score        int              `json:"score"`
	TotalMatches int              `json:"totalMatches"`
}

// SearchVideo is one matched past video.
type SearchVideo struct {
	CreatedAt     string `json:"createdAt"`
	Owner         User   `json:"owner"`
	ID            string `json:"id"`
	Game          Game   `json:"game"`
	LengthSeconds int    `json:"lengthSeconds"`
	Title         string `json:"title"`
	ViewCount     int    `json:"viewCount"`
}

// SearchVideoEdge wraps a matched video.
type SearchVideoEdge struct {
	Item SearchVideo `json:"item"`
}

// SearchVideos is a scored group of matched past videos.
type SearchVideos struct {
	Edges        []SearchVideoEdge `json:"edges"`
	Score        int               `json:"score"`
	TotalMatches int               `json:"totalMatches"`
}

// RelatedStream is a live stream watched by people running similar searches.
type RelatedStream struct {
	ViewersCount int  `json:"viewersCount"`
	Game         Game `json:"game"`
	Broadcaster  User `json:"broadcaster"`
}

// RelatedChannel wraps the stream of a related live channel.
type RelatedChannel struct {
	Stream RelatedStream `json:"stream"`
}

// RelatedChannelEdge wraps a related live channel.
type RelatedChannelEdge struct {
	Item RelatedChannel `json:"item"`
}

// SearchRelated is the scored related-live-channels group.
type SearchRelated struct {
	Edges []RelatedChannelEdge `json:"edges"`
	Score int                  `json:"score"`
}

// SearchFor holds the five independently scored search result groups.
type SearchFor struct {
	Channels            SearchChannels `json:"channels"`
	ChannelsWithTag     SearchChannels `json:"channelsWithTag"`
	Games               SearchGames    `json:"games"`
	Videos              SearchVideos   `json:"videos"`
	RelatedLiveChannels SearchRelated  `json:"relatedLiveChannels"`
}

// Envelope is the decoded form of a catalog response. Exactly one field is
// populated.
type Envelope struct {
	PersonalSections []PersonalSection
	Shelves          *ShelfConnection
	Category         *Category
	Search           *SearchFor
}

// DecodeEnvelope parses a catalog response body. The wire format carries no
// explicit tag, so each known shape is attempted in a fixed order and the
// first structural match wins. This assumes the caller never issues two
// requests whose responses both match more than one shape, which holds for
// the fixed query set. A body matching none of the shapes (including a null
// data object, e.g. an unknown category name) is ErrMalformedResponse.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var probe struct {
		Data *struct {
			PersonalSections *[]PersonalSection `json:"personalSections"`
			Shelves          *ShelfConnection   `json:"shelves"`
			Game             *Category          `json:"game"`
			SearchFor        *SearchFor         `json:"searchFor"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if probe.Data == nil {
		return nil, fmt.Errorf("%w: missing data object", ErrMalformedResponse)
	}

	switch d := probe.Data; {
	case d.PersonalSections != nil:
		return &Envelope{PersonalSections: *d.PersonalSections}, nil
	case d.Shelves != nil:
		return &Envelope{Shelves: d.Shelves}, nil
	case d.Game != nil:
		return &Envelope{Category: d.Game}, nil
	case d.SearchFor != nil:
		return &Envelope{Search: d.SearchFor}, nil
	}
	return nil, fmt.Errorf("%w: no known response shape", ErrMalformedResponse)
}

// PlaybackAccessToken is a signed playback grant for a clip or VOD.
type PlaybackAccessToken struct {
	Signature string `json:"signature"`
	Value     string `json:"value"`
}

// ClipQuality is one rendition of a clip.
type ClipQuality struct {
	Quality   string `json:"quality"`
	SourceURL string `json:"sourceURL"`
}

type clipTokenResponse struct {
	Data *struct {
		Clip *struct {
			PlaybackAccessToken PlaybackAccessToken `json:"playbackAccessToken"`
			VideoQualities      []ClipQuality       `json:"videoQualities"`
		} `json:"clip"`
	} `json:"data"`
}

type vodTokenResponse struct {
	Data *struct {
		VideoPlaybackAccessToken *PlaybackAccessToken `json:"videoPlaybackAccessToken"`
	} `json:"data"`
}

type liveStatusResponse struct {
	Data struct {
		User *struct {
			Stream *struct{} `json:"stream"`
		} `json:"user"`
	} `json:"data"`
}

type channelShellResponse struct {
	Data *struct {
		UserOrError *struct {
			ID string `json:"id"`
		} `json:"userOrError"`
	} `json:"data"`
}
