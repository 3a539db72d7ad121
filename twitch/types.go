// Package twitch talks to the public GraphQL endpoint: it builds the fixed
// persisted-query requests, decodes the handful of response shapes the client
// understands, and exposes them as typed values. Unknown payload fields are
// always ignored.
package twitch

import "encoding/json"

// BroadcastSettings carries the live broadcast title of a channel.
type BroadcastSettings struct {
	Title string `json:"title"`
}

// UserRoles flags special channel statuses.
type UserRoles struct {
	IsPartner bool `json:"isPartner"`
}

// User is a channel owner as returned in catalog payloads.
type User struct {
	Login             string             `json:"login"`
	DisplayName       string             `json:"displayName"`
	PrimaryColorHex   string             `json:"primaryColorHex"`
	BroadcastSettings *BroadcastSettings `json:"broadcastSettings"`
	Roles             *UserRoles         `json:"roles"`
}

// Tag is a localized category tag.
type Tag struct {
	LocalizedName string `json:"localizedName"`
}

// Game is a category. Viewer count, tags and release date are only present
// on some query shapes.
type Game struct {
	ViewersCount        *int   `json:"viewersCount"`
	Name                string `json:"name"`
	DisplayName         string `json:"displayName"`
	Tags                []Tag  `json:"tags"`
	OriginalReleaseDate string `json:"originalReleaseDate"`
}

// Title returns the display name, falling back to the internal name.
func (g Game) Title() string {
	if g.DisplayName != "" {
		return g.DisplayName
	}
	return g.Name
}

// FreeformTag is a broadcaster-chosen stream tag.
type FreeformTag struct {
	Name string `json:"name"`
}

// NodeKind discriminates the ContentNode union.
type NodeKind int

const (
	KindNone NodeKind = iota
	KindClip
	KindGame
	KindStream
	KindVideo
)

// ClipNode is the clip variant of a content node.
type ClipNode struct {
	Slug            string `json:"slug"`
	Title           string `json:"clipTitle"`
	ViewCount       int    `json:"clipViewCount"`
	Curator         User   `json:"curator"`
	Game            Game   `json:"game"`
	Broadcaster     User   `json:"broadcaster"`
	CreatedAt       string `json:"clipCreatedAt"`
	DurationSeconds int    `json:"durationSeconds"`
	Language        string `json:"language"`
}

// StreamNode is the live-stream variant of a content node.
type StreamNode struct {
	Broadcaster  User          `json:"broadcaster"`
	Game         *Game         `json:"game"`
	FreeformTags []FreeformTag `json:"freeformTags"`
	ViewersCount int           `json:"viewersCount"`
	CreatedAt    string        `json:"createdAt"`
}

// Node is one selectable catalog entry. Exactly one of the variant fields is
// populated according to Kind; KindNone carries nothing and selecting it is
// a no-op. The wire format is untagged, so decoding classifies by which keys
// are present: a bare JSON string is a VOD id, an object with a slug is a
// clip, with a broadcaster a stream, with a name a category.
type Node struct {
	Kind    NodeKind
	Clip    *ClipNode
	Game    *Game
	Stream  *StreamNode
	VideoID string
}

// UnmarshalJSON implements the structural classification described on Node.
func (n *Node) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*n = Node{Kind: KindVideo, VideoID: id}
		return nil
	}

	var probe struct {
		Slug        *string `json:"slug"`
		Broadcaster *User   `json:"broadcaster"`
		Name        *string `json:"name"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		// null or an unknown scalar: a non-selectable placeholder
		*n = Node{Kind: KindNone}
		return nil
	}

	switch {
	case probe.Slug != nil:
		var clip ClipNode
		if err := json.Unmarshal(data, &clip); err != nil {
			return err
		}
		*n = Node{Kind: KindClip, Clip: &clip}
	case probe.Broadcaster != nil:
		var stream StreamNode
		if err := json.Unmarshal(data, &stream); err != nil {
			return err
		}
		*n = Node{Kind: KindStream, Stream: &stream}
	case probe.Name != nil:
		var game Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}
		*n = Node{Kind: KindGame, Game: &game}
	default:
		*n = Node{Kind: KindNone}
	}
	return nil
}

// StreamNodeFor builds a stream node from just a login. Selection only needs
// broadcaster.login, everything else is presentation data the caller already
// rendered.
func StreamNodeFor(login string) Node {
	return Node{
		Kind: KindStream,
		Stream: &StreamNode{
			Broadcaster: User{
				Login:             login,
				BroadcastSettings: &BroadcastSettings{},
			},
		},
	}
}

// ClipNodeFor builds a clip node from just a slug, for rows where the full
// clip payload is not available (search top clips).
func ClipNodeFor(slug string) Node {
	return Node{Kind: KindClip, Clip: &ClipNode{Slug: slug}}
}

// VideoNodeFor builds a video node carrying only the VOD id.
func VideoNodeFor(id string) Node {
	return Node{Kind: KindVideo, VideoID: id}
}

// GameNodeFor builds a category node carrying only the category name.
func GameNodeFor(name string) Node {
	return Node{Kind: KindGame, Game: &Game{Name: name}}
}
