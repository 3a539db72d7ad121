package twitch

// The endpoint only accepts persisted queries: a variables object plus the
// sha256 of a query document the server already knows. The hashes below are
// the ones the web player sends.

type persistedQuery struct {
	SHA256Hash string `json:"sha256hash"`
}

type requestExtensions struct {
	PersistedQuery persistedQuery `json:"persistedQuery"`
}

// Request is one POST body: variables plus the persisted-query hash.
type Request struct {
	Variables  any               `json:"variables"`
	Extensions requestExtensions `json:"extensions"`
}

func newRequest(hash string, variables any) Request {
	return Request{
		Variables:  variables,
		Extensions: requestExtensions{PersistedQuery: persistedQuery{SHA256Hash: hash}},
	}
}

// RecommendationContext mirrors the webapp's page-view reporting block. All
// fields are optional and stay null.
type RecommendationContext struct {
	Platform        *string `json:"platform"`
	ClientApp       *string `json:"clientApp"`
	Location        *string `json:"location"`
	ReferrerDomain  *string `json:"referrerDomain"`
	ViewportHeight  *int    `json:"viewportHeight"`
	ViewportWidth   *int    `json:"viewportWidth"`
	ChannelName     *string `json:"channelName"`
	CategoryName    *string `json:"categoryName"`
	LastChannelName *string `json:"lastChannelName"`
}

type personalSectionsInput struct {
	SectionInputs         []string              `json:"sectionInputs"`
	RecommendationContext RecommendationContext `json:"recommendationContext"`
	ContextChannelName    *string               `json:"contextChannelName"`
}

type personalSectionsVariables struct {
	Input                                 personalSectionsInput `json:"input"`
	CreatorAnniversariesExperimentEnabled bool                  `json:"creatorAnniversariesExperimentEnabled"`
}

// PersonalSectionsRequest fetches the recommended-channels column.
func PersonalSectionsRequest() Request {
	return newRequest(
		"f8cc9b91bb629f2d09dd8299d9f07c4daefe019236a19fc12fa2b14eb95c359e",
		personalSectionsVariables{
			Input: personalSectionsInput{
				SectionInputs: []string{"RECOMMENDED_SECTION"},
			},
		},
	)
}

type shelvesVariables struct {
	ImageWidth      *int   `json:"imageWidth"`
	ItemsPerRow     int    `json:"itemsPerRow"`
	LangWeightedCCU *bool  `json:"langWeightedCCU"`
	Platform        string `json:"platform"`
	RequestID       string `json:"requestID"`
	Verbose         *bool  `json:"verbose"`
}

// ShelvesRequest fetches the main discovery page. The response is roughly
// two orders of magnitude bigger than the personal sections one.
func ShelvesRequest() Request {
	return newRequest(
		"41858598cc637cf9e6153818f5a4d274a08e8743e4a85903cdfe39c464152404",
		shelvesVariables{},
	)
}

type categoryOptions struct {
	Sort         string    `json:"sort"`
	RequestID    *string   `json:"requestID"`
	FreeformTags *[]string `json:"freeformTags"`
	Tags         *[]string `json:"tags"`
}

type categoryVariables struct {
	ImageWidth        *int            `json:"imageWidth"`
	Name              string          `json:"name"`
	Options           categoryOptions `json:"options"`
	SortTypeIsRecency bool            `json:"sortTypeIsRecency"`
	Limit             int             `json:"limit"`
}

// CategoryRequest fetches the live streams of one category page.
func CategoryRequest(name string) Request {
	width := 0 // must be non-null for the server to include user colors
	return newRequest(
		"df4bb6cc45055237bfaf3ead608bbafb79815c7100b6ee126719fac3762ddf8b",
		categoryVariables{
			ImageWidth:        &width,
			Name:              name,
			Options:           categoryOptions{Sort: "RELEVANCE"},
			SortTypeIsRecency: true,
			Limit:             30,
		},
	)
}

type searchVariables struct {
	Query     string  `json:"query"`
	Options   *any    `json:"options"`
	RequestID *string `json:"requestID"`
}

// SearchRequest runs a full search across channels, categories and videos.
func SearchRequest(query string) Request {
	return newRequest(
		"6ea6e6f66006485e41dbe3ebd69d5674c5b22896ce7b595d7fce6411a3790138",
		searchVariables{Query: query},
	)
}

type clipTokenVariables struct {
	Slug string `json:"slug"`
}

// ClipTokenRequest exchanges a clip slug for a signed playback URL set.
func ClipTokenRequest(slug string) Request {
	return newRequest(
		"36b89d2507fce29e5ca551df756d27c1cfe079e2609642b4390aa4c35796eb11",
		clipTokenVariables{Slug: slug},
	)
}

type vodTokenVariables struct {
	IsLive     bool   `json:"isLive"`
	IsVod      bool   `json:"isVod"`
	Login      string `json:"login"`
	PlayerType string `json:"playerType"`
	VodID      string `json:"vodID"`
}

// VODTokenRequest exchanges a VOD id for a signed manifest token.
func VODTokenRequest(id string) Request {
	return newRequest(
		"0828119ded1c13477966434e15800ff57ddacf13ba1911c129dc2200705b0712",
		vodTokenVariables{IsVod: true, VodID: id},
	)
}

type liveStatusVariables struct {
	ChannelLogin string `json:"channelLogin"`
	IsLive       bool   `json:"isLive"`
	IsVod        bool   `json:"isVod"`
	VideoID      string `json:"videoID"`
}

// LiveStatusRequest checks whether one channel is currently live.
func LiveStatusRequest(login string) Request {
	return newRequest(
		"21c86683bbfd1a6e9e6636c2b460f94c5014272dcb56f0aa04a7d28d0633502c",
		liveStatusVariables{ChannelLogin: login, IsLive: true},
	)
}

type channelShellVariables struct {
	Login string `json:"login"`
}

// ChannelShellRequest resolves a login to its numeric channel id, needed for
// pubsub topic names.
func ChannelShellRequest(login string) Request {
	return newRequest(
		"c3ea5a669ec074a58df5c11ce3c27093fa38534c94286dc14b68a25d5adcbf55",
		channelShellVariables{Login: login},
	)
}
