package twitch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whisper-darkly/tuitch/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.New(logger.LevelError)
	log.SetFile(io.Discard)
	return New(Config{
		Endpoint: srv.URL,
		ClientID: "client-id",
		DeviceID: "device-id",
		Locale:   "en-US",
	}, log)
}

func TestPostSendsFixedHeaders(t *testing.T) {
	var got http.Header
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"data":{"personalSections":[]}}`))
	})

	_, err := c.Fetch(context.Background(), PersonalSectionsRequest())
	require.NoError(t, err)
	assert.Equal(t, "client-id", got.Get("Client-Id"))
	assert.Equal(t, "device-id", got.Get("X-Device-Id"))
	assert.Equal(t, "en-US", got.Get("Accept-Language"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestFetchHTTPErrorIsTransport(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := c.Fetch(context.Background(), ShelvesRequest())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClipToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Extensions.PersistedQuery.SHA256Hash)

		w.Write([]byte(`{"data":{"clip":{
			"playbackAccessToken":{"signature":"sig","value":"tok"},
			"videoQualities":[
				{"quality":"1080","sourceURL":"https://clips.example/hi.mp4"},
				{"quality":"720","sourceURL":"https://clips.example/mid.mp4"}
			]}}}`))
	})

	token, qualities, err := c.ClipToken(context.Background(), "SomeClip-xyz")
	require.NoError(t, err)
	assert.Equal(t, PlaybackAccessToken{Signature: "sig", Value: "tok"}, token)
	require.Len(t, qualities, 2)
	assert.Equal(t, "1080", qualities[0].Quality)
}

func TestClipTokenMissingClip(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"clip":null}}`))
	})

	_, _, err := c.ClipToken(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestVODToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"videoPlaybackAccessToken":{"signature":"s","value":"v"}}}`))
	})

	token, err := c.VODToken(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, PlaybackAccessToken{Signature: "s", Value: "v"}, token)
}

func TestChannelID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"userOrError":{"id":"4417139"}}}`))
	})

	id, err := c.ChannelID(context.Background(), "someone")
	require.NoError(t, err)
	assert.Equal(t, "4417139", id)
}

func TestOnlineLoginsBatch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		// the batch goes up as a JSON array, one entry per channel
		var batch []Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		require.Len(t, batch, 3)

		w.Write([]byte(`[
			{"data":{"user":{"stream":{}}}},
			{"data":{"user":{"stream":null}}},
			{"data":{"user":null}}
		]`))
	})

	online, err := c.OnlineLogins(context.Background(), []string{"live", "offline", "banned"})
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, online)
}

func TestFetchManifest(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte("#EXTM3U\n"))
	})

	body, err := c.FetchManifest(context.Background(), c.endpoint)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n", string(body))
}
