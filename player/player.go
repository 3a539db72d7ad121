// Package player resolves playable URLs from signed access tokens and
// builds the external player invocations. Nothing here talks to the
// network; token exchange and manifest fetching belong to the twitch
// client, and process handoff to the UI loop.
package player

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/grafov/m3u8"

	"github.com/whisper-darkly/tuitch/twitch"
)

// ErrSpawnFailed marks a player or streamlink process that could not be
// started. Recoverable: the session keeps running and reports it in-UI.
var ErrSpawnFailed = errors.New("player spawn failed")

const vodUsherURL = "https://usher.ttvnw.net/vod/%s.m3u8?sig=%s&token=%s"

// Config is the playback side of the startup configuration.
type Config struct {
	// Player is the media player argv for clips and VODs, e.g.
	// ["mpv", "--really-quiet"].
	Player []string
	// Prefs is the quality preference list, tried in order.
	Prefs []string
}

// ClipURL picks a clip rendition by quality preference and signs its source
// URL. The token value goes into a query parameter verbatim, so its percent
// signs must be escaped first; nothing else in it needs escaping.
func ClipURL(token twitch.PlaybackAccessToken, qualities []twitch.ClipQuality, prefs []string) (string, error) {
	if len(qualities) == 0 {
		return "", fmt.Errorf("%w: clip has no renditions", twitch.ErrMalformedResponse)
	}

	labels := make([]string, len(qualities))
	for i, q := range qualities {
		labels[i] = q.Quality
	}
	chosen := qualities[chooseIndex(prefs, labels, matchClip)]

	value := strings.ReplaceAll(token.Value, "%", "%25")
	return chosen.SourceURL + "?sig=" + token.Signature + "&token=" + value, nil
}

// VODManifestURL builds the signed usher URL for a VOD master playlist.
func VODManifestURL(id string, token twitch.PlaybackAccessToken) string {
	return fmt.Sprintf(vodUsherURL, id, token.Signature, token.Value)
}

// PickVODVariant decodes a VOD master playlist and returns the playlist URL
// of the preferred rendition. Manifest quality labels are matched by
// containment ("720p60" matches a "720p60 (source)" label). Relative
// variant URIs resolve against the manifest URL.
func PickVODVariant(manifest []byte, manifestURL string, prefs []string) (string, error) {
	p, _, err := m3u8.DecodeFrom(bytes.NewReader(manifest), true)
	if err != nil {
		return "", fmt.Errorf("%w: decode manifest: %v", twitch.ErrMalformedResponse, err)
	}
	master, ok := p.(*m3u8.MasterPlaylist)
	if !ok {
		return "", fmt.Errorf("%w: expected master playlist", twitch.ErrMalformedResponse)
	}

	type variant struct {
		label string
		uri   string
	}
	var variants []variant
	for _, v := range master.Variants {
		if v == nil || v.URI == "" {
			continue
		}
		label := v.Video
		if label == "" {
			label = v.Resolution
		}
		variants = append(variants, variant{label: label, uri: v.URI})
	}
	if len(variants) == 0 {
		return "", fmt.Errorf("%w: manifest has no variants", twitch.ErrMalformedResponse)
	}

	labels := make([]string, len(variants))
	for i, v := range variants {
		labels[i] = v.label
	}
	chosen := variants[chooseIndex(prefs, labels, matchVariant)]
	return resolveVariantURL(manifestURL, chosen.uri), nil
}

// resolveVariantURL joins a possibly relative variant URI onto the manifest
// URL, keeping the manifest's query string.
func resolveVariantURL(manifestURL, uri string) string {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}

	query := ""
	path := manifestURL
	if i := strings.Index(manifestURL, "?"); i != -1 {
		path = manifestURL[:i]
		query = manifestURL[i:]
	}
	if i := strings.LastIndex(path, "/"); i != -1 {
		return path[:i+1] + uri + query
	}
	return uri + query
}

// URLCommand invokes the configured media player on a resolved clip or VOD
// URL.
func (c Config) URLCommand(url string) (*exec.Cmd, error) {
	if len(c.Player) == 0 {
		return nil, fmt.Errorf("%w: no player configured", ErrSpawnFailed)
	}
	args := append(append([]string(nil), c.Player[1:]...), url)
	return exec.Command(c.Player[0], args...), nil
}

// StreamCommand builds the streamlink invocation for a live channel.
// Streamlink gets the whole preference list and does its own matching.
func (c Config) StreamCommand(login string) (*exec.Cmd, error) {
	if len(c.Player) == 0 {
		return nil, fmt.Errorf("%w: no player configured", ErrSpawnFailed)
	}
	return exec.Command("streamlink",
		"-p="+strings.Join(c.Player, " "),
		"twitch.tv/"+login,
		strings.Join(c.Prefs, ","),
	), nil
}
