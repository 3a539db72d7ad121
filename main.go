package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/whisper-darkly/tuitch/browse"
	"github.com/whisper-darkly/tuitch/logger"
	"github.com/whisper-darkly/tuitch/player"
	"github.com/whisper-darkly/tuitch/twitch"
	"github.com/whisper-darkly/tuitch/ui"
	"github.com/whisper-darkly/tuitch/units"
)

// Set via ldflags at build time: -ldflags "-X main.version=..."
var version = "dev"

// webClientID is the id the web player uses; the public queries are only
// served to it.
const webClientID = "kimne78kx3ncx6brgo4mv6wki5h1ko"

func main() {
	// .env before flag defaults so TUITCH_* fallbacks see it
	godotenv.Load()

	// CLI flags: --long-name / -s shorthand
	playerArgv := flag.StringP("player", "p", envOrDefault("TUITCH_PLAYER", "mpv"), "Media player command for clips/VODs and streamlink handoff")
	quality := flag.StringP("quality", "q", envOrDefault("TUITCH_QUALITY", "best"), "Quality preference list, comma separated (e.g. 720p,best)")
	discover := flag.BoolP("discover", "d", os.Getenv("TUITCH_DISCOVER") != "", "Start on the full discovery page instead of recommended channels")
	chatOverlay := flag.BoolP("chat", "c", os.Getenv("TUITCH_CHAT") != "", "Open the chat overlay when selecting a live stream")
	dateFormat := flag.String("date-format", envOrDefault("TUITCH_DATE_FORMAT", ""), "Absolute date layout (Go reference time); empty = relative dates")
	locale := flag.String("locale", envOrDefault("TUITCH_LOCALE", "en-US"), "Accept-Language value, drives recommendations and localization")
	clientID := flag.String("client-id", envOrDefault("TUITCH_CLIENT_ID", webClientID), "GraphQL client id header")
	deviceID := flag.String("device-id", envOrDefault("TUITCH_DEVICE_ID", ""), "Device id header (default random per run)")
	timeout := flag.String("timeout", "", "Per-request timeout (default 00:00:15, e.g. 10s, 00:00:10)")
	logPath := flag.String("log", envOrDefault("TUITCH_LOG", ""), "Log file path (empty=logging off; stdout belongs to the UI)")
	logLevel := flag.String("log-level", envOrDefault("TUITCH_LOG_LEVEL", "info"), "Log level: debug, info, warn, error, fatal")
	logFormat := flag.String("log-format", envOrDefault("TUITCH_LOG_FORMAT", "normal"), "Log format: normal, json")
	onlineCheck := flag.Bool("online-check", false, "Check the given channels and print the live ones, then exit")
	showVersion := flag.BoolP("version", "V", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tuitch %s\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s --online-check <channel>...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Browse live channels, categories, clips and VODs in the terminal.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: j/k move, l select, b back, h home, s search, r refresh, +/- quality, q quit.\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Println("tuitch", version)
		os.Exit(0)
	}

	log := logger.New(logger.ParseLevel(*logLevel))
	log.SetFormat(logger.ParseFormat(*logFormat))
	logFile := openLogFile(*logPath, log)
	if logFile != nil {
		defer logFile.Close()
	}

	prefs := splitPrefs(*quality)
	for _, p := range prefs {
		if !player.ValidQuality(p) {
			log.Fatal("invalid quality %q (one of: %s)", p, strings.Join(player.Ladder, ", "))
		}
	}

	if *deviceID == "" {
		*deviceID = randomDeviceID()
	}

	client := twitch.New(twitch.Config{
		ClientID: *clientID,
		DeviceID: *deviceID,
		Locale:   *locale,
		Timeout:  durationVal(*timeout, "TUITCH_TIMEOUT", 15*time.Second, log),
	}, log)

	if *onlineCheck {
		os.Exit(runOnlineCheck(client, flag.Args(), log))
	}

	cfg := ui.Config{
		Browse: browse.Config{
			DateFormat: *dateFormat,
			Now:        time.Now,
		},
		Player: player.Config{
			Player: tokenize(*playerArgv),
			Prefs:  prefs,
		},
		HomeShelves: *discover,
		ChatEnabled: *chatOverlay,
	}

	prog := tea.NewProgram(ui.New(client, cfg, log), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		log.Error("session ended: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runOnlineCheck is the non-interactive mode: one batched liveness query,
// live logins on stdout, space separated.
func runOnlineCheck(client *twitch.Client, channels []string, log *logger.Logger) int {
	if len(channels) == 0 {
		log.Fatal("--online-check needs at least one channel argument")
	}
	online, err := client.OnlineLogins(context.Background(), channels)
	if err != nil {
		log.Error("online check: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	if len(online) > 0 {
		fmt.Println(strings.Join(online, " "))
	}
	return 0
}

// openLogFile points the logger at the configured file. With no file the
// logger output is discarded: stdout draws the UI and stderr would tear it.
func openLogFile(path string, log *logger.Logger) *os.File {
	if path == "" {
		log.SetFile(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal("open log file: %v", err)
	}
	log.SetFile(f)
	return f
}

func splitPrefs(quality string) []string {
	var prefs []string
	for _, p := range strings.Split(quality, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefs = append(prefs, p)
		}
	}
	if len(prefs) == 0 {
		return player.DefaultPrefs()
	}
	return prefs
}

func randomDeviceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// tokenize splits a string into tokens, respecting single and double quotes.
// Lets --player carry arguments: -p 'mpv --really-quiet'.
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case (r == '"' || r == '\'') && !inQuote:
			inQuote = true
			quoteChar = r
		case r == quoteChar && inQuote:
			inQuote = false
			quoteChar = 0
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// durationVal resolves a time.Duration from: CLI string (if non-empty) → ENV → default.
// Uses units.ParseDuration for flexible format support (hh:mm:ss, Go-style, plain minutes).
func durationVal(cliVal, envKey string, def time.Duration, log *logger.Logger) time.Duration {
	if cliVal != "" {
		d, err := units.ParseDuration(cliVal)
		if err != nil {
			log.Fatal("invalid duration for %s: %v", envKey, err)
		}
		return d
	}
	if v := os.Getenv(envKey); v != "" {
		d, err := units.ParseDuration(v)
		if err != nil {
			log.Fatal("invalid duration in %s: %v", envKey, err)
		}
		return d
	}
	return def
}
