package player

import "strings"

// Ladder is the fixed quality ordering, lowest first. Preferences move
// along it one step at a time.
var Ladder = []string{
	"audio_only",
	"worst",
	"160p",
	"360p",
	"480p",
	"720p",
	"720p60",
	"1080p60",
	"best",
}

// DefaultPrefs is the startup preference list.
func DefaultPrefs() []string {
	return []string{"best"}
}

func ladderIndex(quality string) int {
	for i, q := range Ladder {
		if q == quality {
			return i
		}
	}
	return -1
}

// ValidQuality reports whether a configured quality names a ladder rung.
func ValidQuality(q string) bool {
	return ladderIndex(q) >= 0
}

// Raise moves the leading preference one rung up the ladder, saturating at
// "best". Preferences past the first are kept as explicit fallbacks.
func Raise(prefs []string) []string {
	return step(prefs, 1)
}

// Lower moves the leading preference one rung down, saturating at
// "audio_only".
func Lower(prefs []string) []string {
	return step(prefs, -1)
}

func step(prefs []string, delta int) []string {
	if len(prefs) == 0 {
		return DefaultPrefs()
	}
	i := ladderIndex(prefs[0])
	if i < 0 {
		return prefs
	}
	i += delta
	if i < 0 {
		i = 0
	}
	if i >= len(Ladder) {
		i = len(Ladder) - 1
	}
	out := append([]string(nil), prefs...)
	out[0] = Ladder[i]
	return out
}

// chooseIndex runs the shared preference walk over a rendition label list.
// Labels arrive best-first, the order playback manifests use. "best" takes
// the first rendition, "worst" and "audio_only" the last; anything else is
// matched by the caller's predicate. A ladder that matches nothing falls
// back to the first rendition, so the result is total for non-empty labels.
func chooseIndex(prefs, labels []string, match func(pref, label string) bool) int {
	for _, pref := range prefs {
		switch pref {
		case "best":
			return 0
		case "worst", "audio_only":
			return len(labels) - 1
		}
		for i, label := range labels {
			if match(pref, label) {
				return i
			}
		}
	}
	return 0
}

// matchClip compares a ladder entry against a clip quality field, which
// carries a bare height like "1080". Only a trailing p is stripped before
// the case-insensitive compare, so "720p60" matches no clip rendition and
// the walk moves to the next preference.
func matchClip(pref, quality string) bool {
	p := strings.TrimSuffix(strings.ToLower(pref), "p")
	return strings.EqualFold(p, quality)
}

// matchVariant compares a ladder entry against a manifest quality label
// like "720p60 (source)"; substring containment is the contract there.
func matchVariant(pref, label string) bool {
	return strings.Contains(label, pref)
}
