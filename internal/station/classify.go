package station

import (
	"hash/fnv"
	"math/rand"
	"strings"
)

type typeKeyword struct {
	keyword string
	label   string
}

// First match wins.
var typeKeywords = []typeKeyword{
	{"hafen", "Harbor"},
	{"schifflände", "Main Terminal"},
	{"landungssteg", "Dock"},
	{"débarcadère", "Terminal"},
	{"bateau", "Terminal"},
	{"see", "Terminal"},
	{"lac", "Terminal"},
}

const defaultType = "Stop"

// StationType classifies a station by the keywords in its name.
func StationType(name string) string {
	lower := strings.ToLower(name)
	for _, k := range typeKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.label
		}
	}
	return defaultType
}

// City returns the first word of a multi-word station name, or the name
// itself.
func City(name string) string {
	parts := strings.Fields(name)
	if len(parts) > 1 {
		return parts[0]
	}
	return strings.TrimSpace(name)
}

var (
	topTierLakes = map[string]bool{
		"Vierwaldstättersee": true,
		"Thunersee":          true,
		"Genfersee":          true,
		"Lac Léman":          true,
	}
	midTierLakes = map[string]bool{
		"Zürichsee":   true,
		"Bodensee":    true,
		"Brienzersee": true,
	}
)

// WaveRating returns a rating between 1 and 5 that depends on the lake tier.
// The value is derived from lake and station name so it is stable across
// loads.
func WaveRating(lake, name string) int {
	low := 1
	switch {
	case topTierLakes[lake]:
		low = 3
	case midTierLakes[lake]:
		low = 2
	}
	rng := rand.New(rand.NewSource(seed(lake + "|" + name)))
	return low + rng.Intn(3)
}

var lakeDescriptions = map[string]string{
	"Zürichsee":          "Beliebter Spot am Zürichsee mit guten Wellen bei Südwestwind.",
	"Vierwaldstättersee": "Malerischer Ort am Vierwaldstättersee mit ausgezeichneten Wellen bei Föhn.",
	"Bodensee":           "Schöne Lage am Bodensee mit mittleren Wellen und internationaler Atmosphäre.",
	"Lac Léman":          "Wunderschöner Ort am Genfersee mit hervorragenden Wellen bei Nordwind.",
	"Thunersee":          "Spektakuläre Alpenkulisse am Thunersee mit guten Wellenbedingungen.",
	"Brienzersee":        "Ruhiger Ort am türkisblauen Brienzersee mit moderaten Wellen.",
	"Lago Maggiore":      "Mediterranes Flair am Lago Maggiore mit angenehmen Wellenbedingungen.",
	"Lago di Lugano":     "Idyllischer Ort am Luganersee mit südlichem Charme und sanften Wellen.",
	"Bielersee":          "Charmante Lage am Bielersee mit guten Wellenbedingungen für Anfänger.",
	"Neuenburgersee":     "Weitläufiger See mit guten Windverhältnissen und moderaten Wellen.",
	"Murtensee":          "Historischer Ort am kleinen Murtensee mit ruhigen Gewässern.",
	"Aare":               "Flusslage mit interessanten Strömungsverhältnissen.",
	"Zugersee":           "Malerischer Ort am Zugersee mit mittleren Wellen.",
	"Walensee":           "Beeindruckende Bergkulisse am Walensee mit oft starken Winden.",
	"Hallwilersee":       "Idyllischer kleiner See mit sanften Wellen, ideal für Anfänger.",
	"Aegerisee":          "Ruhiger Bergsee mit gemäßigten Wellenbedingungen.",
	"Lac de Joux":        "Höchstgelegener Schifffahrtssee der Schweiz mit speziellen Windverhältnissen.",
}

const defaultDescription = "Schöne Lage mit guten Wellenbedingungen."

func LakeDescription(lake string) string {
	if d, ok := lakeDescriptions[lake]; ok {
		return d
	}
	return defaultDescription
}

var noWavesMessages = []string{
	"No more waves today – back in the lineup tomorrow!",
	"Flat for now, but fresh sets rolling in tomorrow!",
	"Wave machine's off – catch the next swell tomorrow!",
	"Boat's are taking a break – tomorrow's a new ride!",
	"No wake waves left today – time to chill 'til sunrise!",
	"That's it for today – fresh waves incoming tomorrow!",
	"No waves, no worries – time to dry your wetsuit for tomorrow!",
	"The wave train's done for today – ride continues mañana!",
	"Today's waves are history – tomorrow's swell is brewing!",
	"Ship's on pause – fresh rides coming soon!",
	"That's all, folks! But don't worry, tomorrow's a new ride!",
	"No more bumps to ride – but tomorrow's looking rad!",
	"Last wave's gone – time to dream of tomorrow's rides!",
	"Aloha, da waves pau for today – but mo' coming tomorrow!",
	"Chill time, ʻohana! Waves gonna roll in fresh tomorrow!",
	"No more surf – the sea life needs some chill time too!",
	"Post-pumping high is real – but even the ships need a break!",
	"Waves are done, but that post-pumping high lasts all night!",
	"That post-pumping high hits different – but the waves are snoozing now!",
	"No more wake waves, just that sweet post-pumping afterglow!",
}

// NoWavesMessage picks the message shown when a station has no departures
// left today. The same station always gets the same message.
func NoWavesMessage(stationID string) string {
	rng := rand.New(rand.NewSource(seed(stationID)))
	return noWavesMessages[rng.Intn(len(noWavesMessages))]
}

func seed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
