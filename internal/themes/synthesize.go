package themes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JaimeStill/vantage/internal/classify"
	"github.com/JaimeStill/vantage/internal/entities"
	"github.com/JaimeStill/vantage/internal/signals"
)

// DefaultCompetitorThreshold is the competitor-linked signal fraction at
// which a theme is flagged competitor-focused.
const DefaultCompetitorThreshold = 0.25

// Fallback competitor names checked when a signal carries no entity links.
var knownCompetitors = []string{
	"kriyadocs", "knowledgeworks", "cactus", "editage",
	"spi global", "straive", "integra", "tnq books", "tnq",
	"exeter premedia", "aptara", "mps limited", "mps",
	"newgen knowledgeworks", "newgen", "publishing technology", "pubtech",
	"aries systems", "editorial manager", "scholarone", "ejournal press",
}

// Cluster groups signals by normalized topic (lowercase, trimmed). Every
// input signal lands in exactly one cluster; signal order within a cluster
// follows input order.
func Cluster(sigs []signals.Signal) map[string][]signals.Signal {
	clusters := make(map[string][]signals.Signal)

	for _, s := range sigs {
		topic := strings.ToLower(strings.TrimSpace(s.Topic))
		clusters[topic] = append(clusters[topic], s)
	}

	return clusters
}

// AggregateConfidence reduces the cluster's signal confidences to one level.
// All High yields High; any Low yields Medium; every other mix, including
// High with Medium, yields High.
func AggregateConfidence(sigs []signals.Signal) string {
	allHigh := true
	anyLow := false

	for _, s := range sigs {
		if s.Confidence != classify.ConfidenceHigh {
			allHigh = false
		}
		if s.Confidence == classify.ConfidenceLow {
			anyLow = true
		}
	}

	if allHigh {
		return classify.ConfidenceHigh
	}
	if anyLow {
		return classify.ConfidenceMedium
	}
	return classify.ConfidenceHigh
}

// CollectImpactAreas returns the sorted union of impact areas across signals.
func CollectImpactAreas(sigs []signals.Signal) []string {
	seen := make(map[string]bool)
	for _, s := range sigs {
		for _, area := range s.ImpactAreas {
			seen[area] = true
		}
	}

	areas := make([]string, 0, len(seen))
	for area := range seen {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	return areas
}

// CollectKeyPlayers returns the sorted unique primary entity names.
func CollectKeyPlayers(sigs []signals.Signal) []string {
	seen := make(map[string]bool)
	for _, s := range sigs {
		seen[s.Entity] = true
	}

	players := make([]string, 0, len(seen))
	for p := range seen {
		players = append(players, p)
	}
	sort.Strings(players)
	return players
}

// CompetitorEntities returns the sorted competitor entity names across
// signals, using entity-link segments with a known-name fallback.
func CompetitorEntities(sigs []signals.Signal) []string {
	seen := make(map[string]bool)

	for _, s := range sigs {
		linked := false
		for _, link := range s.EntityLinks {
			if link.Segment == entities.SegmentCompetitor {
				seen[link.Name] = true
				linked = true
			}
		}

		if !linked && s.Entity != "" && matchesKnownCompetitor(s.Entity) {
			seen[s.Entity] = true
		}
	}

	competitors := make([]string, 0, len(seen))
	for c := range seen {
		competitors = append(competitors, c)
	}
	sort.Strings(competitors)
	return competitors
}

// IsCompetitorTheme reports whether at least threshold of the signals
// involve competitor entities.
func IsCompetitorTheme(sigs []signals.Signal, threshold float64) bool {
	if len(sigs) == 0 {
		return false
	}

	count := 0
	for _, s := range sigs {
		if isCompetitorSignal(s) {
			count++
		}
	}

	return float64(count) >= float64(len(sigs))*threshold
}

func isCompetitorSignal(s signals.Signal) bool {
	for _, link := range s.EntityLinks {
		if link.Segment == entities.SegmentCompetitor {
			return true
		}
	}
	return s.Entity != "" && matchesKnownCompetitor(s.Entity)
}

func matchesKnownCompetitor(name string) bool {
	lower := strings.ToLower(name)
	for _, comp := range knownCompetitors {
		if strings.Contains(lower, comp) {
			return true
		}
	}
	return false
}

// BuildTitle constructs a readable theme title from the topic and key
// players, prefixed for competitor themes.
func BuildTitle(topic string, keyPlayers []string, isCompetitor bool) string {
	prefix := ""
	if isCompetitor {
		prefix = CompetitorPrefix
	}

	display := titleCase(topic)

	switch {
	case len(keyPlayers) > 2:
		return fmt.Sprintf("%s%s: %s, %s and %d others",
			prefix, display, keyPlayers[0], keyPlayers[1], len(keyPlayers)-2)
	case len(keyPlayers) == 2:
		return fmt.Sprintf("%s%s: %s and %s", prefix, display, keyPlayers[0], keyPlayers[1])
	case len(keyPlayers) == 1:
		return fmt.Sprintf("%s%s: %s", prefix, display, keyPlayers[0])
	default:
		return prefix + display
	}
}

// Synthesize clusters signals by topic, builds a draft per cluster, and
// returns the drafts ranked. Narrative fields are left empty for the
// generation stage.
func Synthesize(sigs []signals.Signal, competitorThreshold float64) []Draft {
	if len(sigs) == 0 {
		return nil
	}

	if competitorThreshold <= 0 {
		competitorThreshold = DefaultCompetitorThreshold
	}

	clusters := Cluster(sigs)

	// First-seen topic order keeps tie ranking deterministic.
	topics := make([]string, 0, len(clusters))
	seen := make(map[string]bool)
	for _, s := range sigs {
		topic := strings.ToLower(strings.TrimSpace(s.Topic))
		if !seen[topic] {
			seen[topic] = true
			topics = append(topics, topic)
		}
	}

	drafts := make([]Draft, 0, len(clusters))
	for _, topic := range topics {
		cluster := clusters[topic]
		isCompetitor := IsCompetitorTheme(cluster, competitorThreshold)
		keyPlayers := CollectKeyPlayers(cluster)

		drafts = append(drafts, Draft{
			Topic:               topic,
			Title:               BuildTitle(topic, keyPlayers, isCompetitor),
			Signals:             cluster,
			KeyPlayers:          keyPlayers,
			Competitors:         CompetitorEntities(cluster),
			AggregateConfidence: AggregateConfidence(cluster),
			ImpactAreas:         CollectImpactAreas(cluster),
			IsCompetitor:        isCompetitor,
		})
	}

	Rank(drafts)
	return drafts
}

// Rank sorts drafts in place, highest priority first: competitor themes,
// then impact area count, signal count, and confidence. The sort is stable
// so equal-ranked themes keep their relative order.
func Rank(drafts []Draft) {
	confidenceRank := map[string]int{
		classify.ConfidenceHigh:   3,
		classify.ConfidenceMedium: 2,
		classify.ConfidenceLow:    1,
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		a, b := drafts[i], drafts[j]

		if a.IsCompetitor != b.IsCompetitor {
			return a.IsCompetitor
		}
		if len(a.ImpactAreas) != len(b.ImpactAreas) {
			return len(a.ImpactAreas) > len(b.ImpactAreas)
		}
		if len(a.Signals) != len(b.Signals) {
			return len(a.Signals) > len(b.Signals)
		}
		return confidenceRank[a.AggregateConfidence] > confidenceRank[b.AggregateConfidence]
	})
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
