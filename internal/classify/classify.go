// Package classify implements keyword-based signal classification and
// relevance filtering for collected text. It is pure computation with no
// external dependencies: callers pass combined title+description text and
// receive an event type, topic, and impact areas, or a rejection.
package classify

import "strings"

// Result holds the classification of an accepted text.
type Result struct {
	EventType   string   `json:"event_type"`
	Topic       string   `json:"topic"`
	ImpactAreas []string `json:"impact_areas"`
}

// Classify runs relevance filtering and keyword classification over text.
// The second return value is false when the text is rejected: either it
// matches a noise pattern, it is too short and generic, or no topic could
// be detected. Every accepted result carries a topic and at least one
// impact area.
//
// Keyword groups are scanned in fixed priority order and the first matching
// group wins for event type and topic, so tie-breaks are reproducible.
func Classify(text string) (*Result, bool) {
	lower := strings.ToLower(text)

	if !Relevant(lower) {
		return nil, false
	}

	eventType := ""
	for _, group := range eventTypeGroups {
		if matchesAny(lower, group.keywords) {
			eventType = group.name
			break
		}
	}

	topic := ""
	for _, group := range topicGroups {
		if matchesAny(lower, group.keywords) {
			topic = group.name
			break
		}
	}

	// Too generic: neither an event nor a topic was detected.
	if eventType == "" && topic == "" {
		return nil, false
	}

	// An event without a topic is still too generic to cluster.
	if topic == "" {
		return nil, false
	}

	if eventType == "" {
		eventType = EventOther
	}

	areas := make([]string, 0, len(impactAreaGroups))
	for _, group := range impactAreaGroups {
		if matchesAny(lower, group.keywords) {
			areas = append(areas, group.name)
		}
	}

	if len(areas) == 0 {
		areas = []string{AreaOps}
	}

	return &Result{
		EventType:   eventType,
		Topic:       topic,
		ImpactAreas: areas,
	}, true
}

// Relevant reports whether lowercased text passes the relevance gate.
// Text matching any noise pattern is rejected regardless of its other
// content. Short text with no relevance keyword is rejected as well.
func Relevant(lower string) bool {
	for _, pattern := range noisePatterns {
		if pattern.MatchString(lower) {
			return false
		}
	}

	if len(lower) < minRelevantLength && !matchesAny(lower, relevanceKeywords) {
		return false
	}

	return true
}

// AssignConfidence maps a data source type and classification quality to a
// confidence level. Feed and mail sources are generally reliable; scraped
// sources are not.
func AssignConfidence(sourceType, quality string) string {
	switch sourceType {
	case "rss", "email":
		if quality == QualityGood {
			return ConfidenceHigh
		}
		return ConfidenceMedium
	case "web", "linkedin":
		if quality == QualityGood {
			return ConfidenceMedium
		}
		return ConfidenceLow
	}
	return ConfidenceMedium
}

// ValidEventType reports whether v is a recognized event type.
func ValidEventType(v string) bool {
	switch v {
	case EventAnnouncement, EventPolicy, EventPartnership, EventHire,
		EventMA, EventLaunch, EventRetraction, EventServiceModel, EventOther:
		return true
	}
	return false
}

// ValidConfidence reports whether v is a recognized confidence level.
func ValidConfidence(v string) bool {
	switch v {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// ValidImpactArea reports whether v is a recognized impact area.
func ValidImpactArea(v string) bool {
	switch v {
	case AreaOps, AreaTech, AreaIntegrity, AreaProcurement:
		return true
	}
	return false
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
