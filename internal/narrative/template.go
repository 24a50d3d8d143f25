package narrative

import (
	"fmt"

	"github.com/JaimeStill/vantage/internal/classify"
)

// soWhatTemplate builds a deterministic "So What" containing the literal
// topic and, for single-entity themes, the entity name.
func soWhatTemplate(tc Context) string {
	entities := uniqueEntities(tc)

	if len(entities) > 1 {
		return fmt.Sprintf(
			"Multiple players (%d entities) are moving on %s, indicating a broader market shift. This impacts %s for STM suppliers.",
			len(entities), tc.Topic, impactText(tc),
		)
	}

	entity := "Industry"
	if len(entities) == 1 {
		entity = entities[0]
	}

	return fmt.Sprintf(
		"%s is making moves on %s. This development affects %s and may signal competitive positioning.",
		entity, tc.Topic, impactText(tc),
	)
}

// nowWhatTemplate builds deterministic action bullets referencing the topic
// and contributing entities.
func nowWhatTemplate(tc Context) []string {
	entities := uniqueEntities(tc)
	actions := make([]string, 0, 3)

	if len(entities) > 1 {
		named := entities
		if len(named) > 3 {
			named = named[:3]
		}
		list := named[0]
		for _, e := range named[1:] {
			list += ", " + e
		}
		actions = append(actions, fmt.Sprintf("Monitor developments from %s on %s", list, tc.Topic))
	} else if len(entities) == 1 {
		actions = append(actions, fmt.Sprintf("Track %s's progress on %s for competitive insights", entities[0], tc.Topic))
	} else {
		actions = append(actions, fmt.Sprintf("Monitor industry developments on %s", tc.Topic))
	}

	switch {
	case contains(tc.ImpactAreas, classify.AreaOps):
		actions = append(actions, "Review operational implications and prepare client talking points")
	case contains(tc.ImpactAreas, classify.AreaTech):
		actions = append(actions, "Assess technology implications for product roadmap discussions")
	case contains(tc.ImpactAreas, classify.AreaIntegrity):
		actions = append(actions, "Prepare integrity/compliance messaging for affected clients")
	case contains(tc.ImpactAreas, classify.AreaProcurement):
		actions = append(actions, "Identify procurement opportunities arising from this development")
	default:
		actions = append(actions, "Prepare briefing materials for client conversations")
	}

	actions = append(actions, "Consider proactive outreach to clients who may be impacted")
	return actions
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
