package classify_test

import (
	"testing"

	"github.com/JaimeStill/vantage/internal/classify"
)

func TestClassifyAccepted(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		eventType string
		topic     string
		areas     []string
	}{
		{
			name:      "announcement with open access topic",
			text:      "Publisher announces new open access policy for all journals",
			eventType: classify.EventAnnouncement,
			topic:     "Open Access",
			areas:     []string{classify.AreaOps},
		},
		{
			name:      "workflow platform announcement",
			text:      "New editorial workflow platform announced for manuscript processing",
			eventType: classify.EventAnnouncement,
			topic:     "Workflow",
			areas:     []string{classify.AreaOps, classify.AreaTech},
		},
		{
			name:      "topic without event falls back to other",
			text:      "Concerns about research integrity misconduct in journals",
			eventType: classify.EventOther,
			topic:     "Integrity",
			areas:     []string{classify.AreaIntegrity},
		},
		{
			name:      "no impact keywords defaults to ops",
			text:      "New preprint posted on biorxiv describes study results",
			eventType: classify.EventOther,
			topic:     "Preprints",
			areas:     []string{classify.AreaOps},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := classify.Classify(tt.text)
			if !ok {
				t.Fatalf("Classify(%q) rejected, want accepted", tt.text)
			}
			if result.EventType != tt.eventType {
				t.Errorf("event type: got %q, want %q", result.EventType, tt.eventType)
			}
			if result.Topic != tt.topic {
				t.Errorf("topic: got %q, want %q", result.Topic, tt.topic)
			}
			if len(result.ImpactAreas) != len(tt.areas) {
				t.Fatalf("impact areas: got %v, want %v", result.ImpactAreas, tt.areas)
			}
			for i, area := range result.ImpactAreas {
				if area != tt.areas[i] {
					t.Errorf("impact area [%d]: got %q, want %q", i, area, tt.areas[i])
				}
			}
		})
	}
}

func TestClassifyRejected(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "toc alert noise",
			text: "Journal of Publishing TOC Alert: Volume 12, Issue 3",
		},
		{
			name: "noise dominates relevance keywords",
			text: "Open access research highlights: table of contents for this month",
		},
		{
			name: "subscription boilerplate",
			text: "Subscribe to our newsletter for weekly publishing updates",
		},
		{
			name: "short generic text",
			text: "Quarterly update from the team",
		},
		{
			name: "event without topic too generic",
			text: "Company announces quarterly results for fiscal year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result, ok := classify.Classify(tt.text); ok {
				t.Errorf("Classify(%q) accepted as %+v, want rejected", tt.text, result)
			}
		})
	}
}

func TestClassifyAcceptedAlwaysComplete(t *testing.T) {
	// Accepted results must always carry a topic and at least one impact area.
	texts := []string{
		"Publisher announces new open access policy for all journals",
		"Major acquisition of peer review system vendor completed",
		"New preprint posted on biorxiv describes study results",
	}

	for _, text := range texts {
		result, ok := classify.Classify(text)
		if !ok {
			continue
		}
		if result.Topic == "" {
			t.Errorf("Classify(%q) accepted with empty topic", text)
		}
		if len(result.ImpactAreas) == 0 {
			t.Errorf("Classify(%q) accepted with no impact areas", text)
		}
		if result.EventType == "" {
			t.Errorf("Classify(%q) accepted with empty event type", text)
		}
	}
}

func TestAssignConfidence(t *testing.T) {
	tests := []struct {
		sourceType string
		quality    string
		want       string
	}{
		{"rss", classify.QualityGood, classify.ConfidenceHigh},
		{"rss", classify.QualityMedium, classify.ConfidenceMedium},
		{"email", classify.QualityGood, classify.ConfidenceHigh},
		{"web", classify.QualityGood, classify.ConfidenceMedium},
		{"web", classify.QualityPoor, classify.ConfidenceLow},
		{"linkedin", classify.QualityMedium, classify.ConfidenceLow},
		{"unknown", classify.QualityGood, classify.ConfidenceMedium},
	}

	for _, tt := range tests {
		got := classify.AssignConfidence(tt.sourceType, tt.quality)
		if got != tt.want {
			t.Errorf("AssignConfidence(%q, %q) = %q, want %q", tt.sourceType, tt.quality, got, tt.want)
		}
	}
}

func TestValidators(t *testing.T) {
	if !classify.ValidEventType(classify.EventPartnership) {
		t.Error("partnership should be a valid event type")
	}
	if classify.ValidEventType("earnings") {
		t.Error("earnings should not be a valid event type")
	}
	if !classify.ValidConfidence(classify.ConfidenceHigh) {
		t.Error("High should be a valid confidence")
	}
	if classify.ValidConfidence("high") {
		t.Error("confidence is case sensitive")
	}
	if !classify.ValidImpactArea(classify.AreaProcurement) {
		t.Error("Procurement should be a valid impact area")
	}
	if classify.ValidImpactArea("Finance") {
		t.Error("Finance should not be a valid impact area")
	}
}
