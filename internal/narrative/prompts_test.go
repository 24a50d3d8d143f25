package narrative

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JaimeStill/vantage/internal/signals"
)

func TestNumberedSignals(t *testing.T) {
	tc := Context{
		Topic: "AI",
		Signals: []signals.Signal{
			{Entity: "Straive", EvidenceSnippet: "Straive launched an AI copilot."},
			{Entity: "Aptara", EvidenceSnippet: "Aptara announced an AI tagging service."},
		},
	}

	got := numberedSignals(tc)

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	if want := "Signal 1: Straive - Straive launched an AI copilot."; lines[0] != want {
		t.Errorf("lines[0] = %q, want %q", lines[0], want)
	}

	if want := "Signal 2: Aptara - Aptara announced an AI tagging service."; lines[1] != want {
		t.Errorf("lines[1] = %q, want %q", lines[1], want)
	}
}

func TestNumberedSignalsCapsCount(t *testing.T) {
	tc := Context{Topic: "AI"}
	for i := 0; i < maxPromptSignals+5; i++ {
		tc.Signals = append(tc.Signals, signals.Signal{
			Entity:          "Straive",
			EvidenceSnippet: "Straive launched an AI copilot.",
		})
	}

	got := numberedSignals(tc)

	if n := len(strings.Split(got, "\n")); n != maxPromptSignals {
		t.Errorf("got %d lines, want %d", n, maxPromptSignals)
	}
}

func TestTruncateEvidenceMultibyteBoundary(t *testing.T) {
	// 199 ASCII bytes followed by two 2-byte runes puts a rune boundary
	// across the cap.
	snippet := strings.Repeat("a", maxEvidenceChars-1) + "éé"

	got := truncateEvidence(snippet, maxEvidenceChars)

	if len(got) > maxEvidenceChars {
		t.Errorf("len = %d, want <= %d", len(got), maxEvidenceChars)
	}

	if !utf8.ValidString(got) {
		t.Errorf("got invalid UTF-8: %q", got)
	}

	if !strings.HasSuffix(got, "a") {
		t.Errorf("got %q, want trailing a", got)
	}
}

func TestTruncateEvidenceShortInput(t *testing.T) {
	if got := truncateEvidence("short", maxEvidenceChars); got != "short" {
		t.Errorf("got %q, want short", got)
	}
}
