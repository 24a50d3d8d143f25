package narrative

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxPromptSignals caps the numbered evidence list in prompts.
const maxPromptSignals = 20

// maxEvidenceChars caps the evidence snippet length per numbered signal.
const maxEvidenceChars = 200

// numberedSignals renders the cluster's evidence as "Signal N: entity - snippet"
// lines. The numbering is what bracket citations refer to.
func numberedSignals(tc Context) string {
	var b strings.Builder

	count := len(tc.Signals)
	if count > maxPromptSignals {
		count = maxPromptSignals
	}

	for i := 0; i < count; i++ {
		s := tc.Signals[i]
		snippet := truncateEvidence(s.EvidenceSnippet, maxEvidenceChars)
		fmt.Fprintf(&b, "Signal %d: %s - %s\n", i+1, s.Entity, snippet)
	}

	return strings.TrimRight(b.String(), "\n")
}

func truncateEvidence(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	// Never split a multi-byte character at the boundary.
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func uniqueEntities(tc Context) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range tc.Signals {
		if !seen[s.Entity] {
			seen[s.Entity] = true
			out = append(out, s.Entity)
		}
	}
	return out
}

func uniqueEventTypes(tc Context) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range tc.Signals {
		if !seen[s.EventType] {
			seen[s.EventType] = true
			out = append(out, s.EventType)
		}
	}
	return out
}

func impactText(tc Context) string {
	if len(tc.ImpactAreas) == 0 {
		return "multiple areas"
	}
	return strings.Join(tc.ImpactAreas, ", ")
}

func competitorContext(tc Context, focus string) string {
	if !tc.IsCompetitor {
		return ""
	}
	return fmt.Sprintf(
		"\nCOMPETITIVE INTELLIGENCE: This theme involves your direct competitors: %s\n%s",
		strings.Join(tc.Competitors, ", "),
		focus,
	)
}

func buildSoWhatPrompt(tc Context) string {
	return fmt.Sprintf(`STRICT RULE: You MUST write your response WITHOUT the phrases "According to Signal" or "Signal X shows/reveals/indicates".
Instead, write naturally and add [X] citations at the end of sentences, exactly like academic papers.

ACCEPTABLE START: "Taylor & Francis partnered with Hiroshima University [1], indicating..."
FORBIDDEN START: "According to Signal 1, Taylor & Francis..."
FORBIDDEN START: "Signal 1 shows that..."

Your task: Write a "Why This Matters" section for a weekly intelligence brief for STM (Scientific, Technical, Medical) publishing sales teams.

Topic: %s
Entities involved: %s
Event types: %s
Impact areas: %s%s

Evidence from signals:
%s

MANDATORY FORMAT REQUIREMENTS:
1. Start your first sentence with the key insight or entity name - NOT with "According to" or "Signal"
2. Add [X] citation at the end of each fact-based sentence
3. Write 1-2 sentences total
4. Be specific about business implications for STM publishing suppliers

CRITICAL GROUNDING REQUIREMENTS:
- Use ONLY inline citations [X] - never "According to Signal X" or "Signal X shows"
- Place [X] immediately after each claim that comes from that signal
- Base ALL analysis on the numbered signals provided above
- Do NOT make claims that go beyond what the evidence explicitly states
- Reference specific entities, data points, and events from the signals
- When mentioning insights from multiple signals, cite all relevant sources [1][3][5]

Write 1-2 sentences explaining WHY this matters for STM publishing suppliers (companies that provide editorial, production, and technology services to publishers). Focus on:
- Market shifts or competitive dynamics clearly evidenced in the signals
- Business implications that can be directly inferred from the specific events mentioned
- Strategic importance based on the actual entities and developments listed

REQUIRED FORMAT: Start with your key insight, then use inline citations [X] to ground claims in evidence.
NEVER use "According to Signal X" or "Signal X shows" - ONLY use inline citations [X].`,
		tc.Topic,
		strings.Join(uniqueEntities(tc), ", "),
		strings.Join(uniqueEventTypes(tc), ", "),
		impactText(tc),
		competitorContext(tc, "Focus on competitive implications, market positioning, and strategic threats."),
		numberedSignals(tc),
	)
}

func buildNowWhatPrompt(tc Context) string {
	return fmt.Sprintf(`STRICT RULE: Do NOT start actions with "According to Signal" or "based on Signal".
Use inline citations [X] after entity/initiative names only when citing specific developments.

You are writing an "Action Items" section for a weekly intelligence brief for STM (Scientific, Technical, Medical) publishing sales teams.

Topic: %s
Entities involved: %s
Event types: %s
Impact areas: %s%s

Evidence from signals:
%s

CRITICAL REQUIREMENTS FOR ACTIONABILITY:
1. Be SPECIFIC about WHO (which clients/prospects, by name or category)
2. Be SPECIFIC about WHAT (exact action, not "discuss" or "engage")
3. Be SPECIFIC about HOW (talking points, offering, or approach)
4. Include CONCRETE details from the signals (entity names, specific initiatives)
5. Use inline citations [X] - NEVER "According to Signal X" or "based on Signal X"

CRITICAL GROUNDING REQUIREMENTS:
- Base recommendations ONLY on the numbered signals provided above
- Do NOT suggest actions based on assumptions beyond what the evidence shows
- ALWAYS mention specific entity names from the signals in your actions
- Place [X] immediately after each entity/initiative reference from signals
- Each action must reference at least one concrete entity or initiative from the signals

Generate 2-3 HIGHLY SPECIFIC, ACTIONABLE bullet points that sales teams at STM publishing service providers should take.

Each action MUST include:
1. WHO: Specific client segment, role, or publisher type
2. WHAT: Concrete action, not vague verbs (use "Schedule demo", "Send case study", "Propose pilot")
3. ENTITY/INITIATIVE: Reference actual entity names and developments from the signals with inline citation [X]
4. HOW: Specific positioning, talking points, or value proposition

Return ONLY the bullet points, one per line, without numbering or bullet symbols.`,
		tc.Topic,
		strings.Join(uniqueEntities(tc), ", "),
		strings.Join(uniqueEventTypes(tc), ", "),
		impactText(tc),
		competitorContext(tc, "Focus on competitive response actions, defensive strategies, and opportunities to differentiate."),
		numberedSignals(tc),
	)
}
