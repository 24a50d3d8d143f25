package narrative

import "regexp"

// Rewrite rules converting provenance phrasing ("According to Signal X")
// into inline bracket citations. Applied to every generated text before it
// is stored; the evaluator treats leftover provenance phrasing as a
// grounding issue.
var citationRewrites = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{
		regexp.MustCompile(`According to Signal (\d+),\s*([^,]+?)\s*,\s*(indicating|suggesting|highlighting|showing)`),
		"$2 [$1], $3",
	},
	{
		regexp.MustCompile(`Signal (\d+) (?:shows|reveals|indicates) that\s+([^,]+)`),
		"$2 [$1]",
	},
	{
		regexp.MustCompile(`Signals (\d+) and (\d+) (?:indicate|show|reveal)(?:\s+that)?\s+([^,]+)`),
		"$3 [$1][$2]",
	},
	{
		regexp.MustCompile(`(?:Additionally|Furthermore),?\s+Signal (\d+) reveals that\s+([^,]+)`),
		"Additionally, $2 [$1]",
	},
	{
		regexp.MustCompile(`as noted in Signals (\d+) and (\d+)`),
		"[$1][$2]",
	},
}

// ConvertToInlineCitations rewrites "According to Signal X" style phrasing
// into inline [X] citations.
func ConvertToInlineCitations(text string) string {
	for _, r := range citationRewrites {
		text = r.pattern.ReplaceAllString(text, r.replace)
	}
	return text
}
