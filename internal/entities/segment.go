package entities

import "strings"

// Production and editorial service providers.
var competitorKeywords = []string{
	"kriyadocs", "knowledgeworks", "cactus", "editage", "spi global",
	"straive", "integra", "tnq", "exeter", "aptara", "mps", "newgen",
	"aries", "scholarone", "ejournal",
}

// Blogs, news sites, and thought leaders.
var influencerKeywords = []string{
	"scholarly kitchen", "science editor", "publishing perspectives",
	"knowledge speak", "retraction watch", "plos blog", "stm publishing",
}

var industryOrgKeywords = []string{
	"stm association", "ismte", "cse", "ssp", "cope", "doaj",
	"crossref", "orcid", "oaspa",
}

// Publishers are treated as customers.
var publisherKeywords = []string{
	"springer", "elsevier", "wiley", "sage", "taylor", "oxford",
	"cambridge", "nature", "science", "plos", "frontiers", "mdpi",
	"bmc", "karger", "thieme", "wolters kluwer",
}

var influencerFallbackKeywords = []string{
	"blog", "news", "watch", "kitchen", "perspectives",
}

// InferSegment derives a segment for an auto-created entity from keywords
// in its name. Keyword groups are checked in priority order; names matching
// nothing default to industry unless they look like a publication.
func InferSegment(name string) string {
	lower := strings.ToLower(name)

	if containsAny(lower, competitorKeywords) {
		return SegmentCompetitor
	}
	if containsAny(lower, influencerKeywords) {
		return SegmentInfluencer
	}
	if containsAny(lower, industryOrgKeywords) {
		return SegmentIndustry
	}
	if containsAny(lower, publisherKeywords) {
		return SegmentCustomer
	}
	if containsAny(lower, influencerFallbackKeywords) {
		return SegmentInfluencer
	}

	return SegmentIndustry
}

// ValidSegment reports whether s is a recognized segment value.
func ValidSegment(s string) bool {
	switch s {
	case SegmentCustomer, SegmentCompetitor, SegmentIndustry, SegmentInfluencer:
		return true
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
