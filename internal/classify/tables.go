package classify

import "regexp"

// Event types assigned to classified signals.
const (
	EventAnnouncement = "announcement"
	EventPolicy       = "policy"
	EventPartnership  = "partnership"
	EventHire         = "hire"
	EventMA           = "m&a"
	EventLaunch       = "launch"
	EventRetraction   = "retraction"
	EventServiceModel = "service_model"
	EventOther        = "other"
)

// Confidence levels carried by signals.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Classification quality hints for AssignConfidence.
const (
	QualityGood   = "good"
	QualityMedium = "medium"
	QualityPoor   = "poor"
)

// Impact areas assigned to classified signals.
const (
	AreaOps         = "Ops"
	AreaTech        = "Tech"
	AreaIntegrity   = "Integrity"
	AreaProcurement = "Procurement"
)

// minRelevantLength is the length below which text must contain a relevance
// keyword to be accepted.
const minRelevantLength = 100

type keywordGroup struct {
	name     string
	keywords []string
}

// eventTypeGroups is scanned in order; the first matching group wins.
var eventTypeGroups = []keywordGroup{
	{EventAnnouncement, []string{"announce", "announces", "announced", "launch", "introduce", "unveil", "reveal", "release"}},
	{EventPolicy, []string{"policy", "policies", "mandate", "mandates", "requirement", "requirements", "regulation", "guideline", "guidelines"}},
	{EventPartnership, []string{"partner", "partnership", "collaboration", "collaborate", "alliance", "agreement", "joint", "together with"}},
	{EventHire, []string{"appoint", "appointed", "hire", "hired", "join", "joins", "joined", "promote", "promoted", "executive", "ceo", "cto", "cio"}},
	{EventMA, []string{"acquire", "acquired", "acquisition", "merger", "merges", "merged", "buy", "buys", "bought", "purchase", "purchased"}},
	{EventLaunch, []string{"release", "released", "debut", "debuting", "available", "new product", "new service", "new platform"}},
	{EventRetraction, []string{"retract", "retraction", "withdraw", "withdrawn", "correction", "erratum"}},
	{EventServiceModel, []string{"onshore", "offshore", "nearshore", "delivery model", "staffing", "team structure", "service offering", "editorial team"}},
}

// topicGroups is scanned in order; the first matching group wins.
var topicGroups = []keywordGroup{
	{"Open Access", []string{"open access", "oa", "plan s", "green oa", "gold oa", "diamond oa", "apc", "article processing"}},
	{"Integrity", []string{"retraction", "misconduct", "plagiarism", "ethics", "peer review", "research integrity", "fabrication", "falsification"}},
	{"AI/ML", []string{"artificial intelligence", "machine learning", "ai", "ml", "neural network", "deep learning", "chatgpt", "generative ai"}},
	{"Workflow", []string{"workflow", "editorial", "submission", "peer review system", "manuscript", "publishing platform"}},
	{"Data", []string{"data sharing", "data policy", "fair data", "research data", "data repository"}},
	{"Preprints", []string{"preprint", "preprints", "biorxiv", "arxiv", "medrxiv", "prepublication"}},
	{"Accessibility", []string{"accessibility", "wcag", "ada", "inclusive design", "accessible publishing", "screen reader", "alt text", "inclusive", "disability"}},
	{"Production Platforms", []string{"publisher central", "editorial system", "publishing platform", "cms", "content management", "production platform", "manuscript system"}},
	{"Delivery Models", []string{"onshore", "offshore", "nearshore", "outsourcing", "delivery model", "service model", "team structure", "staffing model"}},
}

// impactAreaGroups is scanned exhaustively; every matching group applies.
var impactAreaGroups = []keywordGroup{
	{AreaOps, []string{"operation", "operational", "workflow", "process", "editorial", "production", "publishing"}},
	{AreaTech, []string{"technology", "technical", "platform", "system", "infrastructure", "software", "digital", "api"}},
	{AreaIntegrity, []string{"integrity", "ethics", "ethical", "retraction", "misconduct", "compliance", "standards"}},
	{AreaProcurement, []string{"contract", "procurement", "purchasing", "vendor", "cost", "pricing", "subscription", "licensing"}},
}

// noisePatterns reject content regardless of keyword matches elsewhere:
// table-of-contents alerts, bare journal-name items, and subscription
// boilerplate.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`volume \d+, issue \d+`),
	regexp.MustCompile(`toc alert`),
	regexp.MustCompile(`table of contents`),
	regexp.MustCompile(`latest articles from`),
	regexp.MustCompile(`new articles in`),
	regexp.MustCompile(`^\s*science\s*$`),
	regexp.MustCompile(`^\s*nature\s*$`),
	regexp.MustCompile(`subscribe to`),
	regexp.MustCompile(`email alert`),
	regexp.MustCompile(`rss feed for`),
}

// relevanceKeywords gate short text: at least one must occur for short
// content to be considered relevant.
var relevanceKeywords = []string{
	"publish", "publication", "journal", "article", "manuscript",
	"peer review", "editorial", "editor", "author",
	"research", "study", "findings", "discovery", "breakthrough",
	"open access", "retraction", "preprint", "integrity",
	"ai", "artificial intelligence", "machine learning",
	"data", "policy", "mandate", "guideline",
	"acquire", "merger", "partnership", "launch", "announce",
	"platform", "service", "workflow", "system",
	"publisher", "society", "association", "university press",
	"crossref", "orcid", "doi",
}
