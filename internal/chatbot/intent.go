package chatbot

import (
	"strings"
	"unicode"

	"github.com/frahmantamala/onboarding-portal/internal/query"
)

type QueryType string

const (
	QueryCount  QueryType = "count"
	QueryFind   QueryType = "find"
	QueryStats  QueryType = "stats"
	QuerySchema QueryType = "schema"
)

// Intent is the structured form of an HR question. Collection is empty only for
// schema questions that do not name a collection.
type Intent struct {
	Type       QueryType     `json:"type"`
	Collection string        `json:"collection,omitempty"`
	Filters    query.Filters `json:"filters"`
}

var (
	countKeywords  = phrases("how many", "count", "total", "number of")
	findKeywords   = phrases("show", "find", "get", "list", "view", "retrieve")
	statsKeywords  = phrases("statistics", "stats", "breakdown", "summary", "analyze")
	schemaKeywords = phrases("fields", "columns", "available", "what can i", "schema")

	// qualifierTerms turn "engineering employees" into a query without an explicit verb.
	qualifierTerms = phrases(
		"active", "inactive", "accepted", "rejected", "pending", "under review", "in progress",
		"completed", "expired", "offered", "submitted", "approved",
		"engineering", "sales", "hr", "marketing", "finance", "operations",
	)
)

type alias struct {
	phrase     []string
	collection string
}

var collectionAliases = []alias{
	{phrase("candidate"), query.CollectionCandidates},
	{phrase("candidates"), query.CollectionCandidates},
	{phrase("applicant"), query.CollectionCandidates},
	{phrase("applicants"), query.CollectionCandidates},
	{phrase("employee"), query.CollectionEmployees},
	{phrase("employees"), query.CollectionEmployees},
	{phrase("staff"), query.CollectionEmployees},
	{phrase("team member"), query.CollectionEmployees},
	{phrase("team members"), query.CollectionEmployees},
	{phrase("onboarding"), query.CollectionOnboardingSubmissions},
	{phrase("onboarding submission"), query.CollectionOnboardingSubmissions},
	{phrase("onboarding submissions"), query.CollectionOnboardingSubmissions},
	{phrase("submission"), query.CollectionOnboardingSubmissions},
	{phrase("submissions"), query.CollectionOnboardingSubmissions},
	{phrase("new joiner"), query.CollectionOnboardingSubmissions},
	{phrase("new joiners"), query.CollectionOnboardingSubmissions},
	{phrase("user"), query.CollectionUsers},
	{phrase("users"), query.CollectionUsers},
	{phrase("account"), query.CollectionUsers},
	{phrase("accounts"), query.CollectionUsers},
	{phrase("user accounts"), query.CollectionUsers},
}

type synonym struct {
	phrase []string
	value  any
}

type statusTable struct {
	field    string
	synonyms []synonym
}

// Entries are ordered so that the more specific phrase is tried first.
var statusTables = map[string]statusTable{
	query.CollectionCandidates: {
		field: "offerStatus",
		synonyms: []synonym{
			{phrase("offer accepted"), "ACCEPTED"},
			{phrase("accepted offers"), "ACCEPTED"},
			{phrase("accepted offer"), "ACCEPTED"},
			{phrase("accepted"), "ACCEPTED"},
			{phrase("rejected"), "REJECTED"},
			{phrase("declined"), "REJECTED"},
			{phrase("expired"), "EXPIRED"},
			{phrase("offered"), "OFFERED"},
			{phrase("pending"), "OFFERED"},
		},
	},
	query.CollectionOnboardingSubmissions: {
		field: "status",
		synonyms: []synonym{
			{phrase("pass accepted"), "PASS_ACCEPTED"},
			{phrase("pass sent"), "PASS_SENT"},
			{phrase("accepted"), "PASS_ACCEPTED"},
			{phrase("completed"), "PASS_ACCEPTED"},
			{phrase("rejected"), "REJECTED"},
			{phrase("under review"), "SUBMITTED"},
			{phrase("submitted"), "SUBMITTED"},
			{phrase("pending"), "SUBMITTED"},
			{phrase("approved"), "PASS_SENT"},
		},
	},
	query.CollectionEmployees: {
		field: "isActive",
		synonyms: []synonym{
			{phrase("inactive"), false},
			{phrase("active"), true},
		},
	},
	query.CollectionUsers: {
		field: "isActive",
		synonyms: []synonym{
			{phrase("inactive"), false},
			{phrase("active"), true},
		},
	},
}

var departmentSynonyms = []synonym{
	{phrase("engineering"), "Engineering"},
	{phrase("engineers"), "Engineering"},
	{phrase("engineer"), "Engineering"},
	{phrase("human resources"), "HR"},
	{phrase("hr"), "HR"},
	{phrase("sales"), "Sales"},
	{phrase("marketing"), "Marketing"},
	{phrase("finance"), "Finance"},
	{phrase("operations"), "Operations"},
}

type rule struct {
	queryType QueryType
	matches   func(words []string) bool
}

// rules are evaluated in priority order; the first match decides the query type.
var rules = []rule{
	{QuerySchema, containsAny(schemaKeywords)},
	{QueryStats, containsAny(statsKeywords)},
	{QueryCount, containsAny(countKeywords)},
	{QueryFind, containsAny(findKeywords)},
	{QueryFind, func(words []string) bool {
		return containsAny(qualifierTerms)(words) && resolveCollection(words) != ""
	}},
}

// ParseIntent maps a free-text HR question to a query. It returns nil when the
// message is not a database question so the caller can fall back to the assistant.
func ParseIntent(message string) *Intent {
	words := tokenize(message)
	if len(words) == 0 {
		return nil
	}

	var queryType QueryType
	for _, r := range rules {
		if r.matches(words) {
			queryType = r.queryType
			break
		}
	}
	if queryType == "" {
		return nil
	}

	collection := resolveCollection(words)
	if collection == "" {
		if queryType == QuerySchema {
			return &Intent{Type: QuerySchema, Filters: query.Filters{}}
		}
		return nil
	}

	intent := &Intent{Type: queryType, Collection: collection, Filters: query.Filters{}}
	if queryType == QueryCount || queryType == QueryFind {
		intent.Filters = parseFilters(words, collection)
	}
	return intent
}

func parseFilters(words []string, collection string) query.Filters {
	filters := query.Filters{}

	if table, ok := statusTables[collection]; ok {
		if value, ok := firstMatch(words, table.synonyms); ok {
			filters[table.field] = value
		}
	}

	if collection == query.CollectionEmployees {
		if value, ok := firstMatch(words, departmentSynonyms); ok {
			filters["department"] = value
		}
	}

	return filters
}

// resolveCollection picks the longest matching alias; ties go to the earlier table entry.
func resolveCollection(words []string) string {
	best, bestLen := "", 0
	for _, a := range collectionAliases {
		if len(a.phrase) > bestLen && containsPhrase(words, a.phrase) {
			best, bestLen = a.collection, len(a.phrase)
		}
	}
	return best
}

func firstMatch(words []string, synonyms []synonym) (any, bool) {
	for _, s := range synonyms {
		if containsPhrase(words, s.phrase) {
			return s.value, true
		}
	}
	return nil, false
}

func containsAny(set [][]string) func([]string) bool {
	return func(words []string) bool {
		for _, p := range set {
			if containsPhrase(words, p) {
				return true
			}
		}
		return false
	}
}

// containsPhrase reports whether phrase occurs as a run of whole words.
func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, p := range phrase {
			if words[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func phrase(s string) []string {
	return tokenize(s)
}

func phrases(list ...string) [][]string {
	out := make([][]string, len(list))
	for i, s := range list {
		out[i] = phrase(s)
	}
	return out
}
