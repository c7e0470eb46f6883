// Package classify normalizes raw registry listings: lodging-type tagging via
// a keyword priority chain, region extraction, operating-status filtering and
// the coarse target-area gate.
package classify

import (
	"strings"

	"stay_syncer/internal/domain"
)

// Rule maps a keyword list to a normalized tag. Keywords match as
// case-insensitive substrings; rule order decides ties.
type Rule struct {
	Tag      string
	Keywords []string
}

// RuleSet is an ordered keyword table. The zero value matches nothing.
type RuleSet struct {
	rules []Rule
}

func NewRuleSet(rules []Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Classify returns the tag of the first rule containing a keyword found in
// label, and false when the label is empty or no rule matches.
func (r *RuleSet) Classify(label string) (string, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "", false
	}
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(label, kw) {
				return rule.Tag, true
			}
		}
	}
	return "", false
}

// DefaultTypeRules is the lodging-type taxonomy. Keywords are stored
// lowercase; the registry mixes Korean and Latin-script labels.
func DefaultTypeRules() []Rule {
	return []Rule{
		{Tag: domain.TypeHotel, Keywords: []string{"호텔", "hotel"}},
		{Tag: domain.TypeResort, Keywords: []string{"리조트", "resort"}},
		{Tag: domain.TypePension, Keywords: []string{"펜션", "pension"}},
		{Tag: domain.TypePoolVilla, Keywords: []string{"풀빌라", "pool villa", "풀 빌라"}},
		{Tag: domain.TypeGuesthouse, Keywords: []string{"게스트하우스", "guesthouse", "guest house", "게하"}},
		{Tag: domain.TypeHostel, Keywords: []string{"호스텔", "hostel"}},
		{Tag: domain.TypeHanok, Keywords: []string{"한옥"}},
		{Tag: domain.TypeMotel, Keywords: []string{"모텔", "motel"}},
		{Tag: domain.TypeMinbak, Keywords: []string{"민박", "homestay", "home stay"}},
	}
}

// FieldRule pairs a listing field selector with the keyword table applied to
// it. TypeResolver walks these in order.
type FieldRule struct {
	Field  string // decided-by label for logging
	Select func(domain.Listing) string
	Table  *RuleSet
}

// TypeResolver resolves a listing to a lodging-type tag by running the
// keyword table over candidate fields in priority order. Classification
// hints come first; the business name is marketing text and least reliable.
type TypeResolver struct {
	chain      []FieldRule
	defaultTag string
}

func NewTypeResolver(table *RuleSet, defaultTag string) *TypeResolver {
	return &TypeResolver{
		chain: []FieldRule{
			{Field: "industry_name", Select: func(l domain.Listing) string { return l.IndustryName }, Table: table},
			{Field: "business_state", Select: func(l domain.Listing) string { return l.BusinessStateName }, Table: table},
			{Field: "detail_status", Select: func(l domain.Listing) string { return l.DetailStatusName }, Table: table},
			{Field: "name", Select: func(l domain.Listing) string { return l.Name }, Table: table},
		},
		defaultTag: defaultTag,
	}
}

// Resolve returns the tag of the first field that classifies, plus the field
// that decided it. A miss across the whole chain yields the default tag and
// an empty field.
func (t *TypeResolver) Resolve(l domain.Listing) (tag string, decidedBy string) {
	for _, fr := range t.chain {
		if got, ok := fr.Table.Classify(fr.Select(l)); ok {
			return got, fr.Field
		}
	}
	return t.defaultTag, ""
}

// RegionMatcher extracts a municipality tag from a listing's addresses.
type RegionMatcher struct {
	regions       []string
	defaultRegion string
}

// NewRegionMatcher builds a matcher over the known region tokens. Items
// matching none resolve to defaultRegion: the area gate has already scoped
// the feed, so ambiguous items are kept rather than dropped.
func NewRegionMatcher(regions []string, defaultRegion string) *RegionMatcher {
	return &RegionMatcher{regions: regions, defaultRegion: defaultRegion}
}

// Match tests road address, lot address, then name against each region token.
func (m *RegionMatcher) Match(l domain.Listing) string {
	for _, src := range []string{l.RoadAddress, l.LotAddress, l.Name} {
		if src == "" {
			continue
		}
		for _, region := range m.regions {
			if strings.Contains(src, region) {
				return region
			}
		}
	}
	return m.defaultRegion
}

// StatusFilter decides whether an operating-status label means the business
// is still active.
type StatusFilter struct {
	excluded []string
}

func NewStatusFilter(excluded []string) *StatusFilter {
	lowered := make([]string, len(excluded))
	for i, term := range excluded {
		lowered[i] = strings.ToLower(term)
	}
	return &StatusFilter{excluded: lowered}
}

// IsActive treats an absent label as active; unknown status must not drop a
// listing. A present label is active unless it contains an exclusion term.
func (f *StatusFilter) IsActive(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return true
	}
	for _, term := range f.excluded {
		if strings.Contains(status, term) {
			return false
		}
	}
	return true
}

// AreaGate is the coarse pre-filter restricting ingestion to the broad
// target geography before RegionMatcher narrows to a municipality.
type AreaGate struct {
	token string
}

func NewAreaGate(token string) *AreaGate {
	return &AreaGate{token: token}
}

// InArea checks name, road address, lot address in order, short-circuiting
// on the first field containing the area token.
func (g *AreaGate) InArea(l domain.Listing) bool {
	for _, src := range []string{l.Name, l.RoadAddress, l.LotAddress} {
		if src != "" && strings.Contains(src, g.token) {
			return true
		}
	}
	return false
}
