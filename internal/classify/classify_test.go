package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stay_syncer/internal/domain"
)

func newTestResolver() *TypeResolver {
	return NewTypeResolver(NewRuleSet(DefaultTypeRules()), domain.TypeMinbak)
}

func TestRuleSet_Classify(t *testing.T) {
	table := NewRuleSet(DefaultTypeRules())

	tests := []struct {
		name  string
		label string
		want  string
		ok    bool
	}{
		{"korean keyword", "제주 시티 호텔", domain.TypeHotel, true},
		{"english keyword uppercase", "OCEAN HOTEL JEJU", domain.TypeHotel, true},
		{"substring inside word", "서귀포게스트하우스2호점", domain.TypeGuesthouse, true},
		{"pool villa", "애월 풀빌라", domain.TypePoolVilla, true},
		{"pension wins over pool villa", "애월 풀빌라 펜션", domain.TypePension, true},
		{"empty label", "", "", false},
		{"whitespace only", "   ", "", false},
		{"no rule matches", "일반음식점", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := table.Classify(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeResolver_HintBeatsName(t *testing.T) {
	resolver := newTestResolver()

	// Industry hint says hotel even though the name screams guesthouse.
	listing := domain.Listing{
		Name:         "바다 게스트하우스",
		IndustryName: "관광호텔업",
	}

	tag, decidedBy := resolver.Resolve(listing)
	assert.Equal(t, domain.TypeHotel, tag)
	assert.Equal(t, "industry_name", decidedBy)
}

func TestTypeResolver_ChainOrder(t *testing.T) {
	resolver := newTestResolver()

	tests := []struct {
		name      string
		listing   domain.Listing
		wantTag   string
		wantField string
	}{
		{
			name:      "business state when industry empty",
			listing:   domain.Listing{Name: "이름없음", BusinessStateName: "펜션업"},
			wantTag:   domain.TypePension,
			wantField: "business_state",
		},
		{
			name:      "detail status when earlier hints miss",
			listing:   domain.Listing{IndustryName: "기타", DetailStatusName: "리조트 영업중"},
			wantTag:   domain.TypeResort,
			wantField: "detail_status",
		},
		{
			name:      "name is last resort",
			listing:   domain.Listing{Name: "한라산 모텔"},
			wantTag:   domain.TypeMotel,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, decidedBy := resolver.Resolve(tt.listing)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantField, decidedBy)
		})
	}
}

func TestTypeResolver_FallbackDefault(t *testing.T) {
	resolver := newTestResolver()

	tag, decidedBy := resolver.Resolve(domain.Listing{})
	assert.Equal(t, domain.TypeMinbak, tag)
	assert.Empty(t, decidedBy)
}

func TestRegionMatcher(t *testing.T) {
	matcher := NewRegionMatcher([]string{"제주시", "서귀포시"}, "제주시")

	tests := []struct {
		name    string
		listing domain.Listing
		want    string
	}{
		{
			name:    "road address wins",
			listing: domain.Listing{RoadAddress: "제주특별자치도 서귀포시 중문로 1", LotAddress: "제주시 어딘가"},
			want:    "서귀포시",
		},
		{
			name:    "lot address when road empty",
			listing: domain.Listing{LotAddress: "제주시 애월읍 100"},
			want:    "제주시",
		},
		{
			name:    "name as final source",
			listing: domain.Listing{Name: "서귀포시민박"},
			want:    "서귀포시",
		},
		{
			name:    "default when nothing matches",
			listing: domain.Listing{Name: "어느 민박", RoadAddress: "어딘가 1번지"},
			want:    "제주시",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.Match(tt.listing))
		})
	}
}

func TestStatusFilter(t *testing.T) {
	filter := NewStatusFilter([]string{"폐업", "폐쇄", "휴업", "중단"})

	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{"absent label is active", "", true},
		{"whitespace label is active", "  ", true},
		{"normal operation", "영업/정상", true},
		{"closed", "폐업", false},
		{"closed embedded", "직권폐업", false},
		{"suspended", "휴업중", false},
		{"shut down", "폐쇄", false},
		{"discontinued", "영업중단", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.IsActive(tt.status))
		})
	}
}

func TestAreaGate(t *testing.T) {
	gate := NewAreaGate("제주")

	tests := []struct {
		name    string
		listing domain.Listing
		want    bool
	}{
		{"token in name", domain.Listing{Name: "제주바당민박"}, true},
		{"token in road address", domain.Listing{Name: "바당민박", RoadAddress: "제주특별자치도 제주시"}, true},
		{"token in lot address only", domain.Listing{LotAddress: "제주시 구좌읍 1"}, true},
		{"token nowhere", domain.Listing{Name: "강원민박집", RoadAddress: "강원도 양양군", LotAddress: "양양군 1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.InArea(tt.listing))
		})
	}
}
