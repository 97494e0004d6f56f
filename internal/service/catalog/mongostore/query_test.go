package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
)

func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

// ========================================
// buildMatch 테스트
// ========================================

func TestBuildMatch_Empty(t *testing.T) {
	t.Parallel()

	// 조건이 없으면 전체 레코드와 일치하는 빈 문서여야 합니다.
	assert.Empty(t, buildMatch(catalog.Filter{}))
}

func TestBuildMatch_StringFields(t *testing.T) {
	t.Parallel()

	match := buildMatch(catalog.Filter{
		Designation: "vivobook",
		Brand:       "ASUS",
		Stock:       "in stock",
	})

	require.Len(t, match, 3)

	// 문자열 조건은 대소문자 무시 부분 일치 정규식이어야 합니다.
	regex, ok := match["designation"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "vivobook", regex.Pattern)
	assert.Equal(t, "i", regex.Options)

	assert.Contains(t, match, "brand")
	assert.Contains(t, match, "stock")
	assert.NotContains(t, match, "category")
}

func TestBuildMatch_RegexMetacharactersEscaped(t *testing.T) {
	t.Parallel()

	// 사용자 입력의 정규식 메타 문자는 리터럴로 취급되어야 합니다.
	match := buildMatch(catalog.Filter{Designation: "PC (15.6\")"})

	regex, ok := match["designation"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `PC \(15\.6"\)`, regex.Pattern)
}

func TestBuildMatch_PriceRange(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		filter   catalog.Filter
		expected bson.M
	}{
		{
			name:     "하한/상한 모두 지정",
			filter:   catalog.Filter{PriceMin: floatPtr(100.0), PriceMax: floatPtr(500.0)},
			expected: bson.M{"$gte": 100.0, "$lte": 500.0},
		},
		{
			name:     "하한만 지정",
			filter:   catalog.Filter{PriceMin: floatPtr(100.0)},
			expected: bson.M{"$gte": 100.0},
		},
		{
			name:     "상한만 지정",
			filter:   catalog.Filter{PriceMax: floatPtr(500.0)},
			expected: bson.M{"$lte": 500.0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			match := buildMatch(tc.filter)
			assert.Equal(t, tc.expected, match["price"])
		})
	}
}

func TestBuildMatch_DateRanges(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 999000000, time.UTC)

	match := buildMatch(catalog.Filter{
		AddedFrom:    timePtr(from),
		AddedTo:      timePtr(to),
		ModifiedFrom: timePtr(from),
	})

	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, match["date_added"])

	// 마지막 변동 시각 조건은 계산 필드(last_modified)를 대상으로 합니다.
	assert.Equal(t, bson.M{"$gte": from}, match["last_modified"])
}

// ========================================
// sortDocument 테스트
// ========================================

func TestSortDocument(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		sortKey       string
		desc          bool
		expectedField string
		expectedOrder int
	}{
		{name: "가격 오름차순", sortKey: catalog.SortByPrice, expectedField: "price", expectedOrder: 1},
		{name: "가격 내림차순", sortKey: catalog.SortByPrice, desc: true, expectedField: "price", expectedOrder: -1},
		{name: "등록일", sortKey: catalog.SortByDateAdded, expectedField: "date_added", expectedOrder: 1},
		{name: "마지막 변동 시각", sortKey: catalog.SortByLastModified, desc: true, expectedField: "last_modified", expectedOrder: -1},
		{name: "빈 정렬 기준은 등록일", sortKey: "", expectedField: "date_added", expectedOrder: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc, err := sortDocument(tc.sortKey, tc.desc)

			require.NoError(t, err)
			require.Len(t, doc, 2)
			assert.Equal(t, tc.expectedField, doc[0].Key)
			assert.Equal(t, tc.expectedOrder, doc[0].Value)

			// 안정적인 페이지네이션을 위한 보조 정렬 키
			assert.Equal(t, "ref", doc[1].Key)
		})
	}
}

func TestSortDocument_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := sortDocument("popularity", false)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

// ========================================
// lastModifiedStage 테스트
// ========================================

func TestLastModifiedStage(t *testing.T) {
	t.Parallel()

	stage := lastModifiedStage()

	addFields, ok := stage["$addFields"].(bson.M)
	require.True(t, ok)

	// 이력의 마지막 원소가 최신 변동 시각입니다.
	expr, ok := addFields["last_modified"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, bson.A{"$history.timestamp", -1}, expr["$arrayElemAt"])
}
