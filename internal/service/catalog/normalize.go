package catalog

import (
	"strconv"
	"strings"

	applog "github.com/darkkaiser/catalog-server/pkg/log"
	"github.com/darkkaiser/catalog-server/pkg/strutil"
)

// stockKeywordTable 재고 상태 키워드 테이블입니다.
// 먼저 매칭되는 분류가 우선하며, 품절 키워드를 가장 먼저 검사합니다.
var stockKeywordTable = []struct {
	status   string
	keywords []string
}{
	{
		status:   StockOutOfStock,
		keywords: []string{"out of stock", "rupture de stock", "rupture", "épuisé", "indisponible", "sold out"},
	},
	{
		status:   StockOnOrder,
		keywords: []string{"on order", "sur commande", "backorder", "pré-commande"},
	},
	{
		status:   StockInStock,
		keywords: []string{"in stock", "en stock", "disponible", "available"},
	},
}

// NormalizePrice 가격 원문 문자열을 표준 숫자 가격으로 변환합니다.
//
// 통화 표기("DT", "TND"), 천 단위 구분 공백(NBSP 포함)을 제거하고
// 소수점 쉼표(,)를 마침표(.)로 변환한 뒤 파싱합니다.
// 예: "1 234,50 DT" -> 1234.50
//
// 파싱에 실패하더라도 에러를 반환하지 않고 0.0을 반환합니다.
// 잘못된 가격이 상품 수집 전체를 중단시키지 않도록 하기 위한 정책이며,
// 실패 사실은 경고 로그로만 남깁니다.
func NormalizePrice(raw string) float64 {
	s := strutil.NormalizeSpaces(raw)
	if s == "" {
		return 0.0
	}

	// 통화 표기 제거 (대소문자 무시)
	upper := strings.ToUpper(s)
	for _, token := range []string{"TND", "DT"} {
		if idx := strings.Index(upper, token); idx != -1 {
			s = s[:idx] + s[idx+len(token):]
			upper = strings.ToUpper(s)
		}
	}

	// 천 단위 구분 공백 제거 및 소수점 쉼표 변환
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)

	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		applog.WithComponentAndFields("catalog", applog.Fields{
			"raw_price": raw,
		}).Warn("가격 문자열 파싱에 실패하여 0.0으로 대체합니다")
		return 0.0
	}

	return price
}

// NormalizeStock 재고 상태 원문을 표준 재고 상태 문자열로 변환합니다.
//
// 키워드 테이블과의 대소문자 무시 부분 일치로 판정하며, 빈 입력은 Unknown으로,
// 어떤 키워드와도 일치하지 않는 입력은 원문 그대로 반환합니다.
// 예: "Rupture de stock" -> "Out of Stock", "Limited Edition" -> "Limited Edition"
func NormalizeStock(raw string) string {
	s := strutil.NormalizeSpaces(raw)
	if s == "" {
		return StockUnknown
	}

	lower := strings.ToLower(s)
	for _, entry := range stockKeywordTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.status
			}
		}
	}

	// 키워드 불일치 시 원문 그대로 유지
	return s
}

// NormalizeCategory 카테고리 원문과 명시적 하위 카테고리를 표준 카테고리 쌍으로 변환합니다.
//
// 명시적 하위 카테고리가 주어진 경우 그대로 사용하며, 그렇지 않으면
// "카테고리 > 하위 카테고리" 형태의 결합 문자열을 구분자(>)로 분리합니다.
// 카테고리 정보가 전혀 없는 경우 "Uncategorized"를 반환합니다.
func NormalizeCategory(rawCategory, rawSubcategory string) (category, subcategory string) {
	rawCategory = strutil.NormalizeSpaces(rawCategory)
	rawSubcategory = strutil.NormalizeSpaces(rawSubcategory)

	if rawCategory == "" {
		return DefaultCategory, rawSubcategory
	}

	segments := strutil.SplitAndTrim(rawCategory, ">")
	if len(segments) == 0 {
		return DefaultCategory, rawSubcategory
	}

	category = segments[0]

	if rawSubcategory != "" {
		return category, rawSubcategory
	}
	if len(segments) > 1 {
		return category, segments[1]
	}
	return category, ""
}
