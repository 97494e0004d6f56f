// Package request API 요청 파라미터의 파싱과 검증을 제공합니다.
package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/api/constants"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
)

// dateLayout 날짜 파라미터의 입력 형식 (일 단위)
const dateLayout = "2006-01-02"

// 정렬 방향 파라미터 값
const (
	orderAsc  = "asc"
	orderDesc = "desc"
)

// ProductQuery 상품 목록 조회의 쿼리 파라미터입니다.
//
// 숫자/날짜 파라미터는 잘못된 입력에 대해 상세한 메시지를 반환하기 위해
// 문자열로 바인딩한 뒤 ToQuery에서 직접 파싱합니다.
type ProductQuery struct {
	Ref         string `query:"ref"`
	Designation string `query:"designation"`
	Brand       string `query:"brand"`
	Company     string `query:"company"`
	Category    string `query:"category"`
	Subcategory string `query:"subcategory"`
	Stock       string `query:"stock"`

	PriceMin string `query:"price_min"`
	PriceMax string `query:"price_max"`

	DateAddedMin string `query:"date_added_min"`
	DateAddedMax string `query:"date_added_max"`
	ModifiedMin  string `query:"modified_min"`
	ModifiedMax  string `query:"modified_max"`

	SortBy string `query:"sort_by"`
	Order  string `query:"order"`

	Page     string `query:"page"`
	PageSize string `query:"page_size"`
}

// ToQuery 쿼리 파라미터를 검증하여 저장소 검색 요청으로 변환합니다.
//
// 날짜 파라미터는 일 단위로 해석됩니다. 하한(min)은 해당 일의 00:00:00.000으로
// 내림하고, 상한(max)은 23:59:59.999로 올림하여 해당 일 전체를 포함시킵니다.
func (q *ProductQuery) ToQuery() (catalog.Query, error) {
	filter, err := q.toFilter()
	if err != nil {
		return catalog.Query{}, err
	}

	sortKey, err := parseSortKey(q.SortBy)
	if err != nil {
		return catalog.Query{}, err
	}

	sortDesc, err := parseOrder(q.Order)
	if err != nil {
		return catalog.Query{}, err
	}

	page, err := parsePositiveInt("page", q.Page, constants.DefaultPage)
	if err != nil {
		return catalog.Query{}, err
	}

	pageSize, err := parsePositiveInt("page_size", q.PageSize, constants.DefaultPageSize)
	if err != nil {
		return catalog.Query{}, err
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	return catalog.Query{
		Filter:   filter,
		SortKey:  sortKey,
		SortDesc: sortDesc,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// toFilter 필터 관련 파라미터를 검증하여 저장소 검색 조건으로 변환합니다.
func (q *ProductQuery) toFilter() (catalog.Filter, error) {
	filter := catalog.Filter{
		Ref:         strings.TrimSpace(q.Ref),
		Designation: strings.TrimSpace(q.Designation),
		Brand:       strings.TrimSpace(q.Brand),
		Company:     strings.TrimSpace(q.Company),
		Category:    strings.TrimSpace(q.Category),
		Subcategory: strings.TrimSpace(q.Subcategory),
		Stock:       strings.TrimSpace(q.Stock),
	}

	var err error
	if filter.PriceMin, err = parseFloat("price_min", q.PriceMin); err != nil {
		return catalog.Filter{}, err
	}
	if filter.PriceMax, err = parseFloat("price_max", q.PriceMax); err != nil {
		return catalog.Filter{}, err
	}

	if filter.AddedFrom, err = parseDateFloor("date_added_min", q.DateAddedMin); err != nil {
		return catalog.Filter{}, err
	}
	if filter.AddedTo, err = parseDateCeil("date_added_max", q.DateAddedMax); err != nil {
		return catalog.Filter{}, err
	}
	if filter.ModifiedFrom, err = parseDateFloor("modified_min", q.ModifiedMin); err != nil {
		return catalog.Filter{}, err
	}
	if filter.ModifiedTo, err = parseDateCeil("modified_max", q.ModifiedMax); err != nil {
		return catalog.Filter{}, err
	}

	return filter, nil
}

// parseSortKey 정렬 기준 파라미터를 표준 정렬 키로 변환합니다.
// camelCase 입력(dateAdded 등)도 snake_case로 정규화하여 허용합니다.
func parseSortKey(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return catalog.SortByDateAdded, nil
	}

	normalized := strcase.ToSnake(value)
	switch normalized {
	case catalog.SortByPrice, catalog.SortByDateAdded, catalog.SortByLastModified:
		return normalized, nil
	}
	return "", newInvalidParamError("sort_by", value,
		fmt.Sprintf("%s, %s, %s 중 하나여야 합니다", catalog.SortByPrice, catalog.SortByDateAdded, catalog.SortByLastModified))
}

// parseOrder 정렬 방향 파라미터를 해석합니다. (기본값: asc)
func parseOrder(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", orderAsc:
		return false, nil
	case orderDesc:
		return true, nil
	}
	return false, newInvalidParamError("order", value, "asc 또는 desc여야 합니다")
}

func parseFloat(name, value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, newInvalidParamError(name, value, "숫자여야 합니다")
	}
	return &parsed, nil
}

// parseDateFloor 날짜 하한을 해당 일의 시작 시각(00:00:00.000)으로 내림합니다.
func parseDateFloor(name, value string) (*time.Time, error) {
	day, err := parseDate(name, value)
	if err != nil || day == nil {
		return nil, err
	}

	floored := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return &floored, nil
}

// parseDateCeil 날짜 상한을 해당 일의 끝 시각(23:59:59.999)으로 올림합니다.
func parseDateCeil(name, value string) (*time.Time, error) {
	day, err := parseDate(name, value)
	if err != nil || day == nil {
		return nil, err
	}

	ceiled := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999000000, time.UTC)
	return &ceiled, nil
}

func parseDate(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, newInvalidParamError(name, value, "YYYY-MM-DD 형식이어야 합니다")
	}
	return &parsed, nil
}

func parsePositiveInt(name, value string, defaultValue int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 0, newInvalidParamError(name, value, "1 이상의 정수여야 합니다")
	}
	return parsed, nil
}

func newInvalidParamError(name, value, requirement string) error {
	return apperrors.Newf(apperrors.InvalidInput, "%s 파라미터가 올바르지 않습니다: '%s' (%s)", name, value, requirement)
}
