package mongostore

import (
	"context"
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
)

const defaultPageSize = 10

// distinctableFields DistinctValues에서 조회를 허용하는 필드 목록
var distinctableFields = map[string]struct{}{
	"brand":       {},
	"category":    {},
	"subcategory": {},
	"company":     {},
	"stock":       {},
}

// lastModifiedStage 마지막 변동 시각을 계산 필드로 추가하는 파이프라인 단계입니다.
// 이력은 시간순으로 추가되므로 마지막 원소가 최신 변동입니다.
func lastModifiedStage() bson.M {
	return bson.M{
		"$addFields": bson.M{
			"last_modified": bson.M{"$arrayElemAt": bson.A{"$history.timestamp", -1}},
		},
	}
}

// containsRegex 대소문자 무시 부분 일치 조건을 생성합니다.
// 사용자 입력이 정규식으로 해석되지 않도록 이스케이프합니다.
func containsRegex(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

// buildMatch 검색 조건을 $match 문서로 변환합니다.
// last_modified 조건은 lastModifiedStage 이후에만 평가될 수 있습니다.
func buildMatch(filter catalog.Filter) bson.M {
	match := bson.M{}

	stringConditions := []struct {
		field string
		value string
	}{
		{"ref", filter.Ref},
		{"designation", filter.Designation},
		{"brand", filter.Brand},
		{"company", filter.Company},
		{"category", filter.Category},
		{"subcategory", filter.Subcategory},
		{"stock", filter.Stock},
	}
	for _, cond := range stringConditions {
		if cond.value != "" {
			match[cond.field] = containsRegex(cond.value)
		}
	}

	priceRange := bson.M{}
	if filter.PriceMin != nil {
		priceRange["$gte"] = *filter.PriceMin
	}
	if filter.PriceMax != nil {
		priceRange["$lte"] = *filter.PriceMax
	}
	if len(priceRange) > 0 {
		match["price"] = priceRange
	}

	addedRange := bson.M{}
	if filter.AddedFrom != nil {
		addedRange["$gte"] = *filter.AddedFrom
	}
	if filter.AddedTo != nil {
		addedRange["$lte"] = *filter.AddedTo
	}
	if len(addedRange) > 0 {
		match["date_added"] = addedRange
	}

	modifiedRange := bson.M{}
	if filter.ModifiedFrom != nil {
		modifiedRange["$gte"] = *filter.ModifiedFrom
	}
	if filter.ModifiedTo != nil {
		modifiedRange["$lte"] = *filter.ModifiedTo
	}
	if len(modifiedRange) > 0 {
		match["last_modified"] = modifiedRange
	}

	return match
}

// sortDocument 정렬 기준을 $sort 문서로 변환합니다.
// ref를 보조 정렬 키로 두어 페이지네이션 순서를 안정화합니다.
func sortDocument(sortKey string, desc bool) (bson.D, error) {
	field := ""
	switch sortKey {
	case catalog.SortByPrice:
		field = "price"
	case catalog.SortByDateAdded, "":
		field = "date_added"
	case catalog.SortByLastModified:
		field = "last_modified"
	default:
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 정렬 기준입니다: '%s'", sortKey)
	}

	order := 1
	if desc {
		order = -1
	}
	return bson.D{{Key: field, Value: order}, {Key: "ref", Value: 1}}, nil
}

// Search 필터/정렬/페이지네이션 조건에 따라 상품을 검색합니다.
// 레코드 페이지와 전체 건수를 하나의 $facet 파이프라인으로 함께 조회합니다.
func (s *Store) Search(ctx context.Context, query catalog.Query) (*catalog.SearchResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	sortDoc, err := sortDocument(query.SortKey, query.SortDesc)
	if err != nil {
		return nil, err
	}

	pipeline := []bson.M{
		lastModifiedStage(),
		{"$match": buildMatch(query.Filter)},
		{"$facet": bson.M{
			"records": []bson.M{
				{"$sort": sortDoc},
				{"$skip": (page - 1) * pageSize},
				{"$limit": pageSize},
			},
			"total": []bson.M{
				{"$count": "count"},
			},
		}},
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.collection.Aggregate(opCtx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "상품 검색에 실패하였습니다")
	}
	defer cursor.Close(opCtx)

	var facets []struct {
		Records []catalog.ProductRecord `bson:"records"`
		Total   []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
	}
	if err := cursor.All(opCtx, &facets); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "상품 검색 결과 디코딩에 실패하였습니다")
	}

	result := &catalog.SearchResult{
		Records:  []catalog.ProductRecord{},
		Page:     page,
		PageSize: pageSize,
	}
	if len(facets) > 0 {
		result.Records = facets[0].Records
		if result.Records == nil {
			result.Records = []catalog.ProductRecord{}
		}
		if len(facets[0].Total) > 0 {
			result.Total = facets[0].Total[0].Count
		}
	}
	result.TotalPages = int((result.Total + int64(pageSize) - 1) / int64(pageSize))

	return result, nil
}

// CountStockStatus 필터 조건에 일치하는 상품들의 재고 상태별 개수를 반환합니다.
func (s *Store) CountStockStatus(ctx context.Context, filter catalog.Filter) (map[string]int64, error) {
	pipeline := []bson.M{
		lastModifiedStage(),
		{"$match": buildMatch(filter)},
		{"$group": bson.M{
			"_id":   "$stock",
			"count": bson.M{"$sum": 1},
		}},
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.collection.Aggregate(opCtx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "재고 상태별 집계에 실패하였습니다")
	}
	defer cursor.Close(opCtx)

	var rows []struct {
		Stock string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(opCtx, &rows); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "재고 상태별 집계 결과 디코딩에 실패하였습니다")
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Stock] = row.Count
	}
	return counts, nil
}

// DistinctValues 필터 조건에 일치하는 상품들에서 지정된 필드의 고유값 목록을 정렬하여 반환합니다.
// last_modified 필터 조건을 지원하기 위해 Distinct 대신 파이프라인으로 조회합니다.
func (s *Store) DistinctValues(ctx context.Context, field string, filter catalog.Filter) ([]string, error) {
	if _, allowed := distinctableFields[field]; !allowed {
		return nil, apperrors.Newf(apperrors.InvalidInput, "고유값 조회를 지원하지 않는 필드입니다: '%s'", field)
	}

	pipeline := []bson.M{
		lastModifiedStage(),
		{"$match": buildMatch(filter)},
		{"$group": bson.M{"_id": "$" + field}},
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.collection.Aggregate(opCtx, pipeline)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "고유값 조회에 실패하였습니다(field=%s)", field)
	}
	defer cursor.Close(opCtx)

	var rows []struct {
		Value string `bson:"_id"`
	}
	if err := cursor.All(opCtx, &rows); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ParsingFailed, "고유값 조회 결과 디코딩에 실패하였습니다(field=%s)", field)
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Value != "" {
			values = append(values, row.Value)
		}
	}
	sort.Strings(values)
	return values, nil
}
