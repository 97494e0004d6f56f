package catalog

import (
	"context"
	"time"
)

// 정렬 기준
const (
	// SortByPrice 가격 기준 정렬
	SortByPrice = "price"

	// SortByDateAdded 최초 등록일 기준 정렬
	SortByDateAdded = "date_added"

	// SortByLastModified 마지막 변동 시각 기준 정렬
	SortByLastModified = "last_modified"
)

// Filter 상품 검색 조건입니다.
//
// 문자열 필드는 대소문자 무시 부분 일치(Substring)로 검사하며,
// 설정되지 않은 조건(빈 문자열, nil 포인터)은 무시됩니다.
type Filter struct {
	Ref         string // 상품 고유번호 부분 일치
	Designation string // 상품명 부분 일치
	Brand       string // 브랜드 부분 일치
	Company     string // 판매사 부분 일치
	Category    string // 카테고리 부분 일치
	Subcategory string // 하위 카테고리 부분 일치
	Stock       string // 재고 상태 부분 일치

	PriceMin *float64 // 최소 가격 (이상)
	PriceMax *float64 // 최대 가격 (이하)

	AddedFrom *time.Time // 최초 등록일 하한
	AddedTo   *time.Time // 최초 등록일 상한

	ModifiedFrom *time.Time // 마지막 변동 시각 하한
	ModifiedTo   *time.Time // 마지막 변동 시각 상한
}

// Query 페이지네이션과 정렬을 포함한 상품 검색 요청입니다.
type Query struct {
	Filter Filter

	SortKey  string // SortBy* 상수 중 하나 (빈 값: date_added)
	SortDesc bool   // true: 내림차순

	Page     int // 1부터 시작하는 페이지 번호
	PageSize int // 페이지당 레코드 수
}

// SearchResult 상품 검색 결과 한 페이지입니다.
type SearchResult struct {
	Records    []ProductRecord
	Total      int64 // 필터 조건에 일치하는 전체 레코드 수
	Page       int
	PageSize   int
	TotalPages int
}

// MutableFields 대사 과정에서 덮어쓰는 상품 레코드의 가변 필드 집합입니다.
// Ref, DateAdded, History는 포함되지 않습니다.
type MutableFields struct {
	Designation string
	Description string
	Price       float64
	Brand       string
	Company     string
	Category    string
	Subcategory string
	Stock       string
	URL         string
	ImageURL    string
}

// Update 단일 저장소 쓰기로 수행되는 상품 레코드 갱신 내용입니다.
//
// History가 nil이 아닌 경우 가변 필드 덮어쓰기와 이력 추가가
// 하나의 쓰기 연산으로 함께 수행됩니다. (부분 적용 상태가 조회되지 않도록 보장)
type Update struct {
	Fields  MutableFields
	History *ModificationEntry
}

// ModifiedCountEntry 변동 이력이 많은 상품의 집계 항목입니다.
type ModifiedCountEntry struct {
	Ref               string  `bson:"ref" json:"ref"`
	Designation       string  `bson:"designation" json:"designation"`
	Company           string  `bson:"company" json:"company"`
	Price             float64 `bson:"price" json:"price"`
	ModificationCount int64   `bson:"modification_count" json:"modification_count"`
}

// CategoryCountEntry 카테고리별 상품 수 집계 항목입니다.
type CategoryCountEntry struct {
	Category string `bson:"category" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// DayCountEntry 일자별 집계 항목입니다. Day는 "2006-01-02" 형식입니다.
type DayCountEntry struct {
	Day   string `bson:"day" json:"day"`
	Count int64  `bson:"count" json:"count"`
}

// Store 상품 레코드의 영속화를 담당하는 문서 저장소 인터페이스입니다.
//
// 모든 연산은 단일 연산 단위의 제한 시간(Timeout)을 가지며, 시간 초과 시
// 해당 상품 1건에 대한 실패로 처리됩니다. (전체 수집은 계속 진행)
type Store interface {
	// FindByRef 자연키(Ref)로 상품 레코드를 조회합니다.
	// 레코드가 존재하지 않는 경우 (nil, nil)을 반환합니다.
	FindByRef(ctx context.Context, ref string) (*ProductRecord, error)

	// Insert 새 상품 레코드를 저장합니다.
	// 동일한 Ref가 이미 존재하는 경우 Conflict 타입 에러를 반환합니다.
	Insert(ctx context.Context, record *ProductRecord) error

	// UpdateByRef 기존 레코드의 가변 필드를 덮어쓰고, 필요 시 변동 이력을 추가합니다.
	// 필드 덮어쓰기와 이력 추가는 하나의 저장소 쓰기 연산으로 수행됩니다.
	UpdateByRef(ctx context.Context, ref string, update Update) error

	// Search 필터/정렬/페이지네이션 조건에 따라 상품을 검색합니다.
	Search(ctx context.Context, query Query) (*SearchResult, error)

	// CountStockStatus 필터 조건에 일치하는 상품들의 재고 상태별 개수를 반환합니다.
	CountStockStatus(ctx context.Context, filter Filter) (map[string]int64, error)

	// DistinctValues 필터 조건에 일치하는 상품들에서 지정된 필드의 고유값 목록을 반환합니다.
	// (필터 선택지 제공용, 빈 값은 제외)
	DistinctValues(ctx context.Context, field string, filter Filter) ([]string, error)

	// TopModified 변동 이력이 많은 순으로 상위 limit개의 상품을 반환합니다.
	TopModified(ctx context.Context, limit int) ([]ModifiedCountEntry, error)

	// CategoryDistribution 카테고리별 상품 수를 반환합니다.
	CategoryDistribution(ctx context.Context) ([]CategoryCountEntry, error)

	// AddedPerDay since 이후 일자별 신규 등록 상품 수를 반환합니다.
	AddedPerDay(ctx context.Context, since time.Time) ([]DayCountEntry, error)

	// ModifiedPerDay since 이후 일자별 변동 이력 수를 반환합니다.
	ModifiedPerDay(ctx context.Context, since time.Time) ([]DayCountEntry, error)

	// IterateAll 전체 상품 레코드를 순회하며 fn을 호출합니다.
	// fn이 에러를 반환하면 순회를 중단하고 해당 에러를 반환합니다.
	IterateAll(ctx context.Context, fn func(record *ProductRecord) error) error

	// ReplaceHistory 지정된 상품의 변동 이력 전체를 교체합니다. (정비 작업 전용)
	ReplaceHistory(ctx context.Context, ref string, history []ModificationEntry) error

	// EnsureIndexes 저장소의 유일성 제약 및 조회 인덱스를 보장합니다.
	EnsureIndexes(ctx context.Context) error

	// Close 저장소 연결을 종료합니다.
	Close(ctx context.Context) error
}
