package response

import (
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
)

// ProductListResponse 상품 목록 조회 응답
//
// StockStatus, TotalNewProducts, TotalModifiedProducts는 페이지네이션과 무관하게
// 동일한 필터 조건에 일치하는 전체 집합을 대상으로 집계됩니다.
type ProductListResponse struct {
	// Items 현재 페이지의 상품 목록
	Items []catalog.ProductRecord `json:"items"`

	// TotalProducts 필터 조건에 일치하는 전체 상품 수
	TotalProducts int64 `json:"total_products"`

	// TotalPages 전체 페이지 수
	TotalPages int `json:"total_pages"`

	// CurrentPage 현재 페이지 번호 (1부터 시작)
	CurrentPage int `json:"current_page"`

	// PageSize 페이지당 상품 수
	PageSize int `json:"page_size"`

	// StockStatus 재고 상태별 상품 수
	StockStatus map[string]int64 `json:"stock_status"`

	// TotalNewProducts 최근 24시간 내 등록된 상품 수
	TotalNewProducts int64 `json:"total_new_products"`

	// TotalModifiedProducts 최근 48시간 내 변동된 상품 수
	TotalModifiedProducts int64 `json:"total_modified_products"`
}

// FilterOptionsResponse 필터 선택지 조회 응답
type FilterOptionsResponse struct {
	Brands        []string `json:"brands"`
	Stocks        []string `json:"stocks"`
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
}

// ProductStatsResponse 상품 통계 조회 응답
type ProductStatsResponse struct {
	// TotalProducts 전체 상품 수
	TotalProducts int64 `json:"total_products"`

	// TotalNewProducts 최근 24시간 내 등록된 상품 수
	TotalNewProducts int64 `json:"total_new_products"`

	// TotalModifiedProducts 최근 48시간 내 변동된 상품 수
	TotalModifiedProducts int64 `json:"total_modified_products"`

	// StockStatus 전체 상품의 재고 상태별 상품 수
	StockStatus map[string]int64 `json:"stock_status"`

	// NewStockStatus 최근 등록 상품의 재고 상태별 상품 수
	NewStockStatus map[string]int64 `json:"new_stock_status"`

	// ModifiedStockStatus 최근 변동 상품의 재고 상태별 상품 수
	ModifiedStockStatus map[string]int64 `json:"modified_stock_status"`
}
