// Package product 상품 조회 및 통계 엔드포인트 핸들러를 제공합니다.
package product

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/catalog-server/internal/service/api/constants"
	"github.com/darkkaiser/catalog-server/internal/service/api/httputil"
	"github.com/darkkaiser/catalog-server/internal/service/api/model/request"
	"github.com/darkkaiser/catalog-server/internal/service/api/model/response"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
)

// 집계 통계 조회(type 파라미터)에서 지원하는 통계 유형입니다.
const (
	statsTypeTopModified          = "top_modified_products"
	statsTypeCategoryDistribution = "category_distribution"
	statsTypeAddedPerDay          = "added_per_day"
	statsTypeModifiedPerDay       = "modified_per_day"
)

// Handler 상품 조회 및 통계 요청을 처리하는 핸들러입니다.
//
// 이 구조체는 다음 역할을 수행합니다:
//   - 쿼리 파라미터 바인딩 및 검증
//   - 저장소 검색/집계 호출
//   - HTTP 응답 생성
type Handler struct {
	store catalog.Store

	// now 현재 시각을 반환합니다. 테스트에서 고정 시각 주입에 사용합니다.
	now func() time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(store catalog.Store) *Handler {
	if store == nil {
		panic("store는 필수입니다")
	}

	return &Handler{
		store: store,
		now:   time.Now,
	}
}

// ListProductsHandler 필터/정렬/페이지네이션 조건에 따라 상품 목록을 조회합니다.
func (h *Handler) ListProductsHandler(c echo.Context) error {
	query, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	return h.respondProductList(c, query)
}

// NewProductsHandler 최근 등록된 상품 목록을 조회합니다.
// date_added_min이 지정되지 않은 경우 기본값으로 24시간 전이 적용됩니다.
func (h *Handler) NewProductsHandler(c echo.Context) error {
	query, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	if query.Filter.AddedFrom == nil {
		since := h.now().Add(-constants.DefaultNewProductWindow)
		query.Filter.AddedFrom = &since
	}

	return h.respondProductList(c, query)
}

// ModifiedProductsHandler 최근 변동된 상품 목록을 조회합니다.
// 변동 기간이 지정되지 않은 경우 기본값으로 48시간 전부터 현재까지가 적용됩니다.
func (h *Handler) ModifiedProductsHandler(c echo.Context) error {
	query, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	if query.Filter.ModifiedFrom == nil && query.Filter.ModifiedTo == nil {
		since := h.now().Add(-constants.DefaultModifiedProductWindow)
		query.Filter.ModifiedFrom = &since
	}

	return h.respondProductList(c, query)
}

// FilterOptionsHandler 필터 선택지로 사용할 고유값 목록을 조회합니다.
// 필터 조건이 지정된 경우 해당 조건에 일치하는 상품들만을 대상으로 합니다.
func (h *Handler) FilterOptionsHandler(c echo.Context) error {
	query, err := h.bindQuery(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	filter := query.Filter

	brands, err := h.store.DistinctValues(ctx, "brand", filter)
	if err != nil {
		return err
	}
	stocks, err := h.store.DistinctValues(ctx, "stock", filter)
	if err != nil {
		return err
	}
	categories, err := h.store.DistinctValues(ctx, "category", filter)
	if err != nil {
		return err
	}
	subcategories, err := h.store.DistinctValues(ctx, "subcategory", filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response.FilterOptionsResponse{
		Brands:        brands,
		Stocks:        stocks,
		Categories:    categories,
		Subcategories: subcategories,
	})
}

// ProductStatsHandler 전체/신규/변동 상품의 총계와 재고 상태별 분포를 조회합니다.
func (h *Handler) ProductStatsHandler(c echo.Context) error {
	ctx := c.Request().Context()
	now := h.now()

	stockStatus, err := h.store.CountStockStatus(ctx, catalog.Filter{})
	if err != nil {
		return err
	}

	newSince := now.Add(-constants.DefaultNewProductWindow)
	newStockStatus, err := h.store.CountStockStatus(ctx, catalog.Filter{AddedFrom: &newSince})
	if err != nil {
		return err
	}

	modifiedSince := now.Add(-constants.DefaultModifiedProductWindow)
	modifiedStockStatus, err := h.store.CountStockStatus(ctx, catalog.Filter{ModifiedFrom: &modifiedSince})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response.ProductStatsResponse{
		TotalProducts:         sumCounts(stockStatus),
		TotalNewProducts:      sumCounts(newStockStatus),
		TotalModifiedProducts: sumCounts(modifiedStockStatus),
		StockStatus:           stockStatus,
		NewStockStatus:        newStockStatus,
		ModifiedStockStatus:   modifiedStockStatus,
	})
}

// AggregateStatsHandler type 파라미터에 따라 집계 통계를 조회합니다.
//
// 지원하는 통계 유형:
//   - top_modified_products: 변동 이력이 많은 상위 10개 상품
//   - category_distribution: 카테고리별 상품 수
//   - added_per_day: 최근 30일간 일자별 신규 등록 상품 수
//   - modified_per_day: 최근 30일간 일자별 변동 이력 수
func (h *Handler) AggregateStatsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	statsType := c.QueryParam("type")
	switch statsType {
	case statsTypeTopModified:
		entries, err := h.store.TopModified(ctx, constants.DefaultTopModifiedLimit)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entries)

	case statsTypeCategoryDistribution:
		entries, err := h.store.CategoryDistribution(ctx)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entries)

	case statsTypeAddedPerDay:
		entries, err := h.store.AddedPerDay(ctx, h.statsWindowStart())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entries)

	case statsTypeModifiedPerDay:
		entries, err := h.store.ModifiedPerDay(ctx, h.statsWindowStart())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entries)
	}

	return httputil.NewBadRequestError(
		"type 파라미터가 올바르지 않습니다. (top_modified_products, category_distribution, added_per_day, modified_per_day 중 하나여야 합니다)")
}

// bindQuery 쿼리 파라미터를 바인딩하고 저장소 검색 요청으로 변환합니다.
func (h *Handler) bindQuery(c echo.Context) (catalog.Query, error) {
	params := new(request.ProductQuery)
	if err := c.Bind(params); err != nil {
		return catalog.Query{}, httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}

	return params.ToQuery()
}

// respondProductList 검색 결과와 동일 필터 집합에 대한 부가 집계를 함께 반환합니다.
func (h *Handler) respondProductList(c echo.Context, query catalog.Query) error {
	ctx := c.Request().Context()
	now := h.now()

	result, err := h.store.Search(ctx, query)
	if err != nil {
		return err
	}

	// 재고 상태 분포는 페이지와 무관하게 동일한 필터 집합 전체를 대상으로 한다.
	stockStatus, err := h.store.CountStockStatus(ctx, query.Filter)
	if err != nil {
		return err
	}

	totalNew, err := h.countWithAddedSince(ctx, query.Filter, now.Add(-constants.DefaultNewProductWindow))
	if err != nil {
		return err
	}

	totalModified, err := h.countWithModifiedSince(ctx, query.Filter, now.Add(-constants.DefaultModifiedProductWindow))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response.ProductListResponse{
		Items:                 result.Records,
		TotalProducts:         result.Total,
		TotalPages:            result.TotalPages,
		CurrentPage:           result.Page,
		PageSize:              result.PageSize,
		StockStatus:           stockStatus,
		TotalNewProducts:      totalNew,
		TotalModifiedProducts: totalModified,
	})
}

// countWithAddedSince 필터 집합 내에서 since 이후 등록된 상품 수를 반환합니다.
// 기존 등록일 하한이 since보다 이전인 경우에만 하한을 좁힙니다.
func (h *Handler) countWithAddedSince(ctx context.Context, filter catalog.Filter, since time.Time) (int64, error) {
	if filter.AddedFrom == nil || filter.AddedFrom.Before(since) {
		filter.AddedFrom = &since
	}

	counts, err := h.store.CountStockStatus(ctx, filter)
	if err != nil {
		return 0, err
	}
	return sumCounts(counts), nil
}

// countWithModifiedSince 필터 집합 내에서 since 이후 변동된 상품 수를 반환합니다.
func (h *Handler) countWithModifiedSince(ctx context.Context, filter catalog.Filter, since time.Time) (int64, error) {
	if filter.ModifiedFrom == nil || filter.ModifiedFrom.Before(since) {
		filter.ModifiedFrom = &since
	}

	counts, err := h.store.CountStockStatus(ctx, filter)
	if err != nil {
		return 0, err
	}
	return sumCounts(counts), nil
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, count := range counts {
		total += count
	}
	return total
}

func (h *Handler) statsWindowStart() time.Time {
	return h.now().AddDate(0, 0, -constants.DefaultStatsWindowDays)
}
