package api

import (
	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/catalog-server/internal/service/api/handler/product"
	"github.com/darkkaiser/catalog-server/internal/service/api/handler/system"
)

// RegisterRoutes API 서비스의 라우트를 등록합니다.
//
// 이 함수는 다음 엔드포인트들을 설정합니다:
//   - 시스템 엔드포인트: 서비스 상태 확인(/healthz) 및 버전 정보(/version)
//   - 상품 엔드포인트: 목록 조회, 신규/변동 상품 조회, 필터 선택지, 통계
func RegisterRoutes(e *echo.Echo, systemHandler *system.Handler, productHandler *product.Handler) {
	registerSystemRoutes(e, systemHandler)
	registerProductRoutes(e, productHandler)
}

func registerSystemRoutes(e *echo.Echo, h *system.Handler) {
	e.GET("/healthz", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)
}

func registerProductRoutes(e *echo.Echo, h *product.Handler) {
	e.GET("/products", h.ListProductsHandler)
	e.GET("/products/new", h.NewProductsHandler)
	e.GET("/products/modified", h.ModifiedProductsHandler)
	e.GET("/products/stats", h.ProductStatsHandler)
	e.GET("/filter", h.FilterOptionsHandler)
	e.GET("/stats", h.AggregateStatsHandler)
}
