// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 시스템 수준의 API를 처리합니다.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/darkkaiser/catalog-server/internal/pkg/version"
	"github.com/darkkaiser/catalog-server/internal/service/api/constants"
	"github.com/darkkaiser/catalog-server/internal/service/api/model/system"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

// StoreChecker 문서 저장소의 연결 상태를 확인하는 함수 타입입니다.
type StoreChecker func(ctx context.Context) error

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	checkStore StoreChecker

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(checkStore StoreChecker) *Handler {
	return &Handler{
		checkStore: checkStore,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서버와 외부 의존성의 상태를 확인합니다.
// 모니터링 시스템에서 주기적으로 호출되는 것을 전제로 합니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  c.Path(),
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	uptime := int64(time.Since(h.serverStartTime).Seconds())

	// 외부 의존성 상태 수집
	deps := make(map[string]system.DependencyStatus)

	// 문서 저장소 상태 확인
	if h.checkStore != nil {
		if err := h.checkStore(c.Request().Context()); err != nil {
			deps[constants.DependencyDocumentStore] = system.DependencyStatus{
				Status:  constants.HealthStatusUnhealthy,
				Message: err.Error(),
			}
		} else {
			deps[constants.DependencyDocumentStore] = system.DependencyStatus{
				Status:  constants.HealthStatusHealthy,
				Message: "정상",
			}
		}
	} else {
		deps[constants.DependencyDocumentStore] = system.DependencyStatus{
			Status:  constants.HealthStatusUnhealthy,
			Message: "초기화되지 않았습니다",
		}
	}

	// 하나라도 unhealthy면 전체 상태를 unhealthy로 설정
	serverStatus := constants.HealthStatusHealthy
	for _, dep := range deps {
		if dep.Status != constants.HealthStatusHealthy {
			serverStatus = constants.HealthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       serverStatus,
		Uptime:       uptime,
		Dependencies: deps,
	})
}

// VersionHandler 서버의 버전, 커밋 해시, 빌드 날짜, Go 버전을 반환합니다.
// 디버깅 및 배포 버전 확인에 사용됩니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  c.Path(),
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug("버전 정보 요청")

	buildInfo := version.Get()

	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:   buildInfo.Version,
		Commit:    buildInfo.Commit,
		BuildDate: buildInfo.BuildDate,
		GoVersion: buildInfo.GoVersion,
	})
}
