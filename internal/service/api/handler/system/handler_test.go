package system

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/catalog-server/internal/service/api/constants"
	"github.com/darkkaiser/catalog-server/internal/service/api/model/system"
)

func newTestContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// ========================================
// 헬스체크
// ========================================

func TestHealthCheckHandler_Healthy(t *testing.T) {
	t.Parallel()

	h := NewHandler(func(context.Context) error { return nil })

	c, rec := newTestContext("/healthz")

	require.NoError(t, h.HealthCheckHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp system.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, constants.HealthStatusHealthy, resp.Status)
	assert.GreaterOrEqual(t, resp.Uptime, int64(0))

	dep, ok := resp.Dependencies[constants.DependencyDocumentStore]
	require.True(t, ok)
	assert.Equal(t, constants.HealthStatusHealthy, dep.Status)
}

func TestHealthCheckHandler_StoreUnavailable(t *testing.T) {
	t.Parallel()

	h := NewHandler(func(context.Context) error {
		return errors.New("연결 시간 초과")
	})

	c, rec := newTestContext("/healthz")

	require.NoError(t, h.HealthCheckHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp system.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// 의존성 하나라도 비정상이면 전체 상태도 unhealthy
	assert.Equal(t, constants.HealthStatusUnhealthy, resp.Status)

	dep := resp.Dependencies[constants.DependencyDocumentStore]
	assert.Equal(t, constants.HealthStatusUnhealthy, dep.Status)
	assert.Contains(t, dep.Message, "연결 시간 초과")
}

func TestHealthCheckHandler_NilChecker(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)

	c, rec := newTestContext("/healthz")

	require.NoError(t, h.HealthCheckHandler(c))

	var resp system.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, constants.HealthStatusUnhealthy, resp.Status)
}

// ========================================
// 버전 정보
// ========================================

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)

	c, rec := newTestContext("/version")

	require.NoError(t, h.VersionHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp system.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Version)
	assert.NotEmpty(t, resp.GoVersion)
}
