package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/darkkaiser/catalog-server/internal/config"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
	"github.com/darkkaiser/catalog-server/internal/testutil"
)

// TestMain 고루틴 누수 여부를 함께 검증합니다.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ========================================
// 테스트 헬퍼
// ========================================

// nopStore 핸들러 동작이 필요 없는 서비스 생명주기 테스트용 catalog.Store 구현체입니다.
type nopStore struct{}

func (nopStore) FindByRef(context.Context, string) (*catalog.ProductRecord, error) { return nil, nil }
func (nopStore) Insert(context.Context, *catalog.ProductRecord) error              { return nil }
func (nopStore) UpdateByRef(context.Context, string, catalog.Update) error         { return nil }
func (nopStore) Search(context.Context, catalog.Query) (*catalog.SearchResult, error) {
	return &catalog.SearchResult{}, nil
}
func (nopStore) CountStockStatus(context.Context, catalog.Filter) (map[string]int64, error) {
	return nil, nil
}
func (nopStore) DistinctValues(context.Context, string, catalog.Filter) ([]string, error) {
	return nil, nil
}
func (nopStore) TopModified(context.Context, int) ([]catalog.ModifiedCountEntry, error) {
	return nil, nil
}
func (nopStore) CategoryDistribution(context.Context) ([]catalog.CategoryCountEntry, error) {
	return nil, nil
}
func (nopStore) AddedPerDay(context.Context, time.Time) ([]catalog.DayCountEntry, error) {
	return nil, nil
}
func (nopStore) ModifiedPerDay(context.Context, time.Time) ([]catalog.DayCountEntry, error) {
	return nil, nil
}
func (nopStore) IterateAll(context.Context, func(*catalog.ProductRecord) error) error { return nil }
func (nopStore) ReplaceHistory(context.Context, string, []catalog.ModificationEntry) error {
	return nil
}
func (nopStore) EnsureIndexes(context.Context) error { return nil }
func (nopStore) Close(context.Context) error         { return nil }

// setupServiceHelper API 서비스 테스트를 위한 공통 설정을 생성합니다.
// 포트 충돌 방지를 위해 동적으로 할당된 포트를 사용합니다.
func setupServiceHelper(t *testing.T) (*Service, *config.AppConfig, *sync.WaitGroup, context.Context, context.CancelFunc) {
	t.Helper()

	port, err := testutil.GetFreePort()
	require.NoError(t, err, "사용 가능한 포트를 가져오는데 실패했습니다")

	appConfig := &config.AppConfig{Debug: true}
	appConfig.CatalogAPI.WS.ListenPort = port
	appConfig.CatalogAPI.WS.TLSServer = false
	appConfig.CatalogAPI.CORS.AllowOrigins = []string{"*"}

	svc := NewService(appConfig, nopStore{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	return svc, appConfig, wg, ctx, cancel
}

// waitForStop WaitGroup이 완료될 때까지 대기하고, 타임아웃 시 테스트를 실패시킵니다.
func waitForStop(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(6 * time.Second):
		t.Fatal("Shutdown 타임아웃 발생 (WaitGroup mismatch 가능성)")
	}
}

// ========================================
// 생성자
// ========================================

func TestNewService(t *testing.T) {
	appConfig := &config.AppConfig{Debug: true}
	appConfig.CatalogAPI.WS.ListenPort = 8080

	store := nopStore{}
	svc := NewService(appConfig, store, nil)

	assert.NotNil(t, svc)
	assert.Equal(t, appConfig, svc.appConfig)
	assert.Equal(t, store, svc.store)
	assert.False(t, svc.running, "초기 상태는 running=false여야 함")
}

func TestNewService_NilDependencies(t *testing.T) {
	assert.Panics(t, func() {
		NewService(nil, nopStore{}, nil)
	})

	assert.Panics(t, func() {
		NewService(&config.AppConfig{}, nil, nil)
	})
}

// ========================================
// 서버 설정
// ========================================

func TestService_setupServer(t *testing.T) {
	appConfig := &config.AppConfig{Debug: true}
	appConfig.CatalogAPI.WS.ListenPort = 8080
	appConfig.CatalogAPI.CORS.AllowOrigins = []string{"*"}

	svc := NewService(appConfig, nopStore{}, nil)

	e := svc.setupServer()

	require.NotNil(t, e)
	assert.True(t, e.Debug, "Config의 Debug가 true이면 Echo Debug도 true여야 함")

	routePaths := make(map[string]bool)
	for _, route := range e.Routes() {
		routePaths[route.Path] = true
	}

	assert.True(t, routePaths["/healthz"], "/healthz 라우트가 등록되어야 함")
	assert.True(t, routePaths["/version"], "/version 라우트가 등록되어야 함")
	assert.True(t, routePaths["/products"], "/products 라우트가 등록되어야 함")
	assert.True(t, routePaths["/products/new"], "/products/new 라우트가 등록되어야 함")
	assert.True(t, routePaths["/products/modified"], "/products/modified 라우트가 등록되어야 함")
	assert.True(t, routePaths["/products/stats"], "/products/stats 라우트가 등록되어야 함")
	assert.True(t, routePaths["/filter"], "/filter 라우트가 등록되어야 함")
	assert.True(t, routePaths["/stats"], "/stats 라우트가 등록되어야 함")
}

// ========================================
// 서비스 생명주기
// ========================================

func TestService_Lifecycle(t *testing.T) {
	svc, appConfig, wg, ctx, cancel := setupServiceHelper(t)
	defer cancel()

	wg.Add(1)
	require.NoError(t, svc.Start(ctx, wg))

	// 서버 시작 대기
	require.NoError(t, testutil.WaitForServer(appConfig.CatalogAPI.WS.ListenPort, 2*time.Second),
		"서버가 타임아웃 내에 시작되어야 함")

	svc.runningMu.Lock()
	assert.True(t, svc.running, "서비스 시작 후 running=true")
	svc.runningMu.Unlock()

	// Context 취소로 종료 트리거
	shutdownStart := time.Now()
	cancel()

	waitForStop(t, wg)
	assert.Less(t, time.Since(shutdownStart), 6*time.Second, "Shutdown은 타임아웃 내에 완료되어야 함")

	svc.runningMu.Lock()
	assert.False(t, svc.running, "서비스 종료 후 running=false")
	svc.runningMu.Unlock()
}

func TestService_DuplicateStart(t *testing.T) {
	svc, appConfig, wg, ctx, cancel := setupServiceHelper(t)
	defer cancel()

	wg.Add(1)
	require.NoError(t, svc.Start(ctx, wg))

	require.NoError(t, testutil.WaitForServer(appConfig.CatalogAPI.WS.ListenPort, 2*time.Second))

	// 이미 실행 중이면 내부에서 wg.Done()을 호출하므로 WG를 증가시켜야 함
	wg.Add(1)
	assert.NoError(t, svc.Start(ctx, wg), "중복 시작은 에러를 반환하지 않고 무시해야 함")

	svc.runningMu.Lock()
	assert.True(t, svc.running)
	svc.runningMu.Unlock()

	cancel()
	waitForStop(t, wg)
}
