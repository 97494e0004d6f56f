package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkkaiser/catalog-server/internal/config"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
	"github.com/darkkaiser/catalog-server/internal/service/ingest/scraper"
)

type stubCollector struct {
	id string
}

func (c *stubCollector) ID() string      { return c.id }
func (c *stubCollector) Company() string { return c.id }

func (c *stubCollector) Collect(_ context.Context, _ *scraper.Scraper, _ config.SourceConfig) ([]catalog.RawItem, error) {
	return nil, nil
}

// ========================================
// Registry 테스트
// ========================================

func TestRegistry_RegisterAndFind(t *testing.T) {
	t.Parallel()

	registry := newRegistry()
	registry.MustRegister(&stubCollector{id: "tunisianet"})
	registry.MustRegister(&stubCollector{id: "mytek"})

	collector, exists := registry.Find("tunisianet")
	require.True(t, exists)
	assert.Equal(t, "tunisianet", collector.ID())

	_, exists = registry.Find("unknown")
	assert.False(t, exists)

	assert.Equal(t, []string{"mytek", "tunisianet"}, registry.IDs())
}

func TestRegistry_InvalidRegistration(t *testing.T) {
	t.Parallel()

	registry := newRegistry()
	registry.MustRegister(&stubCollector{id: "tunisianet"})

	// 중복 ID 등록은 초기화 단계의 설정 오류이므로 패닉이어야 합니다.
	assert.Panics(t, func() {
		registry.MustRegister(&stubCollector{id: "tunisianet"})
	})

	assert.Panics(t, func() {
		registry.MustRegister(nil)
	})

	assert.Panics(t, func() {
		registry.MustRegister(&stubCollector{id: ""})
	})
}
