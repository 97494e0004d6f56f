// Package source 수집 대상 사이트별 상품 수집기(Collector)와 그 레지스트리를 제공합니다.
//
// 각 사이트 수집기는 자신의 하위 패키지에서 init()을 통해 레지스트리에 등록되며,
// 설정 파일의 Source ID와 등록된 수집기 ID를 매칭하여 사용합니다.
package source

import (
	"context"
	"sort"
	"sync"

	"github.com/darkkaiser/catalog-server/internal/config"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
	"github.com/darkkaiser/catalog-server/internal/service/ingest/scraper"
)

// Collector 특정 사이트의 상품 목록 페이지들을 순회하며 원시 상품 데이터를 추출합니다.
type Collector interface {
	// ID 수집기의 고유 식별자를 반환합니다. 설정 파일의 Source ID와 매칭됩니다.
	ID() string

	// Company 수집된 상품에 기록될 판매사 이름을 반환합니다.
	Company() string

	// Collect 설정된 기준 URL부터 페이지를 순회하며 상품 목록을 추출합니다.
	// cfg.PageLimit이 0이면 마지막 페이지까지 순회합니다.
	Collect(ctx context.Context, s *scraper.Scraper, cfg config.SourceConfig) ([]catalog.RawItem, error)
}

// Registry 등록된 모든 사이트 수집기를 관리하는 중앙 저장소입니다.
type Registry struct {
	collectors map[string]Collector
	mu         sync.RWMutex
}

// defaultRegistry 전역에서 사용하는 기본 Registry 인스턴스입니다.
var defaultRegistry = newRegistry()

func newRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
	}
}

// MustRegister 수집기를 레지스트리에 등록하며, 잘못된 등록 시 패닉을 발생시킵니다.
// 애플리케이션 초기화 단계(init)에서 호출되어 설정 오류를 즉시 감지합니다.
func (r *Registry) MustRegister(collector Collector) {
	if collector == nil {
		panic("등록할 수집기가 nil입니다")
	}
	if collector.ID() == "" {
		panic("수집기 ID가 비어 있습니다")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.collectors[collector.ID()]; exists {
		panic("동일한 ID의 수집기가 이미 등록되어 있습니다: " + collector.ID())
	}
	r.collectors[collector.ID()] = collector
}

// Find 지정된 ID의 수집기를 조회합니다.
func (r *Registry) Find(id string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collector, exists := r.collectors[id]
	return collector, exists
}

// IDs 등록된 모든 수집기의 ID를 정렬하여 반환합니다.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.collectors))
	for id := range r.collectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MustRegister 기본 레지스트리에 수집기를 등록합니다.
func MustRegister(collector Collector) {
	defaultRegistry.MustRegister(collector)
}

// Find 기본 레지스트리에서 지정된 ID의 수집기를 조회합니다.
func Find(id string) (Collector, bool) {
	return defaultRegistry.Find(id)
}

// IDs 기본 레지스트리에 등록된 모든 수집기의 ID를 반환합니다.
func IDs() []string {
	return defaultRegistry.IDs()
}
