// Package ingest 설정된 사이트들의 상품 목록을 Cron 스케줄에 맞춰 주기적으로 수집하고,
// 저장소의 기존 레코드와 대사하여 가격/재고 변동 이력을 축적하는 서비스를 제공합니다.
package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/darkkaiser/catalog-server/internal/config"
	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
	"github.com/darkkaiser/catalog-server/internal/service/ingest/scraper"
	"github.com/darkkaiser/catalog-server/internal/service/ingest/source"
	"github.com/darkkaiser/catalog-server/pkg/cronx"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

// component Ingest 서비스의 로깅용 컴포넌트 이름
const component = "ingest.service"

// runTimeout 수집 작업 1회 실행의 제한 시간
const runTimeout = 30 * time.Minute

// RunSummary 수집 작업 1회 실행의 결과 요약입니다.
type RunSummary struct {
	SourceID string

	Collected          int // 페이지에서 추출된 상품 수
	Inserted           int // 신규 등록된 상품 수
	UpdatedWithHistory int // 변동 이력과 함께 갱신된 상품 수
	UpdatedNoHistory   int // 변동 없이 갱신된 상품 수
	Skipped            int // Ref 부재로 건너뛴 상품 수
	Failed             int // 대사 실패한 상품 수
}

// Service 상품 수집 스케줄러 서비스입니다.
type Service struct {
	appConfig *config.AppConfig

	store      catalog.Store
	reconciler *catalog.Reconciler
	scraper    *scraper.Scraper

	// findCollector 수집기 조회 함수. 테스트에서 교체할 수 있습니다.
	findCollector func(id string) (source.Collector, bool)

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Ingest 서비스 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, store catalog.Store) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}
	if store == nil {
		panic("Store는 필수입니다")
	}

	return &Service{
		appConfig: appConfig,

		store:      store,
		reconciler: catalog.NewReconciler(store),
		scraper:    scraper.New(&appConfig.HTTPRetry),

		findCollector: source.Find,
	}
}

// Start 수집 서비스를 시작하고 설정 파일에 정의된 수집 작업들을 Cron 엔진에 등록합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Ingest 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Ingest 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// Recover: 수집 작업의 패닉이 다른 작업에 영향을 주지 않도록 복구
	// SkipIfStillRunning: 이전 수집이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	s.registerSourceJobs()
	s.registerMaintenanceJobs()

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_schedules": len(s.cron.Entries()),
		"total_sources":        len(s.appConfig.Sources),
	}).Info("서비스 시작 완료: Ingest 서비스가 정상적으로 초기화되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 수집 서비스를 안전하게 중지합니다.
// 진행 중인 수집 작업의 완료를 대기한 뒤 반환합니다.
func (s *Service) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Ingest 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Ingest 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// registerSourceJobs 설정 파일에 정의된 수집 대상 중 활성화된 것들을 Cron 스케줄러에 등록합니다.
func (s *Service) registerSourceJobs() {
	for _, sourceConfig := range s.appConfig.Sources {
		if !sourceConfig.Enabled || !sourceConfig.Schedule.Runnable {
			continue
		}

		if _, exists := s.findCollector(sourceConfig.ID); !exists {
			applog.WithComponentAndFields(component, applog.Fields{
				"source_id": sourceConfig.ID,
			}).Error("스케줄 등록 실패: 등록되지 않은 수집기입니다")
			continue
		}

		// 클로저 캡처 문제 방지를 위해 로컬 변수에 재할당
		cfg := sourceConfig

		_, err := s.cron.AddFunc(cfg.Schedule.TimeSpec, func() {
			// 수집 작업의 생명주기를 서비스 종료 시그널과 분리합니다.
			// Graceful Shutdown 시 cron.Stop()이 진행 중인 수집의 완료를 대기합니다.
			ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
			defer cancel()

			if _, err := s.runSource(ctx, cfg); err != nil {
				applog.WithComponentAndFields(component, applog.Fields{
					"source_id": cfg.ID,
					"error":     err,
				}).Error("수집 작업 실행 중 오류가 발생했습니다")
			}
		})
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"source_id": cfg.ID,
				"time_spec": cfg.Schedule.TimeSpec,
				"error":     err,
			}).Error("스케줄 등록 실패: 잘못된 Cron 표현식입니다")
		}
	}
}

// registerMaintenanceJobs 저장소 무결성 점검 작업을 Cron 스케줄러에 등록합니다.
func (s *Service) registerMaintenanceJobs() {
	prune := s.appConfig.Maintenance.HistoryPrune
	if !prune.Runnable {
		return
	}

	_, err := s.cron.AddFunc(prune.TimeSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		result, err := catalog.PruneInvalidHistory(ctx, s.store)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("상품 이력 정리 작업 실행 중 오류가 발생했습니다")
			return
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"scanned_records":  result.ScannedRecords,
			"repaired_records": result.RepairedRecords,
			"pruned_entries":   result.PrunedEntries,
		}).Info("상품 이력 정리 작업이 완료되었습니다")
	})
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"time_spec": prune.TimeSpec,
			"error":     err,
		}).Error("이력 정리 스케줄 등록 실패: 잘못된 Cron 표현식입니다")
	}
}

// RunAllOnce 활성화된 모든 수집 대상의 수집 작업을 즉시 1회 실행합니다.
// 서버 기동 직후 초기 데이터 적재 용도로 사용됩니다.
func (s *Service) RunAllOnce(ctx context.Context) {
	for _, sourceConfig := range s.appConfig.Sources {
		if !sourceConfig.Enabled {
			continue
		}

		if _, err := s.runSource(ctx, sourceConfig); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"source_id": sourceConfig.ID,
				"error":     err,
			}).Error("초기 수집 작업 실행 중 오류가 발생했습니다")
		}
	}
}

// runSource 단일 수집 대상의 수집/대사 파이프라인을 1회 수행합니다.
//
// 상품 1건의 실패(빌드 실패, 대사 실패)는 해당 상품만 건너뛰고 나머지 상품의
// 처리를 계속합니다. 실행 결과는 요약 로그로 남깁니다.
func (s *Service) runSource(ctx context.Context, cfg config.SourceConfig) (RunSummary, error) {
	summary := RunSummary{SourceID: cfg.ID}

	collector, exists := s.findCollector(cfg.ID)
	if !exists {
		return summary, apperrors.Newf(apperrors.Internal, "등록되지 않은 수집기입니다(source=%s)", cfg.ID)
	}

	startedAt := time.Now()

	items, err := collector.Collect(ctx, s.scraper, cfg)
	if err != nil {
		return summary, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품 목록 수집에 실패하였습니다(source=%s)", cfg.ID)
	}
	summary.Collected = len(items)

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		record, err := catalog.BuildRecord(item, collector.Company())
		if err != nil {
			// Ref가 없는 상품은 정상적인 건너뛰기입니다.
			summary.Skipped++
			continue
		}

		outcome, _, err := s.reconciler.Reconcile(ctx, record)
		if err != nil {
			summary.Failed++

			applog.WithComponentAndFields(component, applog.Fields{
				"source_id": cfg.ID,
				"ref":       record.Ref,
			}).Errorf("상품 대사에 실패했습니다: %v", err)
			continue
		}

		switch outcome {
		case catalog.OutcomeInserted:
			summary.Inserted++
		case catalog.OutcomeUpdatedWithHistory:
			summary.UpdatedWithHistory++
		case catalog.OutcomeUpdatedNoHistory:
			summary.UpdatedNoHistory++
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"source_id":            summary.SourceID,
		"collected":            summary.Collected,
		"inserted":             summary.Inserted,
		"updated_with_history": summary.UpdatedWithHistory,
		"updated_no_history":   summary.UpdatedNoHistory,
		"skipped":              summary.Skipped,
		"failed":               summary.Failed,
		"elapsed":              time.Since(startedAt).String(),
	}).Info("수집 작업이 완료되었습니다")

	return summary, nil
}
