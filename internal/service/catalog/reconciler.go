package catalog

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/pkg/concurrency"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

// Outcome 대사(Reconcile) 호출 1회의 결과를 나타내는 타입입니다.
type Outcome int

const (
	// OutcomeInserted 신규 상품으로 등록됨 (빈 이력, DateAdded 기록)
	OutcomeInserted Outcome = iota + 1

	// OutcomeUpdatedWithHistory 가격 또는 재고 변동이 감지되어 이력 1건과 함께 갱신됨
	OutcomeUpdatedWithHistory

	// OutcomeUpdatedNoHistory 가격/재고 변동 없이 가변 필드만 갱신됨
	OutcomeUpdatedNoHistory
)

// String fmt.Stringer 인터페이스를 구현합니다.
func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "Inserted"
	case OutcomeUpdatedWithHistory:
		return "UpdatedWithHistory"
	case OutcomeUpdatedNoHistory:
		return "UpdatedNoHistory"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Reconciler 수집된 상품 레코드 후보를 저장소의 기존 상태와 대사하는 엔진입니다.
//
// 동일한 Ref에 대한 대사는 조회 후 쓰기(Read-Then-Write) 순서로 수행되므로,
// 같은 Ref가 동시에 대사되면 이력 추가가 유실될 수 있습니다. 이를 방지하기 위해
// Ref별 Mutex(KeyedMutex)로 동일 Ref에 대한 대사를 직렬화합니다.
// 서로 다른 Ref의 대사는 독립된 문서를 다루므로 병렬로 수행됩니다.
type Reconciler struct {
	store Store

	refMu *concurrency.KeyedMutex

	// now 현재 시각 함수. 테스트에서 고정 시각으로 교체할 수 있습니다.
	now func() time.Time
}

// NewReconciler Reconciler 인스턴스를 생성합니다.
func NewReconciler(store Store) *Reconciler {
	if store == nil {
		panic("store는 필수입니다")
	}

	return &Reconciler{
		store: store,
		refMu: concurrency.NewKeyedMutex(),
		now:   time.Now,
	}
}

// Reconcile 상품 레코드 후보를 저장소에 병합하고 그 결과를 반환합니다.
//
// 동작 순서:
//  1. Ref로 기존 레코드를 조회합니다.
//  2. 기존 레코드가 없으면 DateAdded에 현재 시각을, 빈 이력을 부여하여 신규 등록합니다.
//  3. 기존 레코드가 있으면 가격과 재고를 정확히 비교하여,
//     하나라도 다르면 변동 이력 1건을 추가하면서 전체 가변 필드를 덮어쓰고,
//     같으면 이력 추가 없이 가변 필드만 덮어씁니다.
//
// 두 번째 반환값은 대사 이후의 영속 레코드 상태입니다.
// 저장소 에러는 해당 상품 1건에 대한 실패로 그대로 전파됩니다.
func (r *Reconciler) Reconcile(ctx context.Context, candidate *ProductRecord) (Outcome, *ProductRecord, error) {
	if candidate == nil {
		return 0, nil, apperrors.New(apperrors.Internal, "대사 대상 레코드가 nil입니다")
	}
	if candidate.Ref == "" {
		return 0, nil, ErrNotIngestable
	}

	var outcome Outcome
	var persisted *ProductRecord

	err := r.refMu.WithLock(candidate.Ref, func() error {
		var err error
		outcome, persisted, err = r.reconcileLocked(ctx, candidate)
		return err
	})
	if err != nil {
		return 0, nil, err
	}

	return outcome, persisted, nil
}

func (r *Reconciler) reconcileLocked(ctx context.Context, candidate *ProductRecord) (Outcome, *ProductRecord, error) {
	existing, err := r.store.FindByRef(ctx, candidate.Ref)
	if err != nil {
		return 0, nil, apperrors.Wrapf(err, apperrors.System, "상품 조회에 실패했습니다(ref=%s)", candidate.Ref)
	}

	// 신규 상품 등록
	if existing == nil {
		record := *candidate
		record.DateAdded = r.now()
		record.History = []ModificationEntry{}

		if err := r.store.Insert(ctx, &record); err != nil {
			return 0, nil, apperrors.Wrapf(err, apperrors.System, "상품 등록에 실패했습니다(ref=%s)", candidate.Ref)
		}

		applog.WithComponentAndFields("catalog", applog.Fields{
			"ref":     record.Ref,
			"company": record.Company,
			"price":   record.Price,
		}).Debug("신규 상품이 등록되었습니다")

		return OutcomeInserted, &record, nil
	}

	// 기존 상품 갱신
	update := Update{
		Fields: MutableFields{
			Designation: candidate.Designation,
			Description: candidate.Description,
			Price:       candidate.Price,
			Brand:       candidate.Brand,
			Company:     candidate.Company,
			Category:    candidate.Category,
			Subcategory: candidate.Subcategory,
			Stock:       candidate.Stock,
			URL:         candidate.URL,
			ImageURL:    candidate.ImageURL,
		},
	}

	outcome := OutcomeUpdatedNoHistory

	// 가격과 재고의 정확한 일치 여부만 비교합니다. 둘 중 하나라도 다르면
	// 변동되지 않은 필드의 이전/이후 값까지 함께 기록한 이력 1건을 추가합니다.
	if existing.Price != candidate.Price || existing.Stock != candidate.Stock {
		update.History = &ModificationEntry{
			Timestamp: r.now(),
			OldPrice:  existing.Price,
			NewPrice:  candidate.Price,
			OldStock:  existing.Stock,
			NewStock:  candidate.Stock,
		}
		outcome = OutcomeUpdatedWithHistory
	}

	if err := r.store.UpdateByRef(ctx, candidate.Ref, update); err != nil {
		return 0, nil, apperrors.Wrapf(err, apperrors.System, "상품 갱신에 실패했습니다(ref=%s)", candidate.Ref)
	}

	// 갱신 이후의 영속 상태를 구성합니다. (Ref, DateAdded, 기존 이력 보존)
	persisted := *existing
	persisted.Designation = candidate.Designation
	persisted.Description = candidate.Description
	persisted.Price = candidate.Price
	persisted.Brand = candidate.Brand
	persisted.Company = candidate.Company
	persisted.Category = candidate.Category
	persisted.Subcategory = candidate.Subcategory
	persisted.Stock = candidate.Stock
	persisted.URL = candidate.URL
	persisted.ImageURL = candidate.ImageURL
	if update.History != nil {
		persisted.History = append(append([]ModificationEntry{}, existing.History...), *update.History)

		applog.WithComponentAndFields("catalog", applog.Fields{
			"ref":       persisted.Ref,
			"old_price": update.History.OldPrice,
			"new_price": update.History.NewPrice,
			"old_stock": update.History.OldStock,
			"new_stock": update.History.NewStock,
		}).Debug("상품 변동 이력이 추가되었습니다")
	}

	return outcome, &persisted, nil
}
