package catalog

import (
	"context"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

// PruneResult 이력 정리 1회 실행의 결과 요약입니다.
type PruneResult struct {
	// ScannedRecords 검사한 전체 레코드 수
	ScannedRecords int

	// RepairedRecords 이력이 정리된 레코드 수
	RepairedRecords int

	// PrunedEntries 제거된 이력 항목의 총 수
	PrunedEntries int
}

// PruneInvalidHistory 등록 시각(DateAdded)보다 이전 시각을 가진 이력 항목을
// 전체 레코드에서 제거합니다.
//
// 정상 경로에서는 이력 항목이 항상 등록 시각 이후에 추가되므로 이런 항목은
// 존재할 수 없지만, 과거 데이터 이관이나 외부 조작으로 오염된 레코드를 복구하는
// 정기 무결성 점검 용도입니다. 레코드 단위로 처리하며, 한 레코드의 복구 실패가
// 나머지 레코드의 처리를 중단시키지 않습니다.
func PruneInvalidHistory(ctx context.Context, store Store) (PruneResult, error) {
	var result PruneResult
	var failedRecords int

	err := store.IterateAll(ctx, func(record *ProductRecord) error {
		result.ScannedRecords++

		pruned := pruneHistoryEntries(record)
		if pruned == 0 {
			return nil
		}

		if err := store.ReplaceHistory(ctx, record.Ref, record.History); err != nil {
			failedRecords++

			applog.WithComponentAndFields("catalog", applog.Fields{
				"ref": record.Ref,
			}).Errorf("상품 이력 정리에 실패했습니다: %v", err)

			return nil
		}

		result.RepairedRecords++
		result.PrunedEntries += pruned

		applog.WithComponentAndFields("catalog", applog.Fields{
			"ref":            record.Ref,
			"pruned_entries": pruned,
		}).Warn("등록 시각 이전의 상품 이력 항목이 제거되었습니다")

		return nil
	})
	if err != nil {
		return result, apperrors.Wrap(err, apperrors.System, "상품 이력 정리중에 레코드 순회가 실패했습니다")
	}

	if failedRecords > 0 {
		return result, apperrors.Newf(apperrors.ExecutionFailed, "%d건의 상품 이력 정리에 실패했습니다", failedRecords)
	}

	return result, nil
}

// pruneHistoryEntries 레코드의 이력에서 등록 시각 이전의 항목을 제거하고
// 제거된 항목 수를 반환합니다. 레코드는 제자리에서 수정됩니다.
func pruneHistoryEntries(record *ProductRecord) int {
	kept := record.History[:0]
	for _, entry := range record.History {
		if entry.Timestamp.Before(record.DateAdded) {
			continue
		}
		kept = append(kept, entry)
	}

	pruned := len(record.History) - len(kept)
	if pruned > 0 {
		record.History = kept
	}

	return pruned
}
