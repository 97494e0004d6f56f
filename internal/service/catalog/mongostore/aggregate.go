package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
)

// aggregate 파이프라인을 실행하고 결과 전체를 out에 디코딩합니다.
func (s *Store) aggregate(ctx context.Context, pipeline []bson.M, out interface{}, opName string) error {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	cursor, err := s.collection.Aggregate(opCtx, pipeline)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.System, "%s 집계에 실패하였습니다", opName)
	}
	defer cursor.Close(opCtx)

	if err := cursor.All(opCtx, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "%s 집계 결과 디코딩에 실패하였습니다", opName)
	}
	return nil
}

// TopModified 변동 이력이 많은 순으로 상위 limit개의 상품을 반환합니다.
func (s *Store) TopModified(ctx context.Context, limit int) ([]catalog.ModifiedCountEntry, error) {
	if limit < 1 {
		return nil, apperrors.Newf(apperrors.InvalidInput, "조회 건수(limit)는 1 이상이어야 합니다: %d", limit)
	}

	pipeline := []bson.M{
		{"$project": bson.M{
			"ref":         1,
			"designation": 1,
			"company":     1,
			"price":       1,
			"modification_count": bson.M{
				"$size": bson.M{"$ifNull": bson.A{"$history", bson.A{}}},
			},
		}},
		{"$sort": bson.D{{Key: "modification_count", Value: -1}, {Key: "ref", Value: 1}}},
		{"$limit": limit},
	}

	var entries []catalog.ModifiedCountEntry
	if err := s.aggregate(ctx, pipeline, &entries, "상품 변동 횟수"); err != nil {
		return nil, err
	}
	return entries, nil
}

// CategoryDistribution 카테고리별 상품 수를 상품이 많은 순으로 반환합니다.
func (s *Store) CategoryDistribution(ctx context.Context) ([]catalog.CategoryCountEntry, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":   "$category",
			"count": bson.M{"$sum": 1},
		}},
		{"$project": bson.M{
			"_id":      0,
			"category": "$_id",
			"count":    1,
		}},
		{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "category", Value: 1}}},
	}

	var entries []catalog.CategoryCountEntry
	if err := s.aggregate(ctx, pipeline, &entries, "카테고리별 상품 수"); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddedPerDay since 이후 일자별 신규 등록 상품 수를 반환합니다.
func (s *Store) AddedPerDay(ctx context.Context, since time.Time) ([]catalog.DayCountEntry, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"date_added": bson.M{"$gte": since}}},
		{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$date_added"}},
			"count": bson.M{"$sum": 1},
		}},
		{"$project": bson.M{
			"_id":   0,
			"day":   "$_id",
			"count": 1,
		}},
		{"$sort": bson.D{{Key: "day", Value: 1}}},
	}

	var entries []catalog.DayCountEntry
	if err := s.aggregate(ctx, pipeline, &entries, "일자별 신규 상품 수"); err != nil {
		return nil, err
	}
	return entries, nil
}

// ModifiedPerDay since 이후 일자별 변동 이력 수를 반환합니다.
// 이력 배열을 항목 단위로 풀어 변동 1건을 1로 계수합니다.
func (s *Store) ModifiedPerDay(ctx context.Context, since time.Time) ([]catalog.DayCountEntry, error) {
	pipeline := []bson.M{
		{"$unwind": "$history"},
		{"$match": bson.M{"history.timestamp": bson.M{"$gte": since}}},
		{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$history.timestamp"}},
			"count": bson.M{"$sum": 1},
		}},
		{"$project": bson.M{
			"_id":   0,
			"day":   "$_id",
			"count": 1,
		}},
		{"$sort": bson.D{{Key: "day", Value: 1}}},
	}

	var entries []catalog.DayCountEntry
	if err := s.aggregate(ctx, pipeline, &entries, "일자별 상품 변동 수"); err != nil {
		return nil, err
	}
	return entries, nil
}
