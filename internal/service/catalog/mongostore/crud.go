package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
)

// FindByRef 자연키(ref)로 상품 레코드를 조회합니다.
// 레코드가 존재하지 않는 경우 (nil, nil)을 반환합니다.
func (s *Store) FindByRef(ctx context.Context, ref string) (*catalog.ProductRecord, error) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	var record catalog.ProductRecord
	err := s.collection.FindOne(opCtx, bson.M{"ref": ref}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.Wrapf(err, apperrors.System, "상품 조회에 실패하였습니다(ref=%s)", ref)
	}
	return &record, nil
}

// Insert 새 상품 레코드를 저장합니다.
// 유일성 인덱스와 충돌하는 경우 Conflict 타입 에러를 반환합니다.
func (s *Store) Insert(ctx context.Context, record *catalog.ProductRecord) error {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if _, err := s.collection.InsertOne(opCtx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Wrapf(err, apperrors.Conflict, "동일한 Ref의 상품이 이미 존재합니다(ref=%s)", record.Ref)
		}
		return apperrors.Wrapf(err, apperrors.System, "상품 등록에 실패하였습니다(ref=%s)", record.Ref)
	}
	return nil
}

// UpdateByRef 기존 레코드의 가변 필드를 덮어쓰고, 필요 시 변동 이력을 추가합니다.
// $set과 $push가 하나의 UpdateOne 연산에 담기므로 부분 적용 상태가 조회되지 않습니다.
func (s *Store) UpdateByRef(ctx context.Context, ref string, update catalog.Update) error {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	updateDoc := bson.M{
		"$set": bson.M{
			"designation": update.Fields.Designation,
			"description": update.Fields.Description,
			"price":       update.Fields.Price,
			"brand":       update.Fields.Brand,
			"company":     update.Fields.Company,
			"category":    update.Fields.Category,
			"subcategory": update.Fields.Subcategory,
			"stock":       update.Fields.Stock,
			"url":         update.Fields.URL,
			"image_url":   update.Fields.ImageURL,
		},
	}
	if update.History != nil {
		updateDoc["$push"] = bson.M{"history": update.History}
	}

	result, err := s.collection.UpdateOne(opCtx, bson.M{"ref": ref}, updateDoc)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.System, "상품 갱신에 실패하였습니다(ref=%s)", ref)
	}
	if result.MatchedCount == 0 {
		return apperrors.Newf(apperrors.NotFound, "갱신할 상품을 찾을 수 없습니다(ref=%s)", ref)
	}
	return nil
}

// ReplaceHistory 지정된 상품의 변동 이력 전체를 교체합니다. (정비 작업 전용)
func (s *Store) ReplaceHistory(ctx context.Context, ref string, history []catalog.ModificationEntry) error {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if history == nil {
		history = []catalog.ModificationEntry{}
	}

	result, err := s.collection.UpdateOne(opCtx, bson.M{"ref": ref}, bson.M{"$set": bson.M{"history": history}})
	if err != nil {
		return apperrors.Wrapf(err, apperrors.System, "상품 이력 교체에 실패하였습니다(ref=%s)", ref)
	}
	if result.MatchedCount == 0 {
		return apperrors.Newf(apperrors.NotFound, "이력을 교체할 상품을 찾을 수 없습니다(ref=%s)", ref)
	}
	return nil
}

// IterateAll 전체 상품 레코드를 커서로 순회하며 fn을 호출합니다.
//
// 순회 전체가 단일 연산 제한 시간에 걸리지 않도록 호출자의 컨텍스트를 그대로 사용합니다.
func (s *Store) IterateAll(ctx context.Context, fn func(record *catalog.ProductRecord) error) error {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 전체 조회에 실패하였습니다")
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var record catalog.ProductRecord
		if err := cursor.Decode(&record); err != nil {
			return apperrors.Wrap(err, apperrors.ParsingFailed, "상품 레코드 디코딩에 실패하였습니다")
		}
		if err := fn(&record); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "상품 커서 순회중에 에러가 발생하였습니다")
	}
	return nil
}
