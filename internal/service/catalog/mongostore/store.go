// Package mongostore 상품 카탈로그 저장소의 MongoDB 구현을 제공합니다.
package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/darkkaiser/catalog-server/internal/config"
	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

const defaultConnectTimeout = 10 * time.Second

// Store 상품 카탈로그 저장소의 MongoDB 구현체
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection

	// opTimeout 단일 저장소 연산의 제한 시간
	opTimeout time.Duration
}

// 컴파일 타임 인터페이스 구현 검증
var _ catalog.Store = (*Store)(nil)

// New MongoDB에 접속하여 상품 카탈로그 저장소를 생성합니다.
// 접속 확인(Ping)까지 완료된 저장소를 반환합니다.
func New(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "MongoDB 접속에 실패하였습니다")
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "MongoDB 접속 확인(Ping)에 실패하였습니다")
	}

	applog.WithComponentAndFields("mongostore", applog.Fields{
		"database":   cfg.Database,
		"collection": cfg.Collection,
	}).Info("MongoDB에 접속하였습니다")

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		opTimeout:  cfg.OpTimeoutDuration(),
	}, nil
}

// opContext 단일 저장소 연산의 제한 시간이 적용된 컨텍스트를 반환합니다.
func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// EnsureIndexes 자연키(ref)의 유일성 제약과 조회 성능을 위한 인덱스를 보장합니다.
// 이미 존재하는 인덱스는 무시되므로 서버 기동 시마다 호출해도 안전합니다.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ref", Value: 1}},
			Options: options.Index().SetName("uidx_ref").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "company", Value: 1}},
			Options: options.Index().SetName("idx_company"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
		{
			Keys:    bson.D{{Key: "price", Value: 1}},
			Options: options.Index().SetName("idx_price"),
		},
		{
			Keys:    bson.D{{Key: "date_added", Value: -1}},
			Options: options.Index().SetName("idx_date_added"),
		},
	}

	if _, err := s.collection.Indexes().CreateMany(opCtx, models); err != nil {
		return apperrors.Wrap(err, apperrors.System, "MongoDB 인덱스 생성에 실패하였습니다")
	}
	return nil
}

// Ping MongoDB 서버와의 연결 상태를 확인합니다. (헬스체크용)
func (s *Store) Ping(ctx context.Context) error {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.client.Ping(opCtx, nil); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "MongoDB 서버에 연결할 수 없습니다")
	}
	return nil
}

// Close MongoDB 접속을 종료합니다.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.System, "MongoDB 접속 종료에 실패하였습니다")
	}
	return nil
}
