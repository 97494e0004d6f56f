package config

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/pkg/validation"
)

// MongoConfig 상품 데이터가 저장되는 MongoDB 접속 정보를 정의하는 설정 구조체
type MongoConfig struct {
	URI        string `json:"uri" validate:"required"`
	Database   string `json:"database" validate:"required"`
	Collection string `json:"collection"`
	OpTimeout  string `json:"op_timeout"`
}

func (c *MongoConfig) validate() error {
	if strings.TrimSpace(c.URI) == "" {
		return apperrors.New(apperrors.InvalidInput, "MongoDB 접속 URI(mongo.uri)가 설정되지 않았습니다")
	}
	if !strings.HasPrefix(c.URI, "mongodb://") && !strings.HasPrefix(c.URI, "mongodb+srv://") {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("MongoDB 접속 URI(mongo.uri)는 mongodb:// 또는 mongodb+srv:// 스키마를 사용해야 합니다: '%s'", c.URI))
	}
	if strings.TrimSpace(c.Database) == "" {
		return apperrors.New(apperrors.InvalidInput, "MongoDB 데이터베이스 이름(mongo.database)이 설정되지 않았습니다")
	}
	if strings.TrimSpace(c.Collection) == "" {
		return apperrors.New(apperrors.InvalidInput, "MongoDB 컬렉션 이름(mongo.collection)이 설정되지 않았습니다")
	}
	if _, err := time.ParseDuration(c.OpTimeout); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("DB 연산 제한 시간(mongo.op_timeout) 설정이 올바르지 않습니다: '%s' (예: 10s)", c.OpTimeout))
	}
	return nil
}

// OpTimeoutDuration 파싱된 DB 연산 제한 시간을 반환합니다.
// validate()를 통과한 설정에서만 호출해야 합니다.
func (c *MongoConfig) OpTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.OpTimeout)
	return d
}

// SourceConfig 주기적으로 상품 목록을 수집할 대상 사이트를 정의하는 구조체
type SourceConfig struct {
	ID        string         `json:"id" validate:"required"`
	Title     string         `json:"title"`
	Enabled   bool           `json:"enabled"`
	BaseURL   string         `json:"base_url" validate:"required"`
	PageLimit int            `json:"page_limit" validate:"min=0"`
	Schedule  ScheduleConfig `json:"schedule"`
}

func (c *SourceConfig) validate() error {
	contextName := fmt.Sprintf("Source['%s']", c.ID)

	if err := validateStruct(c, contextName); err != nil {
		return err
	}

	if err := validation.ValidateURL(c.BaseURL); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s의 기본 URL(base_url)이 유효하지 않습니다", contextName))
	}

	// Cron 표현식 검증 (Scheduler가 활성화된 경우)
	if c.Schedule.Runnable {
		if err := validateTimeSpec(c.Schedule.TimeSpec, contextName); err != nil {
			return err
		}
	}

	return nil
}

// ScheduleConfig 작업의 주기적 실행 여부와 Cron 표현식을 정의하는 구조체
type ScheduleConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

// MaintenanceConfig 데이터 정비 작업의 스케줄을 정의하는 설정 구조체
type MaintenanceConfig struct {
	// HistoryPrune 상품 등록일보다 앞선 변동 이력을 정리하는 작업의 스케줄
	HistoryPrune ScheduleConfig `json:"history_prune"`
}

func (c *MaintenanceConfig) validate() error {
	if c.HistoryPrune.Runnable {
		if err := validateTimeSpec(c.HistoryPrune.TimeSpec, "Maintenance['history_prune']"); err != nil {
			return err
		}
	}
	return nil
}

// CatalogAPIConfig 상품 조회를 위한 REST API 서버 설정 구조체
type CatalogAPIConfig struct {
	WS   WSConfig   `json:"ws"`
	CORS CORSConfig `json:"cors"`
}

func (c *CatalogAPIConfig) validate() error {
	if err := c.WS.validate(); err != nil {
		return err
	}

	if err := c.CORS.validate(); err != nil {
		return err
	}

	return nil
}

func (c *CatalogAPIConfig) VerifyRecommendations() []string {
	return c.WS.VerifyRecommendations()
}

// WSConfig 웹서버의 포트 및 TLS(HTTPS) 보안 설정을 정의하는 구조체
type WSConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
}

func (c *WSConfig) validate() error {
	return validateStruct(c, "CatalogAPI > WS")
}

func (c *WSConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
			}

			// 와일드카드만 있는 경우는 유효함
			return nil
		}
	}

	// 각 Origin 유효성 검사
	return validateStruct(c, "CatalogAPI > CORS")
}
