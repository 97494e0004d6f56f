package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfigJSON 테스트에서 사용하는 유효한 기준 설정입니다.
const validConfigJSON = `{
  "debug": true,
  "http_retry": {
    "max_retries": 5,
    "retry_delay": "3s"
  },
  "mongo": {
    "uri": "mongodb://localhost:27017",
    "database": "catalog",
    "collection": "products",
    "op_timeout": "10s"
  },
  "sources": [
    {
      "id": "tunisianet",
      "title": "Tunisianet 노트북 카테고리",
      "enabled": true,
      "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable",
      "page_limit": 0,
      "schedule": {
        "runnable": true,
        "time_spec": "0 0 */6 * * *"
      }
    }
  ],
  "maintenance": {
    "history_prune": {
      "runnable": true,
      "time_spec": "@daily"
    }
  },
  "catalog_api": {
    "ws": {
      "tls_server": false,
      "listen_port": 8888
    },
    "cors": {
      "allow_origins": ["*"]
    }
  }
}`

// writeConfigFile 테스트용 설정 파일을 생성하고 경로를 반환하는 헬퍼 함수입니다.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadWithFile_Success는 유효한 설정 파일의 로드와 값 바인딩을 검증합니다.
func TestLoadWithFile_Success(t *testing.T) {
	cfg, err := LoadWithFile(writeConfigFile(t, validConfigJSON))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 5, cfg.HTTPRetry.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.HTTPRetry.RetryDelayDuration())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "catalog", cfg.Mongo.Database)
	assert.Equal(t, "products", cfg.Mongo.Collection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.OpTimeoutDuration())

	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "tunisianet", cfg.Sources[0].ID)
	assert.True(t, cfg.Sources[0].Schedule.Runnable)

	assert.True(t, cfg.Maintenance.HistoryPrune.Runnable)
	assert.Equal(t, 8888, cfg.CatalogAPI.WS.ListenPort)
	assert.Equal(t, []string{"*"}, cfg.CatalogAPI.CORS.AllowOrigins)
}

// TestLoadWithFile_Defaults는 생략된 설정 항목에 기본값이 적용되는지 검증합니다.
func TestLoadWithFile_Defaults(t *testing.T) {
	content := `{
	  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
	  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"}],
	  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*"]}}
	}`

	cfg, err := LoadWithFile(writeConfigFile(t, content))
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxRetries, cfg.HTTPRetry.MaxRetries)
	assert.Equal(t, DefaultRetryDelay, cfg.HTTPRetry.RetryDelay)
	assert.Equal(t, DefaultMongoCollection, cfg.Mongo.Collection)
	assert.Equal(t, DefaultMongoOpTimeout, cfg.Mongo.OpTimeout)
}

// TestLoadWithFile_EnvOverride는 환경 변수가 파일 설정을 덮어쓰는지 검증합니다.
func TestLoadWithFile_EnvOverride(t *testing.T) {
	t.Setenv("CATALOG_MONGO__DATABASE", "catalog_staging")
	t.Setenv("CATALOG_HTTP_RETRY__MAX_RETRIES", "7")

	cfg, err := LoadWithFile(writeConfigFile(t, validConfigJSON))
	require.NoError(t, err)

	assert.Equal(t, "catalog_staging", cfg.Mongo.Database)
	assert.Equal(t, 7, cfg.HTTPRetry.MaxRetries)
}

// TestLoadWithFile_FileNotFound는 설정 파일 부재 시의 에러를 검증합니다.
func TestLoadWithFile_FileNotFound(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "no-such-file.json"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.System))
	assert.Contains(t, err.Error(), "설정 파일을 찾을 수 없습니다")
}

// TestLoadWithFile_UnknownField는 구조체에 정의되지 않은 필드 포함 시 에러를 검증합니다. (Strict Mode)
func TestLoadWithFile_UnknownField(t *testing.T) {
	content := `{
	  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
	  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"}],
	  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*"]}},
	  "unexpected_field": true
	}`

	_, err := LoadWithFile(writeConfigFile(t, content))
	require.Error(t, err)
}

// TestLoadWithFile_ValidationFailures는 다양한 설정 오류에 대한 검증 실패를 확인합니다.
func TestLoadWithFile_ValidationFailures(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name: "Invalid Mongo URI Scheme",
			content: `{
			  "mongo": {"uri": "http://localhost:27017", "database": "catalog"},
			  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"}],
			  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*"]}}
			}`,
			errSubstr: "mongo.uri",
		},
		{
			name: "Empty Sources",
			content: `{
			  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
			  "sources": [],
			  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*"]}}
			}`,
			errSubstr: "sources",
		},
		{
			name: "Duplicate Source IDs",
			content: `{
			  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
			  "sources": [
			    {"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"},
			    {"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/703-pc-portable-pro"}
			  ],
			  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*"]}}
			}`,
			errSubstr: "중복된 Source ID",
		},
		{
			name: "Invalid Source Cron Spec",
			content: `{
			  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
			  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable", "schedule": {"runnable": true, "time_spec": "* * * * *"}}],
			  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*"]}}
			}`,
			errSubstr: "time_spec",
		},
		{
			name: "Invalid Listen Port",
			content: `{
			  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
			  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"}],
			  "catalog_api": {"ws": {"listen_port": 0}, "cors": {"allow_origins": ["*"]}}
			}`,
			errSubstr: "listen_port",
		},
		{
			name: "Invalid CORS Origin",
			content: `{
			  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
			  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"}],
			  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["ftp://bad"]}}
			}`,
			errSubstr: "CORS Origin",
		},
		{
			name: "Wildcard Mixed With Domain",
			content: `{
			  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
			  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"}],
			  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*", "https://example.com"]}}
			}`,
			errSubstr: "와일드카드",
		},
		{
			name: "Invalid Retry Delay",
			content: `{
			  "http_retry": {"retry_delay": "abc"},
			  "mongo": {"uri": "mongodb://localhost:27017", "database": "catalog"},
			  "sources": [{"id": "tunisianet", "base_url": "https://www.tunisianet.com.tn/702-ordinateur-portable"}],
			  "catalog_api": {"ws": {"listen_port": 8888}, "cors": {"allow_origins": ["*"]}}
			}`,
			errSubstr: "retry_delay",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithFile(writeConfigFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput), "InvalidInput 타입이어야 합니다: %v", err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

// TestVerifyRecommendations는 권장 설정 진단 경고를 검증합니다.
func TestVerifyRecommendations(t *testing.T) {
	t.Parallel()

	cfg := &AppConfig{
		CatalogAPI: CatalogAPIConfig{
			WS: WSConfig{ListenPort: 80},
		},
	}

	warnings := cfg.VerifyRecommendations()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "시스템 예약 포트")
}
