package validation

import (
	"fmt"
	"net/url"
)

// ValidateURL URL 형식의 유효성을 검사합니다.
// 수집 대상 사이트의 기본 URL(base_url) 등 외부 접속 주소 검증에 사용합니다.
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("URL이 비어 있습니다")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("잘못된 URL 형식입니다 (url=%q): %w", urlStr, err)
	}

	// Scheme 검증 (http 또는 https만 허용)
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL은 http 또는 https 스키마를 사용해야 합니다 (url=%q)", urlStr)
	}

	// Host 검증
	if parsedURL.Host == "" {
		return fmt.Errorf("URL에 호스트가 없습니다 (url=%q)", urlStr)
	}

	return nil
}
