// Package scraper 상품 목록 페이지를 가져와 파싱 가능한 형태로 변환하는 HTTP 수집기를 제공합니다.
package scraper

import (
	"bufio"
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/darkkaiser/catalog-server/internal/config"
	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

const (
	// defaultRequestTimeout 단일 HTTP 요청의 제한 시간
	defaultRequestTimeout = 30 * time.Second

	// maxResponseBodySize 응답 본문의 최대 허용 크기 (10MB)
	maxResponseBodySize = 10 << 20

	// maxRetryDelay 지수 백오프 재시도 대기 시간의 상한
	maxRetryDelay = 30 * time.Second

	// userAgent 수집 요청에 사용하는 User-Agent 헤더값
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper HTTP 요청 실패 시 지수 백오프로 재시도하는 상품 페이지 수집기입니다.
type Scraper struct {
	client *http.Client

	maxRetries int
	retryDelay time.Duration
}

// New 설정된 재시도 정책으로 Scraper 인스턴스를 생성합니다.
func New(cfg *config.HTTPRetryConfig) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelayDuration(),
	}
}

// FetchHTML 지정된 URL로 GET 요청을 보내 파싱된 HTML 문서를 반환합니다.
//
// 응답 헤더와 본문으로부터 문자 인코딩을 감지하여 UTF-8로 변환한 뒤 파싱하며,
// 문서 내 상대 경로 해석을 위해 최종 요청 URL을 Document에 주입합니다.
func (s *Scraper) FetchHTML(ctx context.Context, urlStr string) (*goquery.Document, error) {
	body, contentType, finalURL, err := s.fetch(ctx, urlStr, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	// 인코딩 감지를 위해 본문 앞부분을 미리 읽습니다.
	bufReader := bufio.NewReader(body)
	peekBytes, _ := bufReader.Peek(1024)

	var reader io.Reader = bufReader
	if e, _, _ := charset.DetermineEncoding(peekBytes, contentType); e != nil {
		reader = e.NewDecoder().Reader(bufReader)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ParsingFailed, "HTML 문서 파싱에 실패하였습니다(url=%s)", urlStr)
	}
	doc.Url = finalURL

	return doc, nil
}

// FetchJSON 지정된 URL로 GET 요청을 보내 응답 본문을 그대로 반환합니다.
// 반환된 본문은 gjson 등으로 파싱할 수 있습니다.
func (s *Scraper) FetchJSON(ctx context.Context, urlStr string) ([]byte, error) {
	body, _, _, err := s.fetch(ctx, urlStr, "application/json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "응답 본문 읽기에 실패하였습니다(url=%s)", urlStr)
	}
	return data, nil
}

// fetch 재시도 정책을 적용하여 GET 요청을 수행하고 응답 본문을 반환합니다.
// 응답 본문의 크기는 maxResponseBodySize로 제한됩니다.
func (s *Scraper) fetch(ctx context.Context, urlStr, accept string) (io.ReadCloser, string, *url.URL, error) {
	logger := applog.WithComponentAndFields("scraper", applog.Fields{"url": urlStr})

	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// 지수 백오프에 지터를 더해 동시 재시도를 분산시킵니다.
			delay := s.retryDelay * time.Duration(1<<(attempt-1))
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
			delay += time.Duration(rand.Int64N(int64(s.retryDelay) + 1))

			logger.WithFields(applog.Fields{
				"attempt":     attempt,
				"max_retries": s.maxRetries,
				"delay":       delay.String(),
			}).Warn("일시적 오류로 인해 페이지 요청을 재시도합니다")

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, "", nil, ctx.Err()
			case <-timer.C:
			}
		}

		body, contentType, finalURL, err := s.doRequest(ctx, urlStr, accept)
		if err == nil {
			return body, contentType, finalURL, nil
		}

		lastErr = err

		if !isRetriable(err) || ctx.Err() != nil {
			return nil, "", nil, err
		}
	}

	return nil, "", nil, apperrors.Wrapf(lastErr, apperrors.Unavailable, "최대 재시도 횟수를 초과하였습니다(url=%s)", urlStr)
}

func (s *Scraper) doRequest(ctx context.Context, urlStr, accept string) (io.ReadCloser, string, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", nil, apperrors.Wrapf(err, apperrors.InvalidInput, "HTTP 요청 생성에 실패하였습니다(url=%s)", urlStr)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", nil, apperrors.Wrapf(err, apperrors.Unavailable, "HTTP 요청에 실패하였습니다(url=%s)", urlStr)
	}

	if resp.StatusCode != http.StatusOK {
		// 커넥션 재사용을 위해 본문을 비우고 닫습니다.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()

		errType := apperrors.ExecutionFailed
		if isRetriableStatus(resp.StatusCode) {
			errType = apperrors.Unavailable
		}
		return nil, "", nil, apperrors.Newf(errType, "비정상 응답 코드가 수신되었습니다(url=%s, status=%d)", urlStr, resp.StatusCode)
	}

	finalURL := req.URL
	if resp.Request != nil {
		finalURL = resp.Request.URL
	}

	return newLimitedBody(resp.Body, maxResponseBodySize), resp.Header.Get("Content-Type"), finalURL, nil
}

// isRetriableStatus 재시도할 가치가 있는 HTTP 상태 코드인지 판단합니다.
// 영구적인 서버 설정 문제(501, 505, 511)는 제외합니다.
func isRetriableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
		return false
	}
	return statusCode >= 500
}

// isRetriable 발생한 에러가 재시도 가능한 일시적 오류인지 판단합니다.
func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.Is(err, apperrors.Unavailable) {
		return true
	}
	// 요청 생성 실패, 비정상 응답 코드(4xx) 등은 재시도해도 동일한 결과입니다.
	return false
}

// limitedBody 응답 본문 크기를 제한하는 ReadCloser입니다.
type limitedBody struct {
	reader io.Reader
	closer io.Closer
}

func newLimitedBody(body io.ReadCloser, limit int64) io.ReadCloser {
	return &limitedBody{
		reader: io.LimitReader(body, limit),
		closer: body,
	}
}

func (b *limitedBody) Read(p []byte) (int, error) { return b.reader.Read(p) }

func (b *limitedBody) Close() error { return b.closer.Close() }
