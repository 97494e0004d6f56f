package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/api/constants"
	"github.com/darkkaiser/catalog-server/internal/service/api/model/response"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// 모든 HTTP 에러를 가로채서 표준 ErrorResponse JSON 형식으로 변환하여 반환합니다.
// 도메인 에러(AppError)는 에러 타입에 따라 적절한 HTTP 상태 코드로 매핑되며,
// 5xx 에러의 상세 내용은 로그에만 기록하고 클라이언트에는 일반 메시지만 반환합니다.
func ErrorHandler(err error, c echo.Context) {
	code, message := classifyError(err)

	// 404 에러는 메시지를 통일
	if code == http.StatusNotFound {
		message = constants.ErrMsgNotFound
	}

	// 에러 로깅 (보안 및 디버깅 용도)
	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		// 5xx: 서버 내부 오류 - 즉시 조치 필요
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error("HTTP 5xx 서버 에러가 발생하였습니다")
	} else if code >= http.StatusBadRequest {
		// 4xx: 클라이언트 요청 오류 - 정상적인 거부 응답
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn("HTTP 4xx 클라이언트 에러가 발생하였습니다")
	}

	// 이중 응답 방지: 이미 응답이 전송된 경우 추가 응답 시도하지 않음
	if c.Response().Committed {
		return
	}

	// HEAD 요청 처리: HTTP 명세에 따라 헤더만 반환하고 본문은 생략
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}

	// 일반 요청: 표준 ErrorResponse JSON 형식으로 응답
	c.JSON(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// classifyError 에러를 HTTP 상태 코드와 클라이언트 메시지로 분류합니다.
func classifyError(err error) (int, string) {
	// Echo HTTPError: 미들웨어 및 httputil 생성 에러
	if he, ok := err.(*echo.HTTPError); ok {
		message := constants.ErrMsgInternalServer
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else if resp, ok := he.Message.(response.ErrorResponse); ok {
			message = resp.Message
		}
		return he.Code, message
	}

	// 도메인 에러: 에러 타입에 따라 상태 코드 매핑
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		switch appErr.Type() {
		case apperrors.InvalidInput:
			return http.StatusBadRequest, appErr.Message()
		case apperrors.NotFound:
			return http.StatusNotFound, appErr.Message()
		case apperrors.Conflict:
			return http.StatusConflict, appErr.Message()
		case apperrors.Unavailable:
			// 저장소 연결 불가 등의 상세 내용은 로그에만 남긴다.
			return http.StatusServiceUnavailable, constants.ErrMsgServiceUnavailable
		}
	}

	return http.StatusInternalServerError, constants.ErrMsgInternalServer
}
