// Package service 애플리케이션을 구성하는 장기 실행 서비스들의 공통 계약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션 생명주기에 참여하는 장기 실행 서비스의 인터페이스입니다.
//
// Start()는 즉시 반환되며, 실제 작업은 내부 고루틴에서 수행됩니다.
// serviceStopCtx가 취소되면 서비스는 정리 작업을 수행한 후 serviceStopWG.Done()을 호출해야 합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
