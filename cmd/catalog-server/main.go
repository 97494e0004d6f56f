package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/darkkaiser/catalog-server/internal/config"
	"github.com/darkkaiser/catalog-server/internal/pkg/version"
	"github.com/darkkaiser/catalog-server/internal/service"
	"github.com/darkkaiser/catalog-server/internal/service/api"
	"github.com/darkkaiser/catalog-server/internal/service/catalog/mongostore"
	"github.com/darkkaiser/catalog-server/internal/service/ingest"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
	log "github.com/sirupsen/logrus"

	// 수집기 등록 (init)
	_ "github.com/darkkaiser/catalog-server/internal/service/ingest/source/mytek"
	_ "github.com/darkkaiser/catalog-server/internal/service/ingest/source/tunisianet"
)

const (
	banner = `
   ____        _          _                   ____
  / ___| __ _ | |_  __ _ | |  ___    __ _    / ___|   ___  _ __ __   __  ___  _ __
 | |    / _` + "`" + ` || __|/ _` + "`" + ` || | / _ \  / _` + "`" + ` |   \___ \  / _ \| '__|\ \ / / / _ \| '__|
 | |___| (_| || |_| (_| || || (_) || (_| |    ___) ||  __/| |    \ V / |  __/| |
  \____|\__,_| \__|\__,_||_| \___/  \__, |   |____/  \___||_|     \_/   \___||_|
                                    |___/                                        %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU()) // 모든 CPU 사용

	// 환경설정 정보를 읽어들인다.
	appConfig := loadAppConfig()

	// 로그를 초기화한다.
	logOptions := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOptions = applog.NewDevelopmentOptions(config.AppName)
	}

	logCloser, err := applog.Setup(logOptions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "로그 초기화에 실패하였습니다: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logCloser.Close()
	}()

	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	// 빌드 정보 출력
	log.Infof("빌드 정보 - 버전: %s, 커밋: %s, 빌드 날짜: %s", buildInfo.Version, buildInfo.Commit, buildInfo.BuildDate)
	log.Infof("Go 버전: %s, OS/Arch: %s/%s", buildInfo.GoVersion, buildInfo.OS, buildInfo.Arch)

	// 권장 설정 준수 여부를 진단한다.
	for _, warning := range appConfig.VerifyRecommendations() {
		log.Warn(warning)
	}

	// 상품 문서 저장소에 접속하고 인덱스를 보장한다.
	store, err := mongostore.New(context.Background(), &appConfig.Mongo)
	if err != nil {
		log.Fatalf("상품 문서 저장소 초기화에 실패하였습니다: %v", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Errorf("상품 문서 저장소 연결 종료 중 오류가 발생하였습니다: %v", err)
		}
	}()

	if err := store.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("상품 문서 저장소 인덱스 생성에 실패하였습니다: %v", err)
	}

	// 서비스를 생성하고 초기화한다.
	ingestService := ingest.NewService(appConfig, store)
	catalogAPIService := api.NewService(appConfig, store, store.Ping)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWaiter := &sync.WaitGroup{}

	// 서비스를 시작한다.
	services := []service.Service{ingestService, catalogAPIService}
	for _, s := range services {
		serviceStopWaiter.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWaiter); err != nil {
			log.Errorf("서비스 시작 실패: %v", err)
			cancel() // 다른 서비스들도 종료
			serviceStopWaiter.Wait()
			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// 서버 기동 직후 1회 수집을 수행하여 저장소를 최신 상태로 만든다.
	go ingestService.RunAllOnce(serviceStopCtx)

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	<-termC // Blocks here until interrupted

	// Handle shutdown
	log.Info("Shutdown signal received")
	cancel()                 // Signal cancellation to context.Context
	serviceStopWaiter.Wait() // Block here until are workers are done
}

// loadAppConfig 실행 인자로 지정된 설정 파일(없으면 기본 파일)을 로드합니다.
func loadAppConfig() *config.AppConfig {
	filename := config.DefaultFilename
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	appConfig, err := config.LoadWithFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "환경설정 정보 로드에 실패하였습니다: %v\n", err)
		os.Exit(1)
	}

	return appConfig
}
