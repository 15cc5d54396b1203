package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martinovalekse/Transport-catalog/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var (
	// 配置信息
	mongoURI     = flag.String("mongo_uri", "", "mongo db uri")
	basePathStr  = flag.String("base", "", "base requests [format: {fspath}.json, {fspath}.zip (GTFS) or {db}.{col}]")
	snapshotPath = flag.String("snapshot", "", "snapshot file, loaded if exists, otherwise written after building")
	cacheDir     = flag.String("cache", "", "input cache dir path (empty means disable cache)")
	velocity     = flag.Float64("velocity", 0, "bus velocity in km/h, overrides routing_settings if > 0")
	waitTime     = flag.Float64("wait", -1, "bus wait time in minutes, overrides routing_settings if >= 0")
	routeCache   = flag.Bool("route-cache", false, "cache shortest path trees by departure stop")
	requestsPath = flag.String("requests", "", "stat requests json file, answer to stdout and exit")
	grpcEndpoint = flag.String("listen", "localhost:52101", "gRPC listening address")
	logLevel     = flag.String("log-level", "info", "log level [debug, info, warn, error, fatal, panic]")

	// 性能测试
	benchmark = flag.Bool("benchmark", false, "benchmark mode")
	pprofAddr = flag.String("pprof", "localhost:52102", "pprof and metrics listening address")

	LOG_LEVELS = map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"fatal": logrus.FatalLevel,
		"panic": logrus.PanicLevel,
	}
)

func main() {
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	flag.Parse()
	if level, ok := LOG_LEVELS[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.Fatalf("invalid log level: %s", *logLevel)
	}

	basePath, err := NewPath(*basePathStr)
	if err != nil {
		logrus.Fatalf("invalid base path: %s", err)
	}
	cfg := loadConfig{
		MongoURI: *mongoURI,
		Base:     basePath,
		Snapshot: *snapshotPath,
		CacheDir: *cacheDir,
		Velocity: *velocity,
		WaitTime: *waitTime,
	}
	if *routeCache {
		cfg.RouterOpts = append(cfg.RouterOpts, router.WithRouteCache())
	}

	var statDoc *statDocument
	if *requestsPath != "" {
		if statDoc, err = readStatRequests(*requestsPath); err != nil {
			log.Fatalf("failed to read stat requests: %v", err)
		}
		if cfg.Snapshot == "" && statDoc.SerializationSettings != nil {
			cfg.Snapshot = statDoc.SerializationSettings.File
		}
	}

	cat, r, err := load(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to load transport catalogue: %v", err)
	}

	if statDoc != nil {
		// 回答统计请求后退出
		if err := writeStatResponses(os.Stdout, answerStatRequests(cat, r, statDoc.StatRequests)); err != nil {
			log.Fatalf("failed to write responses: %v", err)
		}
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	// 启动导航服务
	server := NewRoutingServer(cat, r, reg)

	if *pprofAddr != "" {
		// 启动pprof
		startHTTPDebugger(*pprofAddr, reg)
	}

	if *benchmark {
		// 性能测试
		runBenchmark(server)
		return
	}

	// 启动tcp监听和初始化connect服务端
	mux := http.NewServeMux()
	server.Register(mux)

	addr := *grpcEndpoint
	// 使用HTTP/2 w.o. TLS
	s := &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	// 优雅退出
	// 创建监听退出chan
	signalCh := make(chan os.Signal, 1)
	//监听指定信号 ctrl+c kill
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Info("stopping...")
		go func() {
			<-signalCh
			os.Exit(1) // 强制结束
		}()
		// 退出connect-go
		s.Close()
		// 退出导航服务
		server.Close()
		os.Exit(0)
	}()

	// 启动gRPC server
	log.Infof("server listening at %v", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("failed to serve: %v", err)
	}
	time.Sleep(1 * time.Second) // 延迟等待"优雅退出"
	log.Info("transport catalogue closes")
}
