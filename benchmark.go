package main

import (
	"context"
	"flag"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"math/rand"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	benchmarkCount = flag.Int("benchmark.count", 1000, "the random routing count for benchmark")
	benchmarkSeed  = flag.Int64("benchmark.seed", 0, "the seed for benchmark")
	benchmarkCPU   = flag.Int("benchmark.cpu", 1, "the cpu count for benchmark")
)

func runBenchmark(server *RoutingServer) {
	log.Logger.SetLevel(logrus.WarnLevel)
	stops := server.catalogue.Stops()
	if len(stops) == 0 {
		log.Error("benchmark skipped: no stops")
		return
	}
	// 设置随机种子
	e := rand.New(rand.NewSource(*benchmarkSeed))
	// 随机生成benchmarkCount个路径规划请求，每个请求的起点和终点都是随机的
	reqs := make([]*connect.Request[structpb.Struct], *benchmarkCount)
	for i := 0; i < *benchmarkCount; i++ {
		msg, err := structpb.NewStruct(map[string]any{
			"from": stops[e.Intn(len(stops))].Name,
			"to":   stops[e.Intn(len(stops))].Name,
		})
		if err != nil {
			log.Fatalf("benchmark request: %v", err)
		}
		reqs[i] = connect.NewRequest(msg)
	}

	run := func(req *connect.Request[structpb.Struct]) bool {
		res, err := server.GetRoute(context.Background(), req)
		if err != nil {
			log.Error("benchmark failed, err:", err)
			return false
		}
		_, ok := res.Msg.GetFields()["total_time"]
		return ok
	}

	// 开始benchmark
	start := time.Now()
	var wg sync.WaitGroup
	var success atomic.Int32
	if *benchmarkCPU == 1 {
		for _, req := range reqs {
			if run(req) {
				success.Add(1)
			}
		}
	} else {
		// 设置cpu数量
		runtime.GOMAXPROCS(*benchmarkCPU)
		wg.Add(*benchmarkCount)
		for _, req := range reqs {
			go func(req *connect.Request[structpb.Struct]) {
				defer wg.Done()
				if run(req) {
					success.Add(1)
				}
			}(req)
		}
		wg.Wait()
	}
	timeCost := time.Since(start) * time.Duration(*benchmarkCPU)
	log.Error(
		"benchmark finished", "\n",
		"count:", *benchmarkCount, "\n",
		"time:", timeCost, "\n",
		"avg:", timeCost/time.Duration(*benchmarkCount), "\n",
		"success:", success.Load(), "\n",
	)
}
