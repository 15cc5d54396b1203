package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	SERVICE_NAME = "transport.catalogue.v1.CatalogueService"

	GET_ROUTE_PROCEDURE = "/" + SERVICE_NAME + "/GetRoute"
	GET_BUS_PROCEDURE   = "/" + SERVICE_NAME + "/GetBus"
	GET_STOP_PROCEDURE  = "/" + SERVICE_NAME + "/GetStop"
)

const (
	RESULT_OK        = "ok"
	RESULT_NOT_FOUND = "not_found"
	RESULT_INVALID   = "invalid"
	RESULT_ERROR     = "error"
)

type serverMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transport",
			Subsystem: "catalogue",
			Name:      "requests_total",
			Help:      "Number of handled requests by method and result.",
		}, []string{"method", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "transport",
			Subsystem: "catalogue",
			Name:      "request_duration_seconds",
			Help:      "Request handling latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.latency)
	}
	return m
}

func (m *serverMetrics) observe(method string, start time.Time, result string) {
	m.requests.WithLabelValues(method, result).Inc()
	m.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

type RoutingServer struct {
	catalogue *catalogue.Catalogue
	router    *router.TransportRouter
	metrics   *serverMetrics

	// 接口开启true或关闭false
	ok bool
	// 条件变量
	cond *sync.Cond
}

func NewRoutingServer(cat *catalogue.Catalogue, r *router.TransportRouter, reg prometheus.Registerer) *RoutingServer {
	return &RoutingServer{
		catalogue: cat,
		router:    r,
		metrics:   newServerMetrics(reg),
		ok:        true, cond: sync.NewCond(&sync.Mutex{})}
}

// 注册connect服务，请求与响应均为google.protobuf.Struct
func (s *RoutingServer) Register(mux *http.ServeMux) {
	mux.Handle(GET_ROUTE_PROCEDURE, connect.NewUnaryHandler(GET_ROUTE_PROCEDURE, s.GetRoute))
	mux.Handle(GET_BUS_PROCEDURE, connect.NewUnaryHandler(GET_BUS_PROCEDURE, s.GetBus))
	mux.Handle(GET_STOP_PROCEDURE, connect.NewUnaryHandler(GET_STOP_PROCEDURE, s.GetStop))
}

// 暂停-恢复机制
func (s *RoutingServer) waitResumed() {
	s.cond.L.Lock()
	for !s.ok {
		// 暂停中
		s.cond.Wait()
	}
	s.cond.L.Unlock()
}

// 请求{from, to}，响应{total_time, items}或{error_message: "not found"}
func (s *RoutingServer) GetRoute(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	start := time.Now()
	s.waitResumed()
	from, err := stringField(req.Msg, "from")
	if err != nil {
		s.metrics.observe("GetRoute", start, RESULT_INVALID)
		return nil, err
	}
	to, err := stringField(req.Msg, "to")
	if err != nil {
		s.metrics.observe("GetRoute", start, RESULT_INVALID)
		return nil, err
	}
	log.Debugf("Search route from %q to %q", from, to)
	it, err := s.router.BuildRoute(from, to)
	res, err := routeResult(it, err)
	if err != nil {
		s.metrics.observe("GetRoute", start, RESULT_ERROR)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return s.respond("GetRoute", start, res)
}

// 请求{name}，响应线路统计或{error_message: "not found"}
func (s *RoutingServer) GetBus(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	start := time.Now()
	s.waitResumed()
	name, err := stringField(req.Msg, "name")
	if err != nil {
		s.metrics.observe("GetBus", start, RESULT_INVALID)
		return nil, err
	}
	return s.respond("GetBus", start, busResult(s.catalogue, name))
}

// 请求{name}，响应{buses}或{error_message: "not found"}
func (s *RoutingServer) GetStop(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	start := time.Now()
	s.waitResumed()
	name, err := stringField(req.Msg, "name")
	if err != nil {
		s.metrics.observe("GetStop", start, RESULT_INVALID)
		return nil, err
	}
	return s.respond("GetStop", start, stopResult(s.catalogue, name))
}

func (s *RoutingServer) respond(method string, start time.Time, res map[string]any) (*connect.Response[structpb.Struct], error) {
	msg, err := structpb.NewStruct(res)
	if err != nil {
		s.metrics.observe(method, start, RESULT_ERROR)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	result := RESULT_OK
	if _, ok := res["error_message"]; ok {
		result = RESULT_NOT_FOUND
	}
	s.metrics.observe(method, start, result)
	return connect.NewResponse(msg), nil
}

func stringField(msg *structpb.Struct, key string) (string, error) {
	v, ok := msg.GetFields()[key]
	if !ok {
		return "", connect.NewError(
			connect.CodeInvalidArgument,
			fmt.Errorf("no field %q in request", key),
		)
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", connect.NewError(
			connect.CodeInvalidArgument,
			errors.New("field "+key+" should be a string"),
		)
	}
	return sv.StringValue, nil
}

// 暂停导航服务
func (s *RoutingServer) Suspend() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = false
}

// 恢复导航服务
func (s *RoutingServer) Resume() {
	s.cond.L.Lock()
	defer s.cond.L.Unlock()
	s.ok = true
	s.cond.Broadcast()
}

// 关闭导航服务
func (s *RoutingServer) Close() {
	s.router.Close()
}
