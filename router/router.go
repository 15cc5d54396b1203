package router

import (
	"fmt"

	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router/algo"
)

// 公交换乘导航
// 构建完成后只读，BuildRoute可并发调用
type TransportRouter struct {
	settings Settings
	// 点 -> 站名，与catalogue中的站点顺序一致
	stopNames []string
	// 站名 -> 点
	vertices map[string]int

	graph  *algo.Graph[RideAttr]
	solver *algo.Router[RideAttr]
}

type Option func(*options)

type options struct {
	routerOpts []algo.RouterOption
}

// 缓存每个出发站的最短路树
func WithRouteCache() Option {
	return func(o *options) {
		o.routerOpts = append(o.routerOpts, algo.WithTreeCache())
	}
}

func New(cat *catalogue.Catalogue, settings Settings, opts ...Option) (*TransportRouter, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	r := newRouter(settings, cat.Stops())
	if err := r.buildBusGraph(cat); err != nil {
		return nil, err
	}
	r.initSolver(opts...)
	return r, nil
}

func newRouter(settings Settings, stops []catalogue.Stop) *TransportRouter {
	r := &TransportRouter{
		settings:  settings,
		stopNames: make([]string, len(stops)),
		vertices:  make(map[string]int, len(stops)),
	}
	for i, s := range stops {
		r.stopNames[i] = s.Name
		r.vertices[s.Name] = i
	}
	return r
}

func (r *TransportRouter) initSolver(opts ...Option) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	r.solver = algo.NewRouter(r.graph, o.routerOpts...)
}

// 计算两站之间用时最短的行程
// 站点不存在返回ErrNotFound，没有路径返回ErrNoRoute
func (r *TransportRouter) BuildRoute(from, to string) (itinerary *Itinerary, err error) {
	// panic recover
	defer func() {
		if e := recover(); e != nil {
			itinerary = nil
			err = fmt.Errorf("panic: BuildRoute %v with input from=%q, to=%q", e, from, to)
			log.Errorln(err)
		}
	}()
	fromV, ok := r.vertices[from]
	if !ok {
		return nil, fmt.Errorf("stop %q: %w", from, ErrNotFound)
	}
	toV, ok := r.vertices[to]
	if !ok {
		return nil, fmt.Errorf("stop %q: %w", to, ErrNotFound)
	}
	route, ok := r.solver.BuildRoute(fromV, toV)
	if !ok {
		log.Debugf("routing failed, no path between %q and %q", from, to)
		return nil, fmt.Errorf("%w between %q and %q", ErrNoRoute, from, to)
	}
	return r.translate(route)
}

// getter

func (r *TransportRouter) Settings() Settings {
	return r.settings
}

func (r *TransportRouter) VertexCount() int {
	return len(r.stopNames)
}

func (r *TransportRouter) StopName(vertex int) (string, bool) {
	if vertex < 0 || vertex >= len(r.stopNames) {
		return "", false
	}
	return r.stopNames[vertex], true
}

func (r *TransportRouter) Vertex(name string) (int, bool) {
	v, ok := r.vertices[name]
	return v, ok
}

func (r *TransportRouter) Graph() *algo.Graph[RideAttr] {
	return r.graph
}

// 释放查询缓存
func (r *TransportRouter) Close() {
	r.solver.Reset()
}
