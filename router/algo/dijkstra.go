package algo

import (
	"container/heap"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/samber/lo"
)

// 单源最短路树
type shortestPathTree struct {
	dist []float64
	// 到达该点的最后一条边，-1表示无
	prev []EdgeID
}

// 基于Dijkstra的最短路求解器
// 图在构建完成后只读，查询的临时空间按次分配，可并发调用
type Router[ET any] struct {
	g *Graph[ET]
	// 起点 -> 最短路树，nil表示不缓存
	cache *xsync.MapOf[int, *shortestPathTree]
}

type RouterOption func(*routerOptions)

type routerOptions struct {
	cache bool
}

// 缓存每个起点的最短路树，适合同一起点反复查询的场景
func WithTreeCache() RouterOption {
	return func(o *routerOptions) {
		o.cache = true
	}
}

func NewRouter[ET any](g *Graph[ET], opts ...RouterOption) *Router[ET] {
	o := routerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Router[ET]{g: g}
	if o.cache {
		r.cache = xsync.NewMapOf[int, *shortestPathTree]()
	}
	return r
}

func (r *Router[ET]) Graph() *Graph[ET] {
	return r.g
}

// 计算from到to的最短路，不可达或编号越界时返回false
func (r *Router[ET]) BuildRoute(from, to int) (RouteInfo, bool) {
	n := r.g.VertexCount()
	if from < 0 || from >= n || to < 0 || to >= n {
		return RouteInfo{}, false
	}
	if from == to {
		return RouteInfo{Weight: 0, Edges: []EdgeID{}}, true
	}
	tree := r.tree(from)
	if tree.dist[to] == INF {
		return RouteInfo{}, false
	}
	return RouteInfo{
		Weight: tree.dist[to],
		Edges:  r.reconstructPath(tree, to),
	}, true
}

func (r *Router[ET]) tree(from int) *shortestPathTree {
	if r.cache == nil {
		return r.search(from)
	}
	tree, _ := r.cache.LoadOrCompute(from, func() *shortestPathTree {
		return r.search(from)
	})
	return tree
}

func (r *Router[ET]) reconstructPath(tree *shortestPathTree, to int) []EdgeID {
	pathBeforeReversed := make([]EdgeID, 0)
	for cur := to; tree.prev[cur] >= 0; {
		id := tree.prev[cur]
		pathBeforeReversed = append(pathBeforeReversed, id)
		cur = r.g.edges[id].From
	}
	return lo.Reverse(pathBeforeReversed)
}

// 完整的单源松弛，不在到达终点时提前退出
func (r *Router[ET]) search(from int) *shortestPathTree {
	n := r.g.VertexCount()
	tree := &shortestPathTree{
		dist: make([]float64, n),
		prev: make([]EdgeID, n),
	}
	for i := range tree.dist {
		tree.dist[i] = INF
		tree.prev[i] = -1
	}
	done := make([]bool, n)
	openSetMap := make([]*Item, n) // 点 -> openSet item
	openSet := make(PriorityQueue, 1)
	tree.dist[from] = 0
	openSet[0] = &Item{Value: from, Priority: 0, Index: 0}
	openSetMap[from] = openSet[0]
	heap.Init(&openSet)
	for openSet.Len() > 0 {
		cur := heap.Pop(&openSet).(*Item).Value
		done[cur] = true
		for id := range r.g.OutgoingEdges(cur) {
			e := r.g.edges[id]
			if done[e.To] {
				continue
			}
			tentative := tree.dist[cur] + e.Weight
			if tentative < tree.dist[e.To] {
				tree.dist[e.To] = tentative
				tree.prev[e.To] = id
				if item := openSetMap[e.To]; item != nil {
					// 已在堆中，修改优先级
					item.Priority = tentative
					heap.Fix(&openSet, item.Index)
				} else {
					item := &Item{Value: e.To, Priority: tentative}
					heap.Push(&openSet, item)
					openSetMap[e.To] = item
				}
			}
		}
	}
	return tree
}

// 清空最短路树缓存
func (r *Router[ET]) Reset() {
	if r.cache != nil {
		r.cache.Clear()
	}
}
