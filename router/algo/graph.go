package algo

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// 有向图，点编号为[0, n)，边按加入顺序编号
// 构建完成后只读，可被多个goroutine并发查询
type Graph[ET any] struct {
	edges []Edge[ET]
	// 邻接表，点 -> 出边编号（按加入顺序）
	incidence [][]EdgeID
}

func NewGraph[ET any](vertexCount int) *Graph[ET] {
	if vertexCount < 0 {
		vertexCount = 0
	}
	return &Graph[ET]{
		edges:     make([]Edge[ET], 0),
		incidence: make([][]EdgeID, vertexCount),
	}
}

func (g *Graph[ET]) AddEdge(e Edge[ET]) (EdgeID, error) {
	if e.From < 0 || e.From >= len(g.incidence) {
		return 0, fmt.Errorf("from %d: %w", e.From, ErrVertexOutOfRange)
	}
	if e.To < 0 || e.To >= len(g.incidence) {
		return 0, fmt.Errorf("to %d: %w", e.To, ErrVertexOutOfRange)
	}
	if math.IsNaN(e.Weight) || e.Weight < 0 {
		return 0, fmt.Errorf("%d -> %d weight %v: %w", e.From, e.To, e.Weight, ErrNegativeWeight)
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, e)
	g.incidence[e.From] = append(g.incidence[e.From], id)
	return id, nil
}

func (g *Graph[ET]) Edge(id EdgeID) (Edge[ET], error) {
	if id < 0 || int(id) >= len(g.edges) {
		return Edge[ET]{}, fmt.Errorf("edge %d: %w", id, ErrEdgeOutOfRange)
	}
	return g.edges[id], nil
}

// 出边编号，按加入顺序；越界的点没有出边
func (g *Graph[ET]) OutgoingEdges(v int) iter.Seq[EdgeID] {
	return func(yield func(EdgeID) bool) {
		if v < 0 || v >= len(g.incidence) {
			return
		}
		for _, id := range g.incidence[v] {
			if !yield(id) {
				return
			}
		}
	}
}

func (g *Graph[ET]) VertexCount() int {
	return len(g.incidence)
}

func (g *Graph[ET]) EdgeCount() int {
	return len(g.edges)
}

// 全部边的拷贝，按编号顺序
func (g *Graph[ET]) Edges() []Edge[ET] {
	return slices.Clone(g.edges)
}
