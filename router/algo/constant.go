package algo

import (
	"errors"
	"math"
)

var (
	// 不可达
	INF = math.Inf(0)
)

var (
	// 错误：点编号超出范围
	ErrVertexOutOfRange = errors.New("vertex out of range")
	// 错误：边编号超出范围
	ErrEdgeOutOfRange = errors.New("edge out of range")
	// 错误：边权为负或非数
	ErrNegativeWeight = errors.New("edge weight must be a non-negative number")
)
