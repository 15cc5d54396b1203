package algo

// 边编号，按加入顺序从0开始
type EdgeID int

// 有向带权边，Attr为调用方附带的边属性
type Edge[ET any] struct {
	From   int
	To     int
	Weight float64
	Attr   ET
}

// 最短路结果：总权值与从起点到终点依次经过的边
type RouteInfo struct {
	Weight float64
	Edges  []EdgeID
}
