package router

import (
	"fmt"
	"slices"

	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router/algo"
	"github.com/samber/lo"
)

// 公交图：点为站点（编号同catalogue.StopID），边为乘坐某条线路从一站直达后面任意一站
// 边权为等车时间加行驶时间
// 非环线额外按反向站点序列建一组边
func (r *TransportRouter) buildBusGraph(cat *catalogue.Catalogue) error {
	r.graph = algo.NewGraph[RideAttr](len(r.stopNames))
	for _, bus := range cat.Buses() {
		if err := r.addLineEdges(cat, bus.Name, bus.Stops); err != nil {
			return err
		}
		if !bus.IsCircular {
			reversed := lo.Reverse(slices.Clone(bus.Stops))
			if err := r.addLineEdges(cat, bus.Name, reversed); err != nil {
				return err
			}
		}
	}
	log.Infof("bus graph built: %d vertices, %d edges", r.graph.VertexCount(), r.graph.EdgeCount())
	return nil
}

func (r *TransportRouter) addLineEdges(cat *catalogue.Catalogue, bus string, stops []catalogue.StopID) error {
	if len(stops) < 2 {
		return nil
	}
	// 相邻两站的行驶时间，每段单独查询距离
	legs := make([]float64, len(stops)-1)
	for i := range legs {
		meters, err := cat.GetDistance(stops[i], stops[i+1])
		if err != nil {
			return fmt.Errorf("bus %q: %w", bus, err)
		}
		legs[i] = r.settings.travelTime(meters)
	}
	for i := 0; i < len(stops)-1; i++ {
		travel := 0.0
		for j := i + 1; j < len(stops); j++ {
			travel += legs[j-1]
			// 同一站点之间不建边，但行驶时间继续累计
			if stops[i] == stops[j] {
				continue
			}
			if _, err := r.graph.AddEdge(algo.Edge[RideAttr]{
				From:   int(stops[i]),
				To:     int(stops[j]),
				Weight: travel + r.settings.WaitTime,
				Attr:   RideAttr{Bus: bus, SpanCount: j - i},
			}); err != nil {
				return fmt.Errorf("bus %q: %w", bus, err)
			}
		}
	}
	return nil
}
