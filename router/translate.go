package router

import (
	"github.com/martinovalekse/Transport-catalog/router/algo"
)

// 把最短路的每条边展开为等车与乘车两步
func (r *TransportRouter) translate(route algo.RouteInfo) (*Itinerary, error) {
	itinerary := &Itinerary{
		TotalTime: route.Weight,
		Steps:     make([]Step, 0, 2*len(route.Edges)),
	}
	for _, id := range route.Edges {
		e, err := r.graph.Edge(id)
		if err != nil {
			return nil, err
		}
		itinerary.Steps = append(itinerary.Steps,
			Step{
				Type:     STEP_WAIT,
				StopName: r.stopNames[e.From],
				Time:     r.settings.WaitTime,
			},
			Step{
				Type:      STEP_RIDE,
				Bus:       e.Attr.Bus,
				SpanCount: e.Attr.SpanCount,
				Time:      e.Weight - r.settings.WaitTime,
			},
		)
	}
	return itinerary, nil
}
