package main

import (
	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router"
	"github.com/samber/lo"
)

const NOT_FOUND = "not found"

// 以下结果均只含structpb.NewStruct支持的类型，同时用于JSON输出

func notFoundResult() map[string]any {
	return map[string]any{"error_message": NOT_FOUND}
}

// 站点不存在或没有路径时返回not found，其他错误原样返回
func routeResult(it *router.Itinerary, err error) (map[string]any, error) {
	if err != nil {
		if router.IsNotFound(err) {
			return notFoundResult(), nil
		}
		return nil, err
	}
	items := lo.Map(it.Steps, func(s router.Step, _ int) any {
		if s.Type == router.STEP_WAIT {
			return map[string]any{
				"type":      s.Type.String(),
				"stop_name": s.StopName,
				"time":      s.Time,
			}
		}
		return map[string]any{
			"type":       s.Type.String(),
			"bus":        s.Bus,
			"span_count": s.SpanCount,
			"time":       s.Time,
		}
	})
	return map[string]any{
		"total_time": it.TotalTime,
		"items":      items,
	}, nil
}

func busResult(cat *catalogue.Catalogue, name string) map[string]any {
	info, err := cat.RouteInfo(name)
	if err != nil {
		log.Debugf("bus %q: %v", name, err)
		return notFoundResult()
	}
	return map[string]any{
		"curvature":         info.Curvature,
		"route_length":      info.Length,
		"stop_count":        info.StopCount,
		"unique_stop_count": info.UniqueStopCount,
	}
}

func stopResult(cat *catalogue.Catalogue, name string) map[string]any {
	buses, err := cat.BusesForStop(name)
	if err != nil {
		return notFoundResult()
	}
	return map[string]any{
		"buses": lo.ToAnySlice(buses),
	}
}
