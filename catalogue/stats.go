package catalogue

import (
	"fmt"
	"slices"

	"github.com/golang/geo/s2"
	"github.com/samber/lo"
)

// 地球半径/m
const EARTH_RADIUS = 6371000

// 线路统计
type RouteInfo struct {
	// 往返全程停靠次数，非环线为2n-1
	StopCount       int
	UniqueStopCount int
	// 道路长度/m
	Length int
	// 道路长度与大圆距离之比
	Curvature float64
}

// 两点间大圆距离/m
func GeoDistance(a, b Coordinates) float64 {
	if a == b {
		return 0
	}
	angle := s2.LatLngFromDegrees(a.Lat, a.Lng).Distance(s2.LatLngFromDegrees(b.Lat, b.Lng))
	return angle.Radians() * EARTH_RADIUS
}

func (c *Catalogue) RouteInfo(busName string) (RouteInfo, error) {
	id, ok := c.busIndex[busName]
	if !ok {
		return RouteInfo{}, fmt.Errorf("bus %q: %w", busName, ErrNotFound)
	}
	bus := c.buses[id]
	info := RouteInfo{
		StopCount:       len(bus.Stops),
		UniqueStopCount: len(lo.Uniq(bus.Stops)),
	}
	if !bus.IsCircular && len(bus.Stops) > 0 {
		info.StopCount = 2*len(bus.Stops) - 1
	}
	geoLength := 0.0
	for i := 0; i+1 < len(bus.Stops); i++ {
		from, to := bus.Stops[i], bus.Stops[i+1]
		m, err := c.GetDistance(from, to)
		if err != nil {
			return RouteInfo{}, fmt.Errorf("bus %q: %w", busName, err)
		}
		info.Length += m
		geoLength += GeoDistance(c.stops[from].Coordinates, c.stops[to].Coordinates)
		if !bus.IsCircular {
			// 返程按反方向查询距离
			back, err := c.GetDistance(to, from)
			if err != nil {
				return RouteInfo{}, fmt.Errorf("bus %q: %w", busName, err)
			}
			info.Length += back
		}
	}
	if !bus.IsCircular {
		geoLength *= 2
	}
	if geoLength > 0 {
		info.Curvature = float64(info.Length) / geoLength
	}
	return info, nil
}

// 经过站点的线路名，按字典序，站点不存在时返回ErrNotFound
func (c *Catalogue) BusesForStop(stopName string) ([]string, error) {
	id, ok := c.stopIndex[stopName]
	if !ok {
		return nil, fmt.Errorf("stop %q: %w", stopName, ErrNotFound)
	}
	names := lo.Map(c.stopBuses[id], func(b BusID, _ int) string {
		return c.buses[b].Name
	})
	slices.Sort(names)
	return names, nil
}
