package catalogue

import (
	"cmp"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/jamespfennell/gtfs"
)

// 读取GTFS静态数据压缩包
func LoadGTFS(path string) (*Catalogue, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read GTFS file: %w", err)
	}
	static, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("parse GTFS data: %w", err)
	}
	return FromGTFS(static)
}

// 由GTFS静态数据生成目录
// 每条route取停靠站点最多的trip作为线路，首末站相同视为环线
// 站间距离取大圆距离，GTFS中没有道路距离
func FromGTFS(static *gtfs.Static) (*Catalogue, error) {
	c := New()
	stopNames := make(map[string]string, len(static.Stops)) // stop id -> 目录中的站名
	for _, s := range static.Stops {
		name := s.Name
		if name == "" {
			name = s.Id
		}
		if _, ok := c.FindStop(name); ok {
			// 重名站点用id区分
			name = fmt.Sprintf("%s (%s)", name, s.Id)
		}
		coords := Coordinates{}
		if s.Latitude != nil && s.Longitude != nil {
			coords = Coordinates{Lat: *s.Latitude, Lng: *s.Longitude}
		}
		if _, err := c.AddStop(name, coords); err != nil {
			return nil, err
		}
		stopNames[s.Id] = name
	}

	// route id -> 停靠站点最多的trip
	longest := make(map[string]*gtfs.ScheduledTrip)
	for i := range static.Trips {
		trip := &static.Trips[i]
		if trip.Route == nil {
			continue
		}
		cur, ok := longest[trip.Route.Id]
		if !ok || len(trip.StopTimes) > len(cur.StopTimes) ||
			(len(trip.StopTimes) == len(cur.StopTimes) && trip.ID < cur.ID) {
			longest[trip.Route.Id] = trip
		}
	}
	for _, route := range static.Routes {
		trip, ok := longest[route.Id]
		if !ok || len(trip.StopTimes) == 0 {
			log.Debugf("route %s has no trips, skip", route.Id)
			continue
		}
		stopTimes := slices.Clone(trip.StopTimes)
		slices.SortStableFunc(stopTimes, func(a, b gtfs.ScheduledStopTime) int {
			return cmp.Compare(a.StopSequence, b.StopSequence)
		})
		stops := make([]string, 0, len(stopTimes))
		for _, st := range stopTimes {
			if st.Stop == nil {
				continue
			}
			name, ok := stopNames[st.Stop.Id]
			if !ok {
				return nil, fmt.Errorf("trip %s stop %s: %w", trip.ID, st.Stop.Id, ErrNotFound)
			}
			stops = append(stops, name)
		}
		busName := route.ShortName
		if busName == "" {
			busName = route.Id
		}
		if _, ok := c.FindBus(busName); ok {
			busName = fmt.Sprintf("%s (%s)", busName, route.Id)
		}
		isCircular := len(stops) > 1 && stops[0] == stops[len(stops)-1]
		id, err := c.AddBus(busName, isCircular, stops)
		if err != nil {
			return nil, err
		}
		if err := c.estimateDistances(id); err != nil {
			return nil, err
		}
	}
	log.Infof("catalogue built from GTFS: %d stops, %d buses", c.StopCount(), c.BusCount())
	return c, nil
}

// 为线路上缺少实测距离的相邻站点补充大圆距离
func (c *Catalogue) estimateDistances(id BusID) error {
	bus := c.buses[id]
	for i := 0; i+1 < len(bus.Stops); i++ {
		from, to := bus.Stops[i], bus.Stops[i+1]
		if _, ok := c.distances.Exact(from, to); ok {
			continue
		}
		meters := int(math.Round(GeoDistance(c.stops[from].Coordinates, c.stops[to].Coordinates)))
		if err := c.SetDistanceByID(from, to, meters); err != nil {
			return err
		}
	}
	return nil
}
