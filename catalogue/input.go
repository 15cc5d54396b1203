package catalogue

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	REQUEST_STOP = "Stop"
	REQUEST_BUS  = "Bus"
)

// base_requests中的一项，JSON与MongoDB文档共用
type BaseRequest struct {
	Type string `json:"type" bson:"type"`
	Name string `json:"name" bson:"name"`

	// Stop
	Latitude      float64        `json:"latitude" bson:"latitude"`
	Longitude     float64        `json:"longitude" bson:"longitude"`
	RoadDistances map[string]int `json:"road_distances" bson:"road_distances"`

	// Bus
	Stops       []string `json:"stops" bson:"stops"`
	IsRoundtrip bool     `json:"is_roundtrip" bson:"is_roundtrip"`
}

// 速度km/h，等车时间min
type RoutingSettings struct {
	BusVelocity float64 `json:"bus_velocity" bson:"bus_velocity"`
	BusWaitTime float64 `json:"bus_wait_time" bson:"bus_wait_time"`
}

type SerializationSettings struct {
	File string `json:"file" bson:"file"`
}

// 输入数据的解析结果
type Base struct {
	Catalogue *Catalogue
	// 输入中没有routing_settings时为nil
	RoutingSettings       *RoutingSettings
	SerializationSettings *SerializationSettings
}

// 先加入全部站点，再加入线路，最后加入距离
// 距离按起点名、终点名的字典序加入
func Build(requests []BaseRequest) (*Catalogue, error) {
	c := New()
	stops := lo.Filter(requests, func(r BaseRequest, _ int) bool { return r.Type == REQUEST_STOP })
	buses := lo.Filter(requests, func(r BaseRequest, _ int) bool { return r.Type == REQUEST_BUS })
	for _, r := range requests {
		if r.Type != REQUEST_STOP && r.Type != REQUEST_BUS {
			log.Warnf("skip base request %q with unknown type %q", r.Name, r.Type)
		}
	}
	for _, s := range stops {
		if _, err := c.AddStop(s.Name, Coordinates{Lat: s.Latitude, Lng: s.Longitude}); err != nil {
			return nil, err
		}
	}
	for _, b := range buses {
		if _, err := c.AddBus(b.Name, b.IsRoundtrip, b.Stops); err != nil {
			return nil, err
		}
	}
	slices.SortStableFunc(stops, func(a, b BaseRequest) int {
		return strings.Compare(a.Name, b.Name)
	})
	for _, s := range stops {
		to := lo.Keys(s.RoadDistances)
		slices.Sort(to)
		for _, name := range to {
			if err := c.SetDistance(s.Name, name, s.RoadDistances[name]); err != nil {
				return nil, fmt.Errorf("road distances of %q: %w", s.Name, err)
			}
		}
	}
	log.Infof("catalogue built: %d stops, %d buses, %d distances", c.StopCount(), c.BusCount(), c.distances.Len())
	return c, nil
}
