package catalogue

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// 站点编号，按加入顺序从0开始
type StopID int

// 线路编号，按加入顺序从0开始
type BusID int

type Coordinates struct {
	Lat float64
	Lng float64
}

type Stop struct {
	Name        string
	Coordinates Coordinates
}

type Bus struct {
	Name string
	// 环线的站点序列首尾相同，非环线只记录单程
	IsCircular bool
	Stops      []StopID
}

// 公交目录：站点、线路与站间距离
// 加入数据只在构建阶段进行，构建完成后只读
type Catalogue struct {
	stops []Stop
	buses []Bus

	stopIndex map[string]StopID
	busIndex  map[string]BusID
	// 站点 -> 经过的线路（按加入顺序，已去重）
	stopBuses map[StopID][]BusID

	distances *DistanceIndex
}

func New() *Catalogue {
	return &Catalogue{
		stops:     make([]Stop, 0),
		buses:     make([]Bus, 0),
		stopIndex: make(map[string]StopID),
		busIndex:  make(map[string]BusID),
		stopBuses: make(map[StopID][]BusID),
		distances: NewDistanceIndex(),
	}
}

func (c *Catalogue) AddStop(name string, coords Coordinates) (StopID, error) {
	if _, ok := c.stopIndex[name]; ok {
		return 0, fmt.Errorf("stop %q: %w", name, ErrDuplicateStop)
	}
	id := StopID(len(c.stops))
	c.stops = append(c.stops, Stop{Name: name, Coordinates: coords})
	c.stopIndex[name] = id
	return id, nil
}

// 按站名加入线路，站点必须已存在
func (c *Catalogue) AddBus(name string, isCircular bool, stopNames []string) (BusID, error) {
	stops := make([]StopID, 0, len(stopNames))
	for _, stopName := range stopNames {
		id, ok := c.stopIndex[stopName]
		if !ok {
			return 0, fmt.Errorf("bus %q stop %q: %w", name, stopName, ErrNotFound)
		}
		stops = append(stops, id)
	}
	return c.AddBusByID(name, isCircular, stops)
}

func (c *Catalogue) AddBusByID(name string, isCircular bool, stops []StopID) (BusID, error) {
	if _, ok := c.busIndex[name]; ok {
		return 0, fmt.Errorf("bus %q: %w", name, ErrDuplicateBus)
	}
	for _, s := range stops {
		if s < 0 || int(s) >= len(c.stops) {
			return 0, fmt.Errorf("bus %q stop id %d: %w", name, s, ErrNotFound)
		}
	}
	id := BusID(len(c.buses))
	c.buses = append(c.buses, Bus{Name: name, IsCircular: isCircular, Stops: slices.Clone(stops)})
	c.busIndex[name] = id
	for _, s := range lo.Uniq(stops) {
		c.stopBuses[s] = append(c.stopBuses[s], id)
	}
	return id, nil
}

// 记录from -> to的实测距离，同一方向重复记录时保留第一次的值
func (c *Catalogue) SetDistance(from, to string, meters int) error {
	fromID, ok := c.stopIndex[from]
	if !ok {
		return fmt.Errorf("stop %q: %w", from, ErrNotFound)
	}
	toID, ok := c.stopIndex[to]
	if !ok {
		return fmt.Errorf("stop %q: %w", to, ErrNotFound)
	}
	return c.SetDistanceByID(fromID, toID, meters)
}

func (c *Catalogue) SetDistanceByID(from, to StopID, meters int) error {
	if !c.validStop(from) || !c.validStop(to) {
		return fmt.Errorf("distance %d -> %d: %w", from, to, ErrNotFound)
	}
	if meters < 0 {
		return fmt.Errorf("distance %q -> %q is %d: %w", c.stops[from].Name, c.stops[to].Name, meters, ErrInvalidDistance)
	}
	if !c.distances.Set(from, to, meters) {
		log.Debugf("distance %q -> %q already set, keep the first value", c.stops[from].Name, c.stops[to].Name)
	}
	return nil
}

// 站间道路距离，from -> to不存在时使用to -> from
func (c *Catalogue) GetDistance(from, to StopID) (int, error) {
	if !c.validStop(from) || !c.validStop(to) {
		return 0, fmt.Errorf("distance %d -> %d: %w", from, to, ErrNotFound)
	}
	m, ok := c.distances.Get(from, to)
	if !ok {
		return 0, fmt.Errorf("distance %q -> %q: %w", c.stops[from].Name, c.stops[to].Name, ErrNotFound)
	}
	return m, nil
}

func (c *Catalogue) FindStop(name string) (StopID, bool) {
	id, ok := c.stopIndex[name]
	return id, ok
}

func (c *Catalogue) FindBus(name string) (BusID, bool) {
	id, ok := c.busIndex[name]
	return id, ok
}

func (c *Catalogue) Stop(id StopID) (Stop, bool) {
	if !c.validStop(id) {
		return Stop{}, false
	}
	return c.stops[id], true
}

func (c *Catalogue) Bus(id BusID) (Bus, bool) {
	if id < 0 || int(id) >= len(c.buses) {
		return Bus{}, false
	}
	return c.buses[id], true
}

// 全部站点，按加入顺序，调用方不应修改
func (c *Catalogue) Stops() []Stop {
	return c.stops
}

// 全部线路，按加入顺序，调用方不应修改
func (c *Catalogue) Buses() []Bus {
	return c.buses
}

func (c *Catalogue) StopCount() int {
	return len(c.stops)
}

func (c *Catalogue) BusCount() int {
	return len(c.buses)
}

// 全部实测距离，按加入顺序
func (c *Catalogue) Distances() []Distance {
	return c.distances.Entries()
}

func (c *Catalogue) validStop(id StopID) bool {
	return id >= 0 && int(id) < len(c.stops)
}
