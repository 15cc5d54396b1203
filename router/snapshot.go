package router

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/DataDog/zstd"
	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router/algo"
	"google.golang.org/protobuf/encoding/protowire"
)

// 快照的protobuf字段编号
//
//	Snapshot { 1 Stop stops; 2 Bus buses; 3 Distance distances; 4 Settings settings; 5 string vertices; 6 Edge edges }
//	Stop     { 1 string name; 2 double lat; 3 double lng }
//	Bus      { 1 string name; 2 bool is_circular; 3 packed uint64 stops }
//	Distance { 1 uint64 from; 2 uint64 to; 3 uint64 meters }
//	Settings { 1 double velocity; 2 double wait_time }
//	Edge     { 1 uint64 from; 2 uint64 to; 3 double weight; 4 string bus; 5 uint64 span_count }
const (
	SNAPSHOT_STOP     protowire.Number = 1
	SNAPSHOT_BUS      protowire.Number = 2
	SNAPSHOT_DISTANCE protowire.Number = 3
	SNAPSHOT_SETTINGS protowire.Number = 4
	SNAPSHOT_VERTEX   protowire.Number = 5
	SNAPSHOT_EDGE     protowire.Number = 6
)

// 错误：快照格式不正确
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

type snapshot struct {
	stops     []catalogue.Stop
	buses     []catalogue.Bus
	distances []catalogue.Distance
	settings  Settings
	vertices  []string
	edges     []algo.Edge[RideAttr]
}

// 序列化目录与已构建的图，相同输入得到相同字节
func MarshalSnapshot(cat *catalogue.Catalogue, r *TransportRouter) []byte {
	var b []byte
	for _, s := range cat.Stops() {
		var m []byte
		m = appendString(m, 1, s.Name)
		m = appendDouble(m, 2, s.Coordinates.Lat)
		m = appendDouble(m, 3, s.Coordinates.Lng)
		b = appendMessage(b, SNAPSHOT_STOP, m)
	}
	for _, bus := range cat.Buses() {
		var m []byte
		m = appendString(m, 1, bus.Name)
		m = appendVarint(m, 2, protowire.EncodeBool(bus.IsCircular))
		var packed []byte
		for _, s := range bus.Stops {
			packed = protowire.AppendVarint(packed, uint64(s))
		}
		m = appendMessage(m, 3, packed)
		b = appendMessage(b, SNAPSHOT_BUS, m)
	}
	for _, d := range cat.Distances() {
		var m []byte
		m = appendVarint(m, 1, uint64(d.From))
		m = appendVarint(m, 2, uint64(d.To))
		m = appendVarint(m, 3, uint64(d.Meters))
		b = appendMessage(b, SNAPSHOT_DISTANCE, m)
	}
	{
		var m []byte
		m = appendDouble(m, 1, r.settings.Velocity)
		m = appendDouble(m, 2, r.settings.WaitTime)
		b = appendMessage(b, SNAPSHOT_SETTINGS, m)
	}
	for _, name := range r.stopNames {
		b = appendString(b, SNAPSHOT_VERTEX, name)
	}
	for _, e := range r.graph.Edges() {
		var m []byte
		m = appendVarint(m, 1, uint64(e.From))
		m = appendVarint(m, 2, uint64(e.To))
		m = appendDouble(m, 3, e.Weight)
		m = appendString(m, 4, e.Attr.Bus)
		m = appendVarint(m, 5, uint64(e.Attr.SpanCount))
		b = appendMessage(b, SNAPSHOT_EDGE, m)
	}
	return b
}

// 从快照恢复目录与导航，不重新建图
func UnmarshalSnapshot(b []byte, opts ...Option) (*catalogue.Catalogue, *TransportRouter, error) {
	s, err := parseSnapshot(b)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if err := s.settings.Validate(); err != nil {
		return nil, nil, err
	}
	cat := catalogue.New()
	for _, stop := range s.stops {
		if _, err := cat.AddStop(stop.Name, stop.Coordinates); err != nil {
			return nil, nil, err
		}
	}
	for _, bus := range s.buses {
		if _, err := cat.AddBusByID(bus.Name, bus.IsCircular, bus.Stops); err != nil {
			return nil, nil, err
		}
	}
	for _, d := range s.distances {
		if err := cat.SetDistanceByID(d.From, d.To, d.Meters); err != nil {
			return nil, nil, err
		}
	}
	if len(s.vertices) != cat.StopCount() {
		return nil, nil, fmt.Errorf("%w: %d vertices for %d stops", ErrCorruptSnapshot, len(s.vertices), cat.StopCount())
	}
	r := &TransportRouter{
		settings:  s.settings,
		stopNames: s.vertices,
		vertices:  make(map[string]int, len(s.vertices)),
		graph:     algo.NewGraph[RideAttr](len(s.vertices)),
	}
	for i, name := range s.vertices {
		r.vertices[name] = i
	}
	for _, e := range s.edges {
		if _, err := r.graph.AddEdge(e); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
	}
	r.initSolver(opts...)
	log.Infof("snapshot restored: %d stops, %d buses, %d edges", cat.StopCount(), cat.BusCount(), r.graph.EdgeCount())
	return cat, r, nil
}

// 写入zstd压缩的快照文件
func SaveSnapshot(path string, cat *catalogue.Catalogue, r *TransportRouter) error {
	data, err := zstd.Compress(nil, MarshalSnapshot(cat, r))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Infof("snapshot saved to %s", path)
	return nil
}

func LoadSnapshot(path string, opts ...Option) (*catalogue.Catalogue, *TransportRouter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := zstd.Decompress(nil, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return UnmarshalSnapshot(b, opts...)
}

func parseSnapshot(b []byte) (*snapshot, error) {
	s := &snapshot{}
	err := parseMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case SNAPSHOT_STOP:
			m, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			stop, err := parseStop(m)
			s.stops = append(s.stops, stop)
			return n, err
		case SNAPSHOT_BUS:
			m, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			bus, err := parseBus(m)
			s.buses = append(s.buses, bus)
			return n, err
		case SNAPSHOT_DISTANCE:
			m, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			d, err := parseDistance(m)
			s.distances = append(s.distances, d)
			return n, err
		case SNAPSHOT_SETTINGS:
			m, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			s.settings, err = parseSettings(m)
			return n, err
		case SNAPSHOT_VERTEX:
			m, n, err := consumeBytes(typ, b)
			s.vertices = append(s.vertices, string(m))
			return n, err
		case SNAPSHOT_EDGE:
			m, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			e, err := parseEdge(m)
			s.edges = append(s.edges, e)
			return n, err
		}
		return skipField(num, typ, b)
	})
	return s, err
}

func parseStop(b []byte) (stop catalogue.Stop, err error) {
	err = parseMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(typ, b)
			stop.Name = string(v)
			return n, err
		case 2:
			v, n, err := consumeDouble(typ, b)
			stop.Coordinates.Lat = v
			return n, err
		case 3:
			v, n, err := consumeDouble(typ, b)
			stop.Coordinates.Lng = v
			return n, err
		}
		return skipField(num, typ, b)
	})
	return
}

func parseBus(b []byte) (bus catalogue.Bus, err error) {
	bus.Stops = make([]catalogue.StopID, 0)
	err = parseMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeBytes(typ, b)
			bus.Name = string(v)
			return n, err
		case 2:
			v, n, err := consumeVarint(typ, b)
			bus.IsCircular = protowire.DecodeBool(v)
			return n, err
		case 3:
			if typ == protowire.VarintType {
				v, n, err := consumeVarint(typ, b)
				bus.Stops = append(bus.Stops, catalogue.StopID(v))
				return n, err
			}
			packed, n, err := consumeBytes(typ, b)
			if err != nil {
				return 0, err
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					return 0, protowire.ParseError(m)
				}
				bus.Stops = append(bus.Stops, catalogue.StopID(v))
				packed = packed[m:]
			}
			return n, nil
		}
		return skipField(num, typ, b)
	})
	return
}

func parseDistance(b []byte) (d catalogue.Distance, err error) {
	err = parseMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num < 1 || num > 3 {
			return skipField(num, typ, b)
		}
		v, n, err := consumeVarint(typ, b)
		switch num {
		case 1:
			d.From = catalogue.StopID(v)
		case 2:
			d.To = catalogue.StopID(v)
		case 3:
			d.Meters = int(v)
		}
		return n, err
	})
	return
}

func parseSettings(b []byte) (s Settings, err error) {
	err = parseMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeDouble(typ, b)
			s.Velocity = v
			return n, err
		case 2:
			v, n, err := consumeDouble(typ, b)
			s.WaitTime = v
			return n, err
		}
		return skipField(num, typ, b)
	})
	return
}

func parseEdge(b []byte) (e algo.Edge[RideAttr], err error) {
	err = parseMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1, 2, 5:
			v, n, err := consumeVarint(typ, b)
			switch num {
			case 1:
				e.From = int(v)
			case 2:
				e.To = int(v)
			case 5:
				e.Attr.SpanCount = int(v)
			}
			return n, err
		case 3:
			v, n, err := consumeDouble(typ, b)
			e.Weight = v
			return n, err
		case 4:
			v, n, err := consumeBytes(typ, b)
			e.Attr.Bus = string(v)
			return n, err
		}
		return skipField(num, typ, b)
	})
	return
}

// wire helpers

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// 逐个字段回调，fn返回消耗的字节数
func parseMessage(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		b = b[m:]
	}
	return nil
}

func wireTypeError(want, got protowire.Type) error {
	return fmt.Errorf("wire type %d, want %d", got, want)
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, wireTypeError(protowire.BytesType, typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, wireTypeError(protowire.VarintType, typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeDouble(typ protowire.Type, b []byte) (float64, int, error) {
	if typ != protowire.Fixed64Type {
		return 0, 0, wireTypeError(protowire.Fixed64Type, typ)
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return math.Float64frombits(v), n, nil
}

func skipField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}
