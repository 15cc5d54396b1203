package catalogue

// 一条实测的有向站间距离（米）
type Distance struct {
	From   StopID
	To     StopID
	Meters int
}

type stopPair struct {
	from, to StopID
}

// 有向站间距离表
// 查询(a, b)时先查a -> b，没有则退回b -> a
type DistanceIndex struct {
	lookup map[stopPair]int // 点对 -> entries下标
	// 按加入顺序保存，用于持久化
	entries []Distance
}

func NewDistanceIndex() *DistanceIndex {
	return &DistanceIndex{
		lookup:  make(map[stopPair]int),
		entries: make([]Distance, 0),
	}
}

// 记录from -> to的距离，已存在时保留原值并返回false
func (d *DistanceIndex) Set(from, to StopID, meters int) bool {
	key := stopPair{from, to}
	if _, ok := d.lookup[key]; ok {
		return false
	}
	d.lookup[key] = len(d.entries)
	d.entries = append(d.entries, Distance{From: from, To: to, Meters: meters})
	return true
}

// 仅查询from -> to方向
func (d *DistanceIndex) Exact(from, to StopID) (int, bool) {
	i, ok := d.lookup[stopPair{from, to}]
	if !ok {
		return 0, false
	}
	return d.entries[i].Meters, true
}

// 先查from -> to，再查to -> from
func (d *DistanceIndex) Get(from, to StopID) (int, bool) {
	if m, ok := d.Exact(from, to); ok {
		return m, true
	}
	return d.Exact(to, from)
}

func (d *DistanceIndex) Len() int {
	return len(d.entries)
}

// 全部距离的拷贝，按加入顺序
func (d *DistanceIndex) Entries() []Distance {
	return append([]Distance(nil), d.entries...)
}
