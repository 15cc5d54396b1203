package router

import (
	"math"
	"sync"
	"testing"

	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router/algo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBus struct {
	name       string
	isCircular bool
	stops      []string
}

type testDistance struct {
	from, to string
	meters   int
}

func newTestCatalogue(t *testing.T, stops []string, buses []testBus, distances []testDistance) *catalogue.Catalogue {
	t.Helper()
	c := catalogue.New()
	for i, name := range stops {
		_, err := c.AddStop(name, catalogue.Coordinates{Lat: 55.6, Lng: 37.6 + 0.01*float64(i)})
		require.NoError(t, err)
	}
	for _, b := range buses {
		_, err := c.AddBus(b.name, b.isCircular, b.stops)
		require.NoError(t, err)
	}
	for _, d := range distances {
		require.NoError(t, c.SetDistance(d.from, d.to, d.meters))
	}
	return c
}

// A -1000m- B -2000m- C，一条非环线
func newLineRouter(t *testing.T, opts ...Option) *TransportRouter {
	t.Helper()
	c := newTestCatalogue(t,
		[]string{"A", "B", "C", "D"},
		[]testBus{{name: "1", stops: []string{"A", "B", "C"}}},
		[]testDistance{{"A", "B", 1000}, {"B", "C", 2000}},
	)
	r, err := New(c, Settings{Velocity: 60, WaitTime: 1}, opts...)
	require.NoError(t, err)
	return r
}

func TestBuildRoute(t *testing.T) {
	r := newLineRouter(t)

	t.Run("direct ride beats transfer", func(t *testing.T) {
		it, err := r.BuildRoute("A", "C")
		require.NoError(t, err)
		assert.Equal(t, 4.0, it.TotalTime)
		assert.Equal(t, []Step{
			{Type: STEP_WAIT, StopName: "A", Time: 1},
			{Type: STEP_RIDE, Bus: "1", SpanCount: 2, Time: 3},
		}, it.Steps)
	})

	t.Run("mirrored direction", func(t *testing.T) {
		it, err := r.BuildRoute("C", "B")
		require.NoError(t, err)
		assert.Equal(t, 3.0, it.TotalTime)
		assert.Equal(t, []Step{
			{Type: STEP_WAIT, StopName: "C", Time: 1},
			{Type: STEP_RIDE, Bus: "1", SpanCount: 1, Time: 2},
		}, it.Steps)
	})

	t.Run("same stop", func(t *testing.T) {
		for _, name := range []string{"A", "B", "C", "D"} {
			it, err := r.BuildRoute(name, name)
			require.NoError(t, err)
			assert.Equal(t, 0.0, it.TotalTime)
			assert.Empty(t, it.Steps)
		}
	})

	t.Run("disconnected stop", func(t *testing.T) {
		_, err := r.BuildRoute("A", "D")
		assert.ErrorIs(t, err, ErrNoRoute)
		assert.True(t, IsNotFound(err))
		_, err = r.BuildRoute("D", "A")
		assert.ErrorIs(t, err, ErrNoRoute)
	})

	t.Run("unknown stop", func(t *testing.T) {
		_, err := r.BuildRoute("A", "Z")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, catalogue.ErrNotFound)
		assert.True(t, IsNotFound(err))
		_, err = r.BuildRoute("Z", "A")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBuildRouteTransfer(t *testing.T) {
	c := newTestCatalogue(t,
		[]string{"A", "B", "C"},
		[]testBus{
			{name: "14", stops: []string{"A", "B"}},
			{name: "750", stops: []string{"B", "C"}},
		},
		[]testDistance{{"A", "B", 600}, {"B", "C", 1200}},
	)
	r, err := New(c, Settings{Velocity: 36, WaitTime: 6})
	require.NoError(t, err)

	it, err := r.BuildRoute("A", "C")
	require.NoError(t, err)
	require.Len(t, it.Steps, 4)
	assert.Equal(t, Step{Type: STEP_WAIT, StopName: "A", Time: 6}, it.Steps[0])
	assert.Equal(t, "14", it.Steps[1].Bus)
	assert.InDelta(t, 1.0, it.Steps[1].Time, 1e-9)
	assert.Equal(t, Step{Type: STEP_WAIT, StopName: "B", Time: 6}, it.Steps[2])
	assert.Equal(t, "750", it.Steps[3].Bus)
	assert.InDelta(t, 2.0, it.Steps[3].Time, 1e-9)
	assert.InDelta(t, 15.0, it.TotalTime, 1e-9)

	// 各步用时之和等于总用时
	sum := 0.0
	for _, s := range it.Steps {
		sum += s.Time
	}
	assert.InDelta(t, it.TotalTime, sum, 1e-9)
}

func TestBusGraphEdges(t *testing.T) {
	t.Run("linear line with mirrored edges", func(t *testing.T) {
		r := newLineRouter(t)
		edges := r.Graph().Edges()
		type pair struct{ from, to, span int }
		got := make([]pair, 0)
		for _, e := range edges {
			got = append(got, pair{e.From, e.To, e.Attr.SpanCount})
		}
		// 正向(i, j)依次加入，再加入反向
		assert.Equal(t, []pair{
			{0, 1, 1}, {0, 2, 2}, {1, 2, 1},
			{2, 1, 1}, {2, 0, 2}, {1, 0, 1},
		}, got)
		assert.Equal(t, []float64{2, 4, 3, 3, 4, 2}, weights(edges))
	})

	t.Run("circular line", func(t *testing.T) {
		c := newTestCatalogue(t,
			[]string{"A", "B", "C"},
			[]testBus{{name: "loop", isCircular: true, stops: []string{"A", "B", "C", "A"}}},
			[]testDistance{{"A", "B", 1000}, {"B", "C", 1000}, {"C", "A", 1000}},
		)
		r, err := New(c, Settings{Velocity: 60, WaitTime: 0})
		require.NoError(t, err)
		// C(4, 2) - 1，A -> A不建边
		assert.Equal(t, 5, r.Graph().EdgeCount())
		for _, e := range r.Graph().Edges() {
			assert.NotEqual(t, e.From, e.To)
		}
		// 环线只能沿正向
		it, err := r.BuildRoute("C", "B")
		require.NoError(t, err)
		assert.Equal(t, 2.0, it.TotalTime)
	})

	t.Run("circular line of distinct stops", func(t *testing.T) {
		c := newTestCatalogue(t,
			[]string{"A", "B", "C", "D"},
			[]testBus{{name: "ring", isCircular: true, stops: []string{"A", "B", "C", "D"}}},
			[]testDistance{{"A", "B", 100}, {"B", "C", 100}, {"C", "D", 100}},
		)
		r, err := New(c, Settings{Velocity: 60, WaitTime: 0})
		require.NoError(t, err)
		assert.Equal(t, 6, r.Graph().EdgeCount())
	})

	t.Run("self pair keeps accumulating", func(t *testing.T) {
		c := newTestCatalogue(t,
			[]string{"A", "B", "C"},
			[]testBus{{name: "1", isCircular: true, stops: []string{"A", "B", "A", "C"}}},
			[]testDistance{{"A", "B", 1000}, {"C", "A", 3000}},
		)
		r, err := New(c, Settings{Velocity: 60, WaitTime: 0})
		require.NoError(t, err)
		// A -> C经过A -> B -> A -> C，共1 + 1 + 3分钟
		edge, ok := findEdge(r.Graph(), 0, 2, 3)
		require.True(t, ok)
		assert.Equal(t, 5.0, edge.Weight)
	})

	t.Run("asymmetric distances", func(t *testing.T) {
		c := newTestCatalogue(t,
			[]string{"A", "B"},
			[]testBus{{name: "1", stops: []string{"A", "B"}}},
			[]testDistance{{"A", "B", 1000}, {"B", "A", 3000}},
		)
		r, err := New(c, Settings{Velocity: 60, WaitTime: 0.5})
		require.NoError(t, err)
		forward, err := r.BuildRoute("A", "B")
		require.NoError(t, err)
		backward, err := r.BuildRoute("B", "A")
		require.NoError(t, err)
		assert.InDelta(t, 1.5, forward.TotalTime, 1e-9)
		assert.InDelta(t, 3.5, backward.TotalTime, 1e-9)
	})

	t.Run("parallel edges are kept", func(t *testing.T) {
		c := newTestCatalogue(t,
			[]string{"A", "B"},
			[]testBus{{name: "1", stops: []string{"A", "B"}}, {name: "2", isCircular: true, stops: []string{"A", "B"}}},
			[]testDistance{{"A", "B", 1000}},
		)
		r, err := New(c, Settings{Velocity: 60, WaitTime: 0})
		require.NoError(t, err)
		assert.Equal(t, 3, r.Graph().EdgeCount())
	})
}

func TestNewErrors(t *testing.T) {
	c := newTestCatalogue(t,
		[]string{"A", "B"},
		[]testBus{{name: "1", stops: []string{"A", "B"}}},
		nil,
	)

	t.Run("missing distance", func(t *testing.T) {
		_, err := New(c, Settings{Velocity: 40, WaitTime: 6})
		assert.ErrorIs(t, err, catalogue.ErrNotFound)
	})

	for name, s := range map[string]Settings{
		"zero velocity":     {Velocity: 0, WaitTime: 6},
		"negative velocity": {Velocity: -1, WaitTime: 6},
		"NaN velocity":      {Velocity: math.NaN(), WaitTime: 6},
		"negative wait":     {Velocity: 40, WaitTime: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(c, s)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestAccessors(t *testing.T) {
	r := newLineRouter(t)
	assert.Equal(t, Settings{Velocity: 60, WaitTime: 1}, r.Settings())
	assert.Equal(t, 4, r.VertexCount())
	name, ok := r.StopName(2)
	assert.True(t, ok)
	assert.Equal(t, "C", name)
	_, ok = r.StopName(4)
	assert.False(t, ok)
	v, ok := r.Vertex("B")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = r.Vertex("Z")
	assert.False(t, ok)
}

func TestBuildRouteConcurrent(t *testing.T) {
	r := newLineRouter(t, WithRouteCache())
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := "A", "C"
			if i%2 == 1 {
				from, to = "C", "A"
			}
			it, err := r.BuildRoute(from, to)
			if assert.NoError(t, err) {
				assert.Equal(t, 4.0, it.TotalTime)
			}
		}(i)
	}
	wg.Wait()
}

func TestStepType(t *testing.T) {
	assert.Equal(t, "Wait", STEP_WAIT.String())
	assert.Equal(t, "Bus", STEP_RIDE.String())
	assert.Equal(t, "StepType(7)", StepType(7).String())
}

func weights(edges []algo.Edge[RideAttr]) []float64 {
	w := make([]float64, 0, len(edges))
	for _, e := range edges {
		w = append(w, e.Weight)
	}
	return w
}

func findEdge(g *algo.Graph[RideAttr], from, to, span int) (algo.Edge[RideAttr], bool) {
	for id := range g.OutgoingEdges(from) {
		e, _ := g.Edge(id)
		if e.To == to && e.Attr.SpanCount == span {
			return e, true
		}
	}
	return algo.Edge[RideAttr]{}, false
}
