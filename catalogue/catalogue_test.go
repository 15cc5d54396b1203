package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogue(t *testing.T, stops ...string) *Catalogue {
	t.Helper()
	c := New()
	for i, name := range stops {
		_, err := c.AddStop(name, Coordinates{Lat: 0, Lng: 0.01 * float64(i)})
		require.NoError(t, err)
	}
	return c
}

func TestAddStop(t *testing.T) {
	c := New()
	a, err := c.AddStop("A", Coordinates{Lat: 55.6, Lng: 37.2})
	require.NoError(t, err)
	b, err := c.AddStop("B", Coordinates{Lat: 55.5, Lng: 37.3})
	require.NoError(t, err)
	assert.Equal(t, StopID(0), a)
	assert.Equal(t, StopID(1), b)

	_, err = c.AddStop("A", Coordinates{})
	assert.ErrorIs(t, err, ErrDuplicateStop)
	assert.Equal(t, 2, c.StopCount())

	id, ok := c.FindStop("B")
	assert.True(t, ok)
	assert.Equal(t, b, id)
	_, ok = c.FindStop("C")
	assert.False(t, ok)

	s, ok := c.Stop(a)
	assert.True(t, ok)
	assert.Equal(t, Stop{Name: "A", Coordinates: Coordinates{Lat: 55.6, Lng: 37.2}}, s)
	_, ok = c.Stop(5)
	assert.False(t, ok)
}

func TestAddBus(t *testing.T) {
	c := newTestCatalogue(t, "A", "B", "C")

	id, err := c.AddBus("256", true, []string{"A", "B", "C", "A"})
	require.NoError(t, err)
	bus, ok := c.Bus(id)
	require.True(t, ok)
	assert.Equal(t, Bus{Name: "256", IsCircular: true, Stops: []StopID{0, 1, 2, 0}}, bus)

	_, err = c.AddBus("256", false, []string{"A"})
	assert.ErrorIs(t, err, ErrDuplicateBus)
	_, err = c.AddBus("750", false, []string{"A", "D"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.AddBusByID("750", false, []StopID{0, 3})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, c.BusCount())

	_, ok = c.FindBus("750")
	assert.False(t, ok)
}

func TestDistance(t *testing.T) {
	c := newTestCatalogue(t, "A", "B", "C")
	a, _ := c.FindStop("A")
	b, _ := c.FindStop("B")
	cc, _ := c.FindStop("C")

	t.Run("fallback to reverse direction", func(t *testing.T) {
		require.NoError(t, c.SetDistance("A", "B", 1000))
		ab, err := c.GetDistance(a, b)
		require.NoError(t, err)
		ba, err := c.GetDistance(b, a)
		require.NoError(t, err)
		assert.Equal(t, 1000, ab)
		assert.Equal(t, ab, ba)
	})

	t.Run("forward direction wins", func(t *testing.T) {
		require.NoError(t, c.SetDistance("B", "A", 1500))
		ab, _ := c.GetDistance(a, b)
		ba, _ := c.GetDistance(b, a)
		assert.Equal(t, 1000, ab)
		assert.Equal(t, 1500, ba)
	})

	t.Run("first value is kept", func(t *testing.T) {
		require.NoError(t, c.SetDistance("A", "B", 7))
		ab, _ := c.GetDistance(a, b)
		assert.Equal(t, 1000, ab)
	})

	t.Run("missing both ways", func(t *testing.T) {
		_, err := c.GetDistance(a, cc)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = c.GetDistance(a, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		assert.ErrorIs(t, c.SetDistance("A", "D", 1), ErrNotFound)
		assert.ErrorIs(t, c.SetDistance("D", "A", 1), ErrNotFound)
		assert.ErrorIs(t, c.SetDistance("A", "C", -1), ErrInvalidDistance)
	})

	assert.Equal(t, []Distance{
		{From: a, To: b, Meters: 1000},
		{From: b, To: a, Meters: 1500},
	}, c.Distances())
}

func TestDistanceSelf(t *testing.T) {
	c := newTestCatalogue(t, "A")
	a, _ := c.FindStop("A")
	_, err := c.GetDistance(a, a)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, c.SetDistance("A", "A", 300))
	m, err := c.GetDistance(a, a)
	require.NoError(t, err)
	assert.Equal(t, 300, m)
}
