package catalogue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 需要可写的MongoDB，通过环境变量MONGO_URI指定
func TestLoadFromMongo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	coll := client.Database("transport_test").Collection("catalogue_" + time.Now().Format("20060102150405"))
	defer coll.Drop(ctx)
	_, err = coll.InsertMany(ctx, []any{
		bson.M{"class": CLASS_BUS, "data": bson.M{"name": "1", "stops": bson.A{"A", "B"}, "is_roundtrip": false}},
		bson.M{"class": CLASS_STOP, "data": bson.M{"name": "A", "latitude": 55.6, "longitude": 37.2, "road_distances": bson.M{"B": 1000}}},
		bson.M{"class": CLASS_STOP, "data": bson.M{"name": "B", "latitude": 55.7, "longitude": 37.3, "road_distances": bson.M{}}},
		bson.M{"class": CLASS_ROUTING_SETTINGS, "data": bson.M{"bus_velocity": 40, "bus_wait_time": 6}},
		bson.M{"class": "other", "data": bson.M{}},
	})
	require.NoError(t, err)

	base, err := LoadFromMongo(ctx, coll)
	require.NoError(t, err)
	assert.Equal(t, 2, base.Catalogue.StopCount())
	assert.Equal(t, 1, base.Catalogue.BusCount())
	require.NotNil(t, base.RoutingSettings)
	assert.Equal(t, RoutingSettings{BusVelocity: 40, BusWaitTime: 6}, *base.RoutingSettings)
	m, err := base.Catalogue.GetDistance(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1000, m)
}
