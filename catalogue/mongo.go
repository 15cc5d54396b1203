package catalogue

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CLASS_STOP             = "stop"
	CLASS_BUS              = "bus"
	CLASS_ROUTING_SETTINGS = "routing_settings"
)

// 数据库中的一条记录，class区分类型，data为具体内容
type mongoDocument struct {
	Class string   `bson:"class"`
	Data  bson.Raw `bson:"data"`
}

// 从MongoDB读取站点、线路与routing_settings，按_id顺序视为加入顺序
func LoadFromMongo(ctx context.Context, coll *mongo.Collection) (*Base, error) {
	log.Infof("get catalogue from database %s.%s", coll.Database().Name(), coll.Name())
	cur, err := coll.Find(
		ctx,
		bson.M{"class": bson.M{"$in": bson.A{CLASS_STOP, CLASS_BUS, CLASS_ROUTING_SETTINGS}}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	requests := make([]BaseRequest, 0)
	var settings *RoutingSettings
	for cur.Next(ctx) {
		var doc mongoDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		switch doc.Class {
		case CLASS_STOP, CLASS_BUS:
			var r BaseRequest
			if err := bson.Unmarshal(doc.Data, &r); err != nil {
				return nil, fmt.Errorf("decode %s: %w", doc.Class, err)
			}
			if doc.Class == CLASS_STOP {
				r.Type = REQUEST_STOP
			} else {
				r.Type = REQUEST_BUS
			}
			requests = append(requests, r)
		case CLASS_ROUTING_SETTINGS:
			settings = &RoutingSettings{}
			if err := bson.Unmarshal(doc.Data, settings); err != nil {
				return nil, fmt.Errorf("decode %s: %w", doc.Class, err)
			}
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	c, err := Build(requests)
	if err != nil {
		return nil, err
	}
	return &Base{Catalogue: c, RoutingSettings: settings}, nil
}
