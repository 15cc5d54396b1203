package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type loadConfig struct {
	MongoURI string
	Base     *Path
	// 快照文件，存在则直接读取，否则构建后写入
	Snapshot string
	CacheDir string
	// 大于0时覆盖输入中的bus_velocity
	Velocity float64
	// 不小于0时覆盖输入中的bus_wait_time
	WaitTime   float64
	RouterOpts []router.Option
}

var errNoBase = errors.New("no base input")

func load(ctx context.Context, cfg loadConfig) (*catalogue.Catalogue, *router.TransportRouter, error) {
	if cfg.Snapshot != "" {
		if _, err := os.Stat(cfg.Snapshot); err == nil {
			log.Infof("load snapshot from %s", cfg.Snapshot)
			return router.LoadSnapshot(cfg.Snapshot, cfg.RouterOpts...)
		}
	}
	if cfg.Base == nil {
		return nil, nil, errNoBase
	}
	build := func() (*catalogue.Catalogue, *router.TransportRouter, error) {
		base, err := loadBase(ctx, cfg.MongoURI, cfg.Base)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load base from %s: %w", cfg.Base, err)
		}
		settings := resolveSettings(base.RoutingSettings, cfg.Velocity, cfg.WaitTime)
		r, err := router.New(base.Catalogue, settings, cfg.RouterOpts...)
		if err != nil {
			return nil, nil, err
		}
		snapshot := cfg.Snapshot
		if snapshot == "" && base.SerializationSettings != nil {
			snapshot = base.SerializationSettings.File
		}
		if snapshot != "" {
			if err := router.SaveSnapshot(snapshot, base.Catalogue, r); err != nil {
				return nil, nil, err
			}
		}
		return base.Catalogue, r, nil
	}
	if cfg.CacheDir == "" {
		return build()
	}
	key := fmt.Sprintf("v%g.w%g", cfg.Velocity, cfg.WaitTime)
	return loadWithCache(cfg.CacheDir, cfg.Base, key, build, cfg.RouterOpts...)
}

func loadBase(ctx context.Context, mongoURI string, p *Path) (*catalogue.Base, error) {
	switch {
	case p.IsGTFS():
		c, err := catalogue.LoadGTFS(p.File)
		if err != nil {
			return nil, err
		}
		return &catalogue.Base{Catalogue: c}, nil
	case p.File != "":
		return catalogue.LoadJSONFile(p.File)
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	defer client.Disconnect(context.Background())
	return catalogue.LoadFromMongo(ctx, client.Database(p.GetDb()).Collection(p.GetColl()))
}

func resolveSettings(in *catalogue.RoutingSettings, velocity, waitTime float64) router.Settings {
	s := router.Settings{}
	if in != nil {
		s.Velocity = in.BusVelocity
		s.WaitTime = in.BusWaitTime
	}
	if velocity > 0 {
		s.Velocity = velocity
	}
	if waitTime >= 0 {
		s.WaitTime = waitTime
	}
	return s
}
