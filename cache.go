package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router"
)

func cacheFile(cacheDir string, p *Path, key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(p.GetCachePath())
	return filepath.Join(cacheDir, name+"."+key+".pb.zst")
}

// 缓存目录中有对应快照时直接读取，否则调用build构建并写入缓存
func loadWithCache(
	cacheDir string, p *Path, key string,
	build func() (*catalogue.Catalogue, *router.TransportRouter, error),
	opts ...router.Option,
) (*catalogue.Catalogue, *router.TransportRouter, error) {
	path := cacheFile(cacheDir, p, key)
	if _, err := os.Stat(path); err == nil {
		cat, r, err := router.LoadSnapshot(path, opts...)
		if err == nil {
			log.Infof("load %s from cache %s", p, path)
			return cat, r, nil
		}
		log.Warnf("failed to load cache %s: %v, rebuild", path, err)
	}
	cat, r, err := build()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		log.Warnf("failed to create cache dir %s: %v", cacheDir, err)
		return cat, r, nil
	}
	if err := router.SaveSnapshot(path, cat, r); err != nil {
		log.Warnf("failed to write cache %s: %v", path, err)
	}
	return cat, r, nil
}
