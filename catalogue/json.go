package catalogue

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type baseDocument struct {
	BaseRequests          []BaseRequest          `json:"base_requests"`
	RoutingSettings       *RoutingSettings       `json:"routing_settings"`
	SerializationSettings *SerializationSettings `json:"serialization_settings"`
}

// 解析base_requests格式的JSON输入
func LoadJSON(r io.Reader) (*Base, error) {
	var doc baseDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode base requests: %w", err)
	}
	c, err := Build(doc.BaseRequests)
	if err != nil {
		return nil, err
	}
	return &Base{
		Catalogue:             c,
		RoutingSettings:       doc.RoutingSettings,
		SerializationSettings: doc.SerializationSettings,
	}, nil
}

func LoadJSONFile(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}
