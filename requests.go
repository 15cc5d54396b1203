package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/martinovalekse/Transport-catalog/catalogue"
	"github.com/martinovalekse/Transport-catalog/router"
)

type StatRequest struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

type statDocument struct {
	SerializationSettings *catalogue.SerializationSettings `json:"serialization_settings"`
	StatRequests          []StatRequest                    `json:"stat_requests"`
}

func readStatRequests(path string) (*statDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc := &statDocument{}
	if err := json.NewDecoder(f).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// 依次回答Bus、Stop、Route请求，Map请求不支持，回答not found
func answerStatRequests(cat *catalogue.Catalogue, r *router.TransportRouter, reqs []StatRequest) []map[string]any {
	out := make([]map[string]any, 0, len(reqs))
	for _, req := range reqs {
		var res map[string]any
		switch req.Type {
		case "Bus":
			res = busResult(cat, req.Name)
		case "Stop":
			res = stopResult(cat, req.Name)
		case "Route":
			it, err := r.BuildRoute(req.From, req.To)
			if res, err = routeResult(it, err); err != nil {
				log.Errorf("request %d: %v", req.ID, err)
				res = notFoundResult()
			}
		default:
			log.Warnf("request %d: unsupported type %q", req.ID, req.Type)
			res = notFoundResult()
		}
		res["request_id"] = req.ID
		out = append(out, res)
	}
	return out
}

func writeStatResponses(w io.Writer, res []map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(res)
}
