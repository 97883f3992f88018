package main

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/waterscope/floodwatch/internal/crs"
	"github.com/waterscope/floodwatch/internal/fetcher"
	"github.com/waterscope/floodwatch/internal/store"
	"github.com/waterscope/floodwatch/pkg/stn"
)

// newSTNClient wires the STN client from config: shared retriever,
// EPSG transformer, and the SQLite dictionary cache when configured.
func newSTNClient() (*stn.Client, func(), error) {
	retriever := fetcher.NewHTTPRetriever(fetcher.Options{
		UserAgent:     cfg.Fetch.UserAgent,
		Timeout:       time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:    cfg.Fetch.MaxRetries,
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
	})

	opts := []stn.Option{
		stn.WithBaseURL(cfg.STN.BaseURL),
		stn.WithDictionaryBaseURL(cfg.STN.DictionaryURL),
		stn.WithTransformer(crs.NewEPSGTransformer()),
	}

	cleanup := func() {}
	if cfg.Store.CachePath != "" {
		cache, err := store.NewSQLiteCache(cfg.Store.CachePath,
			time.Duration(cfg.Store.CacheTTLHours)*time.Hour)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open dictionary cache")
		}
		opts = append(opts, stn.WithDictionaryCache(cache))
		cleanup = func() { _ = cache.Close() }
	}

	return stn.NewClient(retriever, opts...), cleanup, nil
}

// parseKVParams parses repeated --param key=value flags.
func parseKVParams(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, eris.Errorf("invalid --param %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

// loadParamsFile reads query parameters from a YAML file of key: value pairs.
func loadParamsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read params file %s", path)
	}
	var params map[string]string
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, eris.Wrapf(err, "parse params file %s", path)
	}
	return params, nil
}

// mergeParams overlays --param flags on top of the params file.
func mergeParams(fromFile, fromFlags map[string]string) map[string]string {
	if len(fromFile) == 0 {
		return fromFlags
	}
	merged := make(map[string]string, len(fromFile)+len(fromFlags))
	for k, v := range fromFile {
		merged[k] = v
	}
	for k, v := range fromFlags {
		merged[k] = v
	}
	return merged
}

// parseBBox parses a minx,miny,maxx,maxy flag value.
func parseBBox(s string) ([4]float64, error) {
	var bbox [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return bbox, eris.Errorf("invalid --bbox %q, expected minx,miny,maxx,maxy", s)
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return bbox, eris.Errorf("invalid --bbox coordinate %q", part)
		}
		bbox[i] = v
	}
	return bbox, nil
}

// openOutput returns the writer for --out, stdout when empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, nil
}

// closeOutput closes the writer unless it is stdout.
func closeOutput(w io.WriteCloser) {
	if w != os.Stdout {
		_ = w.Close()
	}
}
