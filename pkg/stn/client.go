// Package stn is a client for the USGS Short-Term Network (STN) flood
// event REST API. It fetches instruments, peaks, high-water marks and
// sites, normalizes the provider's single-element-list record shape into
// flat records, geo-references the types that carry coordinates, and
// reassembles the ragged data-dictionary CSVs.
package stn

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ServiceCRS is the CRS of point data from the service. Per USGS this is
// the CRS used for visualization on the STN front-end.
const ServiceCRS = 4326

const (
	defaultServiceURL    = "https://stn.wim.usgs.gov/STNServices/"
	defaultDictionaryURL = "https://stn.wim.usgs.gov/STNWeb/datadictionary/"
)

// Retriever performs batched ordered retrieval. Both methods return one
// response per URL, in request order. Failure modes (network errors,
// non-2xx statuses, malformed bodies) belong to the retriever's own error
// taxonomy and are surfaced to this package's callers unmodified.
type Retriever interface {
	RetrieveJSON(ctx context.Context, urls []string, perURLParams []map[string]string) ([][]byte, error)
	RetrieveText(ctx context.Context, urls []string) ([]string, error)
}

// DictionaryCache is an optional read-through cache for dictionary CSV
// bodies, keyed by URL.
type DictionaryCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, body string) error
}

var allDataEndpoints = map[DataType]string{
	Instruments: "Instruments.json",
	Peaks:       "PeakSummaries.json",
	HWMs:        "HWMs.json",
	Sites:       "Sites.json",
}

var filteredEndpoints = map[DataType]string{
	Instruments: "Instruments/FilteredInstruments.json",
	Peaks:       "PeakSummaries/FilteredPeaks.json",
	HWMs:        "HWMs/FilteredHWMs.json",
	Sites:       "Sites/FilteredSites.json",
}

var dictionaryEndpoints = map[DataType]string{
	Instruments: "Instruments.csv",
	Peaks:       "FilteredPeaks.csv",
	HWMs:        "FilteredHWMs.csv",
	Sites:       "sites.csv",
}

type xyFields struct{ x, y string }

// The all-data and filtered endpoints disagree on coordinate column
// names, and the all-data instruments/peaks payloads carry none at all.
// Known upstream schema inconsistency.
var allDataXY = map[DataType]*xyFields{
	Instruments: nil,
	Peaks:       nil,
	HWMs:        {"longitude_dd", "latitude_dd"},
	Sites:       {"longitude_dd", "latitude_dd"},
}

var filteredXY = map[DataType]*xyFields{
	Instruments: {"longitude", "latitude"},
	Peaks:       {"longitude_dd", "latitude_dd"},
	HWMs:        {"longitude", "latitude"},
	Sites:       {"longitude_dd", "latitude_dd"},
}

// Dataset is the result of a data retrieval: the normalized records in
// response order, plus the geo-referenced variant when the data type
// carries coordinates.
type Dataset struct {
	Type    DataType
	Records []Record
	// Geo is nil when the endpoint serves no coordinate columns
	// (all-data instruments and peaks).
	Geo []GeoRecord
	// EPSG is the CRS of Geo points, 0 when Geo is nil.
	EPSG int
}

// Client wraps the STN REST API.
type Client struct {
	serviceURL    string
	dictionaryURL string
	retriever     Retriever
	transformer   Transformer
	cache         DictionaryCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the STN service base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.serviceURL = ensureSlash(u) }
}

// WithDictionaryBaseURL overrides the data dictionary base URL.
func WithDictionaryBaseURL(u string) Option {
	return func(c *Client) { c.dictionaryURL = ensureSlash(u) }
}

// WithTransformer sets the CRS transformer used when a caller requests an
// output CRS other than the service CRS.
func WithTransformer(tr Transformer) Option {
	return func(c *Client) { c.transformer = tr }
}

// WithDictionaryCache enables read-through caching of dictionary CSVs.
func WithDictionaryCache(cache DictionaryCache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a Client backed by the given retriever.
func NewClient(retriever Retriever, opts ...Option) *Client {
	c := &Client{
		serviceURL:    defaultServiceURL,
		dictionaryURL: defaultDictionaryURL,
		retriever:     retriever,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAllData retrieves every record of the given data type. epsg selects
// the output CRS of the geo-referenced variant; 0 means the service CRS.
func (c *Client) GetAllData(ctx context.Context, dt DataType, epsg int) (*Dataset, error) {
	records, err := c.fetchRecords(ctx, c.serviceURL+allDataEndpoints[dt], nil)
	if err != nil {
		return nil, err
	}
	return c.buildDataset(dt, records, allDataXY[dt], epsg)
}

// GetFilteredData retrieves records matching the given query parameters.
// Parameters are validated against the per-type allowed sets before any
// request is issued. epsg selects the output CRS; 0 means the service CRS.
func (c *Client) GetFilteredData(ctx context.Context, dt DataType, params map[string]string, epsg int) (*Dataset, error) {
	if err := ValidateParams(dt, params); err != nil {
		return nil, err
	}
	records, err := c.fetchRecords(ctx, c.serviceURL+filteredEndpoints[dt], params)
	if err != nil {
		return nil, err
	}
	return c.buildDataset(dt, records, filteredXY[dt], epsg)
}

// DataDictionary retrieves and reassembles the dictionary for a data type.
func (c *Client) DataDictionary(ctx context.Context, dt DataType) ([]DictionaryEntry, error) {
	url := c.dictionaryURL + dictionaryEndpoints[dt]

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			zap.L().Warn("stn: dictionary cache read failed", zap.String("url", url), zap.Error(err))
		} else if ok {
			return ParseDictionary(strings.NewReader(body))
		}
	}

	bodies, err := c.retriever.RetrieveText(ctx, []string{url})
	if err != nil {
		return nil, err
	}
	body := bodies[0]

	if c.cache != nil {
		if err := c.cache.Put(ctx, url, body); err != nil {
			zap.L().Warn("stn: dictionary cache write failed", zap.String("url", url), zap.Error(err))
		}
	}
	return ParseDictionary(strings.NewReader(body))
}

func (c *Client) fetchRecords(ctx context.Context, url string, params map[string]string) ([]Record, error) {
	var perURL []map[string]string
	if params != nil {
		perURL = []map[string]string{params}
	}
	bodies, err := c.retriever.RetrieveJSON(ctx, []string{url}, perURL)
	if err != nil {
		return nil, err
	}

	var raw []RawRecord
	if err := json.Unmarshal(bodies[0], &raw); err != nil {
		return nil, eris.Wrapf(err, "stn: decode response from %s", url)
	}
	return NormalizeAll(raw), nil
}

func (c *Client) buildDataset(dt DataType, records []Record, xy *xyFields, epsg int) (*Dataset, error) {
	ds := &Dataset{Type: dt, Records: records}
	if xy == nil {
		return ds, nil
	}
	if epsg == 0 {
		epsg = ServiceCRS
	}
	geo, err := AttachGeometry(records, xy.x, xy.y, ServiceCRS, epsg, c.transformer)
	if err != nil {
		return nil, err
	}
	ds.Geo = geo
	ds.EPSG = epsg
	return ds, nil
}

func ensureSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
