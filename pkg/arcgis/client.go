// Package arcgis is a minimal client for ArcGIS MapServer feature
// queries: envelope-filtered layer queries returning attribute records
// and go-geom geometries, with transparent result paging.
package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Feature is one returned map-service feature.
type Feature struct {
	Attributes map[string]any
	Geometry   geom.T
}

// QueryOptions tunes a layer query.
type QueryOptions struct {
	// Where is the attribute filter; empty means "1=1" (no filter).
	Where string
	// OutFields lists the attribute fields to return; empty means all ("*").
	OutFields []string
	// InSR is the EPSG code of the envelope coordinates; 0 means 4326.
	InSR int
	// OutSR is the EPSG code of the returned geometry; 0 means InSR.
	OutSR int
}

// Client queries one MapServer service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	pageSize   int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header on queries.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithPageSize caps the record count requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// NewClient creates a client for the MapServer at baseURL
// (".../rest/services/<name>/MapServer").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		userAgent:  "floodwatch/1.0",
		pageSize:   1000,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// queryResponse is the esri JSON layer query response.
type queryResponse struct {
	Features              []rawFeature `json:"features"`
	ExceededTransferLimit bool         `json:"exceededTransferLimit"`
	Error                 *apiError    `json:"error"`
}

type rawFeature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *esriGeometry  `json:"geometry"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// QueryEnvelope fetches all features of a layer intersecting the bounding
// box (minx, miny, maxx, maxy). Paging via resultOffset continues until
// the service stops reporting exceededTransferLimit, so the returned
// slice is the complete result set in service order.
func (c *Client) QueryEnvelope(ctx context.Context, layerID int, bbox [4]float64, opts QueryOptions) ([]Feature, error) {
	inSR := opts.InSR
	if inSR == 0 {
		inSR = 4326
	}
	outSR := opts.OutSR
	if outSR == 0 {
		outSR = inSR
	}
	where := opts.Where
	if where == "" {
		where = "1=1"
	}
	outFields := "*"
	if len(opts.OutFields) > 0 {
		outFields = strings.Join(opts.OutFields, ",")
	}

	var features []Feature
	offset := 0
	for {
		params := url.Values{
			"f":                 {"json"},
			"where":             {where},
			"geometry":          {fmt.Sprintf("%v,%v,%v,%v", bbox[0], bbox[1], bbox[2], bbox[3])},
			"geometryType":      {"esriGeometryEnvelope"},
			"spatialRel":        {"esriSpatialRelIntersects"},
			"inSR":              {fmt.Sprint(inSR)},
			"outSR":             {fmt.Sprint(outSR)},
			"outFields":         {outFields},
			"returnGeometry":    {"true"},
			"resultOffset":      {fmt.Sprint(offset)},
			"resultRecordCount": {fmt.Sprint(c.pageSize)},
		}

		page, err := c.queryPage(ctx, layerID, params)
		if err != nil {
			return nil, err
		}

		for _, rf := range page.Features {
			g, err := rf.Geometry.toGeom(outSR)
			if err != nil {
				return nil, err
			}
			features = append(features, Feature{Attributes: rf.Attributes, Geometry: g})
		}

		if !page.ExceededTransferLimit || len(page.Features) == 0 {
			return features, nil
		}
		offset += len(page.Features)
	}
}

func (c *Client) queryPage(ctx context.Context, layerID int, params url.Values) (*queryResponse, error) {
	reqURL := fmt.Sprintf("%s/%d/query?%s", c.baseURL, layerID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: query request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("arcgis: query returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: read response")
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, eris.Wrap(err, "arcgis: parse response")
	}
	// The service reports its own failures inside a 200 body.
	if qr.Error != nil {
		return nil, eris.Errorf("arcgis: service error %d: %s", qr.Error.Code, qr.Error.Message)
	}
	return &qr, nil
}
