// Package nfhl wraps the FEMA National Flood Hazard Layer map services.
// It validates service and layer names against the published tables and
// runs envelope queries through the arcgis client.
package nfhl

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/waterscope/floodwatch/pkg/arcgis"
	"github.com/waterscope/floodwatch/pkg/errs"
)

// ServiceCRS is the CRS the FEMA map services publish geometry in.
const ServiceCRS = 4326

// Services returns the valid service names, sorted.
func Services() []string {
	names := make([]string, 0, len(serviceURLs))
	for s := range serviceURLs {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// ParseService validates a service name.
func ParseService(name string) (Service, error) {
	s := Service(name)
	if _, ok := serviceURLs[s]; !ok {
		return "", &errs.InputValueError{Name: "service", Valid: Services()}
	}
	return s, nil
}

// Layers returns the valid layer names of a service, sorted.
func Layers(s Service) []string {
	names := make([]string, 0, len(serviceLayers[s]))
	for l := range serviceLayers[s] {
		names = append(names, l)
	}
	sort.Strings(names)
	return names
}

// LayerID resolves a layer name (case-insensitive) to its layer id.
func LayerID(s Service, layer string) (int, error) {
	id, ok := serviceLayers[s][strings.ToLower(layer)]
	if !ok {
		return 0, &errs.InputValueError{Name: "layer", Valid: Layers(s)}
	}
	return id, nil
}

// Client queries one layer of one NFHL service.
type Client struct {
	service   Service
	layerID   int
	arc       *arcgis.Client
	outFields []string
	epsg      int
}

// Option configures a Client.
type Option func(*Client)

// WithOutFields limits returned attributes to the named fields.
func WithOutFields(fields ...string) Option {
	return func(c *Client) { c.outFields = fields }
}

// WithCRS sets the output EPSG code for returned geometry. 0 keeps the
// service CRS.
func WithCRS(epsg int) Option {
	return func(c *Client) { c.epsg = epsg }
}

// WithHTTPClient sets the HTTP client used for map-service queries.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.arc = arcgis.NewClient(serviceURLs[c.service], arcgis.WithHTTPClient(hc))
	}
}

// New validates the service and layer names and builds a client. Unknown
// names fail with an InputValueError listing the valid set; nothing is
// fetched until ByGeom runs.
func New(service, layer string, opts ...Option) (*Client, error) {
	s, err := ParseService(service)
	if err != nil {
		return nil, err
	}
	id, err := LayerID(s, layer)
	if err != nil {
		return nil, err
	}
	c := &Client{
		service: s,
		layerID: id,
		arc:     arcgis.NewClient(serviceURLs[s]),
		epsg:    ServiceCRS,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.epsg == 0 {
		c.epsg = ServiceCRS
	}
	return c, nil
}

// Service reports the validated service name.
func (c *Client) Service() Service { return c.service }

// LayerID reports the resolved layer id.
func (c *Client) LayerID() int { return c.layerID }

// ByGeom fetches features intersecting the bounding box
// (minx, miny, maxx, maxy). geoEPSG is the CRS of the box coordinates,
// 0 meaning EPSG:4326; output geometry is in the CRS configured with
// WithCRS. The map service performs the reprojection.
func (c *Client) ByGeom(ctx context.Context, bbox [4]float64, geoEPSG int) ([]arcgis.Feature, error) {
	if geoEPSG == 0 {
		geoEPSG = ServiceCRS
	}
	return c.arc.QueryEnvelope(ctx, c.layerID, bbox, arcgis.QueryOptions{
		OutFields: c.outFields,
		InSR:      geoEPSG,
		OutSR:     c.epsg,
	})
}
