package stn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterscope/floodwatch/pkg/errs"
)

// fakeRetriever serves canned bodies and records the requests it saw.
type fakeRetriever struct {
	jsonBody   string
	textBody   string
	jsonCalls  int
	textCalls  int
	lastURLs   []string
	lastParams []map[string]string
}

func (f *fakeRetriever) RetrieveJSON(_ context.Context, urls []string, perURLParams []map[string]string) ([][]byte, error) {
	f.jsonCalls++
	f.lastURLs = urls
	f.lastParams = perURLParams
	return [][]byte{[]byte(f.jsonBody)}, nil
}

func (f *fakeRetriever) RetrieveText(_ context.Context, urls []string) ([]string, error) {
	f.textCalls++
	f.lastURLs = urls
	return []string{f.textBody}, nil
}

// memCache is an in-memory DictionaryCache.
type memCache struct {
	entries map[string]string
	puts    int
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memCache) Put(_ context.Context, key, body string) error {
	if m.entries == nil {
		m.entries = make(map[string]string)
	}
	m.entries[key] = body
	m.puts++
	return nil
}

func TestGetAllData_NormalizesAndPreservesOrder(t *testing.T) {
	r := &fakeRetriever{jsonBody: `[
		{"instrument_id": [7], "interval": []},
		{"instrument_id": 8, "interval": 30}
	]`}
	c := NewClient(r)

	ds, err := c.GetAllData(context.Background(), Instruments, 0)
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, 7.0, ds.Records[0]["instrument_id"])
	assert.Nil(t, ds.Records[0]["interval"])
	assert.Equal(t, 8.0, ds.Records[1]["instrument_id"])

	// Instruments all-data carries no coordinate columns.
	assert.Nil(t, ds.Geo)
	assert.Equal(t, 1, r.jsonCalls)
	assert.Equal(t, []string{defaultServiceURL + "Instruments.json"}, r.lastURLs)
}

func TestGetAllData_GeoReferencesHWMs(t *testing.T) {
	r := &fakeRetriever{jsonBody: `[
		{"hwm_id": 1, "longitude_dd": -80.0, "latitude_dd": 32.0}
	]`}
	c := NewClient(r)

	ds, err := c.GetAllData(context.Background(), HWMs, 0)
	require.NoError(t, err)
	require.Len(t, ds.Geo, 1)
	assert.Equal(t, []float64{-80.0, 32.0}, ds.Geo[0].Point.FlatCoords())
	assert.Equal(t, ServiceCRS, ds.EPSG)
}

func TestGetFilteredData_ValidatesBeforeFetch(t *testing.T) {
	r := &fakeRetriever{}
	c := NewClient(r)

	_, err := c.GetFilteredData(context.Background(), Sites, map[string]string{"NotAKey": "x"}, 0)
	require.Error(t, err)

	var ive *errs.InputValueError
	require.ErrorAs(t, err, &ive)
	assert.Zero(t, r.jsonCalls, "no network call may happen on invalid input")
}

func TestGetFilteredData_PassesParams(t *testing.T) {
	r := &fakeRetriever{jsonBody: `[
		{"site_no": "a", "longitude_dd": -80.0, "latitude_dd": 32.0}
	]`}
	c := NewClient(r)

	params := map[string]string{"State": "CA"}
	ds, err := c.GetFilteredData(context.Background(), Sites, params, 0)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	require.Len(t, ds.Geo, 1)

	assert.Equal(t, []string{defaultServiceURL + "Sites/FilteredSites.json"}, r.lastURLs)
	require.Len(t, r.lastParams, 1)
	assert.Equal(t, params, r.lastParams[0])
}

func TestDataDictionary_FetchesAndCaches(t *testing.T) {
	r := &fakeRetriever{textBody: "Field,Definition\nlat,Latitude in\n,decimal degrees\n"}
	cache := &memCache{}
	c := NewClient(r, WithDictionaryCache(cache))

	entries, err := c.DataDictionary(context.Background(), HWMs)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Latitude in decimal degrees", entries[0].Definition)
	assert.Equal(t, 1, cache.puts)

	// Second call is served from cache.
	_, err = c.DataDictionary(context.Background(), HWMs)
	require.NoError(t, err)
	assert.Equal(t, 1, r.textCalls)
}

func TestNewClient_URLOptions(t *testing.T) {
	r := &fakeRetriever{jsonBody: `[]`}
	c := NewClient(r, WithBaseURL("https://example.test/stn"))

	_, err := c.GetAllData(context.Background(), Peaks, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.test/stn/PeakSummaries.json"}, r.lastURLs)
}
