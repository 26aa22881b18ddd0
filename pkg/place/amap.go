package place

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultAmapBaseURL is the production Amap REST endpoint.
const DefaultAmapBaseURL = "https://restapi.amap.com"

// Category codes passed to regeo so nearby POIs cover shopping, scenic spots
// and residential compounds rather than only transport infrastructure.
const regeoPOITypes = "060000|110000|120000"

// NewAmapClient creates a client for the Amap (高德) web service API. All
// coordinates it returns are GCJ02; callers querying with device GPS
// coordinates must convert them first.
func NewAmapClient(h *http.Client, baseURL, apiKey string) *amc {
	return &amc{h: h, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type amc struct {
	h       *http.Client
	baseURL string
	apiKey  string
}

var _ Client = (*amc)(nil)

func (c *amc) SearchLocation(ctx context.Context, keyword, city string, pageSize int) ([]LocationInfo, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("keywords", keyword)
	if city != "" {
		q.Set("city", city)
	}
	q.Set("page_size", strconv.Itoa(normalizePageSize(pageSize)))
	q.Set("extensions", "all")

	var d amapPOIResponse
	if err := c.get(ctx, "/v5/place/text", q, &d); err != nil {
		return nil, err
	}

	return c.toLocations(d.POIs), nil
}

func (c *amc) SearchNearby(ctx context.Context, lat, lon float64, keywords string, radiusMeters, pageSize int) ([]LocationInfo, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location", fmt.Sprintf("%f,%f", lon, lat))
	if keywords != "" {
		q.Set("keywords", keywords)
	}
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("page_size", strconv.Itoa(normalizePageSize(pageSize)))
	q.Set("extensions", "all")

	var d amapPOIResponse
	if err := c.get(ctx, "/v5/place/around", q, &d); err != nil {
		return nil, err
	}

	return c.toLocations(d.POIs), nil
}

func (c *amc) ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseGeocodeResult, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("location", fmt.Sprintf("%f,%f", lon, lat))
	q.Set("radius", "1000")
	q.Set("extensions", "all")
	q.Set("poitype", regeoPOITypes)

	var d amapRegeoResponse
	if err := c.get(ctx, "/v3/geocode/regeo", q, &d); err != nil {
		return nil, err
	}

	re := d.Regeocode
	comp := re.AddressComponent
	result := &ReverseGeocodeResult{
		Address:          re.FormattedAddress,
		FormattedAddress: re.FormattedAddress,
		Province:         comp.Province,
		City:             comp.CityName(),
		District:         comp.District,
		Street:           comp.StreetNumber.Street,
	}

	// POI name priority: an enclosing AOI beats the nearest POI, which beats
	// the bare administrative address.
	switch {
	case len(re.AOIs) > 0 && re.AOIs[0].Name != "":
		result.POIName = re.AOIs[0].Name
	case len(re.POIs) > 0 && re.POIs[0].Name != "":
		result.POIName = re.POIs[0].Name
		if re.POIs[0].Distance != "" {
			result.Distance = re.POIs[0].Distance + "米"
		}
	}

	return result, nil
}

func (c *amc) get(ctx context.Context, path string, q url.Values, out amapResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build amap request: %w", err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return &NetworkError{Provider: ProviderAmap, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Provider: ProviderAmap, Err: err}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse amap response: %w", err)
	}

	if status, info := out.statusInfo(); status != "1" {
		return &ProviderError{Provider: ProviderAmap, Status: status, Message: info}
	}

	return nil
}

func (c *amc) toLocations(pois []amapPOI) []LocationInfo {
	locations := make([]LocationInfo, 0, len(pois))
	for _, p := range pois {
		lat, lon, err := parseAmapLocation(p.Location)
		if err != nil {
			continue
		}

		formatted := strings.Join(nonEmpty(p.PName, p.CityName, p.AdName, p.Address), "")

		l := LocationInfo{
			ID:               p.ID,
			Name:             p.Name,
			Address:          p.Address,
			FormattedAddress: formatted,
			Latitude:         lat,
			Longitude:        lon,
			Type:             p.Type,
			Province:         p.PName,
			City:             p.CityName,
			District:         p.AdName,
		}
		if p.Distance != "" {
			l.Distance = p.Distance + "米"
		}
		locations = append(locations, l)
	}
	return locations
}

// parseAmapLocation splits amap's "lon,lat" location strings.
func parseAmapLocation(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed location %q", s)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude in %q: %w", s, err)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude in %q: %w", s, err)
	}
	return lat, lon, nil
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

type amapResponse interface {
	statusInfo() (status, info string)
}

type amapStatus struct {
	Status string `json:"status"`
	Info   string `json:"info"`
}

func (s amapStatus) statusInfo() (string, string) { return s.Status, s.Info }

type amapPOIResponse struct {
	amapStatus
	POIs []amapPOI `json:"pois"`
}

type amapPOI struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Address  string `json:"address"`
	Location string `json:"location"`
	Distance string `json:"distance"`
	PName    string `json:"pname"`
	CityName string `json:"cityname"`
	AdName   string `json:"adname"`
}

type amapRegeoResponse struct {
	amapStatus
	Regeocode struct {
		FormattedAddress string               `json:"formatted_address"`
		AddressComponent amapAddressComponent `json:"addressComponent"`
		POIs             []struct {
			Name     string `json:"name"`
			Distance string `json:"distance"`
		} `json:"pois"`
		AOIs []struct {
			Name string `json:"name"`
		} `json:"aois"`
	} `json:"regeocode"`
}

type amapAddressComponent struct {
	Province string `json:"province"`
	// Amap encodes the city of a municipality (直辖市) as an empty array
	// rather than a string.
	City         any    `json:"city"`
	District     string `json:"district"`
	Township     string `json:"township"`
	StreetNumber struct {
		Street string `json:"street"`
		Number string `json:"number"`
	} `json:"streetNumber"`
}

func (c amapAddressComponent) CityName() string {
	if city, ok := c.City.(string); ok && city != "" {
		return city
	}
	return c.Province
}
