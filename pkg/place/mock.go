package place

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"placery/pkg/coords"
)

// mockLatency exercises the asynchronous call sites without making tests
// slow.
const mockLatency = 20 * time.Millisecond

type mockFixture struct {
	ID       string
	Name     string
	Address  string
	Province string
	City     string
	District string
	Street   string
	Lat      float64
	Lon      float64
}

var mockFixtures = []mockFixture{
	{ID: "mock-1", Name: "天安门广场", Address: "北京市东城区东长安街", Province: "北京市", City: "北京市", District: "东城区", Street: "东长安街", Lat: 39.9055, Lon: 116.3976},
	{ID: "mock-2", Name: "故宫博物院", Address: "北京市东城区景山前街4号", Province: "北京市", City: "北京市", District: "东城区", Street: "景山前街", Lat: 39.9163, Lon: 116.3972},
	{ID: "mock-3", Name: "外滩", Address: "上海市黄浦区中山东一路", Province: "上海市", City: "上海市", District: "黄浦区", Street: "中山东一路", Lat: 31.2336, Lon: 121.4900},
	{ID: "mock-4", Name: "广州塔", Address: "广州市海珠区阅江西路222号", Province: "广东省", City: "广州市", District: "海珠区", Street: "阅江西路", Lat: 23.1066, Lon: 113.3245},
	{ID: "mock-5", Name: "西湖", Address: "杭州市西湖区龙井路1号", Province: "浙江省", City: "杭州市", District: "西湖区", Street: "龙井路", Lat: 30.2428, Lon: 120.1507},
	{ID: "mock-6", Name: "Eiffel Tower", Address: "Champ de Mars, 5 Av. Anatole France, Paris", Province: "Île-de-France", City: "Paris", Street: "Avenue Anatole France", Lat: 48.8584, Lon: 2.2945},
	{ID: "mock-7", Name: "Times Square", Address: "Manhattan, New York, NY 10036", Province: "New York", City: "New York", District: "Manhattan", Lat: 40.758, Lon: -73.9855},
	{ID: "mock-8", Name: "Sydney Opera House", Address: "Bennelong Point, Sydney NSW 2000", Province: "New South Wales", City: "Sydney", Lat: -33.8568, Lon: 151.2153},
}

// NewMockClient creates an offline provider backed by a fixed list of named
// points. It satisfies the same contract as the real clients so the whole
// service can run, and be tested, without any external API key.
func NewMockClient() *mkc {
	return &mkc{fixtures: mockFixtures}
}

type mkc struct {
	fixtures []mockFixture
}

var _ Client = (*mkc)(nil)

// SearchLocation does substring matching over name and address. When nothing
// matches it returns the first pageSize fixtures instead of an empty list;
// that non-empty guarantee is a test convenience, not production behavior.
func (c *mkc) SearchLocation(ctx context.Context, keyword, city string, pageSize int) ([]LocationInfo, error) {
	if err := sleep(ctx); err != nil {
		return nil, err
	}

	pageSize = normalizePageSize(pageSize)

	var matched []mockFixture
	for _, f := range c.fixtures {
		if strings.Contains(f.Name, keyword) || strings.Contains(f.Address, keyword) {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		matched = c.fixtures
	}
	if len(matched) > pageSize {
		matched = matched[:pageSize]
	}

	locations := make([]LocationInfo, 0, len(matched))
	for _, f := range matched {
		locations = append(locations, f.toLocation())
	}
	return locations, nil
}

func (c *mkc) SearchNearby(ctx context.Context, lat, lon float64, keywords string, radiusMeters, pageSize int) ([]LocationInfo, error) {
	if err := sleep(ctx); err != nil {
		return nil, err
	}

	fixtures := make([]mockFixture, len(c.fixtures))
	copy(fixtures, c.fixtures)
	sort.Slice(fixtures, func(i, j int) bool {
		di := coords.Haversine(lat, lon, fixtures[i].Lat, fixtures[i].Lon)
		dj := coords.Haversine(lat, lon, fixtures[j].Lat, fixtures[j].Lon)
		return di < dj
	})

	pageSize = normalizePageSize(pageSize)
	if len(fixtures) > pageSize {
		fixtures = fixtures[:pageSize]
	}

	locations := make([]LocationInfo, 0, len(fixtures))
	for _, f := range fixtures {
		l := f.toLocation()
		l.Distance = formatDistance(coords.Haversine(lat, lon, f.Lat, f.Lon), coords.IsInsideChina(f.Lat, f.Lon))
		locations = append(locations, l)
	}
	return locations, nil
}

func (c *mkc) ReverseGeocode(ctx context.Context, lat, lon float64) (*ReverseGeocodeResult, error) {
	if err := sleep(ctx); err != nil {
		return nil, err
	}

	nearest := c.fixtures[0]
	nearestDist := coords.Haversine(lat, lon, nearest.Lat, nearest.Lon)
	for _, f := range c.fixtures[1:] {
		if d := coords.Haversine(lat, lon, f.Lat, f.Lon); d < nearestDist {
			nearest, nearestDist = f, d
		}
	}

	return &ReverseGeocodeResult{
		Address:          nearest.Address,
		FormattedAddress: nearest.Address,
		Province:         nearest.Province,
		City:             nearest.City,
		District:         nearest.District,
		Street:           nearest.Street,
		POIName:          nearest.Name,
		Distance:         formatDistance(nearestDist, coords.IsInsideChina(nearest.Lat, nearest.Lon)),
	}, nil
}

func (f mockFixture) toLocation() LocationInfo {
	return LocationInfo{
		ID:               f.ID,
		Name:             f.Name,
		Address:          f.Address,
		FormattedAddress: f.Address,
		Latitude:         f.Lat,
		Longitude:        f.Lon,
		POIName:          f.Name,
		Province:         f.Province,
		City:             f.City,
		District:         f.District,
		Street:           f.Street,
	}
}

func formatDistance(meters float64, inChina bool) string {
	if inChina {
		return fmt.Sprintf("%.0f米", meters)
	}
	return fmt.Sprintf("%.0f m", meters)
}

func sleep(ctx context.Context) error {
	select {
	case <-time.After(mockLatency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
