package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places"
)

// Client OpenStreetMap Nominatim 客户端
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient 创建一个新的 Nominatim 客户端
func NewClient(baseURL, userAgent string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: t},
	}
}

var _ places.Provider = (*Client)(nil)

// place Nominatim jsonv2 单条结果
type place struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode 解析地址，取第一条结果
func (c *Client) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	results, err := c.search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, places.ErrNotFound
	}
	coords, err := results[0].coordinates()
	if err != nil {
		return nil, err
	}
	return &coords, nil
}

// Find 在参照点周围的矩形范围内检索
func (c *Client) Find(ctx context.Context, req *places.Request) ([]places.Candidate, error) {
	query := req.Query
	if query == "" {
		query = req.Category
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("viewbox", viewbox(req.Near, req.RadiusKm))
	q.Set("bounded", "1")

	results, err := c.search(ctx, q)
	if err != nil {
		return nil, err
	}

	var candidates []places.Candidate
	for _, r := range results {
		coords, err := r.coordinates()
		if err != nil {
			continue
		}
		name := r.Name
		if name == "" {
			name, _, _ = strings.Cut(r.DisplayName, ",")
		}
		candidates = append(candidates, places.Candidate{
			Name:        strings.TrimSpace(name),
			Address:     r.DisplayName,
			Coordinates: coords,
		})
	}
	return candidates, nil
}

func (c *Client) search(ctx context.Context, q url.Values) ([]place, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	// Nominatim 使用策略要求标识调用方
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("nominatim api error (status %d): %s", res.StatusCode, string(body))
	}

	var results []place
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}
	return results, nil
}

func (p place) coordinates() (model.Coordinates, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid lat %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid lon %q: %w", p.Lon, err)
	}
	return model.Coordinates{Lat: lat, Lng: lng}, nil
}

// viewbox 返回 left,top,right,bottom 格式的检索范围
func viewbox(c model.Coordinates, radiusKm float64) string {
	if radiusKm <= 0 {
		radiusKm = 15
	}
	dLat := radiusKm / 111.32
	dLng := radiusKm / (111.32 * math.Max(math.Cos(c.Lat*math.Pi/180), 0.01))
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return strings.Join([]string{f(c.Lng - dLng), f(c.Lat + dLat), f(c.Lng + dLng), f(c.Lat - dLat)}, ",")
}
