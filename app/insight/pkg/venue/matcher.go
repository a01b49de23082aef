// Package venue 为推荐活动匹配参照点附近的真实场馆。
//
// 场馆按距离升序排列（距离取 0.1 km 精度），同距离时评分高者在前，
// 无评分视为最低，最后按名称排序。参照点无法解析或查询失败时，
// 对应推荐返回空场馆列表，不影响其他推荐。
package venue

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/logger"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/metrics"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/recommend"
)

const earthRadiusKm = 6371.0

// Queries 推荐类别到场馆检索词的映射
var Queries = map[string]string{
	"STEM":         "science centre",
	"Games":        "chess club",
	"Arts":         "drama school",
	"Literacy":     "library",
	"Sports":       "sports centre",
	"Community":    "community centre",
	"Outdoors":     "nature reserve",
	"Music":        "music school",
	"Languages":    "language school",
	"Culture":      "cultural centre",
	"Martial Arts": "martial arts",
	"Aquatics":     "swimming pool",
}

// Matcher 场馆匹配器
type Matcher struct {
	provider   places.Provider
	limiter    *rate.Limiter
	cache      *lru.Cache[string, model.Coordinates]
	maxResults int
	radiusKm   float64
	timeout    time.Duration
	workers    int
}

// Option 匹配器选项
type Option func(*Matcher)

// WithMaxResults 每条推荐最多返回的场馆数
func WithMaxResults(n int) Option { return func(m *Matcher) { m.maxResults = n } }

// WithRadius 检索半径（公里）
func WithRadius(km float64) Option { return func(m *Matcher) { m.radiusKm = km } }

// WithTimeout 单次外部查询超时
func WithTimeout(d time.Duration) Option { return func(m *Matcher) { m.timeout = d } }

// WithLimiter 外部查询限流器
func WithLimiter(l *rate.Limiter) Option { return func(m *Matcher) { m.limiter = l } }

// WithWorkers 单次增强的并发查询数
func WithWorkers(n int) Option { return func(m *Matcher) { m.workers = n } }

// NewMatcher 创建场馆匹配器，cacheSize 为地理编码缓存容量
func NewMatcher(p places.Provider, cacheSize int, opts ...Option) (*Matcher, error) {
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New[string, model.Coordinates](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create geocode cache: %w", err)
	}
	m := &Matcher{
		provider:   p,
		cache:      cache,
		maxResults: 3,
		radiusKm:   15,
		timeout:    5 * time.Second,
		workers:    4,
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Resolve 将参照点解析为坐标，地址解析结果会被缓存
func (m *Matcher) Resolve(ctx context.Context, anchor model.Anchor) (*model.Coordinates, error) {
	if anchor.Coordinates != nil {
		c := *anchor.Coordinates
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return nil, fmt.Errorf("%w: coordinates out of range (%f, %f)", model.ErrVenueLookupFailed, c.Lat, c.Lng)
		}
		return &c, nil
	}
	address := strings.TrimSpace(anchor.Address)
	if address == "" {
		return nil, fmt.Errorf("%w: no location supplied", model.ErrVenueLookupFailed)
	}

	key := strings.ToLower(address)
	if c, ok := m.cache.Get(key); ok {
		return &c, nil
	}

	if err := m.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrVenueLookupFailed, err)
	}
	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	c, err := m.provider.Geocode(cctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: geocode %q: %v", model.ErrVenueLookupFailed, address, err)
	}
	m.cache.Add(key, *c)
	return c, nil
}

// Match 为单条推荐匹配场馆，任何失败都返回空列表
func (m *Matcher) Match(ctx context.Context, rec model.Recommendation, anchor model.Anchor) []model.Venue {
	if rec.Category == recommend.CategoryHome {
		return []model.Venue{}
	}
	near, err := m.Resolve(ctx, anchor)
	if err != nil {
		logger.Log.WithField("activity", rec.Name).Warnf("参照点解析失败: %v", err)
		metrics.RecordVenueLookup(rec.Category, "unresolved", 0)
		return []model.Venue{}
	}
	return m.matchNear(ctx, rec, *near)
}

// Enrich 为全部推荐填充场馆，参照点只解析一次；返回回显的位置
func (m *Matcher) Enrich(ctx context.Context, recs []model.Recommendation, anchor model.Anchor) ([]model.Recommendation, model.Location) {
	out := make([]model.Recommendation, len(recs))
	copy(out, recs)
	for i := range out {
		out[i].Venues = []model.Venue{}
	}

	loc := model.Location{Address: anchor.Address}
	if anchor.Empty() {
		return out, loc
	}
	near, err := m.Resolve(ctx, anchor)
	if err != nil {
		logger.Log.Warnf("参照点解析失败，场馆列表为空: %v", err)
		metrics.RecordVenueLookup("anchor", "unresolved", 0)
		return out, loc
	}
	loc.Lat, loc.Lng, loc.Resolved = &near.Lat, &near.Lng, true

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range out {
		if out[i].Category == recommend.CategoryHome {
			continue
		}
		g.Go(func() error {
			out[i].Venues = m.matchNear(gctx, out[i], *near)
			return nil
		})
	}
	_ = g.Wait()
	return out, loc
}

func (m *Matcher) matchNear(ctx context.Context, rec model.Recommendation, near model.Coordinates) []model.Venue {
	start := time.Now()
	venues, err := m.lookup(ctx, rec, near)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		logger.Log.WithField("activity", rec.Name).WithField("category", rec.Category).
			Warnf("场馆查询失败: %v", err)
		metrics.RecordVenueLookup(rec.Category, "error", elapsed)
		return []model.Venue{}
	}
	metrics.RecordVenueLookup(rec.Category, "success", elapsed)
	return venues
}

func (m *Matcher) lookup(ctx context.Context, rec model.Recommendation, near model.Coordinates) ([]model.Venue, error) {
	if err := m.wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrVenueLookupFailed, err)
	}
	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	query := Queries[rec.Category]
	if query == "" {
		query = strings.ToLower(rec.Category)
	}
	candidates, err := m.provider.Find(cctx, &places.Request{
		Category: rec.Category,
		Query:    query,
		Near:     near,
		RadiusKm: m.radiusKm,
		Limit:    m.maxResults * 4,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrVenueLookupFailed, err)
	}
	return Rank(candidates, near, m.radiusKm, m.maxResults), nil
}

func (m *Matcher) wait(ctx context.Context) error {
	if m.limiter == nil {
		return nil
	}
	return m.limiter.Wait(ctx)
}

// Rank 计算距离、去重、按半径过滤并排序，返回前 limit 个场馆
func Rank(candidates []places.Candidate, near model.Coordinates, radiusKm float64, limit int) []model.Venue {
	best := map[string]model.Venue{}
	var keys []string
	for _, c := range candidates {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		d := math.Round(Haversine(near, c.Coordinates)*10) / 10
		if radiusKm > 0 && d > radiusKm {
			continue
		}
		v := model.Venue{
			Name:     name,
			Address:  strings.TrimSpace(c.Address),
			Distance: model.Distance{Value: d, Unit: "km"},
			Rating:   c.Rating,
		}
		key := strings.ToLower(name)
		prev, ok := best[key]
		if !ok {
			keys = append(keys, key)
			best[key] = v
		} else if less(v, prev) {
			best[key] = v
		}
	}

	venues := make([]model.Venue, 0, len(keys))
	for _, k := range keys {
		venues = append(venues, best[k])
	}
	sort.SliceStable(venues, func(i, j int) bool { return less(venues[i], venues[j]) })
	if limit > 0 && len(venues) > limit {
		venues = venues[:limit]
	}
	return venues
}

func less(a, b model.Venue) bool {
	if a.Distance.Value != b.Distance.Value {
		return a.Distance.Value < b.Distance.Value
	}
	ra, rb := rating(a), rating(b)
	if ra != rb {
		return ra > rb
	}
	return a.Name < b.Name
}

func rating(v model.Venue) float64 {
	if v.Rating == nil {
		return math.Inf(-1)
	}
	return *v.Rating
}

// Haversine 两点间大圆距离（公里）
func Haversine(a, b model.Coordinates) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
