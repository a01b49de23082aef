package places

import (
	"context"
	"errors"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// ErrNotFound 地址无法解析
var ErrNotFound = errors.New("address not found")

// Geocoder 将地址解析为坐标
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*model.Coordinates, error)
}

// Finder 查询参照点附近的场馆
type Finder interface {
	Find(ctx context.Context, req *Request) ([]Candidate, error)
}

// Provider 同时提供地理编码与场馆查询
type Provider interface {
	Geocoder
	Finder
}

// Request 场馆查询请求
type Request struct {
	Category string
	Query    string // 自由文本检索词，由调用方根据类别生成
	Near     model.Coordinates
	RadiusKm float64
	Limit    int
}

// Candidate 提供方返回的候选场馆，距离由调用方计算
type Candidate struct {
	Name        string
	Address     string
	Coordinates model.Coordinates
	Rating      *float64
}
