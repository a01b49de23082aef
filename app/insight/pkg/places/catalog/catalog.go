// Package catalog 基于本地 YAML 文件的场馆目录，适用于离线部署与测试。
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/places"
)

// Entry 目录中的场馆
type Entry struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Address  string   `yaml:"address"`
	Lat      float64  `yaml:"lat"`
	Lng      float64  `yaml:"lng"`
	Rating   *float64 `yaml:"rating"`
}

// Geocode 已知地址的坐标
type Geocode struct {
	Address string  `yaml:"address"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
}

// File 目录文件结构
type File struct {
	Geocodes []Geocode `yaml:"geocodes"`
	Venues   []Entry   `yaml:"venues"`
}

// Catalog 本地场馆目录
type Catalog struct {
	geocodes map[string]model.Coordinates
	venues   []Entry
}

var _ places.Provider = (*Catalog)(nil)

// Load 从 YAML 文件加载目录
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse venue catalog %s: %w", path, err)
	}
	return New(f), nil
}

// New 从内存数据构建目录
func New(f File) *Catalog {
	c := &Catalog{geocodes: make(map[string]model.Coordinates, len(f.Geocodes)), venues: f.Venues}
	for _, g := range f.Geocodes {
		c.geocodes[addressKey(g.Address)] = model.Coordinates{Lat: g.Lat, Lng: g.Lng}
	}
	return c
}

// Geocode 按地址精确匹配（忽略大小写与多余空白）
func (c *Catalog) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	coords, ok := c.geocodes[addressKey(address)]
	if !ok {
		return nil, places.ErrNotFound
	}
	return &coords, nil
}

// Find 返回同类别的全部场馆，半径过滤由调用方完成
func (c *Catalog) Find(ctx context.Context, req *places.Request) ([]places.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []places.Candidate
	for _, v := range c.venues {
		if !strings.EqualFold(v.Category, req.Category) {
			continue
		}
		out = append(out, places.Candidate{
			Name:        v.Name,
			Address:     v.Address,
			Coordinates: model.Coordinates{Lat: v.Lat, Lng: v.Lng},
			Rating:      v.Rating,
		})
	}
	return out, nil
}

func addressKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
