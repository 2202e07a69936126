package model

import (
	"encoding/json"
	"time"

	"github.com/rayymaxx/CinePal/entity"

	log "github.com/sirupsen/logrus"
)

// ShowData 影视元数据的业务视图，列表字段已反序列化
type ShowData struct {
	ShowID      int64     `json:"show_id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Genres      []string  `json:"genres"`
	Plot        string    `json:"plot"`
	ReleaseDate string    `json:"release_date"`
	Runtime     string    `json:"runtime"`
	Cast        []string  `json:"cast"`
	Directors   []string  `json:"directors"`
	PosterURL   string    `json:"poster_url"`
	TmdbRating  float64   `json:"tmdb_rating"`
	LastUpdated time.Time `json:"last_updated"`
}

// ShowIndexRequest 影视入库请求，解析元数据并写入语义索引
type ShowIndexRequest struct {
	Title string `json:"title" binding:"required"`
}

// decodeStringList 反序列化 JSON 列表字段。
// 解码失败不致命，记一条 warn 并返回空列表。
func decodeStringList(raw, field string) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Warnf("Failed to decode %s list %q: %v", field, raw, err)
		return []string{}
	}
	return list
}

// encodeStringList 序列化列表字段为 JSON 字符串
func encodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// ShowDataFromEntity 从缓存实体构建业务视图
func ShowDataFromEntity(e *entity.CachedShow) *ShowData {
	data := &ShowData{
		ShowID:      e.ShowID,
		Title:       e.Title,
		Type:        e.Type,
		Genres:      decodeStringList(e.Genres, entity.CachedShowFieldGenres),
		Plot:        e.Plot,
		Runtime:     e.Runtime,
		Cast:        decodeStringList(e.Cast, entity.CachedShowFieldCast),
		Directors:   decodeStringList(e.Directors, entity.CachedShowFieldDirectors),
		PosterURL:   e.PosterURL,
		TmdbRating:  e.TmdbRating,
		LastUpdated: e.LastUpdated,
	}
	if e.ReleaseDate != nil {
		data.ReleaseDate = e.ReleaseDate.Format("2006-01-02")
	}
	return data
}

// ToEntity 转换为缓存实体，列表字段序列化为 JSON 字符串
func (d *ShowData) ToEntity() *entity.CachedShow {
	e := &entity.CachedShow{
		ShowID:      d.ShowID,
		Title:       d.Title,
		Type:        d.Type,
		Genres:      encodeStringList(d.Genres),
		Plot:        d.Plot,
		Runtime:     d.Runtime,
		Cast:        encodeStringList(d.Cast),
		Directors:   encodeStringList(d.Directors),
		PosterURL:   d.PosterURL,
		TmdbRating:  d.TmdbRating,
		LastUpdated: time.Now(),
	}
	if d.ReleaseDate != "" {
		if ts, err := time.Parse("2006-01-02", d.ReleaseDate); err == nil {
			e.ReleaseDate = &ts
		} else {
			log.Warnf("Could not convert release_date %q to time", d.ReleaseDate)
		}
	}
	return e
}
