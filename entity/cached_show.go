package entity

import "time"

const (
	TableNameCachedShow = "cached_show"

	CachedShowFieldShowID      = "show_id"
	CachedShowFieldTitle       = "title"
	CachedShowFieldType        = "type"
	CachedShowFieldGenres      = "genres"
	CachedShowFieldPlot        = "plot"
	CachedShowFieldReleaseDate = "release_date"
	CachedShowFieldRuntime     = "runtime"
	CachedShowFieldCast        = "cast"
	CachedShowFieldDirectors   = "directors"
	CachedShowFieldPosterURL   = "poster_url"
	CachedShowFieldTmdbRating  = "tmdb_rating"
	CachedShowFieldLastUpdated = "last_updated"
)

// CachedShow 外部影视元数据的本地缓存（cache-aside）。
// 主键是外部 TMDB id；列表字段以 JSON 字符串存储。
type CachedShow struct {
	ShowID      int64      `xorm:"pk show_id" json:"show_id"`
	Title       string     `xorm:"title" json:"title"`
	Type        string     `xorm:"type" json:"type"` // movie / tv
	Genres      string     `xorm:"genres" json:"genres"`
	Plot        string     `xorm:"plot" json:"plot"`
	ReleaseDate *time.Time `xorm:"release_date" json:"release_date"`
	Runtime     string     `xorm:"runtime" json:"runtime"`
	Cast        string     `xorm:"'cast'" json:"cast"`
	Directors   string     `xorm:"directors" json:"directors"`
	PosterURL   string     `xorm:"poster_url" json:"poster_url"`
	TmdbRating  float64    `xorm:"tmdb_rating" json:"tmdb_rating"`
	LastUpdated time.Time  `xorm:"last_updated" json:"last_updated"`
}

func (e *CachedShow) TableName() string {
	return TableNameCachedShow
}
