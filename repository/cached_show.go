package repository

import (
	"github.com/rayymaxx/CinePal/entity"
)

type CachedShowRepository interface {
	// GetByTitleLike 标题大小写不敏感的模糊匹配，取第一条
	GetByTitleLike(title string) (*entity.CachedShow, error)
	GetByShowID(showID int64) (*entity.CachedShow, error)
	// Upsert 以 show_id 为键插入或整行更新
	Upsert(show *entity.CachedShow) error
}
