package xormimplement

import (
	"fmt"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/repository"

	"xorm.io/builder"
)

type CachedShowRepository struct {
	session *Session
}

func NewCachedShowRepository(session *Session) repository.CachedShowRepository {
	return &CachedShowRepository{session: session}
}

// GetByTitleLike 标题大小写不敏感的模糊匹配
func (r *CachedShowRepository) GetByTitleLike(title string) (*entity.CachedShow, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	result := &entity.CachedShow{}
	ok, err := r.session.Table(entity.TableNameCachedShow).
		Where(builder.Expr(entity.CachedShowFieldTitle+" ILIKE ?", "%"+title+"%")).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get cached_show by title: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

func (r *CachedShowRepository) GetByShowID(showID int64) (*entity.CachedShow, error) {
	if showID <= 0 {
		return nil, fmt.Errorf("show_id must be greater than 0")
	}

	result := &entity.CachedShow{}
	ok, err := r.session.Table(entity.TableNameCachedShow).
		Where(builder.Eq{entity.CachedShowFieldShowID: showID}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get cached_show: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

// Upsert 以 show_id 为键插入或整行更新
func (r *CachedShowRepository) Upsert(show *entity.CachedShow) error {
	if show == nil {
		return fmt.Errorf("show cannot be nil")
	}
	if show.ShowID <= 0 {
		return fmt.Errorf("show_id must be greater than 0")
	}

	existing := &entity.CachedShow{}
	has, err := r.session.Table(entity.TableNameCachedShow).
		Where(builder.Eq{entity.CachedShowFieldShowID: show.ShowID}).
		Get(existing)
	if err != nil {
		return fmt.Errorf("failed to check existing cached_show: %w", err)
	}

	if has {
		_, err = r.session.Table(entity.TableNameCachedShow).
			Where(builder.Eq{entity.CachedShowFieldShowID: show.ShowID}).
			AllCols().
			Update(show)
		if err != nil {
			return fmt.Errorf("failed to update cached_show: %w", err)
		}
		return nil
	}

	_, err = r.session.Table(entity.TableNameCachedShow).Insert(show)
	if err != nil {
		return fmt.Errorf("failed to insert cached_show: %w", err)
	}

	return nil
}
