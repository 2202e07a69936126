package xormimplement

import (
	"fmt"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/repository"

	"xorm.io/builder"
)

type InteractionRepository struct {
	session *Session
}

func NewInteractionRepository(session *Session) repository.InteractionRepository {
	return &InteractionRepository{session: session}
}

func (r *InteractionRepository) Insert(interaction *entity.InteractionHistory) error {
	if interaction == nil {
		return fmt.Errorf("interaction cannot be nil")
	}
	if interaction.UserID <= 0 {
		return fmt.Errorf("user_id is required")
	}
	if interaction.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}

	_, err := r.session.Table(entity.TableNameInteractionHistory).Insert(interaction)
	if err != nil {
		return fmt.Errorf("failed to insert interaction_history: %w", err)
	}

	return nil
}

func (r *InteractionRepository) InsertShowRefs(refs []*entity.InteractionShowJunction) error {
	if len(refs) == 0 {
		return nil
	}

	for _, ref := range refs {
		if ref == nil {
			return fmt.Errorf("show ref cannot be nil")
		}
		if ref.InteractionID <= 0 {
			return fmt.Errorf("interaction_id is required")
		}
	}

	_, err := r.session.Table(entity.TableNameInteractionShowJunction).Insert(refs)
	if err != nil {
		return fmt.Errorf("failed to insert interaction_show_junction: %w", err)
	}

	return nil
}

// GetRecentBySession 获取会话最近的 N 轮记录
func (r *InteractionRepository) GetRecentBySession(userID int64, sessionID string, limit int) ([]*entity.InteractionHistory, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	if limit <= 0 {
		limit = 10
	}

	var results []*entity.InteractionHistory
	err := r.session.Table(entity.TableNameInteractionHistory).
		Where(builder.Eq{
			entity.InteractionHistoryFieldUserID:    userID,
			entity.InteractionHistoryFieldSessionID: sessionID,
		}).
		OrderBy(entity.InteractionHistoryFieldTimestamp + " DESC").
		Limit(limit).
		Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent interaction_history: %w", err)
	}

	// 反转结果，使其按时间升序排列
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}

	return results, nil
}

// List 按条件分页查询对话记录，未指定排序时按时间倒序
func (r *InteractionRepository) List(condition *model.GetInteractionCondition) ([]*entity.InteractionHistory, error) {
	if condition == nil {
		return nil, fmt.Errorf("condition cannot be nil")
	}

	where := builder.Eq{}
	if condition.UserID != nil {
		where[entity.InteractionHistoryFieldUserID] = *condition.UserID
	}
	if condition.SessionID != nil {
		where[entity.InteractionHistoryFieldSessionID] = *condition.SessionID
	}

	dbSession := r.session.Table(entity.TableNameInteractionHistory).Where(where)
	pagerOrder(dbSession, condition, WithDefaultOrderField(entity.InteractionHistoryFieldTimestamp))

	var results []*entity.InteractionHistory
	if err := dbSession.Find(&results); err != nil {
		return nil, fmt.Errorf("failed to list interaction_history: %w", err)
	}

	return results, nil
}

func (r *InteractionRepository) ListShowRefs(interactionID int64) ([]*entity.InteractionShowJunction, error) {
	if interactionID <= 0 {
		return nil, fmt.Errorf("interaction_id must be greater than 0")
	}

	var results []*entity.InteractionShowJunction
	err := r.session.Table(entity.TableNameInteractionShowJunction).
		Where(builder.Eq{entity.InteractionShowJunctionFieldInteractionID: interactionID}).
		OrderBy(entity.InteractionShowJunctionFieldID + " ASC").
		Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to list interaction_show_junction: %w", err)
	}

	return results, nil
}
