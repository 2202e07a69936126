package repository

import (
	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
)

type InteractionRepository interface {
	// Insert 插入一轮对话记录，回填自增 id
	Insert(interaction *entity.InteractionHistory) error
	// InsertShowRefs 插入该轮推荐的 show 引用
	InsertShowRefs(refs []*entity.InteractionShowJunction) error
	// GetRecentBySession 获取会话最近 limit 轮，按时间升序返回
	GetRecentBySession(userID int64, sessionID string, limit int) ([]*entity.InteractionHistory, error)
	// List 按条件分页查询对话记录，默认按时间倒序
	List(condition *model.GetInteractionCondition) ([]*entity.InteractionHistory, error)
	// ListShowRefs 获取一轮对话的推荐引用
	ListShowRefs(interactionID int64) ([]*entity.InteractionShowJunction, error)
}
