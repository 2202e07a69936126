package entity

import "time"

const (
	TableNameInteractionHistory = "interaction_history"

	InteractionHistoryFieldID          = "id"
	InteractionHistoryFieldUserID      = "user_id"
	InteractionHistoryFieldSessionID   = "session_id"
	InteractionHistoryFieldUserMessage = "user_message"
	InteractionHistoryFieldAiResponse  = "ai_response"
	InteractionHistoryFieldTimestamp   = "timestamp"
)

// InteractionHistory 单轮对话落库记录，只追加不修改。
// session_id 是分组键，不存在独立的会话实体。
type InteractionHistory struct {
	ID          int64     `xorm:"pk autoincr id" json:"id"`
	UserID      int64     `xorm:"user_id" json:"user_id"`
	SessionID   string    `xorm:"session_id" json:"session_id"`
	UserMessage string    `xorm:"user_message" json:"user_message"`
	AiResponse  string    `xorm:"ai_response" json:"ai_response"`
	Timestamp   time.Time `xorm:"timestamp" json:"timestamp"`
}

func (e *InteractionHistory) TableName() string {
	return TableNameInteractionHistory
}

const (
	TableNameInteractionShowJunction = "interaction_show_junction"

	InteractionShowJunctionFieldID            = "id"
	InteractionShowJunctionFieldInteractionID = "interaction_id"
	InteractionShowJunctionFieldShowID        = "show_id"
	InteractionShowJunctionFieldShowTitle     = "show_title"
)

// InteractionShowJunction 一轮对话推荐的 show 引用
type InteractionShowJunction struct {
	ID            int64  `xorm:"pk autoincr id" json:"id"`
	InteractionID int64  `xorm:"interaction_id" json:"interaction_id"`
	ShowID        int64  `xorm:"show_id" json:"show_id"`
	ShowTitle     string `xorm:"show_title" json:"show_title"`
}

func (e *InteractionShowJunction) TableName() string {
	return TableNameInteractionShowJunction
}
