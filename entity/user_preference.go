package entity

import "time"

const (
	TableNameUserPreference = "user_preferences"

	UserPreferenceFieldID              = "id"
	UserPreferenceFieldUserID          = "user_id"
	UserPreferenceFieldPreferenceType  = "preference_type"
	UserPreferenceFieldPreferenceValue = "preference_value"
	UserPreferenceFieldScore           = "score"
	UserPreferenceFieldLastUpdated     = "last_updated"
)

// UserPreference 用户偏好打分记录
// 唯一性约束: (user_id, preference_type, preference_value) 至多一行，
// score 为累加器，只通过偏好更新器按增量累加，从不重置。
type UserPreference struct {
	ID              int64     `xorm:"pk autoincr id" json:"id"`
	UserID          int64     `xorm:"user_id" json:"user_id"`
	PreferenceType  string    `xorm:"preference_type" json:"preference_type"`   // e.g. genre, actor, mood
	PreferenceValue string    `xorm:"preference_value" json:"preference_value"` // e.g. sci-fi, Tom Hanks
	Score           float64   `xorm:"score" json:"score"`
	LastUpdated     time.Time `xorm:"last_updated" json:"last_updated"`
}

func (e *UserPreference) TableName() string {
	return TableNameUserPreference
}
