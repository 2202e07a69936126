package model

import "time"

// GetUserPreferenceCondition user_preferences 查询条件
type GetUserPreferenceCondition struct {
	UserID          *int64  `json:"user_id"`
	PreferenceType  *string `json:"preference_type"`
	PreferenceValue *string `json:"preference_value"`
}

// GetInteractionCondition interaction_history 查询条件
type GetInteractionCondition struct {
	UserID    *int64  `json:"user_id"`
	SessionID *string `json:"session_id"`
	*Pager
	*Order
}

func (g *GetInteractionCondition) GetPager() *Pager {
	return g.Pager
}

func (g *GetInteractionCondition) GetOrder() *Order {
	return g.Order
}

// VectorSearchCondition show_index 向量检索条件
type VectorSearchCondition struct {
	QueryVector string   `json:"query_vector"` // pgvector 格式字符串
	Limit       int      `json:"limit"`
	Threshold   *float64 `json:"threshold"` // 相似度下限，可选
}

// UpsertPreferenceScoreCondition 偏好分值累加请求
type UpsertPreferenceScoreCondition struct {
	UserID          int64     `json:"user_id"`
	PreferenceType  string    `json:"preference_type"`
	PreferenceValue string    `json:"preference_value"`
	ScoreDelta      float64   `json:"score_delta"`
	Now             time.Time `json:"-"`
}
