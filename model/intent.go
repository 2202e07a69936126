package model

// IntentType 意图分类的封闭标签集
type IntentType string

const (
	IntentRecommendation IntentType = "RECOMMENDATION"
	IntentProfileUpdate  IntentType = "PROFILE_UPDATE"
	IntentChat           IntentType = "CHAT"
	IntentUnknown        IntentType = "UNKNOWN"
)

// Valid 判断是否为已知标签
func (t IntentType) Valid() bool {
	switch t {
	case IntentRecommendation, IntentProfileUpdate, IntentChat, IntentUnknown:
		return true
	}
	return false
}

// Intent 单轮对话的意图解析结果。不落库，只在管道内流转，
// 其效果通过 user_preferences 和 interaction_history 持久化。
// 条件字段只在对应标签下填充：
//   - RECOMMENDATION: SearchQuery
//   - PROFILE_UPDATE: PreferenceType + PreferenceValue
type Intent struct {
	IntentType      IntentType `json:"intent_type"`
	SearchQuery     string     `json:"search_query,omitempty"`
	PreferenceType  string     `json:"preference_type,omitempty"`
	PreferenceValue string     `json:"preference_value,omitempty"`
}
