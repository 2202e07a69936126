package model

// ChatMessageRequest 聊天请求。session_id 为空时由服务端生成并随响应返回。
type ChatMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatMessageResponse 聊天响应
type ChatMessageResponse struct {
	Response       string   `json:"response"`
	SessionID      string   `json:"session_id"`
	SuggestedShows []string `json:"suggested_shows"`
}

// ChatHistoryRequest 历史分页查询参数
type ChatHistoryRequest struct {
	SessionID string `form:"session_id" binding:"required"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

// InteractionRecord 单轮历史记录
type InteractionRecord struct {
	SessionID      string   `json:"session_id"`
	UserMessage    string   `json:"user_message"`
	AiResponse     string   `json:"ai_response"`
	Timestamp      string   `json:"timestamp"`
	SuggestedShows []string `json:"suggested_shows"`
}

// ChatHistoryResponse 历史分页查询响应，最近的在前
type ChatHistoryResponse struct {
	SessionID string               `json:"session_id"`
	Items     []*InteractionRecord `json:"items"`
}
