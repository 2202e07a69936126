package llm_model

type Config struct {
	Addr        string  `json:"addr"`
	Model       string  `json:"llm_model"`
	Token       string  `json:"token"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
	Timeout     int     `json:"timeout"` // 单次调用超时，秒
}
