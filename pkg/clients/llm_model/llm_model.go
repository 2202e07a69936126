package llm_model

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rayymaxx/CinePal/config"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

const (
	clientNameChatModel = "chat_model"

	// EnvModelApiKey 模型 API key 的环境变量名
	EnvModelApiKey = "MODEL_API_KEY"

	defaultTimeoutSeconds = 60
)

type ClientChatModel struct {
	config *Config
}

var (
	instance *ClientChatModel
	once     sync.Once
)

func GetInstance() *ClientChatModel {
	once.Do(func() {
		conf := &Config{
			Addr:        config.GetInstance().GetString(config.ClientChatModelAddr),
			Model:       config.GetInstance().GetString(config.ClientChatModelModel),
			Token:       os.Getenv(EnvModelApiKey),
			Temperature: cast.ToFloat32(config.GetInstance().GetFloat64(config.ClientChatModelTemperature)),
			MaxTokens:   config.GetInstance().GetInt(config.ClientChatModelMaxTokens),
			Timeout:     config.GetInstance().GetIntOrDefault(config.ClientChatModelTimeout, defaultTimeoutSeconds),
		}

		instance = &ClientChatModel{
			config: conf,
		}
	})
	return instance
}

// PostChatCompletionsNonStream 封装非流式调用，直接返回完整结果
func (zc *ClientChatModel) PostChatCompletionsNonStream(c context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error) {
	defaultReq := openai.DefaultConfig(zc.config.Token)
	defaultReq.BaseURL = zc.config.Addr

	client := openai.NewClientWithConfig(defaultReq)

	request := openai.ChatCompletionRequest{
		Model:       zc.config.Model,
		Messages:    messages,
		MaxTokens:   zc.config.MaxTokens,
		Temperature: zc.config.Temperature,
		Stream:      false,
	}

	timeout := time.Duration(zc.config.Timeout) * time.Second
	ctx, cancel := context.WithTimeout(c, timeout)
	defer cancel()

	response, err := client.CreateChatCompletion(ctx, request)
	if err != nil {
		log.Errorf("%s chat completion error: %v", clientNameChatModel, err)
		return nil, err
	}

	return &response, nil
}

// PostChatCompletionsNonStreamContent 封装非流式调用，只返回响应内容字符串
func (zc *ClientChatModel) PostChatCompletionsNonStreamContent(c context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	response, err := zc.PostChatCompletionsNonStream(c, messages)
	if err != nil {
		return "", err
	}

	if response == nil {
		log.Errorf("%s chat completion response is nil", clientNameChatModel)
		return "", fmt.Errorf("chat completion response is nil")
	}

	if len(response.Choices) == 0 {
		log.Errorf("%s chat completion response has no choices", clientNameChatModel)
		return "", fmt.Errorf("chat completion response has no choices")
	}

	content := response.Choices[0].Message.Content
	if content == "" {
		log.Warnf("%s chat completion response content is empty", clientNameChatModel)
	}

	return content, nil
}
