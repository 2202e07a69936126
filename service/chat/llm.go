package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/rayymaxx/CinePal/constant"
	"github.com/rayymaxx/CinePal/model"
)

// summarizeContext 基于历史、资讯与最新消息生成上下文摘要
func (s *Service) summarizeContext(ctx context.Context, turn *turnContext) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: constant.ContextSummarySystemPrompt,
		},
		{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(constant.ContextSummaryUserPromptTemplate,
				turn.newsText, turn.historyText, turn.message),
		},
	}

	content, err := s.llmClient.PostChatCompletionsNonStreamContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate context summary: %w", err)
	}

	var result struct {
		ContextSummary string `json:"context_summary"`
	}
	if err = json.Unmarshal([]byte(cleanJSONResponse(content)), &result); err != nil {
		return "", fmt.Errorf("failed to parse summary JSON: %w", err)
	}
	if result.ContextSummary == "" {
		return "", fmt.Errorf("summary JSON missing context_summary")
	}

	return result.ContextSummary, nil
}

// classifyIntent 意图分类，输出不合法直接报错而不是猜一个标签
func (s *Service) classifyIntent(ctx context.Context, contextSummary string) (*model.Intent, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: constant.IntentParserSystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(constant.IntentParserUserPromptTemplate, contextSummary),
		},
	}

	content, err := s.llmClient.PostChatCompletionsNonStreamContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to classify intent: %w", err)
	}

	var intent model.Intent
	if err = json.Unmarshal([]byte(cleanJSONResponse(content)), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse intent JSON: %w", err)
	}

	if !intent.IntentType.Valid() {
		return nil, fmt.Errorf("unknown intent label %q", intent.IntentType)
	}
	if intent.IntentType == model.IntentProfileUpdate && (intent.PreferenceType == "" || intent.PreferenceValue == "") {
		return nil, fmt.Errorf("PROFILE_UPDATE intent missing preference fields")
	}

	return &intent, nil
}

// cleanJSONResponse 去掉模型输出中包裹 JSON 的代码围栏
func cleanJSONResponse(result string) string {
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "```json")
	result = strings.TrimPrefix(result, "```")
	result = strings.TrimSuffix(result, "```")
	return strings.TrimSpace(result)
}
