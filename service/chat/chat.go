package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/constant"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/ragdoc"
	"github.com/rayymaxx/CinePal/repository/factory"
	"github.com/rayymaxx/CinePal/service/history"
	"github.com/rayymaxx/CinePal/service/profile"
)

var (
	serviceOnce sync.Once
	instance    *Service
)

// LLMClient 非流式对话补全
type LLMClient interface {
	PostChatCompletionsNonStreamContent(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// NewsClient 实时资讯要点抓取，可选依赖
type NewsClient interface {
	SearchNews(ctx context.Context, query string, numResults int) (string, error)
}

// Retriever 语义检索
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]ragdoc.Doc, error)
}

type Service struct {
	repositoryFactory factory.Factory
	profileService    *profile.Service
	historyService    *history.Service
	llmClient         LLMClient
	newsClient        NewsClient
	retriever         Retriever

	newsEnabled    bool
	newsQuery      string
	newsNumResults int
}

func NewService(
	repositoryFactory factory.Factory,
	llmClient LLMClient,
	newsClient NewsClient,
	retriever Retriever,
) *Service {
	serviceOnce.Do(func() {
		cfg := config.GetInstance()

		instance = &Service{
			repositoryFactory: repositoryFactory,
			profileService:    profile.NewService(repositoryFactory),
			historyService:    history.NewService(repositoryFactory),
			llmClient:         llmClient,
			newsClient:        newsClient,
			retriever:         retriever,
			newsEnabled:       cfg.GetBoolOrDefault(config.ChatNewsEnabled, false),
			newsQuery:         cfg.GetStringOrDefault(config.ChatNewsQuery, "latest movie and tv show news"),
			newsNumResults:    cfg.GetIntOrDefault(config.ChatNewsNumResults, 3),
		}
	})

	return instance
}

// ProcessTurn 处理一轮对话，顺序执行各阶段。
// session_id 为空时生成新会话。回复生成成功后，落库失败不影响返回。
func (s *Service) ProcessTurn(ctx context.Context, userID int64, req *model.ChatMessageRequest) (*model.ChatMessageResponse, *model.Error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
		log.Debugf("Minted session %s for user %d", sessionID, userID)
	}

	turn := &turnContext{
		userID:    userID,
		sessionID: sessionID,
		message:   req.Message,
	}

	stages := []struct {
		name string
		run  func(context.Context, *turnContext) *model.Error
	}{
		{"gather", s.stageGather},
		{"summarize", s.stageSummarize},
		{"classify", s.stageClassify},
		{"apply_side_effects", s.stageApplySideEffects},
		{"retrieve", s.stageRetrieve},
		{"synthesize", s.stageSynthesize},
		{"record", s.stageRecord},
	}

	for _, stage := range stages {
		if err := stage.run(ctx, turn); err != nil {
			log.Errorf("Chat stage %s failed for user %d session %s: %v", stage.name, userID, sessionID, err)
			return nil, err
		}
	}

	return &model.ChatMessageResponse{
		Response:       turn.response,
		SessionID:      sessionID,
		SuggestedShows: ragdoc.ParseTitles(turn.retrievedDocs),
	}, nil
}

// turnContext 各阶段间传递的状态，随阶段推进单调填充
type turnContext struct {
	userID    int64
	sessionID string
	message   string

	profileSnapshot string
	historyText     string
	newsText        string
	contextSummary  string
	intent          *model.Intent
	retrievedDocs   string
	response        string
}

// stageGather 注入用户画像与会话历史。
// 画像失败自行降级；历史读取失败是硬错误，上下文不完整不对话。
func (s *Service) stageGather(ctx context.Context, turn *turnContext) *model.Error {
	turn.profileSnapshot = s.profileService.Snapshot(ctx, turn.userID)

	historyText, err := s.historyService.GetChatHistory(ctx, turn.userID, turn.sessionID)
	if err != nil {
		return err
	}
	turn.historyText = historyText

	return nil
}

// stageSummarize 抓取资讯要点并生成上下文摘要。
// 资讯抓取失败降级为无资讯，摘要失败降级为原始消息。
func (s *Service) stageSummarize(ctx context.Context, turn *turnContext) *model.Error {
	turn.newsText = s.fetchNews(ctx)

	summary, err := s.summarizeContext(ctx, turn)
	if err != nil {
		log.Warnf("Context summary failed, falling back to raw message: %v", err)
		turn.contextSummary = turn.message
		return nil
	}

	turn.contextSummary = summary
	return nil
}

// stageClassify 意图分类。解析失败是硬错误，不做标签猜测。
func (s *Service) stageClassify(ctx context.Context, turn *turnContext) *model.Error {
	intent, err := s.classifyIntent(ctx, turn.contextSummary)
	if err != nil {
		return model.NewError(model.ErrorIntentParse, err)
	}

	turn.intent = intent
	log.Infof("Classified intent %s for user %d session %s", intent.IntentType, turn.userID, turn.sessionID)
	return nil
}

// stageApplySideEffects 执行意图的持久化副作用。
// 偏好更新失败只记日志，本轮对话继续。
func (s *Service) stageApplySideEffects(ctx context.Context, turn *turnContext) *model.Error {
	if turn.intent.IntentType != model.IntentProfileUpdate {
		return nil
	}

	if _, err := s.profileService.ApplyFeedback(ctx, turn.userID, turn.intent.PreferenceType, turn.intent.PreferenceValue); err != nil {
		log.Warnf("Failed to apply preference feedback for user %d: %v", turn.userID, err)
	}

	return nil
}

// stageRetrieve 仅 RECOMMENDATION 意图触发语义检索，
// 其余意图写入占位文本。后端不可用降级，不中断对话。
func (s *Service) stageRetrieve(ctx context.Context, turn *turnContext) *model.Error {
	if turn.intent.IntentType != model.IntentRecommendation {
		turn.retrievedDocs = ragdoc.SentinelNoRetrieval
		return nil
	}

	query := turn.intent.SearchQuery
	if query == "" {
		query = turn.message
	}

	docs, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		log.Warnf("Retrieval failed for query %q: %v", query, err)
		turn.retrievedDocs = ragdoc.Unavailable(err.Error())
		return nil
	}

	turn.retrievedDocs = ragdoc.Format(docs)
	return nil
}

// stageSynthesize 生成最终回复。空回复重试一次，仍为空则报错。
func (s *Service) stageSynthesize(ctx context.Context, turn *turnContext) *model.Error {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf(constant.ResponseGeneratorSystemPrompt,
				turn.profileSnapshot, turn.retrievedDocs, turn.contextSummary, turn.intent.IntentType),
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(constant.ResponseGeneratorUserPromptTemplate, turn.message),
		},
	}

	for attempt := 0; attempt < 2; attempt++ {
		content, err := s.llmClient.PostChatCompletionsNonStreamContent(ctx, messages)
		if err != nil {
			return model.NewError(model.ErrorLLM, err)
		}
		if content != "" {
			turn.response = content
			return nil
		}
		log.Warnf("Empty response from model (attempt %d), retrying", attempt+1)
	}

	return model.NewError(model.ErrorResponseEmpty, fmt.Errorf("model returned empty content twice"))
}

// stageRecord 落库本轮对话。回复已生成，失败只记日志。
func (s *Service) stageRecord(ctx context.Context, turn *turnContext) *model.Error {
	refs := ragdoc.ParseShowRefs(turn.retrievedDocs)

	if _, err := s.historyService.SaveInteraction(ctx, turn.userID, turn.sessionID, turn.message, turn.response, refs); err != nil {
		log.Warnf("Failed to record interaction for user %d session %s: %v", turn.userID, turn.sessionID, err)
	}

	return nil
}

// fetchNews 抓取实时资讯要点，关闭或失败时返回占位文本
func (s *Service) fetchNews(ctx context.Context) string {
	if !s.newsEnabled || s.newsClient == nil {
		return "No current news available."
	}

	news, err := s.newsClient.SearchNews(ctx, s.newsQuery, s.newsNumResults)
	if err != nil {
		log.Warnf("News fetch failed: %v", err)
		return "No current news available."
	}

	return news
}
