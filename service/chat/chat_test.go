package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/suite"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/ragdoc"
	"github.com/rayymaxx/CinePal/repository"
	"github.com/rayymaxx/CinePal/repository/interfaces"
	"github.com/rayymaxx/CinePal/service/history"
	"github.com/rayymaxx/CinePal/service/profile"
)

type fakeSession struct{}

func (s *fakeSession) Begin() error    { return nil }
func (s *fakeSession) Close() error    { return nil }
func (s *fakeSession) Commit() error   { return nil }
func (s *fakeSession) Rollback() error { return nil }

type fakeUserRepo struct {
	users map[int64]*entity.User
}

func (r *fakeUserRepo) Insert(user *entity.User) error                      { return nil }
func (r *fakeUserRepo) GetByUserName(userName string) (*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) GetByID(id int64) (*entity.User, error)              { return r.users[id], nil }

type fakePreferenceRepo struct {
	preferences []*entity.UserPreference
	nextID      int64
}

func (r *fakePreferenceRepo) UpsertScore(req *model.UpsertPreferenceScoreCondition) (*entity.UserPreference, error) {
	for _, pref := range r.preferences {
		if pref.UserID == req.UserID && pref.PreferenceType == req.PreferenceType && pref.PreferenceValue == req.PreferenceValue {
			pref.Score += req.ScoreDelta
			return pref, nil
		}
	}
	r.nextID++
	pref := &entity.UserPreference{
		ID:              r.nextID,
		UserID:          req.UserID,
		PreferenceType:  req.PreferenceType,
		PreferenceValue: req.PreferenceValue,
		Score:           req.ScoreDelta,
		LastUpdated:     req.Now,
	}
	r.preferences = append(r.preferences, pref)
	return pref, nil
}

func (r *fakePreferenceRepo) Get(userID int64, preferenceType, preferenceValue string) (*entity.UserPreference, error) {
	for _, pref := range r.preferences {
		if pref.UserID == userID && pref.PreferenceType == preferenceType && pref.PreferenceValue == preferenceValue {
			return pref, nil
		}
	}
	return nil, nil
}

func (r *fakePreferenceRepo) List(condition *model.GetUserPreferenceCondition) ([]*entity.UserPreference, error) {
	return r.preferences, nil
}

type fakeInteractionRepo struct {
	interactions []*entity.InteractionHistory
	refs         []*entity.InteractionShowJunction
	insertErr    error
	nextID       int64
}

func (r *fakeInteractionRepo) Insert(interaction *entity.InteractionHistory) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.nextID++
	interaction.ID = r.nextID
	r.interactions = append(r.interactions, interaction)
	return nil
}

func (r *fakeInteractionRepo) InsertShowRefs(refs []*entity.InteractionShowJunction) error {
	r.refs = append(r.refs, refs...)
	return nil
}

func (r *fakeInteractionRepo) GetRecentBySession(userID int64, sessionID string, limit int) ([]*entity.InteractionHistory, error) {
	matched := make([]*entity.InteractionHistory, 0)
	for _, interaction := range r.interactions {
		if interaction.UserID == userID && interaction.SessionID == sessionID {
			matched = append(matched, interaction)
		}
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

func (r *fakeInteractionRepo) List(condition *model.GetInteractionCondition) ([]*entity.InteractionHistory, error) {
	matched := make([]*entity.InteractionHistory, 0)
	for _, interaction := range r.interactions {
		if condition.UserID != nil && interaction.UserID != *condition.UserID {
			continue
		}
		if condition.SessionID != nil && interaction.SessionID != *condition.SessionID {
			continue
		}
		matched = append(matched, interaction)
	}
	return matched, nil
}

func (r *fakeInteractionRepo) ListShowRefs(interactionID int64) ([]*entity.InteractionShowJunction, error) {
	result := make([]*entity.InteractionShowJunction, 0)
	for _, ref := range r.refs {
		if ref.InteractionID == interactionID {
			result = append(result, ref)
		}
	}
	return result, nil
}

type fakeFactory struct {
	userRepo        *fakeUserRepo
	prefRepo        *fakePreferenceRepo
	interactionRepo *fakeInteractionRepo
}

func (f *fakeFactory) NewSession(ctx context.Context) interfaces.Session { return &fakeSession{} }

func (f *fakeFactory) NewUserRepository(session interfaces.Session) (repository.UserRepository, error) {
	return f.userRepo, nil
}

func (f *fakeFactory) NewUserPreferenceRepository(session interfaces.Session) (repository.UserPreferenceRepository, error) {
	return f.prefRepo, nil
}

func (f *fakeFactory) NewInteractionRepository(session interfaces.Session) (repository.InteractionRepository, error) {
	return f.interactionRepo, nil
}

func (f *fakeFactory) NewCachedShowRepository(session interfaces.Session) (repository.CachedShowRepository, error) {
	return nil, fmt.Errorf("not supported")
}

func (f *fakeFactory) NewShowIndexRepository(session interfaces.Session) (repository.ShowIndexRepository, error) {
	return nil, fmt.Errorf("not supported")
}

// fakeLLM 按调用顺序弹出脚本化的响应
type fakeLLM struct {
	responses []string
	requests  [][]openai.ChatCompletionMessage
	err       error
}

func (l *fakeLLM) PostChatCompletionsNonStreamContent(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	l.requests = append(l.requests, messages)
	if l.err != nil {
		return "", l.err
	}
	if len(l.responses) == 0 {
		return "", fmt.Errorf("no scripted response left")
	}
	response := l.responses[0]
	l.responses = l.responses[1:]
	return response, nil
}

type fakeRetriever struct {
	docs  []ragdoc.Doc
	err   error
	calls int
}

func (r *fakeRetriever) Retrieve(ctx context.Context, query string) ([]ragdoc.Doc, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.docs, nil
}

type fakeNews struct {
	text  string
	err   error
	calls int
}

func (n *fakeNews) SearchNews(ctx context.Context, query string, numResults int) (string, error) {
	n.calls++
	if n.err != nil {
		return "", n.err
	}
	return n.text, nil
}

type ChatServiceTest struct {
	suite.Suite
	factory   *fakeFactory
	llm       *fakeLLM
	retriever *fakeRetriever
	news      *fakeNews
	service   *Service
}

// 画像与历史服务是包级单例，工厂指针全程不变，逐测试重置其内部仓储
var sharedFactory = &fakeFactory{}

func (c *ChatServiceTest) SetupTest() {
	sharedFactory.userRepo = &fakeUserRepo{users: map[int64]*entity.User{
		1: {ID: 1, UserName: "alice"},
	}}
	sharedFactory.prefRepo = &fakePreferenceRepo{}
	sharedFactory.interactionRepo = &fakeInteractionRepo{}
	c.factory = sharedFactory

	c.llm = &fakeLLM{}
	c.retriever = &fakeRetriever{}
	c.news = &fakeNews{}

	c.service = &Service{
		repositoryFactory: c.factory,
		profileService:    profile.NewService(c.factory),
		historyService:    history.NewService(c.factory),
		llmClient:         c.llm,
		newsClient:        c.news,
		retriever:         c.retriever,
		newsEnabled:       false,
		newsQuery:         "latest movie news",
		newsNumResults:    3,
	}
}

func summaryJSON(summary string) string {
	return fmt.Sprintf(`{"context_summary": %q}`, summary)
}

func (c *ChatServiceTest) TestProcessTurn_RecommendationRetrievesAndRecords() {
	c.retriever.docs = []ragdoc.Doc{
		{Title: "Dune", Score: 0.91, ShowID: "438631", Excerpt: "Epic desert sci-fi."},
	}
	c.llm.responses = []string{
		summaryJSON("User wants a thrilling sci-fi movie."),
		`{"intent_type": "RECOMMENDATION", "search_query": "thrilling sci-fi"}`,
		"You should watch Dune, it fits your taste for sci-fi.",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{
		Message: "I want a thrilling sci-fi movie",
	})
	c.Require().Nil(err)
	c.NotEmpty(res.Response)
	c.NotEmpty(res.SessionID, "session id must be minted when the request has none")
	c.Equal([]string{"Dune"}, res.SuggestedShows)
	c.Equal(1, c.retriever.calls)

	// 本轮已落库，含推荐引用
	c.Require().Len(c.factory.interactionRepo.interactions, 1)
	saved := c.factory.interactionRepo.interactions[0]
	c.Equal(res.SessionID, saved.SessionID)
	c.Equal("I want a thrilling sci-fi movie", saved.UserMessage)
	c.Require().Len(c.factory.interactionRepo.refs, 1)
	c.Equal(int64(438631), c.factory.interactionRepo.refs[0].ShowID)

	// 检索结果已注入回复生成的系统提示词
	c.Require().Len(c.llm.requests, 3)
	c.Contains(c.llm.requests[2][0].Content, "[Title: Dune, Score: 0.91, Show ID: 438631]")
}

func (c *ChatServiceTest) TestProcessTurn_KeepsProvidedSessionID() {
	c.llm.responses = []string{
		summaryJSON("Casual chat."),
		`{"intent_type": "CHAT"}`,
		"Happy to chat about movies any time!",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{
		Message:   "hello",
		SessionID: "existing-session",
	})
	c.Require().Nil(err)
	c.Equal("existing-session", res.SessionID)
}

func (c *ChatServiceTest) TestProcessTurn_ChatIntentSkipsRetrieval() {
	c.llm.responses = []string{
		summaryJSON("Casual greeting."),
		`{"intent_type": "CHAT"}`,
		"Hello! Looking for something to watch?",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "hi"})
	c.Require().Nil(err)
	c.Zero(c.retriever.calls)
	c.Empty(res.SuggestedShows)
	c.Empty(c.factory.interactionRepo.refs)

	// 占位文本注入生成提示词
	c.Contains(c.llm.requests[2][0].Content, ragdoc.SentinelNoRetrieval)
}

func (c *ChatServiceTest) TestProcessTurn_ProfileUpdateAccumulates() {
	script := func() []string {
		return []string{
			summaryJSON("User states a genre preference."),
			`{"intent_type": "PROFILE_UPDATE", "preference_type": "genre", "preference_value": "sci-fi"}`,
			"Got it, noting that you love sci-fi!",
		}
	}

	c.llm.responses = script()
	_, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "I love sci-fi"})
	c.Require().Nil(err)

	c.llm.responses = script()
	_, err = c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "I love sci-fi"})
	c.Require().Nil(err)

	pref, repoErr := c.factory.prefRepo.Get(1, "genre", "sci-fi")
	c.Require().Nil(repoErr)
	c.Require().NotNil(pref)
	c.Equal(2.0, pref.Score, "repeated feedback accumulates")
	c.Zero(c.retriever.calls)
}

func (c *ChatServiceTest) TestProcessTurn_MalformedIntentFails() {
	c.llm.responses = []string{
		summaryJSON("Some context."),
		`certainly! the intent is RECOMMENDATION`,
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "recommend something"})
	c.Nil(res)
	c.Require().NotNil(err)
	c.Equal(model.ErrorIntentParse, err.Code)
	c.Empty(c.factory.interactionRepo.interactions, "failed turn must not be recorded")
}

func (c *ChatServiceTest) TestProcessTurn_UnknownIntentLabelFails() {
	c.llm.responses = []string{
		summaryJSON("Some context."),
		`{"intent_type": "SOMETHING_ELSE"}`,
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "recommend something"})
	c.Nil(res)
	c.Require().NotNil(err)
	c.Equal(model.ErrorIntentParse, err.Code)
}

func (c *ChatServiceTest) TestProcessTurn_IntentWrappedInCodeFence() {
	c.llm.responses = []string{
		summaryJSON("Casual chat."),
		"```json\n{\"intent_type\": \"CHAT\"}\n```",
		"Sure, happy to chat!",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "hi"})
	c.Require().Nil(err)
	c.NotEmpty(res.Response)
}

func (c *ChatServiceTest) TestProcessTurn_SummaryFailureFallsBackToRawMessage() {
	c.llm.responses = []string{
		"not json at all",
		`{"intent_type": "CHAT"}`,
		"Hello there!",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "hi friend"})
	c.Require().Nil(err)
	c.NotEmpty(res.Response)

	// 摘要失败后，分类阶段拿到的是原始消息
	c.Contains(c.llm.requests[1][1].Content, "hi friend")
}

func (c *ChatServiceTest) TestProcessTurn_RetrieverFailureDegrades() {
	c.retriever.err = fmt.Errorf("index offline")
	c.llm.responses = []string{
		summaryJSON("User wants sci-fi."),
		`{"intent_type": "RECOMMENDATION", "search_query": "sci-fi"}`,
		"I could not reach the catalog, but tell me more about what you like.",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "recommend sci-fi"})
	c.Require().Nil(err)
	c.Empty(res.SuggestedShows)
	c.Contains(c.llm.requests[2][0].Content, "RAG UNAVAILABLE")
}

func (c *ChatServiceTest) TestProcessTurn_EmptyResponseRetriesOnce() {
	c.llm.responses = []string{
		summaryJSON("Casual chat."),
		`{"intent_type": "CHAT"}`,
		"",
		"Here is a proper answer.",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "hi"})
	c.Require().Nil(err)
	c.Equal("Here is a proper answer.", res.Response)
	c.Len(c.llm.requests, 4)
}

func (c *ChatServiceTest) TestProcessTurn_EmptyResponseTwiceFails() {
	c.llm.responses = []string{
		summaryJSON("Casual chat."),
		`{"intent_type": "CHAT"}`,
		"",
		"",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "hi"})
	c.Nil(res)
	c.Require().NotNil(err)
	c.Equal(model.ErrorResponseEmpty, err.Code)
}

func (c *ChatServiceTest) TestProcessTurn_PersistenceFailureDoesNotLoseResponse() {
	c.factory.interactionRepo.insertErr = fmt.Errorf("disk full")
	c.llm.responses = []string{
		summaryJSON("Casual chat."),
		`{"intent_type": "CHAT"}`,
		"All good!",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "hi"})
	c.Require().Nil(err)
	c.Equal("All good!", res.Response)
}

func (c *ChatServiceTest) TestProcessTurn_NewsFailureDegrades() {
	c.service.newsEnabled = true
	c.news.err = fmt.Errorf("search api down")
	c.llm.responses = []string{
		summaryJSON("Casual chat."),
		`{"intent_type": "CHAT"}`,
		"Hello!",
	}

	res, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "hi"})
	c.Require().Nil(err)
	c.NotEmpty(res.Response)
	c.Equal(1, c.news.calls)

	// 摘要提示词里用占位文本顶替资讯要点
	c.Contains(c.llm.requests[0][1].Content, "No current news available.")
}

func (c *ChatServiceTest) TestProcessTurn_SecondTurnSeesHistory() {
	c.llm.responses = []string{
		summaryJSON("Casual chat."),
		`{"intent_type": "CHAT"}`,
		"Nice to meet you, Alice!",
	}
	first, err := c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{Message: "my name is Alice"})
	c.Require().Nil(err)

	c.llm.responses = []string{
		summaryJSON("User continues the conversation."),
		`{"intent_type": "CHAT"}`,
		"You told me your name is Alice.",
	}
	_, err = c.service.ProcessTurn(context.Background(), 1, &model.ChatMessageRequest{
		Message:   "what did I tell you?",
		SessionID: first.SessionID,
	})
	c.Require().Nil(err)

	// 第二轮的摘要提示词包含第一轮的往返内容
	summaryPrompt := c.llm.requests[3][1].Content
	c.Contains(summaryPrompt, "User: my name is Alice")
	c.Contains(summaryPrompt, "AI: Nice to meet you, Alice!")
}

func TestChatService(t *testing.T) {
	suite.Run(t, new(ChatServiceTest))
}
