package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/constant"
	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/ragdoc"
	"github.com/rayymaxx/CinePal/pkg/tools"
	"github.com/rayymaxx/CinePal/repository/factory"
)

// EmptyHistory 会话尚无历史时注入提示词的占位文案
const EmptyHistory = "No previous conversation history."

const (
	defaultListPageSize = 20
	maxListPageSize     = 100
)

var (
	serviceOnce sync.Once
	instance    *Service
)

type Service struct {
	repositoryFactory factory.Factory
	historyLimit      int
}

func NewService(repositoryFactory factory.Factory) *Service {
	serviceOnce.Do(func() {
		instance = &Service{
			repositoryFactory: repositoryFactory,
			historyLimit:      config.GetInstance().GetIntOrDefault(config.ChatHistoryLimit, constant.DefaultHistoryLimit),
		}
	})

	return instance
}

// GetChatHistory 取会话最近若干轮，格式化为可注入提示词的文本。
// 轮次按时间升序排列，最早的在前。
func (s *Service) GetChatHistory(ctx context.Context, userID int64, sessionID string) (string, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	interactionRepo, err := s.repositoryFactory.NewInteractionRepository(session)
	if err != nil {
		return "", model.NewError(model.ErrorNewRepo, err)
	}

	interactions, err := interactionRepo.GetRecentBySession(userID, sessionID, s.historyLimit)
	if err != nil {
		return "", model.NewError(model.ErrorDB, err)
	}

	if len(interactions) == 0 {
		return EmptyHistory, nil
	}

	var builder strings.Builder
	for i, interaction := range interactions {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "User: %s\nAI: %s", interaction.UserMessage, interaction.AiResponse)
	}

	return builder.String(), nil
}

// ListInteractions 分页查看某个会话的历史轮次，最近的在前，
// 每轮附带当时推荐的片名列表。
func (s *Service) ListInteractions(ctx context.Context, userID int64, req *model.ChatHistoryRequest) (*model.ChatHistoryResponse, *model.Error) {
	if req == nil || req.SessionID == "" {
		return nil, model.NewError(model.ErrorParams, fmt.Errorf("session_id is required"))
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 || size > maxListPageSize {
		size = defaultListPageSize
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	interactionRepo, err := s.repositoryFactory.NewInteractionRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	interactions, err := interactionRepo.List(&model.GetInteractionCondition{
		UserID:    &userID,
		SessionID: &req.SessionID,
		Pager:     &model.Pager{Limit: size, Offset: (page - 1) * size},
	})
	if err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}

	items := make([]*model.InteractionRecord, 0, len(interactions))
	for _, interaction := range interactions {
		record := &model.InteractionRecord{
			SessionID:      interaction.SessionID,
			UserMessage:    interaction.UserMessage,
			AiResponse:     interaction.AiResponse,
			Timestamp:      interaction.Timestamp.Format(time.RFC3339),
			SuggestedShows: []string{},
		}

		refs, refErr := interactionRepo.ListShowRefs(interaction.ID)
		if refErr != nil {
			log.Warnf("Failed to list show refs for interaction %d: %v", interaction.ID, refErr)
		}
		for _, ref := range refs {
			record.SuggestedShows = append(record.SuggestedShows, ref.ShowTitle)
		}

		items = append(items, record)
	}

	return &model.ChatHistoryResponse{SessionID: req.SessionID, Items: items}, nil
}

// SaveInteraction 落库一轮对话及其推荐引用，同一事务内完成。
// refs 允许为空，空时只写对话记录。
func (s *Service) SaveInteraction(ctx context.Context, userID int64, sessionID, userMessage, aiResponse string, refs []ragdoc.ShowRef) (*entity.InteractionHistory, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	if err := session.Begin(); err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}

	interactionRepo, err := s.repositoryFactory.NewInteractionRepository(session)
	if err != nil {
		_ = session.Rollback()
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	interaction := &entity.InteractionHistory{
		UserID:      userID,
		SessionID:   sessionID,
		UserMessage: userMessage,
		AiResponse:  aiResponse,
		Timestamp:   time.Now(),
	}

	if err = interactionRepo.Insert(interaction); err != nil {
		_ = session.Rollback()
		return nil, model.NewError(model.ErrorDB, err)
	}

	if len(refs) > 0 {
		junctions := make([]*entity.InteractionShowJunction, 0, len(refs))
		for _, ref := range refs {
			showID, convErr := strconv.ParseInt(ref.ShowID, 10, 64)
			if convErr != nil {
				log.Warnf("Skipping show ref with non-numeric id %q: %v", ref.ShowID, convErr)
				continue
			}
			junctions = append(junctions, &entity.InteractionShowJunction{
				InteractionID: interaction.ID,
				ShowID:        showID,
				ShowTitle:     ref.Title,
			})
		}

		if len(junctions) > 0 {
			if err = interactionRepo.InsertShowRefs(junctions); err != nil {
				_ = session.Rollback()
				return nil, model.NewError(model.ErrorDB, err)
			}
		}
	}

	if err = session.Commit(); err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}

	log.Debugf("Saved interaction %d for user %d session %s with %d show refs", interaction.ID, userID, sessionID, len(refs))
	return interaction, nil
}
