package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/constant"
	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/tools"
	"github.com/rayymaxx/CinePal/repository/factory"
	"github.com/rayymaxx/CinePal/repository/interfaces"
)

// SnapshotUnavailable 画像加载失败时注入提示词的降级文案
const SnapshotUnavailable = "Profile data temporarily unavailable."

var (
	serviceOnce sync.Once
	instance    *Service
)

type Service struct {
	repositoryFactory factory.Factory
}

func NewService(repositoryFactory factory.Factory) *Service {
	serviceOnce.Do(func() {
		instance = &Service{repositoryFactory: repositoryFactory}
	})

	return instance
}

// snapshot 注入提示词的画像结构
type snapshot struct {
	UserName    string               `json:"username"`
	Preferences []snapshotPreference `json:"preferences"`
	MemberSince string               `json:"member_since"`
}

type snapshotPreference struct {
	Type  string  `json:"type"`
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// Snapshot 构建可注入提示词的用户画像文本。
// 画像属于增强信息，任何失败都降级为固定文案而不是中断对话。
func (s *Service) Snapshot(ctx context.Context, userID int64) string {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	userRepo, err := s.repositoryFactory.NewUserRepository(session)
	if err != nil {
		log.Warnf("Failed to create user repository for profile snapshot: %v", err)
		return SnapshotUnavailable
	}

	user, err := userRepo.GetByID(userID)
	if err != nil || user == nil {
		log.Warnf("Failed to load user %d for profile snapshot: %v", userID, err)
		return SnapshotUnavailable
	}

	preferences, mErr := s.list(ctx, session, userID)
	if mErr != nil {
		log.Warnf("Failed to load preferences for user %d: %v", userID, mErr)
		return SnapshotUnavailable
	}

	snap := snapshot{
		UserName:    user.UserName,
		Preferences: make([]snapshotPreference, 0, len(preferences)),
		MemberSince: user.CreatedAt.Format("2006-01-02"),
	}
	for _, pref := range preferences {
		snap.Preferences = append(snap.Preferences, snapshotPreference{
			Type:  pref.PreferenceType,
			Value: pref.PreferenceValue,
			Score: pref.Score,
		})
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		log.Warnf("Failed to marshal profile snapshot for user %d: %v", userID, err)
		return SnapshotUnavailable
	}

	return string(raw)
}

// ApplyFeedback 对一条偏好执行固定增量累加，事务内完成查改
func (s *Service) ApplyFeedback(ctx context.Context, userID int64, preferenceType, preferenceValue string) (*entity.UserPreference, *model.Error) {
	if preferenceType == "" || preferenceValue == "" {
		return nil, model.NewError(model.ErrorParams, fmt.Errorf("preference type and value must not be empty"))
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	if err := session.Begin(); err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}

	prefRepo, err := s.repositoryFactory.NewUserPreferenceRepository(session)
	if err != nil {
		_ = session.Rollback()
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	pref, err := prefRepo.UpsertScore(&model.UpsertPreferenceScoreCondition{
		UserID:          userID,
		PreferenceType:  preferenceType,
		PreferenceValue: preferenceValue,
		ScoreDelta:      constant.PreferenceScoreDelta,
		Now:             time.Now(),
	})
	if err != nil {
		_ = session.Rollback()
		return nil, model.NewError(model.ErrorDB, err)
	}

	if err = session.Commit(); err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}

	log.Infof("Updated preference %s=%s for user %d, score now %.1f", preferenceType, preferenceValue, userID, pref.Score)
	return pref, nil
}

// List 获取用户全部偏好
func (s *Service) List(ctx context.Context, userID int64) ([]*entity.UserPreference, *model.Error) {
	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	return s.list(ctx, session, userID)
}

func (s *Service) list(ctx context.Context, session interfaces.Session, userID int64) ([]*entity.UserPreference, *model.Error) {
	prefRepo, err := s.repositoryFactory.NewUserPreferenceRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	preferences, err := prefRepo.List(&model.GetUserPreferenceCondition{UserID: &userID})
	if err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}

	return preferences, nil
}
