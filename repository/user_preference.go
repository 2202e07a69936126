package repository

import (
	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
)

type UserPreferenceRepository interface {
	// UpsertScore 偏好分值累加：不存在则以 delta 建行，存在则 score += delta
	// 并刷新 last_updated。非幂等，重复反馈按设计叠加。
	UpsertScore(req *model.UpsertPreferenceScoreCondition) (*entity.UserPreference, error)
	Get(userID int64, preferenceType, preferenceValue string) (*entity.UserPreference, error)
	List(condition *model.GetUserPreferenceCondition) ([]*entity.UserPreference, error)
}
