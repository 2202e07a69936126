package xormimplement

import (
	"fmt"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/repository"

	"xorm.io/builder"
)

type UserPreferenceRepository struct {
	session *Session
}

func NewUserPreferenceRepository(session *Session) repository.UserPreferenceRepository {
	return &UserPreferenceRepository{session: session}
}

// UpsertScore 偏好分值累加。调用方负责将本操作包在事务中，
// 避免并发轮次下读-增-写丢失增量。
func (r *UserPreferenceRepository) UpsertScore(req *model.UpsertPreferenceScoreCondition) (*entity.UserPreference, error) {
	if req == nil {
		return nil, fmt.Errorf("upsert request cannot be nil")
	}
	if req.UserID <= 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	if req.PreferenceType == "" {
		return nil, fmt.Errorf("preference_type is required")
	}
	if req.PreferenceValue == "" {
		return nil, fmt.Errorf("preference_value is required")
	}

	cond := builder.Eq{
		entity.UserPreferenceFieldUserID:          req.UserID,
		entity.UserPreferenceFieldPreferenceType:  req.PreferenceType,
		entity.UserPreferenceFieldPreferenceValue: req.PreferenceValue,
	}

	existing := &entity.UserPreference{}
	has, err := r.session.Table(entity.TableNameUserPreference).
		Where(cond).
		ForUpdate().
		Get(existing)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user_preference: %w", err)
	}

	if has {
		existing.Score += req.ScoreDelta
		existing.LastUpdated = req.Now
		_, err = r.session.Table(entity.TableNameUserPreference).
			Where(builder.Eq{entity.UserPreferenceFieldID: existing.ID}).
			Update(map[string]interface{}{
				entity.UserPreferenceFieldScore:       existing.Score,
				entity.UserPreferenceFieldLastUpdated: existing.LastUpdated,
			})
		if err != nil {
			return nil, fmt.Errorf("failed to update user_preference: %w", err)
		}
		return existing, nil
	}

	created := &entity.UserPreference{
		UserID:          req.UserID,
		PreferenceType:  req.PreferenceType,
		PreferenceValue: req.PreferenceValue,
		Score:           req.ScoreDelta,
		LastUpdated:     req.Now,
	}
	_, err = r.session.Table(entity.TableNameUserPreference).Insert(created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user_preference: %w", err)
	}

	return created, nil
}

func (r *UserPreferenceRepository) Get(userID int64, preferenceType, preferenceValue string) (*entity.UserPreference, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user_id is required")
	}

	result := &entity.UserPreference{}
	ok, err := r.session.Table(entity.TableNameUserPreference).
		Where(builder.Eq{
			entity.UserPreferenceFieldUserID:          userID,
			entity.UserPreferenceFieldPreferenceType:  preferenceType,
			entity.UserPreferenceFieldPreferenceValue: preferenceValue,
		}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get user_preference: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

func (r *UserPreferenceRepository) List(condition *model.GetUserPreferenceCondition) ([]*entity.UserPreference, error) {
	if condition == nil {
		return nil, fmt.Errorf("get condition cannot be nil")
	}

	session := r.session.Table(entity.TableNameUserPreference)
	var conds []builder.Cond

	if condition.UserID != nil && *condition.UserID > 0 {
		conds = append(conds, builder.Eq{entity.UserPreferenceFieldUserID: *condition.UserID})
	}
	if condition.PreferenceType != nil && *condition.PreferenceType != "" {
		conds = append(conds, builder.Eq{entity.UserPreferenceFieldPreferenceType: *condition.PreferenceType})
	}
	if condition.PreferenceValue != nil && *condition.PreferenceValue != "" {
		conds = append(conds, builder.Eq{entity.UserPreferenceFieldPreferenceValue: *condition.PreferenceValue})
	}

	if len(conds) > 0 {
		session = session.Where(builder.And(conds...))
	}

	var results []*entity.UserPreference
	err := session.OrderBy(entity.UserPreferenceFieldScore + " desc").Find(&results)
	if err != nil {
		return nil, fmt.Errorf("failed to list user_preference: %w", err)
	}

	return results, nil
}
