package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/repository"
	"github.com/rayymaxx/CinePal/repository/interfaces"
)

type fakeSession struct {
	began      int
	committed  int
	rolledBack int
}

func (s *fakeSession) Begin() error    { s.began++; return nil }
func (s *fakeSession) Close() error    { return nil }
func (s *fakeSession) Commit() error   { s.committed++; return nil }
func (s *fakeSession) Rollback() error { s.rolledBack++; return nil }

type fakeUserRepo struct {
	users map[int64]*entity.User
}

func (r *fakeUserRepo) Insert(user *entity.User) error { return nil }
func (r *fakeUserRepo) GetByUserName(userName string) (*entity.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) GetByID(id int64) (*entity.User, error) {
	return r.users[id], nil
}

type fakePreferenceRepo struct {
	preferences []*entity.UserPreference
	upsertErr   error
	nextID      int64
}

func (r *fakePreferenceRepo) UpsertScore(req *model.UpsertPreferenceScoreCondition) (*entity.UserPreference, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}

	for _, pref := range r.preferences {
		if pref.UserID == req.UserID && pref.PreferenceType == req.PreferenceType && pref.PreferenceValue == req.PreferenceValue {
			pref.Score += req.ScoreDelta
			pref.LastUpdated = req.Now
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
	result := make([]*entity.UserPreference, 0)
	for _, pref := range r.preferences {
		if condition.UserID != nil && pref.UserID != *condition.UserID {
			continue
		}
		result = append(result, pref)
	}
	return result, nil
}

type fakeFactory struct {
	session  *fakeSession
	userRepo *fakeUserRepo
	prefRepo *fakePreferenceRepo
}

func (f *fakeFactory) NewSession(ctx context.Context) interfaces.Session { return f.session }

func (f *fakeFactory) NewUserRepository(session interfaces.Session) (repository.UserRepository, error) {
	return f.userRepo, nil
}

func (f *fakeFactory) NewUserPreferenceRepository(session interfaces.Session) (repository.UserPreferenceRepository, error) {
	return f.prefRepo, nil
}

func (f *fakeFactory) NewInteractionRepository(session interfaces.Session) (repository.InteractionRepository, error) {
	return nil, fmt.Errorf("not supported")
}

func (f *fakeFactory) NewCachedShowRepository(session interfaces.Session) (repository.CachedShowRepository, error) {
	return nil, fmt.Errorf("not supported")
}

func (f *fakeFactory) NewShowIndexRepository(session interfaces.Session) (repository.ShowIndexRepository, error) {
	return nil, fmt.Errorf("not supported")
}

type ProfileServiceTest struct {
	suite.Suite
	service *Service
	factory *fakeFactory
}

func (p *ProfileServiceTest) SetupTest() {
	p.factory = &fakeFactory{
		session: &fakeSession{},
		userRepo: &fakeUserRepo{users: map[int64]*entity.User{
			1: {
				ID:        1,
				UserName:  "alice",
				CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		}},
		prefRepo: &fakePreferenceRepo{},
	}
	p.service = &Service{repositoryFactory: p.factory}
}

func (p *ProfileServiceTest) TestApplyFeedback_AccumulatesScore() {
	first, err := p.service.ApplyFeedback(context.Background(), 1, "genre", "sci-fi")
	p.Require().Nil(err)
	p.Equal(1.0, first.Score)

	second, err := p.service.ApplyFeedback(context.Background(), 1, "genre", "sci-fi")
	p.Require().Nil(err)
	p.Equal(2.0, second.Score)

	// 同一 (type, value) 始终只有一行
	preferences, err := p.service.List(context.Background(), 1)
	p.Require().Nil(err)
	p.Len(preferences, 1)
}

func (p *ProfileServiceTest) TestApplyFeedback_DistinctValuesGetDistinctRows() {
	_, err := p.service.ApplyFeedback(context.Background(), 1, "genre", "sci-fi")
	p.Require().Nil(err)
	_, err = p.service.ApplyFeedback(context.Background(), 1, "actor", "Tom Hanks")
	p.Require().Nil(err)

	preferences, err := p.service.List(context.Background(), 1)
	p.Require().Nil(err)
	p.Len(preferences, 2)
}

func (p *ProfileServiceTest) TestApplyFeedback_RejectsEmptyFields() {
	pref, err := p.service.ApplyFeedback(context.Background(), 1, "", "sci-fi")
	p.Nil(pref)
	p.Require().NotNil(err)
	p.Equal(model.ErrorParams, err.Code)
}

func (p *ProfileServiceTest) TestApplyFeedback_RunsInTransaction() {
	_, err := p.service.ApplyFeedback(context.Background(), 1, "genre", "sci-fi")
	p.Require().Nil(err)
	p.Equal(1, p.factory.session.began)
	p.Equal(1, p.factory.session.committed)
	p.Zero(p.factory.session.rolledBack)
}

func (p *ProfileServiceTest) TestApplyFeedback_RollsBackOnError() {
	p.factory.prefRepo.upsertErr = fmt.Errorf("constraint violation")

	pref, err := p.service.ApplyFeedback(context.Background(), 1, "genre", "sci-fi")
	p.Nil(pref)
	p.Require().NotNil(err)
	p.Equal(model.ErrorDB, err.Code)
	p.Equal(1, p.factory.session.rolledBack)
	p.Zero(p.factory.session.committed)
}

func (p *ProfileServiceTest) TestSnapshot_ContainsPreferences() {
	_, err := p.service.ApplyFeedback(context.Background(), 1, "genre", "sci-fi")
	p.Require().Nil(err)

	raw := p.service.Snapshot(context.Background(), 1)
	p.NotEqual(SnapshotUnavailable, raw)

	var snap struct {
		UserName    string `json:"username"`
		MemberSince string `json:"member_since"`
		Preferences []struct {
			Type  string  `json:"type"`
			Value string  `json:"value"`
			Score float64 `json:"score"`
		} `json:"preferences"`
	}
	p.Require().Nil(json.Unmarshal([]byte(raw), &snap))
	p.Equal("alice", snap.UserName)
	p.Equal("2025-03-01", snap.MemberSince)
	p.Require().Len(snap.Preferences, 1)
	p.Equal("genre", snap.Preferences[0].Type)
	p.Equal("sci-fi", snap.Preferences[0].Value)
	p.Equal(1.0, snap.Preferences[0].Score)
}

func (p *ProfileServiceTest) TestSnapshot_DegradesWhenUserMissing() {
	raw := p.service.Snapshot(context.Background(), 999)
	p.Equal(SnapshotUnavailable, raw)
}

func TestProfileService(t *testing.T) {
	suite.Run(t, new(ProfileServiceTest))
}
