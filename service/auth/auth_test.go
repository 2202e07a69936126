package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/repository"
	"github.com/rayymaxx/CinePal/repository/interfaces"
)

type fakeSession struct{}

func (s *fakeSession) Begin() error    { return nil }
func (s *fakeSession) Close() error    { return nil }
func (s *fakeSession) Commit() error   { return nil }
func (s *fakeSession) Rollback() error { return nil }

type fakeUserRepo struct {
	users  map[string]*entity.User
	nextID int64
}

func (r *fakeUserRepo) Insert(user *entity.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.UserName] = user
	return nil
}

func (r *fakeUserRepo) GetByUserName(userName string) (*entity.User, error) {
	return r.users[userName], nil
}

func (r *fakeUserRepo) GetByID(id int64) (*entity.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

type fakeFactory struct {
	userRepo *fakeUserRepo
}

func (f *fakeFactory) NewSession(ctx context.Context) interfaces.Session { return &fakeSession{} }

func (f *fakeFactory) NewUserRepository(session interfaces.Session) (repository.UserRepository, error) {
	return f.userRepo, nil
}

func (f *fakeFactory) NewUserPreferenceRepository(session interfaces.Session) (repository.UserPreferenceRepository, error) {
	return nil, fmt.Errorf("not supported")
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

type AuthServiceTest struct {
	suite.Suite
	service *Service
	factory *fakeFactory
}

func (a *AuthServiceTest) SetupTest() {
	a.factory = &fakeFactory{userRepo: &fakeUserRepo{users: map[string]*entity.User{}}}
	a.service = &Service{
		repositoryFactory: a.factory,
		secretKey:         []byte("test-secret"),
		expireMinutes:     60,
	}
}

func (a *AuthServiceTest) register(userName string) *entity.User {
	user, err := a.service.Register(context.Background(), &model.UserRegistrationRequest{
		UserName:             userName,
		UserEmail:            userName + "@example.com",
		Password:             "hunter22",
		PasswordConfirmation: "hunter22",
	})
	a.Require().Nil(err)
	return user
}

func (a *AuthServiceTest) TestRegister_HashesPassword() {
	user := a.register("alice")

	a.NotZero(user.ID)
	a.True(user.IsActive)
	a.NotEqual("hunter22", user.HashedPassword)
	a.True(strings.HasPrefix(user.HashedPassword, "$2"))
}

func (a *AuthServiceTest) TestRegister_RejectsMismatchedConfirmation() {
	user, err := a.service.Register(context.Background(), &model.UserRegistrationRequest{
		UserName:             "alice",
		UserEmail:            "alice@example.com",
		Password:             "hunter22",
		PasswordConfirmation: "hunter23",
	})
	a.Nil(user)
	a.Require().NotNil(err)
	a.Equal(model.ErrorPasswordMismatch, err.Code)
}

func (a *AuthServiceTest) TestRegister_RejectsDuplicateUserName() {
	a.register("alice")

	user, err := a.service.Register(context.Background(), &model.UserRegistrationRequest{
		UserName:             "alice",
		UserEmail:            "other@example.com",
		Password:             "hunter22",
		PasswordConfirmation: "hunter22",
	})
	a.Nil(user)
	a.Require().NotNil(err)
	a.Equal(model.ErrorUserExist, err.Code)
}

func (a *AuthServiceTest) TestLogin_IssuesParsableToken() {
	registered := a.register("alice")

	token, err := a.service.Login(context.Background(), &model.UserLoginRequest{
		UserName: "alice",
		Password: "hunter22",
	})
	a.Require().Nil(err)
	a.Equal(TokenTypeBearer, token.TokenType)
	a.Equal(int(time.Hour.Seconds()), token.ExpiresIn)

	userID, err := a.service.ParseToken(token.AccessToken)
	a.Require().Nil(err)
	a.Equal(registered.ID, userID)
}

func (a *AuthServiceTest) TestLogin_RejectsWrongPassword() {
	a.register("alice")

	token, err := a.service.Login(context.Background(), &model.UserLoginRequest{
		UserName: "alice",
		Password: "wrong",
	})
	a.Nil(token)
	a.Require().NotNil(err)
	a.Equal(model.ErrorUserNameOrPassword, err.Code)
}

func (a *AuthServiceTest) TestLogin_RejectsUnknownUser() {
	token, err := a.service.Login(context.Background(), &model.UserLoginRequest{
		UserName: "ghost",
		Password: "hunter22",
	})
	a.Nil(token)
	a.Require().NotNil(err)
	a.Equal(model.ErrorUserNameOrPassword, err.Code)
}

func (a *AuthServiceTest) TestLogin_RejectsDisabledUser() {
	a.register("alice")
	a.factory.userRepo.users["alice"].IsActive = false

	token, err := a.service.Login(context.Background(), &model.UserLoginRequest{
		UserName: "alice",
		Password: "hunter22",
	})
	a.Nil(token)
	a.Require().NotNil(err)
	a.Equal(model.ErrorUserForbidden, err.Code)
}

func (a *AuthServiceTest) TestParseToken_RejectsGarbage() {
	userID, err := a.service.ParseToken("not-a-token")
	a.Zero(userID)
	a.Require().NotNil(err)
	a.Equal(model.ErrorInvalidToken, err.Code)
}

func (a *AuthServiceTest) TestParseToken_RejectsForeignSignature() {
	other := &Service{
		repositoryFactory: a.factory,
		secretKey:         []byte("another-secret"),
		expireMinutes:     60,
	}
	token, mErr := other.MakeToken(42)
	a.Require().Nil(mErr)

	userID, err := a.service.ParseToken(token.AccessToken)
	a.Zero(userID)
	a.NotNil(err)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTest))
}
