package xormimplement

import (
	"fmt"

	"github.com/rayymaxx/CinePal/entity"
	"github.com/rayymaxx/CinePal/repository"

	"xorm.io/builder"
)

type UserRepository struct {
	session *Session
}

func NewUserRepository(session *Session) repository.UserRepository {
	return &UserRepository{session: session}
}

func (r *UserRepository) Insert(user *entity.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}
	if user.UserName == "" {
		return fmt.Errorf("user_name is required")
	}

	_, err := r.session.Table(entity.TableNameUser).Insert(user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByUserName(userName string) (*entity.User, error) {
	if userName == "" {
		return nil, fmt.Errorf("user_name is required")
	}

	result := &entity.User{}
	ok, err := r.session.Table(entity.TableNameUser).
		Where(builder.Eq{entity.UserFieldUserName: userName}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}

func (r *UserRepository) GetByID(id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user id must be greater than 0")
	}

	result := &entity.User{}
	ok, err := r.session.Table(entity.TableNameUser).
		Where(builder.Eq{entity.UserFieldID: id}).
		Get(result)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !ok {
		return nil, nil
	}

	return result, nil
}
