package repository

import (
	"github.com/rayymaxx/CinePal/entity"
)

type UserRepository interface {
	Insert(user *entity.User) error
	GetByUserName(userName string) (*entity.User, error)
	GetByID(id int64) (*entity.User, error)
}
