package entity

import "time"

const (
	TableNameUser = "users"

	UserFieldID             = "id"
	UserFieldUserName       = "user_name"
	UserFieldUserEmail      = "user_email"
	UserFieldHashedPassword = "hashed_password"
	UserFieldCreatedAt      = "created_at"
	UserFieldIsActive       = "is_active"
)

type User struct {
	ID             int64     `xorm:"pk autoincr id" json:"id"`
	UserName       string    `xorm:"user_name" json:"user_name"`
	UserEmail      string    `xorm:"user_email" json:"user_email"`
	HashedPassword string    `xorm:"hashed_password" json:"-"`
	CreatedAt      time.Time `xorm:"created_at" json:"created_at"`
	IsActive       bool      `xorm:"is_active" json:"is_active"`
}

func (e *User) TableName() string {
	return TableNameUser
}
