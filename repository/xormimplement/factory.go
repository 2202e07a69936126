package xormimplement

import (
	"context"
	"fmt"
	"sync"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/repository"
	"github.com/rayymaxx/CinePal/repository/factory"
	"github.com/rayymaxx/CinePal/repository/interfaces"

	"github.com/sirupsen/logrus"
	"xorm.io/xorm"

	_ "github.com/lib/pq"
)

var once sync.Once
var instance *Factory

type Factory struct {
	// 连接 pg
	engine *xorm.Engine
}

// GetRepositoryFactoryInstance 获取一个factory实例
func GetRepositoryFactoryInstance() factory.Factory {
	once.Do(func() {
		instance = &Factory{
			engine: openDB(
				config.GetInstance().GetString(config.BaseDbXormType),
				config.GetInstance().GetString(config.BaseDbXormHost),
				config.GetInstance().GetString(config.BaseDbXormPort),
				config.GetInstance().GetString(config.BaseDbXormUsername),
				config.GetInstance().GetString(config.BaseDbXormName),
				config.GetInstance().GetString(config.BaseDbXormPassword),
				config.GetInstance().GetBool(config.BaseDbXormShowsql),
			),
		}
	})
	return instance
}

// 设置xorm的连接参数
func openDB(dbType string, host string, port string, userName string, name string, password string, showSql bool) *xorm.Engine {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host,
		userName,
		password,
		name,
		port)
	engine, err := xorm.NewEngine(dbType, dsn)
	if err != nil {
		logrus.Errorf("Database connection failed err: %v. Database name: %s", err, name)
		panic(err)
	}
	engine.ShowSQL(showSql)
	return engine
}

// NewSession 创建一个会话
func (f *Factory) NewSession(ctx context.Context) interfaces.Session {
	return &Session{Session: f.engine.NewSession().Context(ctx)}
}

// NewUserRepository 创建用户仓库
func (f *Factory) NewUserRepository(session interfaces.Session) (repository.UserRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewUserRepository(s), nil
	}
	return nil, fmt.Errorf("failed to resolve xorm session")
}

// NewUserPreferenceRepository 创建用户偏好仓库
func (f *Factory) NewUserPreferenceRepository(session interfaces.Session) (repository.UserPreferenceRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewUserPreferenceRepository(s), nil
	}
	return nil, fmt.Errorf("failed to resolve xorm session")
}

// NewInteractionRepository 创建对话历史仓库
func (f *Factory) NewInteractionRepository(session interfaces.Session) (repository.InteractionRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewInteractionRepository(s), nil
	}
	return nil, fmt.Errorf("failed to resolve xorm session")
}

// NewCachedShowRepository 创建影视元数据缓存仓库
func (f *Factory) NewCachedShowRepository(session interfaces.Session) (repository.CachedShowRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewCachedShowRepository(s), nil
	}
	return nil, fmt.Errorf("failed to resolve xorm session")
}

// NewShowIndexRepository 创建语义索引仓库
func (f *Factory) NewShowIndexRepository(session interfaces.Session) (repository.ShowIndexRepository, error) {
	if s, ok := session.(*Session); ok {
		return NewShowIndexRepository(s), nil
	}
	return nil, fmt.Errorf("failed to resolve xorm session")
}
