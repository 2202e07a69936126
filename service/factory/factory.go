package factory

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/pkg/clients/embedding"
	"github.com/rayymaxx/CinePal/pkg/clients/llm_model"
	"github.com/rayymaxx/CinePal/pkg/clients/redis"
	"github.com/rayymaxx/CinePal/pkg/clients/serper"
	"github.com/rayymaxx/CinePal/pkg/clients/tmdb"
	"github.com/rayymaxx/CinePal/repository/factory"
	"github.com/rayymaxx/CinePal/repository/xormimplement"
	"github.com/rayymaxx/CinePal/service/auth"
	"github.com/rayymaxx/CinePal/service/chat"
	"github.com/rayymaxx/CinePal/service/history"
	"github.com/rayymaxx/CinePal/service/profile"
	"github.com/rayymaxx/CinePal/service/show"
)

var instance *Factory
var once sync.Once

type Factory struct {
	repositoryFactory factory.Factory
}

// 单例模式
func GetServiceFactory() *Factory {
	once.Do(func() {
		instance = &Factory{repositoryFactory: xormimplement.GetRepositoryFactoryInstance()}
	})
	return instance
}

// NewAuthService 获取认证服务
func (f *Factory) NewAuthService() *auth.Service {
	return auth.NewService(f.repositoryFactory)
}

// NewProfileService 获取画像服务
func (f *Factory) NewProfileService() *profile.Service {
	return profile.NewService(f.repositoryFactory)
}

// NewHistoryService 获取历史服务
func (f *Factory) NewHistoryService() *history.Service {
	return history.NewService(f.repositoryFactory)
}

// NewShowService 获取影视元数据服务
func (f *Factory) NewShowService() *show.Service {
	var metadataClient show.MetadataClient
	if tmdbClient, err := tmdb.GetInstance(); err != nil {
		log.Warnf("TMDB client unavailable, show resolution limited to local cache: %v", err)
	} else {
		metadataClient = tmdbClient
	}

	return show.NewService(f.repositoryFactory, metadataClient, redis.GetInstance())
}

// NewShowRetriever 获取语义索引检索器
func (f *Factory) NewShowRetriever() *show.Retriever {
	embeddingClient, err := embedding.GetInstance()
	if err != nil {
		panic("failed to create embedding client: " + err.Error())
	}

	return show.NewRetriever(f.repositoryFactory, embeddingClient)
}

// NewChatService 获取对话编排服务
func (f *Factory) NewChatService() *chat.Service {
	embeddingClient, err := embedding.GetInstance()
	if err != nil {
		panic("failed to create embedding client: " + err.Error())
	}

	var newsClient chat.NewsClient
	if serperClient, err := serper.GetInstance(); err != nil {
		log.Warnf("Serper client unavailable, news talking points disabled: %v", err)
	} else {
		newsClient = serperClient
	}

	return chat.NewService(
		f.repositoryFactory,
		llm_model.GetInstance(),
		newsClient,
		show.NewRetriever(f.repositoryFactory, embeddingClient),
	)
}
