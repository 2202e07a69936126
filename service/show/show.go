package show

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/tools"
	"github.com/rayymaxx/CinePal/repository/factory"
)

const (
	redisKeyPrefix = "cinepal:show:"

	defaultCacheTTLMinutes = 1440
)

var (
	serviceOnce sync.Once
	instance    *Service
)

// MetadataClient 外部影视元数据源
type MetadataClient interface {
	FetchByTitle(ctx context.Context, title string) (*model.ShowData, error)
}

type Service struct {
	repositoryFactory factory.Factory
	metadataClient    MetadataClient
	redisClient       goredis.Cmdable // 热缓存，可为 nil
	cacheTTL          time.Duration
}

func NewService(repositoryFactory factory.Factory, metadataClient MetadataClient, redisClient goredis.Cmdable) *Service {
	serviceOnce.Do(func() {
		ttlMinutes := config.GetInstance().GetIntOrDefault(config.ShowCacheTTLMinutes, defaultCacheTTLMinutes)

		instance = &Service{
			repositoryFactory: repositoryFactory,
			metadataClient:    metadataClient,
			redisClient:       redisClient,
			cacheTTL:          time.Duration(ttlMinutes) * time.Minute,
		}
	})

	return instance
}

// Resolve 按标题解析影视元数据，cache-aside 三级查找：
// redis 热缓存 -> cached_show 表 -> 外部元数据源。
// 外部命中后回填数据库与热缓存，重复解析同一标题不产生额外外部请求。
func (s *Service) Resolve(ctx context.Context, title string) (*model.ShowData, *model.Error) {
	if title == "" {
		return nil, model.NewError(model.ErrorParams, fmt.Errorf("title must not be empty"))
	}

	if data := s.getFromRedis(ctx, title); data != nil {
		return data, nil
	}

	session := s.repositoryFactory.NewSession(ctx)
	defer tools.ErrorWithPrintContext(session.Close, "close session")

	showRepo, err := s.repositoryFactory.NewCachedShowRepository(session)
	if err != nil {
		return nil, model.NewError(model.ErrorNewRepo, err)
	}

	cached, err := showRepo.GetByTitleLike(title)
	if err != nil {
		return nil, model.NewError(model.ErrorDB, err)
	}
	if cached != nil {
		data := model.ShowDataFromEntity(cached)
		s.putToRedis(ctx, title, data)
		return data, nil
	}

	if s.metadataClient == nil {
		return nil, model.NewError(model.ErrorShowNotFound, fmt.Errorf("no metadata source for title %q", title))
	}

	data, err := s.metadataClient.FetchByTitle(ctx, title)
	if err != nil {
		return nil, model.NewError(model.ErrorExternalService, err)
	}

	if err = showRepo.Upsert(data.ToEntity()); err != nil {
		// 元数据已拿到，落库失败不阻断本次解析
		log.Warnf("Failed to cache show %q: %v", data.Title, err)
	}
	s.putToRedis(ctx, title, data)

	return data, nil
}

func (s *Service) getFromRedis(ctx context.Context, title string) *model.ShowData {
	if s.redisClient == nil {
		return nil
	}

	raw, err := s.redisClient.Get(ctx, redisKeyPrefix+title).Result()
	if err != nil {
		if err != goredis.Nil {
			log.Warnf("Redis get failed for show %q: %v", title, err)
		}
		return nil
	}

	var data model.ShowData
	if err = json.Unmarshal([]byte(raw), &data); err != nil {
		log.Warnf("Corrupt redis entry for show %q: %v", title, err)
		return nil
	}

	return &data
}

func (s *Service) putToRedis(ctx context.Context, title string, data *model.ShowData) {
	if s.redisClient == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}

	if err = s.redisClient.Set(ctx, redisKeyPrefix+title, raw, s.cacheTTL).Err(); err != nil {
		log.Warnf("Redis set failed for show %q: %v", title, err)
	}
}
