package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/model"
	"github.com/rayymaxx/CinePal/pkg/clients/httptool"
)

const (
	// EnvTmdbApiKey TMDB API Key 环境变量名
	EnvTmdbApiKey = "TMDB_API_KEY"

	MediaTypeMovie = "movie"
	MediaTypeTv    = "tv"

	posterBaseURL = "https://image.tmdb.org/t/p/w500"

	maxCastMembers = 8
	maxDirectors   = 4

	defaultTimeoutSeconds = 10
)

var (
	instance *Client
	once     sync.Once
	initErr  error
)

// Client TMDB 元数据客户端
type Client struct {
	hc     *httptool.HTTPClient
	apiKey string
}

type searchResult struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type genre struct {
	Name string `json:"name"`
}

type castMember struct {
	Name string `json:"name"`
}

type crewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type credits struct {
	Cast []castMember `json:"cast"`
	Crew []crewMember `json:"crew"`
}

// detailsResponse 兼容 movie 与 tv 两种详情结构
type detailsResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Name           string  `json:"name"`
	Overview       string  `json:"overview"`
	Genres         []genre `json:"genres"`
	ReleaseDate    string  `json:"release_date"`
	FirstAirDate   string  `json:"first_air_date"`
	Runtime        int     `json:"runtime"`
	EpisodeRunTime []int   `json:"episode_run_time"`
	PosterPath     string  `json:"poster_path"`
	VoteAverage    float64 `json:"vote_average"`
	Credits        credits `json:"credits"`
}

// GetInstance 获取 TMDB 客户端单例
func GetInstance() (*Client, error) {
	once.Do(func() {
		apiKey := os.Getenv(EnvTmdbApiKey)
		if apiKey == "" {
			initErr = fmt.Errorf("%s is required", EnvTmdbApiKey)
			return
		}

		cfg := config.GetInstance()
		baseURL := cfg.GetStringOrDefault(config.ClientTmdbBaseURL, "https://api.themoviedb.org/3")
		timeout := cfg.GetIntOrDefault(config.ClientTmdbTimeout, defaultTimeoutSeconds)

		instance = NewClient(baseURL, apiKey, time.Duration(timeout)*time.Second)
	})

	return instance, initErr
}

// NewClient 创建 TMDB 客户端
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		hc:     httptool.NewHTTPClient(baseURL, "tmdb", timeout, nil),
		apiKey: apiKey,
	}
}

// SearchFirst 搜索并返回第一个电影或剧集结果
func (c *Client) SearchFirst(ctx context.Context, query string) (int64, string, error) {
	body, err := c.hc.GetParamsWithContext(ctx, "/search/multi", map[string][]string{
		"api_key": {c.apiKey},
		"query":   {url.QueryEscape(query)},
	})
	if err != nil {
		return 0, "", errors.WithStack(err)
	}

	var resp searchResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return 0, "", errors.WithStack(err)
	}

	for _, result := range resp.Results {
		if result.MediaType == MediaTypeMovie || result.MediaType == MediaTypeTv {
			return result.ID, result.MediaType, nil
		}
	}

	return 0, "", fmt.Errorf("no movie or tv result for query %q", query)
}

// GetShowData 获取详情与演职员表并映射为业务视图
func (c *Client) GetShowData(ctx context.Context, id int64, mediaType string) (*model.ShowData, error) {
	if mediaType != MediaTypeMovie && mediaType != MediaTypeTv {
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}

	body, err := c.hc.GetParamsWithContext(ctx, fmt.Sprintf("/%s/%d", mediaType, id), map[string][]string{
		"api_key":            {c.apiKey},
		"append_to_response": {"credits"},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var resp detailsResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return nil, errors.WithStack(err)
	}

	return mapShowData(&resp, mediaType), nil
}

// FetchByTitle 按标题搜索并获取完整元数据
func (c *Client) FetchByTitle(ctx context.Context, title string) (*model.ShowData, error) {
	id, mediaType, err := c.SearchFirst(ctx, title)
	if err != nil {
		return nil, err
	}

	log.Debugf("TMDB matched %q to %s/%d", title, mediaType, id)
	return c.GetShowData(ctx, id, mediaType)
}

func mapShowData(resp *detailsResponse, mediaType string) *model.ShowData {
	data := &model.ShowData{
		ShowID:      resp.ID,
		Type:        mediaType,
		Plot:        resp.Overview,
		TmdbRating:  resp.VoteAverage,
		Genres:      make([]string, 0, len(resp.Genres)),
		Cast:        make([]string, 0, maxCastMembers),
		Directors:   make([]string, 0, maxDirectors),
		LastUpdated: time.Now(),
	}

	if mediaType == MediaTypeMovie {
		data.Title = resp.Title
		data.ReleaseDate = resp.ReleaseDate
		if resp.Runtime > 0 {
			data.Runtime = fmt.Sprintf("%d min", resp.Runtime)
		}
	} else {
		data.Title = resp.Name
		data.ReleaseDate = resp.FirstAirDate
		if len(resp.EpisodeRunTime) > 0 {
			sum := 0
			for _, rt := range resp.EpisodeRunTime {
				sum += rt
			}
			data.Runtime = fmt.Sprintf("%d min (avg)", sum/len(resp.EpisodeRunTime))
		}
	}

	for _, g := range resp.Genres {
		data.Genres = append(data.Genres, g.Name)
	}

	for i, member := range resp.Credits.Cast {
		if i >= maxCastMembers {
			break
		}
		data.Cast = append(data.Cast, member.Name)
	}

	for _, member := range resp.Credits.Crew {
		if member.Job != "Director" {
			continue
		}
		data.Directors = append(data.Directors, member.Name)
		if len(data.Directors) >= maxDirectors {
			break
		}
	}

	if resp.PosterPath != "" {
		data.PosterURL = posterBaseURL + resp.PosterPath
	}

	return data
}
