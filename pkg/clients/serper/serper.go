package serper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/rayymaxx/CinePal/config"
	"github.com/rayymaxx/CinePal/pkg/clients/httptool"
)

const (
	// EnvSerperApiKey Serper API Key 环境变量名
	EnvSerperApiKey = "SERPER_API_KEY"

	defaultTimeoutSeconds = 10
)

var (
	instance *Client
	once     sync.Once
	initErr  error
)

// Client Serper 搜索客户端，用于抓取影视资讯
type Client struct {
	hc *httptool.HTTPClient
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

// GetInstance 获取 Serper 客户端单例
func GetInstance() (*Client, error) {
	once.Do(func() {
		apiKey := os.Getenv(EnvSerperApiKey)
		if apiKey == "" {
			initErr = fmt.Errorf("%s is required", EnvSerperApiKey)
			return
		}

		cfg := config.GetInstance()
		baseURL := cfg.GetStringOrDefault(config.ClientSerperBaseURL, "https://google.serper.dev")
		timeout := cfg.GetIntOrDefault(config.ClientSerperTimeout, defaultTimeoutSeconds)

		instance = NewClient(baseURL, apiKey, time.Duration(timeout)*time.Second)
	})

	return instance, initErr
}

// NewClient 创建 Serper 客户端
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	hc := httptool.NewHTTPClient(baseURL, "serper", timeout, nil)
	hc.SetHeader("X-API-KEY", apiKey)
	hc.SetHeader(httptool.HeaderContentType, httptool.HeaderContentTypeJSON)
	return &Client{hc: hc}
}

// SearchNews 搜索资讯并整理为可注入提示词的要点文本
func (c *Client) SearchNews(ctx context.Context, query string, numResults int) (string, error) {
	if numResults <= 0 {
		numResults = 3
	}

	body, err := c.hc.PostJSONWithContext(ctx, "/search", searchRequest{Q: query, Num: numResults})
	if err != nil {
		return "", errors.WithStack(err)
	}

	var resp searchResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return "", errors.WithStack(err)
	}

	if len(resp.Organic) == 0 {
		return "", fmt.Errorf("no news results for query %q", query)
	}

	var builder strings.Builder
	for i, result := range resp.Organic {
		if i >= numResults {
			break
		}
		fmt.Fprintf(&builder, "Source %d Title: %s\nSource %d Snippet: %s\n\n", i+1, result.Title, i+1, result.Snippet)
	}

	return strings.TrimSpace(builder.String()), nil
}
