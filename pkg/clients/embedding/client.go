package embedding

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	log "github.com/sirupsen/logrus"

	"github.com/rayymaxx/CinePal/config"
)

const (
	// EnvModelApiKey 模型 API Key 环境变量名
	EnvModelApiKey = "MODEL_API_KEY"
	// MaxBatchSize 每批最多处理的数量
	MaxBatchSize = 64
	// MaxRetries 最大重试次数
	MaxRetries = 3
	// LRUCacheCapacity LRU 缓存容量
	LRUCacheCapacity = 5000
)

var (
	instance *Client
	once     sync.Once
	initErr  error
)

// Client Embedding 客户端
type Client struct {
	client    openai.Client
	modelName string
	cache     *LRUCache // embedding 缓存
}

// GetInstance 获取 Embedding 客户端单例
func GetInstance() (*Client, error) {
	once.Do(func() {
		cfg := config.GetInstance()

		apiKey := os.Getenv(EnvModelApiKey)
		if apiKey == "" {
			initErr = fmt.Errorf("%s is required", EnvModelApiKey)
			return
		}

		modelName := cfg.GetString(config.EmbeddingConfigKeyModelName)
		if modelName == "" {
			initErr = fmt.Errorf("%s is required", config.EmbeddingConfigKeyModelName)
			return
		}

		baseURL := cfg.GetString(config.EmbeddingConfigKeyBaseURL)

		opts := []option.RequestOption{
			option.WithAPIKey(apiKey),
		}

		// 如果配置了 base_url，则使用自定义的 base_url（用于兼容其他兼容 OpenAI API 的服务）
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}

		instance = &Client{
			client:    openai.NewClient(opts...),
			modelName: modelName,
			cache:     NewLRUCache(LRUCacheCapacity),
		}
	})

	return instance, initErr
}

// GetTextEmbedding 获取单个文本的 Embedding 向量（带缓存）
func (c *Client) GetTextEmbedding(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := c.GetTextEmbeddingBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return embeddings[0], nil
}

// GetTextEmbeddingBatch 批量获取文本的 Embedding 向量（带批量切分、重试和缓存）
func (c *Client) GetTextEmbeddingBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	// 检查缓存并收集需要请求的文本
	type textWithIndex struct {
		text  string
		index int
	}
	needRequest := make([]textWithIndex, 0)
	result := make([][]float64, len(texts))
	cacheHits := 0

	for i, text := range texts {
		if cached, ok := c.cache.Get(text); ok {
			result[i] = cached
			cacheHits++
		} else {
			needRequest = append(needRequest, textWithIndex{text: text, index: i})
		}
	}

	if len(needRequest) == 0 {
		log.Debugf("All embeddings retrieved from cache (count: %d)", len(texts))
		return result, nil
	}

	// 批量切分处理
	for i := 0; i < len(needRequest); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(needRequest) {
			end = len(needRequest)
		}

		batch := needRequest[i:end]
		batchTexts := make([]string, len(batch))
		for j, item := range batch {
			batchTexts[j] = item.text
		}

		embeddings, err := c.getTextEmbeddingBatchWithRetry(ctx, batchTexts)
		if err != nil {
			return nil, fmt.Errorf("failed to get embeddings for batch %d-%d: %w", i, end, err)
		}

		// 填充结果并更新缓存
		for j, item := range batch {
			if j < len(embeddings) {
				result[item.index] = embeddings[j]
				c.cache.Put(item.text, embeddings[j])
			}
		}
	}

	log.Debugf("Embedding batch completed: total=%d, cache_hits=%d, requests=%d",
		len(texts), cacheHits, len(needRequest))

	return result, nil
}

// getTextEmbeddingBatchWithRetry 带重试机制的批量获取 Embedding
func (c *Client) getTextEmbeddingBatchWithRetry(ctx context.Context, texts []string) ([][]float64, error) {
	var lastErr error

	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			// 指数退避：1s, 2s, 4s
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			log.Warnf("Retrying embedding request (attempt %d/%d) after %v", attempt+1, MaxRetries, backoff)
			time.Sleep(backoff)
		}

		embeddings, err := c.getTextEmbeddingBatchOnce(ctx, texts)
		if err == nil {
			return embeddings, nil
		}

		lastErr = err
		log.Errorf("Embedding request failed (attempt %d/%d): %v", attempt+1, MaxRetries, err)
	}

	return nil, fmt.Errorf("failed after %d retries: %w", MaxRetries, lastErr)
}

// getTextEmbeddingBatchOnce 单次批量获取 Embedding（不重试）
func (c *Client) getTextEmbeddingBatchOnce(ctx context.Context, texts []string) ([][]float64, error) {
	input := openai.EmbeddingNewParamsInputUnion{
		OfArrayOfStrings: texts,
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.modelName),
		Input: input,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	result := make([][]float64, 0, len(resp.Data))
	for _, item := range resp.Data {
		result = append(result, item.Embedding)
	}

	return result, nil
}
