// Package embed 提供 core.Embedder 的实现：OpenAI Embeddings、预计算向量查表与记忆化包装。
package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/rushteam/courserec/core"
)

const (
	// DefaultModel 是默认的向量模型
	DefaultModel = openai.SmallEmbedding3
	// DefaultMaxRetries 默认重试次数
	DefaultMaxRetries = 3
	// DefaultRetryDelay 默认退避基准
	DefaultRetryDelay = 500 * time.Millisecond
)

// OpenAIConfig 是 OpenAI Embedder 配置。
type OpenAIConfig struct {
	APIKey     string        `koanf:"api_key" yaml:"api_key"`
	BaseURL    string        `koanf:"base_url" yaml:"base_url"`
	Model      string        `koanf:"model" yaml:"model"`
	MaxRetries int           `koanf:"max_retries" yaml:"max_retries"`
	RetryDelay time.Duration `koanf:"retry_delay" yaml:"retry_delay"`
}

// embeddingsAPI 是 *openai.Client 中用到的方法，便于测试替换。
type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAI 调用 OpenAI Embeddings API 把文本转为向量，失败时按指数退避重试。
type OpenAI struct {
	client     embeddingsAPI
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAI 创建 OpenAI Embedder。
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, core.Errorf(core.ModuleEmbedding, core.ErrorCodeInvalidInput, "openai api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newOpenAI(openai.NewClientWithConfig(clientCfg), cfg), nil
}

func newOpenAI(client embeddingsAPI, cfg OpenAIConfig) *OpenAI {
	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	} else if retries == 0 {
		retries = DefaultMaxRetries
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &OpenAI{client: client, model: model, maxRetries: retries, retryDelay: delay}
}

// Embed 实现 core.Embedder。
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, calculateBackoff(o.retryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: o.model,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		embedding32 := resp.Data[0].Embedding
		out := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			out[i] = float64(v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("embedding: failed after %d attempts: %w", o.maxRetries+1, lastErr)
}

var _ core.Embedder = (*OpenAI)(nil)
