package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"busynessBuster/internal/logger"

	"go.uber.org/zap"
)

const (
	openaiBaseURL   = "https://api.openai.com/v1/chat/completions"
	openaiModel     = "gpt-4o-mini"
	openaiMaxTokens = 1500
)

// OpenAIClient ходит в Chat Completions API. Одна попытка на вызов:
// повторы — дело пользователя, не сервиса.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func NewOpenAIClient(apiKey string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: openaiBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL нужен тестам, чтобы подменить адрес на httptest-сервер.
func (c *OpenAIClient) WithBaseURL(baseURL string) *OpenAIClient {
	c.baseURL = baseURL
	return c
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("не задан BUSYNESS_ANALYSIS_API_KEY")
	}

	body, err := json.Marshal(chatRequest{
		Model:     openaiModel,
		MaxTokens: openaiMaxTokens,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("сериализация запроса: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("создание запроса: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("запрос к генератору: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("чтение ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiError
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("генератор вернул %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("генератор вернул %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("разбор ответа: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("пустой ответ генератора")
	}

	logger.Info("LLM: Ответ получен",
		zap.Duration("ms", time.Since(start)),
		zap.Int("total_tokens", chatResp.Usage.TotalTokens))
	return chatResp.Choices[0].Message.Content, nil
}
