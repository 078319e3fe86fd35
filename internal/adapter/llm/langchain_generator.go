package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LangchainGenerator adapts any langchaingo model to domain.TextGenerator.
type LangchainGenerator struct {
	model       llms.Model
	temperature float64
}

func NewLangchainGenerator(model llms.Model, temperature float64) *LangchainGenerator {
	return &LangchainGenerator{model: model, temperature: temperature}
}

// NewOllamaGenerator connects to an Ollama server.
func NewOllamaGenerator(serverURL, modelName string, timeout time.Duration, temperature float64) (*LangchainGenerator, error) {
	httpClient := &http.Client{Timeout: timeout}
	model, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(modelName),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	logger.Get().Info("Initialized Ollama generator", zap.String("server_url", serverURL), zap.String("model", modelName))
	return NewLangchainGenerator(model, temperature), nil
}

// NewOpenAIGenerator uses the OpenAI chat completion API.
func NewOpenAIGenerator(apiKey, modelName string, temperature float64) (*LangchainGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	logger.Get().Info("Initialized OpenAI generator", zap.String("model", modelName))
	return NewLangchainGenerator(model, temperature), nil
}

var _ domain.TextGenerator = (*LangchainGenerator)(nil)

func (g *LangchainGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		return "", fmt.Errorf("llm call failed: %w", err)
	}
	return text, nil
}
