package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// ExtractedItem is one line as read off a receipt image.
type ExtractedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

// ExtractionResult is the structured output of a receipt extraction.
type ExtractionResult struct {
	StoreName string          `json:"storeName"`
	Date      string          `json:"date"`
	Items     []ExtractedItem `json:"items"`
}

// ReceiptExtractor reads a receipt image into structured line items.
type ReceiptExtractor interface {
	ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*ExtractionResult, error)
}

// OpenAIReceiptExtractor implements ReceiptExtractor with a vision chat
// completion.
type OpenAIReceiptExtractor struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAIReceiptExtractor builds an extractor from the environment.
// OPENAI_API_KEY is required; OPENAI_MODEL overrides the default model.
func NewOpenAIReceiptExtractor() (*OpenAIReceiptExtractor, error) {
	const op = "NewOpenAIReceiptExtractor"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%s: OPENAI_API_KEY is not set", op)
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("component", "extraction").
		Logger()

	return &OpenAIReceiptExtractor{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

const extractionPrompt = `このレシート画像から以下の情報を読み取り、JSONのみで返答してください。
説明文やマークダウンは不要です。

{
  "storeName": "店名",
  "date": "YYYY-MM-DD",
  "items": [
    {"name": "品名", "quantity": 数量, "price": 単価(整数の円)}
  ]
}

- 金額は税込の整数円で返してください
- 数量が読み取れない場合は1としてください
- 小計・合計・お釣り・ポイントの行はitemsに含めないでください`

// ExtractReceipt sends the image to the vision model and decodes the
// strict-JSON reply.
func (s *OpenAIReceiptExtractor) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*ExtractionResult, error) {
	const op = "OpenAIReceiptExtractor.ExtractReceipt"

	if len(image) == 0 {
		return nil, fmt.Errorf("%s: empty image", op)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.1,
		MaxTokens:   2000,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("chat completion failed")
		return nil, fmt.Errorf("%s: chat completion: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: empty response", op)
	}

	result, err := decodeExtractionJSON(resp.Choices[0].Message.Content)
	if err != nil {
		s.logger.Error().Err(err).Msg("malformed extraction response")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info().
		Str("store", result.StoreName).
		Int("items", len(result.Items)).
		Msg("receipt extracted")

	return result, nil
}

// decodeExtractionJSON parses a model reply, tolerating markdown code
// fences around the JSON body.
func decodeExtractionJSON(raw string) (*ExtractionResult, error) {
	raw = strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(raw, "```json"); ok {
		raw = after
	} else if after, ok := strings.CutPrefix(raw, "```"); ok {
		raw = after
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	raw = strings.TrimSpace(raw)

	var result ExtractionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decode extraction result: %w", err)
	}
	return &result, nil
}
