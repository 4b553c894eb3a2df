package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

type themeChoice struct {
	Theme      string  `json:"theme" jsonschema_description:"The single best matching theme for the book"`
	Confidence float64 `json:"confidence" jsonschema_description:"Confidence in the chosen theme between 0 and 1"`
}

func GenerateSchema[T any]() interface{} {
	// Structured Outputs uses a subset of JSON schema
	// These flags are necessary to comply with the subset
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// Generate the JSON schema at initialization time
var themeChoiceSchema = GenerateSchema[themeChoice]()

// OpenAIClassifier performs zero-shot theme classification through the
// OpenAI chat completions API. The client reads OPENAI_API_KEY from the
// environment.
type OpenAIClassifier struct {
	client *openai.Client
}

func NewOpenAIClassifier() *OpenAIClassifier {
	return &OpenAIClassifier{client: openai.NewClient()}
}

// Classify picks a theme for "<title> by <author>". Low-confidence answers
// and labels outside the fixed theme set fall back to FallbackTheme.
func (c *OpenAIClassifier) Classify(ctx context.Context, title, author string) (string, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        openai.F("classify_book"),
		Description: openai.F("Classify a book into exactly one of the allowed themes"),
		Schema:      openai.F(themeChoiceSchema),
		Strict:      openai.Bool(true),
	}

	system := fmt.Sprintf(
		"You are a zero-shot book classifier. Classify the given book into exactly one of these themes: %s. "+
			"Report your confidence between 0 and 1.",
		strings.Join(Themes, ", "))

	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(fmt.Sprintf("%s by %s", title, author)),
		}),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONSchemaParam{
				Type:       openai.F(openai.ResponseFormatJSONSchemaTypeJSONSchema),
				JSONSchema: openai.F(schemaParam),
			},
		),
		// Only certain models can perform structured outputs
		Model: openai.F(openai.ChatModelGPT4oMini2024_07_18),
	})
	if err != nil {
		return "", fmt.Errorf("failed to classify %q: %w", title, err)
	}

	var choice themeChoice
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &choice); err != nil {
		return "", fmt.Errorf("failed to parse classifier response: %w", err)
	}

	if choice.Confidence <= confidenceFloor || !isKnownTheme(choice.Theme) {
		return FallbackTheme, nil
	}
	return choice.Theme, nil
}
