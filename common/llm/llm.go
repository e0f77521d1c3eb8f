package llm

import (
	"regexp"

	"github.com/invopop/jsonschema"
)

var nameInvalidChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

const DefaultModel = "gpt-4o-mini"

// Config holds LLM client configuration.
type Config struct {
	APIKey  string // Required: API key for the provider
	BaseURL string // Optional: custom API endpoint (any OpenAI-compatible server)
	Model   string
}

// Message represents a conversation message.
type Message struct {
	Role    string // "system", "user", "assistant"
	Name    string // Optional: participant name (user messages only)
	Content string
}

func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

func UserMessage(name, content string) Message {
	return Message{Role: "user", Name: name, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// GenerateSchemaFrom generates a JSON schema from an instance value.
// Useful when the type is not known at compile time.
func GenerateSchemaFrom(v any) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}

// SanitizeName converts a username to a valid OpenAI name parameter.
// The name must match ^[a-zA-Z0-9_-]{1,64}$.
// Invalid characters are replaced with underscores, and the result is truncated to 64 characters.
func SanitizeName(username string) string {
	sanitized := nameInvalidChars.ReplaceAllString(username, "_")
	if len(sanitized) > 64 {
		sanitized = sanitized[:64]
	}
	return sanitized
}
