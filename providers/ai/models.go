package ai

import "slices"

/*
	##### MESSAGES #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)

// Valid reports whether r is one of the roles the completion endpoint accepts.
func (r MessageRole) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role" yaml:"role"`
	Content string      `json:"content" yaml:"content"`
}

/*
	##### PROVIDER INPUT #####
*/

// GenerationConfig holds the optional sampling parameters of a completion.
// Nil fields are omitted from the request so the upstream defaults apply.
type GenerationConfig struct {
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"topP,omitempty"`
	TopK        *int     `json:"topK,omitempty"`
	MinP        *float32 `json:"minP,omitempty"`
}

// ChatRequest is the completion payload sent to the chat-completions endpoint.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
	Stream   bool      `json:"stream"`
	GenerationConfig
}

// BuildRequest maps a conversation history and model selection to a request
// payload. It has no side effects: the history slice is copied, so later
// appends to the caller's history never leak into an already built request.
func BuildRequest(history []Message, model string, stream bool, config GenerationConfig) ChatRequest {
	messages := slices.Clone(history)
	if messages == nil {
		messages = []Message{}
	}

	return ChatRequest{
		Messages:         messages,
		Model:            model,
		Stream:           stream,
		GenerationConfig: config,
	}
}

/*
	##### MODELS #####
*/

// ModelTypeTextGeneration is the only model type the chat endpoints serve.
const ModelTypeTextGeneration = "text-generation"

// Model describes one entry of the featured model catalogue.
type Model struct {
	FullName     string `json:"full_name" yaml:"full_name"`
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	MaxTokens    *int   `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Deprecated   bool   `json:"deprecated" yaml:"deprecated"`
	Quantization string `json:"quantization,omitempty" yaml:"quantization,omitempty"`
}

// FindModel returns the model whose FullName equals name.
func FindModel(models []Model, name string) (Model, bool) {
	index := slices.IndexFunc(models, func(model Model) bool {
		return model.FullName == name
	})
	if index < 0 {
		return Model{}, false
	}
	return models[index], true
}
