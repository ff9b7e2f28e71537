package deepinfra

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/deepchat/providers/ai"
)

/*
	FEATURED MODELS - RESPONSE TYPES
*/

// featuredModel is one entry of GET /models/featured. Only the fields the
// client exposes are decoded.
type featuredModel struct {
	ModelName    string          `json:"model_name"`
	Type         string          `json:"type"`
	Description  string          `json:"description"`
	CoverImgURL  string          `json:"cover_img_url"`
	MaxTokens    *int            `json:"max_tokens"`
	Deprecated   json.RawMessage `json:"deprecated"`
	Quantization json.RawMessage `json:"quantization"`
}

func (m featuredModel) toGeneric() ai.Model {
	return ai.Model{
		FullName:     m.ModelName,
		Name:         shortName(m.ModelName),
		Type:         m.Type,
		Description:  normalizeDescription(m.Description),
		ImageURL:     m.CoverImgURL,
		MaxTokens:    m.MaxTokens,
		Deprecated:   isDeprecated(m.Deprecated),
		Quantization: quantizationText(m.Quantization),
	}
}

// shortName drops the owner prefix: "meta-llama/Llama-3-8B" -> "Llama-3-8B".
func shortName(fullName string) string {
	if _, name, found := strings.Cut(fullName, "/"); found {
		return name
	}
	return fullName
}

// normalizeDescription converts HTML descriptions to Markdown. Plain text is
// returned trimmed.
func normalizeDescription(description string) string {
	description = strings.TrimSpace(description)
	if !strings.Contains(description, "<") {
		return description
	}

	markdown, err := htmltomarkdown.ConvertString(description)
	if err != nil {
		return description
	}
	return strings.TrimSpace(markdown)
}

// isDeprecated treats anything other than null, absent or false as deprecated.
// The field is a timestamp on some entries and a boolean on others.
func isDeprecated(raw json.RawMessage) bool {
	value := bytes.TrimSpace(raw)
	if len(value) == 0 {
		return false
	}
	switch string(value) {
	case "null", "false", `""`, "0":
		return false
	}
	return true
}

// quantizationText keeps quantization as text whether it arrives as a string
// ("fp8") or a number (16).
func quantizationText(raw json.RawMessage) string {
	value := bytes.TrimSpace(raw)
	if len(value) == 0 || string(value) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(value, &text); err == nil {
		return text
	}

	var number float64
	if err := json.Unmarshal(value, &number); err == nil {
		return strconv.FormatFloat(number, 'f', -1, 64)
	}
	return ""
}

/*
	CHAT COMPLETIONS - RESPONSE TYPES
*/

// completionResponse is the buffered chat-completions body.
type completionResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []completionChoice `json:"choices"`
}

type completionChoice struct {
	Index        int        `json:"index"`
	Message      ai.Message `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

// streamChunk is one decoded `data:` line of a streamed response.
type streamChunk struct {
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

/*
	ERRORS - RESPONSE TYPES
*/

// errorEnvelope covers both error shapes the API uses:
// {"detail":{"error":"..."}} and {"error":{"message":"..."}}.
// Fields stay raw so a detail of another shape (a string, or a list of
// validation errors) does not hide a usable error.message.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
	Error  json.RawMessage `json:"error"`
}

type errorDetail struct {
	Error string `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
}
