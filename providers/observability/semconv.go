package observability

// Attribute keys, span names, event names and metric names shared by the
// provider, transport, memory and conversation packages.

// --- LLM Attributes ---

const (
	AttrLLMProvider = "llm.provider"
	AttrLLMModel    = "llm.model"
	AttrLLMEndpoint = "llm.endpoint"
	AttrLLMStream   = "llm.streaming"

	// AttrLLMMaxTokens is the requested completion budget.
	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Request/Response Attributes ---

const (
	AttrRequestMessagesCount = "request.messages_count"
	AttrResponseContent      = "response.content"
	AttrResponseLength       = "response.length"
	AttrModelsCount          = "models.count"
)

// --- Stream Attributes ---

const (
	AttrStreamChunkSize = "stream.chunk.size"
	AttrStreamDeltas    = "stream.deltas"
	AttrStreamLine      = "stream.line"
	AttrStreamSentinel  = "stream.sentinel"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- Memory Attributes ---

const (
	AttrMemoryMessageRole   = "memory.message.role"
	AttrMemoryMessageLength = "memory.message.length"
	AttrMemoryTotalMessages = "memory.total_messages"
)

// --- Conversation Attributes ---

const (
	AttrConversationID         = "conversation.id"
	AttrConversationRegenerate = "conversation.regenerate"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	SpanConversationCompletion = "conversation.completion"
	SpanListModels             = "deepinfra.list_models"
)

// --- Event Names ---

const (
	EventLLMRequestStart = "llm.request.start"
	EventLLMRequestEnd   = "llm.request.end"
	EventStreamChunk     = "llm.stream.chunk"
	EventStreamDone      = "llm.stream.done"
	EventMemoryAppend    = "memory.append"
	EventMemoryClear     = "memory.clear"
)

// --- Metric Names ---

const (
	MetricRequests        = "deepchat.requests"
	MetricRequestErrors   = "deepchat.request.errors"
	MetricRequestDuration = "deepchat.request.duration"
	MetricStreamDeltas    = "deepchat.stream.deltas"
	MetricStreamDiscarded = "deepchat.stream.discarded_lines"
)
