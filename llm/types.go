package llm

// Role constants for the chat-completions wire format.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFunction  = "function"
)

// FunctionCall is the model's request to invoke a named local function.
// Arguments is the raw JSON object string produced by the model, not yet
// validated against the function's schema.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Message is the universal chat message sent to and received from the API.
// Content is a pointer so that null survives a round trip unchanged: an
// assistant message that requests a function call carries null content on
// the wire, and a function message carries both Name and the stringified
// result.
type Message struct {
	Role         string        `json:"role"`
	Content      *string       `json:"content"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	Name         string        `json:"name,omitempty"`
}

// Text returns the message content, or "" when content is null.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// NewUserMessage builds a user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: &text}
}

// NewFunctionMessage builds a function-role message carrying the result of
// an executed function call.
func NewFunctionMessage(name, result string) Message {
	return Message{Role: RoleFunction, Name: name, Content: &result}
}

// FunctionDef describes a callable function advertised to the model.
// Parameters is a JSON-Schema-subset object (type/properties/required).
type FunctionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ChatRequest is the body POSTed to the chat-completions endpoint.
// FunctionCall is always "auto": the model decides whether to call.
type ChatRequest struct {
	Model        string        `json:"model"`
	Messages     []Message     `json:"messages"`
	Functions    []FunctionDef `json:"functions,omitempty"`
	FunctionCall string        `json:"function_call,omitempty"`
	MaxTokens    int           `json:"max_tokens,omitempty"`
}

// Choice is one completion candidate in a ChatResponse.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse is the decoded reply body.
type ChatResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Response is the provider-agnostic result of one gateway call.
// Content and FunctionCall are mutually exclusive, mirroring the assistant
// message invariant.
type Response struct {
	Content      string
	FunctionCall *FunctionCall
}

// ResponseToMessage converts a Response into the assistant Message appended
// to the conversation. A function-call reply keeps null content.
func ResponseToMessage(resp Response) Message {
	m := Message{Role: RoleAssistant, FunctionCall: resp.FunctionCall}
	if resp.FunctionCall == nil {
		content := resp.Content
		m.Content = &content
	}
	return m
}
