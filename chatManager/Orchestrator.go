package chatManager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"FuncChat/llm"
	"FuncChat/toolCalling"
)

// State is the orchestrator's position in the current turn.
type State string

const (
	StateIdle                   State = "Idle"
	StateAwaitingModelReply     State = "AwaitingModelReply"
	StateAwaitingFunctionResult State = "AwaitingFunctionResult"
)

// Origin marks who produced a display event.
type Origin string

const (
	OriginUser  Origin = "user"
	OriginModel Origin = "model"
)

// DisplayEvent is one display-ready line handed to the presentation layer.
type DisplayEvent struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Origin    Origin    `json:"origin"`
}

// ErrBusy is returned when the submission queue is full.
var ErrBusy = errors.New("submission queue is full")

// Orchestrator owns the conversation log and drives the per-turn state
// machine: append user text, call the gateway, and either display the reply
// or dispatch the requested function and call the gateway once more.
//
// Submissions are queued on a buffered channel and drained by a single run
// loop goroutine, so at most one turn is in flight and the log has exactly
// one writer. Every turn ends in StateIdle, including failed ones.
type Orchestrator struct {
	client llm.Client
	tools  *toolCalling.ToolManager
	conv   *Conversation
	queue  chan string
	done   chan struct{}

	mu           sync.RWMutex
	state        State
	eventHandler func(DisplayEvent)
	errorHandler func(error)
}

// NewOrchestrator creates an idle orchestrator with an empty conversation.
// queueDepth bounds how many user submissions may wait while a turn runs.
func NewOrchestrator(client llm.Client, tools *toolCalling.ToolManager, queueDepth int) *Orchestrator {
	if queueDepth <= 0 {
		queueDepth = 1
	}
	return &Orchestrator{
		client: client,
		tools:  tools,
		conv:   NewConversation(),
		queue:  make(chan string, queueDepth),
		done:   make(chan struct{}),
		state:  StateIdle,
	}
}

// SetEventHandler registers the display-event sink. Called from the run
// loop, in append order.
func (o *Orchestrator) SetEventHandler(f func(DisplayEvent)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.eventHandler = f
}

// SetErrorHandler registers the sink for turn-aborting errors.
func (o *Orchestrator) SetErrorHandler(f func(error)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errorHandler = f
}

func (o *Orchestrator) Conversation() *Conversation {
	return o.conv
}

func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// SubmitUserText queues one user submission. Empty or whitespace-only text
// is a no-op: nothing is appended and no gateway call is made. A full queue
// returns ErrBusy rather than blocking the presentation layer.
func (o *Orchestrator) SubmitUserText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	select {
	case o.queue <- text:
		return nil
	default:
		return ErrBusy
	}
}

// Start launches the run loop. It returns immediately; the loop exits when
// ctx is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	go o.run(ctx)
}

// Done is closed when the run loop has exited.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

func (o *Orchestrator) run(ctx context.Context) {
	defer close(o.done)
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-o.queue:
			o.runTurn(ctx, text)
		}
	}
}

// runTurn executes one full turn. A follow-up reply that itself requests a
// function call is appended but NOT dispatched again: one function round
// trip per user turn.
func (o *Orchestrator) runTurn(ctx context.Context, text string) {
	defer o.setState(StateIdle)

	o.conv.Append(llm.NewUserMessage(text))
	o.emit(OriginUser, text)

	o.setState(StateAwaitingModelReply)
	resp, err := o.client.Chat(ctx, o.conv.Snapshot(), o.tools.GetFunctions())
	if err != nil {
		o.report(err)
		return
	}

	if resp.FunctionCall == nil {
		o.conv.Append(llm.ResponseToMessage(resp))
		o.emit(OriginModel, resp.Content)
		return
	}

	call := *resp.FunctionCall
	o.conv.Append(llm.ResponseToMessage(resp))
	o.emit(OriginModel, fmt.Sprintf("invoking %s", call.Name))

	o.setState(StateAwaitingFunctionResult)
	result, err := o.tools.Dispatch(call)
	if err != nil {
		// Unknown function or bad arguments: abort without a second call.
		o.report(err)
		return
	}
	o.conv.Append(llm.NewFunctionMessage(call.Name, result))

	o.setState(StateAwaitingModelReply)
	followUp, err := o.client.Chat(ctx, o.conv.Snapshot(), o.tools.GetFunctions())
	if err != nil {
		o.report(err)
		return
	}
	o.conv.Append(llm.ResponseToMessage(followUp))

	display := followUp.Content
	if display == "" && followUp.FunctionCall != nil {
		display = fmt.Sprintf("model requested a further call to %s; one function call is executed per message", followUp.FunctionCall.Name)
	}
	o.emit(OriginModel, display)
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = s
}

func (o *Orchestrator) emit(origin Origin, text string) {
	o.mu.RLock()
	handler := o.eventHandler
	o.mu.RUnlock()
	if handler == nil {
		return
	}
	handler(DisplayEvent{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: time.Now(),
		Origin:    origin,
	})
}

func (o *Orchestrator) report(err error) {
	o.mu.RLock()
	handler := o.errorHandler
	o.mu.RUnlock()
	if handler != nil {
		handler(err)
	}
}
