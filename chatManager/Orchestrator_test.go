package chatManager

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuncChat/llm"
	"FuncChat/toolCalling"
)

// fakeClient replays scripted replies and records the message snapshot it
// received on every call.
type fakeClient struct {
	replies []fakeReply
	calls   [][]llm.Message
}

type fakeReply struct {
	resp llm.Response
	err  error
}

func (f *fakeClient) Chat(_ context.Context, messages []llm.Message, _ []llm.FunctionDef) (llm.Response, error) {
	snapshot := make([]llm.Message, len(messages))
	copy(snapshot, messages)
	f.calls = append(f.calls, snapshot)
	if len(f.calls) > len(f.replies) {
		return llm.Response{}, &llm.GatewayError{Reason: llm.ReasonDecode}
	}
	r := f.replies[len(f.calls)-1]
	return r.resp, r.err
}

func newTestOrchestrator(client llm.Client) (*Orchestrator, *[]DisplayEvent, *[]error) {
	tools := toolCalling.NewToolManager()
	tools.Register(toolCalling.NewWeatherTool())
	o := NewOrchestrator(client, tools, 4)

	var events []DisplayEvent
	var errs []error
	o.SetEventHandler(func(ev DisplayEvent) { events = append(events, ev) })
	o.SetErrorHandler(func(err error) { errs = append(errs, err) })
	return o, &events, &errs
}

func weatherCall() *llm.FunctionCall {
	return &llm.FunctionCall{Name: "get_current_weather", Arguments: `{"location":"Boston, MA"}`}
}

func TestSubmitUserText_EmptyInput(t *testing.T) {
	client := &fakeClient{}
	o, _, _ := newTestOrchestrator(client)

	for _, text := range []string{"", "   ", "\n\t"} {
		require.NoError(t, o.SubmitUserText(text))
	}
	assert.Zero(t, o.Conversation().Len())
	assert.Empty(t, client.calls)
	assert.Len(t, o.queue, 0)
	assert.Equal(t, StateIdle, o.State())
}

func TestRunTurn_TextReply(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{resp: llm.Response{Content: "hello!"}},
	}}
	o, events, errs := newTestOrchestrator(client)

	o.runTurn(context.Background(), "hi there")

	// One user message was appended before the gateway call.
	require.Len(t, client.calls, 1)
	require.Len(t, client.calls[0], 1)
	assert.Equal(t, llm.RoleUser, client.calls[0][0].Role)
	assert.Equal(t, "hi there", client.calls[0][0].Text())

	log := o.Conversation().Snapshot()
	require.Len(t, log, 2)
	assert.Equal(t, llm.RoleAssistant, log[1].Role)
	assert.Equal(t, "hello!", log[1].Text())

	require.Len(t, *events, 2)
	assert.Equal(t, OriginUser, (*events)[0].Origin)
	assert.Equal(t, OriginModel, (*events)[1].Origin)
	assert.Equal(t, "hello!", (*events)[1].Text)
	assert.NotEmpty(t, (*events)[1].ID)
	assert.False(t, (*events)[1].Timestamp.IsZero())

	assert.Empty(t, *errs)
	assert.Equal(t, StateIdle, o.State())
}

func TestRunTurn_BostonScenario(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{resp: llm.Response{FunctionCall: weatherCall()}},
		{resp: llm.Response{Content: "It's 72°F and sunny in Boston."}},
	}}
	o, events, errs := newTestOrchestrator(client)

	o.runTurn(context.Background(), "What is the weather in Boston?")

	log := o.Conversation().Snapshot()
	require.Len(t, log, 4)

	assert.Equal(t, llm.RoleUser, log[0].Role)
	assert.Equal(t, "What is the weather in Boston?", log[0].Text())

	assert.Equal(t, llm.RoleAssistant, log[1].Role)
	assert.Nil(t, log[1].Content)
	require.NotNil(t, log[1].FunctionCall)
	assert.Equal(t, "get_current_weather", log[1].FunctionCall.Name)

	assert.Equal(t, llm.RoleFunction, log[2].Role)
	assert.Equal(t, "get_current_weather", log[2].Name)
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(log[2].Text()), &result))
	assert.Equal(t, "Boston, MA", result["location"])
	assert.Equal(t, "72", result["temperature"])
	assert.Equal(t, "fahrenheit", result["unit"])

	assert.Equal(t, llm.RoleAssistant, log[3].Role)
	assert.Equal(t, "It's 72°F and sunny in Boston.", log[3].Text())

	// Second gateway call saw the extended conversation.
	require.Len(t, client.calls, 2)
	assert.Len(t, client.calls[1], 3)

	require.Len(t, *events, 3)
	assert.Equal(t, "invoking get_current_weather", (*events)[1].Text)
	assert.Equal(t, "It's 72°F and sunny in Boston.", (*events)[2].Text)

	assert.Empty(t, *errs)
	assert.Equal(t, StateIdle, o.State())
}

func TestRunTurn_UnknownFunction(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{resp: llm.Response{FunctionCall: &llm.FunctionCall{Name: "no_such_function", Arguments: `{}`}}},
	}}
	o, _, errs := newTestOrchestrator(client)

	o.runTurn(context.Background(), "do something")

	// No second gateway call after a failed dispatch.
	assert.Len(t, client.calls, 1)
	require.Len(t, *errs, 1)
	assert.ErrorIs(t, (*errs)[0], toolCalling.ErrFunctionNotFound)

	log := o.Conversation().Snapshot()
	require.Len(t, log, 2)
	assert.Equal(t, llm.RoleAssistant, log[1].Role)
	assert.Equal(t, StateIdle, o.State())
}

func TestRunTurn_BadArguments(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{resp: llm.Response{FunctionCall: &llm.FunctionCall{Name: "get_current_weather", Arguments: `{"unit":"celsius"}`}}},
	}}
	o, _, errs := newTestOrchestrator(client)

	o.runTurn(context.Background(), "weather?")

	assert.Len(t, client.calls, 1)
	require.Len(t, *errs, 1)
	var argErr *toolCalling.ArgumentError
	assert.ErrorAs(t, (*errs)[0], &argErr)
	assert.Equal(t, StateIdle, o.State())
}

func TestRunTurn_GatewayErrorAbortsTurn(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{err: &llm.GatewayError{Reason: llm.ReasonNetwork}},
	}}
	o, events, errs := newTestOrchestrator(client)

	o.runTurn(context.Background(), "hi")

	// The user message is retained; nothing is rolled back.
	log := o.Conversation().Snapshot()
	require.Len(t, log, 1)
	assert.Equal(t, llm.RoleUser, log[0].Role)

	require.Len(t, *errs, 1)
	var gerr *llm.GatewayError
	require.ErrorAs(t, (*errs)[0], &gerr)
	assert.Equal(t, llm.ReasonNetwork, gerr.Reason)

	assert.Len(t, *events, 1) // only the user event
	assert.Equal(t, StateIdle, o.State())

	// The orchestrator stays usable for the next turn.
	client.replies = append(client.replies, fakeReply{resp: llm.Response{Content: "recovered"}})
	o.runTurn(context.Background(), "again")
	assert.Equal(t, 3, o.Conversation().Len())
	assert.Equal(t, StateIdle, o.State())
}

func TestRunTurn_GatewayErrorOnFollowUp(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{resp: llm.Response{FunctionCall: weatherCall()}},
		{err: &llm.GatewayError{Reason: llm.ReasonHTTPStatus, StatusCode: 500}},
	}}
	o, _, errs := newTestOrchestrator(client)

	o.runTurn(context.Background(), "What is the weather in Boston?")

	// Partial history persists: user, assistant call, function result.
	log := o.Conversation().Snapshot()
	require.Len(t, log, 3)
	assert.Equal(t, llm.RoleFunction, log[2].Role)
	require.Len(t, *errs, 1)
	assert.Equal(t, StateIdle, o.State())
}

func TestRunTurn_FollowUpFunctionCallNotDispatched(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{resp: llm.Response{FunctionCall: weatherCall()}},
		{resp: llm.Response{FunctionCall: weatherCall()}},
	}}
	o, events, errs := newTestOrchestrator(client)

	o.runTurn(context.Background(), "What is the weather in Boston?")

	// Exactly two gateway calls: the second function-call reply is appended
	// but never executed.
	assert.Len(t, client.calls, 2)

	log := o.Conversation().Snapshot()
	require.Len(t, log, 4)
	assert.Equal(t, llm.RoleAssistant, log[3].Role)
	require.NotNil(t, log[3].FunctionCall)

	require.Len(t, *events, 3)
	assert.Contains(t, (*events)[2].Text, "one function call")
	assert.Empty(t, *errs)
	assert.Equal(t, StateIdle, o.State())
}

func TestSubmitUserText_QueueFull(t *testing.T) {
	client := &fakeClient{}
	tools := toolCalling.NewToolManager()
	o := NewOrchestrator(client, tools, 1)

	// Run loop not started, so the first submission fills the queue.
	require.NoError(t, o.SubmitUserText("first"))
	assert.ErrorIs(t, o.SubmitUserText("second"), ErrBusy)
}

func TestOrchestrator_RunLoop(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{
		{resp: llm.Response{Content: "hello!"}},
	}}
	tools := toolCalling.NewToolManager()
	tools.Register(toolCalling.NewWeatherTool())
	o := NewOrchestrator(client, tools, 4)

	turnDone := make(chan DisplayEvent, 4)
	o.SetEventHandler(func(ev DisplayEvent) {
		if ev.Origin == OriginModel {
			turnDone <- ev
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	o.Start(ctx)

	require.NoError(t, o.SubmitUserText("hi there"))

	select {
	case ev := <-turnDone:
		assert.Equal(t, "hello!", ev.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("turn did not complete")
	}

	cancel()
	select {
	case <-o.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not exit")
	}
	assert.Equal(t, 2, o.Conversation().Len())
	assert.Equal(t, StateIdle, o.State())
}
