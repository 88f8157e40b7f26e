package llm

import (
	"context"
	"encoding/json"
)

// Call records one GenerateJSON invocation made against a FakeClient.
type Call struct {
	Prompt string
	Input  any
}

// FakeClient returns a canned response for offline use and tests, recording
// every call it sees.
type FakeClient struct {
	Response json.RawMessage
	Err      error
	Calls    []Call
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(_ context.Context, prompt string, input any) (json.RawMessage, error) {
	f.Calls = append(f.Calls, Call{Prompt: prompt, Input: input})
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Response != nil {
		return f.Response, nil
	}
	return json.RawMessage(`{}`), nil
}
