package voice

import (
	"context"
	"errors"
	"sync"

	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
	"github.com/appetiteclub/dinner/services/storefront/internal/normalize"
)

// MockCapabilities answers like a healthy capability server unless a Func
// field overrides the call.
type MockCapabilities struct {
	HealthFunc     func(ctx context.Context) error
	GreetingFunc   func(ctx context.Context, lang, name string) (string, error)
	TranscribeFunc func(ctx context.Context, audio []byte, language string) (string, error)
	ChatFunc       func(ctx context.Context, messages []conversation.Message) (*ChatReply, error)
	ConfirmFunc    func(ctx context.Context, history []conversation.Message, finalMessage string) (*Confirmation, error)

	mu       sync.Mutex
	LastChat []conversation.Message
}

func (m *MockCapabilities) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *MockCapabilities) Greeting(ctx context.Context, lang, name string) (string, error) {
	if m.GreetingFunc != nil {
		return m.GreetingFunc(ctx, lang, name)
	}
	return "어서 오세요, " + name, nil
}

func (m *MockCapabilities) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, language)
	}
	return string(audio), nil
}

func (m *MockCapabilities) Chat(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
	m.mu.Lock()
	m.LastChat = messages
	m.mu.Unlock()
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return &ChatReply{Message: "네, 알겠습니다."}, nil
}

func (m *MockCapabilities) Confirm(ctx context.Context, history []conversation.Message, finalMessage string) (*Confirmation, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, history, finalMessage)
	}
	return nil, errors.New("not implemented")
}

type MockOrderHandler struct {
	Calls   int
	Summary normalize.Summary
	Info    Info
	Result  *Checkout
	Err     error
}

func (m *MockOrderHandler) OrderConfirmed(ctx context.Context, info Info, summary normalize.Summary, history []conversation.Message) (*Checkout, error) {
	m.Calls++
	m.Info = info
	m.Summary = summary
	if m.Result == nil && m.Err == nil {
		return &Checkout{Message: "1개의 메뉴가 장바구니에 추가되었습니다!", Redirect: "/order", Added: 1}, nil
	}
	return m.Result, m.Err
}
