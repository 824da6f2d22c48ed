package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
)

func newTestSession(caps *MockCapabilities, orders OrderHandler) *Session {
	return NewSession("s-1", Customer{ID: 7, Name: "김철수", Owner: "owner-1"}, caps, orders, Options{ServiceURL: "http://voice:5001"})
}

func TestSessionStartGreeting(t *testing.T) {
	tests := []struct {
		name          string
		customer      string
		caps          *MockCapabilities
		wantGreeting  string
		wantConnected bool
		wantError     string
	}{
		{
			name:          "fromService",
			customer:      "김철수",
			caps:          &MockCapabilities{},
			wantGreeting:  "어서 오세요, 김철수",
			wantConnected: true,
		},
		{
			name:     "greetingFails",
			customer: "김철수",
			caps: &MockCapabilities{GreetingFunc: func(ctx context.Context, lang, name string) (string, error) {
				return "", errors.New("boom")
			}},
			wantGreeting:  "안녕하세요, 김철수 고객님. 원하시는 디너 주문을 말씀해 주세요.",
			wantConnected: true,
		},
		{
			name:     "offline",
			customer: "김철수",
			caps: &MockCapabilities{HealthFunc: func(ctx context.Context) error {
				return &Failure{Kind: Connectivity, Op: "health", Err: errors.New("refused")}
			}},
			wantGreeting: "안녕하세요, 김철수 고객님. 원하시는 디너 주문을 말씀해 주세요.",
			wantError:    MessageServiceDown,
		},
		{
			name:     "offlineWithoutName",
			customer: "",
			caps: &MockCapabilities{HealthFunc: func(ctx context.Context) error {
				return errors.New("down")
			}},
			wantGreeting: "안녕하세요, 고객님. 원하시는 디너 주문을 말씀해 주세요.",
			wantError:    MessageServiceDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("s-1", Customer{Name: tt.customer}, tt.caps, nil, Options{})
			if err := s.Start(context.Background()); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			st := s.State()
			if len(st.History) != 1 || st.History[0] != conversation.Assistant(tt.wantGreeting) {
				t.Errorf("History = %+v, want greeting %q", st.History, tt.wantGreeting)
			}
			if st.Speech == nil || st.Speech.Text != tt.wantGreeting || st.Speech.Lang != DefaultLanguage {
				t.Errorf("Speech = %+v", st.Speech)
			}
			if st.Connected != tt.wantConnected {
				t.Errorf("Connected = %v, want %v", st.Connected, tt.wantConnected)
			}
			if st.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", st.Error, tt.wantError)
			}
		})
	}
}

func TestSessionSendUtteranceSendsWholeHistory(t *testing.T) {
	caps := &MockCapabilities{}
	s := newTestSession(caps, nil)
	_ = s.Start(context.Background())

	if _, err := s.SendUtterance(context.Background(), "  프렌치 디너 주세요 "); err != nil {
		t.Fatalf("SendUtterance() error = %v", err)
	}
	turn, err := s.SendUtterance(context.Background(), "그랜드 스타일로요")
	if err != nil {
		t.Fatalf("SendUtterance() error = %v", err)
	}

	if len(caps.LastChat) != 4 {
		t.Fatalf("chat got %d messages, want 4", len(caps.LastChat))
	}
	if caps.LastChat[1] != conversation.Customer("프렌치 디너 주세요") {
		t.Errorf("LastChat[1] = %+v", caps.LastChat[1])
	}
	if len(turn.History) != 5 || turn.Reply != "네, 알겠습니다." {
		t.Errorf("turn = %+v", turn)
	}
	if turn.Speech == nil || turn.Speech.Text != turn.Reply {
		t.Errorf("Speech = %+v, want the reply", turn.Speech)
	}
}

func TestSessionSendUtteranceFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantKind string
	}{
		{
			name:     "connectivity",
			err:      &Failure{Kind: Connectivity, Op: "chat", Err: errors.New("refused")},
			wantMsg:  "FastAPI 서버에 연결할 수 없습니다. 서버가 실행 중인지 확인해주세요. (http://voice:5001)",
			wantKind: "connectivity",
		},
		{
			name:     "server",
			err:      &Failure{Kind: Server, Op: "chat", Status: 500, Err: errors.New("oops")},
			wantMsg:  MessageServerError,
			wantKind: "server",
		},
		{
			name:     "other",
			err:      errors.New("decode"),
			wantMsg:  MessageSendFailed,
			wantKind: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := &MockCapabilities{ChatFunc: func(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
				return nil, tt.err
			}}
			s := newTestSession(caps, nil)
			_ = s.Start(context.Background())

			turn, err := s.SendUtterance(context.Background(), "안녕하세요")
			if err != nil {
				t.Fatalf("SendUtterance() error = %v", err)
			}
			if turn.Error != tt.wantMsg || turn.ErrorKind != tt.wantKind {
				t.Errorf("turn error = %q (%s), want %q (%s)", turn.Error, turn.ErrorKind, tt.wantMsg, tt.wantKind)
			}
			// the customer message stays so the customer can retry
			if len(turn.History) != 2 {
				t.Errorf("len(History) = %d, want 2", len(turn.History))
			}

			// the session keeps working
			caps.ChatFunc = nil
			if turn, _ := s.SendUtterance(context.Background(), "다시 시도"); turn.Error != "" {
				t.Errorf("retry error = %q", turn.Error)
			}
		})
	}
}

func TestSessionOrderConfirmed(t *testing.T) {
	caps := &MockCapabilities{ChatFunc: func(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
		return &ChatReply{
			Message:        "주문을 확정했습니다.",
			OrderConfirmed: true,
			SummaryText:    "menuName = 프렌치 디너\nmenuStyle = 그랜드\nquantity = 2",
		}, nil
	}}
	orders := &MockOrderHandler{}
	s := newTestSession(caps, orders)
	_ = s.Start(context.Background())

	turn, err := s.SendUtterance(context.Background(), "네 확정해 주세요")
	if err != nil {
		t.Fatalf("SendUtterance() error = %v", err)
	}
	if orders.Calls != 1 {
		t.Fatalf("OrderConfirmed calls = %d, want 1", orders.Calls)
	}
	if orders.Info.SessionID != "s-1" || orders.Info.Customer.ID != 7 {
		t.Errorf("Info = %+v", orders.Info)
	}
	items := orders.Summary.Items()
	if len(items) != 1 || items[0].MenuName != "프렌치 디너" || items[0].Quantity != 2 {
		t.Errorf("summary items = %+v", items)
	}
	if turn.Checkout == nil || turn.Checkout.Redirect != "/order" {
		t.Errorf("Checkout = %+v", turn.Checkout)
	}
	if s.State().Checkout != turn.Checkout {
		t.Error("State() does not expose the last checkout")
	}
}

func TestSessionOrderConfirmedFailure(t *testing.T) {
	caps := &MockCapabilities{ChatFunc: func(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
		return &ChatReply{Message: "확정", OrderConfirmed: true, Order: nil, SummaryText: ""}, nil
	}}
	orders := &MockOrderHandler{Err: errors.New("cart down")}
	s := newTestSession(caps, orders)
	_ = s.Start(context.Background())

	turn, _ := s.SendUtterance(context.Background(), "확정")
	if orders.Calls != 0 || turn.Checkout != nil {
		t.Errorf("confirmation without a summary should not check out")
	}

	caps.ChatFunc = func(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
		return &ChatReply{Message: "확정", OrderConfirmed: true, SummaryText: "menuName = 잉글리시 디너"}, nil
	}
	turn, _ = s.SendUtterance(context.Background(), "확정")
	if turn.Checkout == nil || turn.Checkout.Error != messageCheckoutFailed {
		t.Errorf("Checkout = %+v, want generic failure", turn.Checkout)
	}
	if s.State().Error != messageCheckoutFailed {
		t.Errorf("State().Error = %q", s.State().Error)
	}
}

func TestSessionRecording(t *testing.T) {
	caps := &MockCapabilities{}
	s := newTestSession(caps, nil)
	_ = s.Start(context.Background())

	if err := s.StartRecording(); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	if err := s.StartRecording(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second StartRecording() error = %v, want %v", err, ErrAlreadyRecording)
	}
	if _, err := s.SendUtterance(context.Background(), "텍스트"); !errors.Is(err, ErrBusy) {
		t.Errorf("SendUtterance() while recording error = %v, want %v", err, ErrBusy)
	}

	_ = s.AppendAudio([]byte("발렌타인 "))
	_ = s.AppendAudio([]byte("디너"))

	turn, err := s.StopRecording(context.Background())
	if err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
	if turn.Transcript != "발렌타인 디너" {
		t.Errorf("Transcript = %q", turn.Transcript)
	}
	if caps.LastChat[len(caps.LastChat)-1] != conversation.Customer("발렌타인 디너") {
		t.Errorf("transcript was not sent as an utterance")
	}
}

func TestSessionStopRecordingWithoutAudio(t *testing.T) {
	caps := &MockCapabilities{TranscribeFunc: func(ctx context.Context, audio []byte, language string) (string, error) {
		t.Error("Transcribe() should not be called")
		return "", nil
	}}
	s := newTestSession(caps, nil)
	_ = s.Start(context.Background())
	_ = s.StartRecording()

	turn, err := s.StopRecording(context.Background())
	if err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
	if turn.Transcript != "" || len(turn.History) != 1 {
		t.Errorf("turn = %+v, want empty turn", turn)
	}
}

func TestSessionNotRecognized(t *testing.T) {
	caps := &MockCapabilities{TranscribeFunc: func(ctx context.Context, audio []byte, language string) (string, error) {
		return "  ", nil
	}}
	s := newTestSession(caps, nil)
	_ = s.Start(context.Background())
	_ = s.StartRecording()
	_ = s.AppendAudio([]byte{1, 2, 3})

	turn, _ := s.StopRecording(context.Background())
	if turn.Error != MessageNotRecognized {
		t.Errorf("Error = %q, want %q", turn.Error, MessageNotRecognized)
	}
}

func TestSessionRecorderBusyWhileProcessing(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	caps := &MockCapabilities{ChatFunc: func(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
		close(started)
		<-release
		return &ChatReply{Message: "ok"}, nil
	}}
	s := newTestSession(caps, nil)
	_ = s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.SendUtterance(context.Background(), "첫 번째")
	}()
	<-started

	if err := s.StartRecording(); !errors.Is(err, ErrRecorderBusy) {
		t.Errorf("StartRecording() error = %v, want %v", err, ErrRecorderBusy)
	}
	if _, err := s.SendUtterance(context.Background(), "두 번째"); !errors.Is(err, ErrBusy) {
		t.Errorf("SendUtterance() error = %v, want %v", err, ErrBusy)
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("first utterance did not finish")
	}
	if err := s.StartRecording(); err != nil {
		t.Errorf("StartRecording() after processing error = %v", err)
	}
}

func TestSessionResetAndDispose(t *testing.T) {
	s := newTestSession(&MockCapabilities{}, nil)
	_ = s.Start(context.Background())
	_, _ = s.SendUtterance(context.Background(), "프렌치 디너")
	_ = s.StartRecording()

	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	st := s.State()
	if len(st.History) != 1 || st.Recording {
		t.Errorf("after Reset state = %+v", st)
	}

	s.Dispose()
	st = s.State()
	if len(st.History) != 0 || st.Speech != nil || st.Recording {
		t.Errorf("after Dispose state = %+v", st)
	}
	if _, err := s.SendUtterance(context.Background(), "hello"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("SendUtterance() error = %v, want %v", err, ErrSessionClosed)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Start() error = %v, want %v", err, ErrSessionClosed)
	}
}

func TestSessionSpeechPlayed(t *testing.T) {
	s := newTestSession(&MockCapabilities{}, nil)
	_ = s.Start(context.Background())

	first := s.State().Speech
	turn, _ := s.SendUtterance(context.Background(), "안녕")

	s.SpeechPlayed(first.Seq)
	if s.State().Speech == nil {
		t.Fatal("acknowledging a replaced utterance cleared the new one")
	}
	s.SpeechPlayed(turn.Speech.Seq)
	if s.State().Speech != nil {
		t.Error("Speech still pending after playback")
	}
}

func TestSessionConfirm(t *testing.T) {
	caps := &MockCapabilities{ConfirmFunc: func(ctx context.Context, history []conversation.Message, finalMessage string) (*Confirmation, error) {
		if finalMessage != "확정" {
			t.Errorf("finalMessage = %q", finalMessage)
		}
		return &Confirmation{OrderID: "A1"}, nil
	}}
	orders := &MockOrderHandler{}
	s := newTestSession(caps, orders)
	_ = s.Start(context.Background())

	turn, err := s.Confirm(context.Background(), " 확정 ")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if orders.Calls != 0 || turn.Checkout != nil {
		t.Errorf("confirmation without order should not check out")
	}
}

func TestSessionResetWhileProcessing(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	caps := &MockCapabilities{ChatFunc: func(ctx context.Context, messages []conversation.Message) (*ChatReply, error) {
		close(started)
		<-release
		return &ChatReply{Message: "확인했습니다"}, nil
	}}
	s := newTestSession(caps, nil)
	_ = s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.SendUtterance(context.Background(), "프렌치 디너 하나")
	}()
	<-started

	if err := s.Reset(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("Reset() error = %v, want %v", err, ErrBusy)
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("utterance did not finish")
	}

	history := s.State().History
	if len(history) != 3 {
		t.Fatalf("history has %d messages, want greeting, utterance and reply", len(history))
	}
	if history[1].Role != conversation.RoleCustomer || history[1].Content != "프렌치 디너 하나" {
		t.Errorf("history[1] = %+v, want the customer utterance", history[1])
	}
	if history[2].Role != conversation.RoleAssistant {
		t.Errorf("history[2] = %+v, want the assistant reply", history[2])
	}

	if err := s.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() after processing error = %v", err)
	}
	if got := len(s.State().History); got != 1 {
		t.Errorf("history after Reset has %d messages, want 1", got)
	}
}
