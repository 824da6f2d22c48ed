package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
	"github.com/appetiteclub/dinner/services/storefront/internal/normalize"
)

const (
	DefaultLanguage     = "ko-KR"
	DefaultCustomerName = "고객님"

	messageCheckoutFailed = "주문 처리 중 오류가 발생했습니다."
)

var (
	ErrSessionClosed  = errors.New("voice session closed")
	ErrBusy           = errors.New("voice session is processing another request")
	ErrRecorderBusy   = errors.New("cannot record while a request is processing")
	ErrEmptyUtterance = errors.New("utterance is empty")
)

// Customer identifies who a session talks to. Owner is an opaque key
// derived from the caller's credentials.
type Customer struct {
	ID    int64
	Name  string
	Owner string
}

type Info struct {
	SessionID string
	Customer  Customer
}

// OrderHandler turns a confirmed summary into cart content.
type OrderHandler interface {
	OrderConfirmed(ctx context.Context, info Info, summary normalize.Summary, history []conversation.Message) (*Checkout, error)
}

// Checkout is the result of handing a confirmed order to the cart. Error
// is set for partial and total failures; Redirect is empty when the flow
// must stop on this page.
type Checkout struct {
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	Redirect     string `json:"redirect,omitempty"`
	Added        int    `json:"added"`
	Failed       int    `json:"failed"`
	Dropped      int    `json:"dropped"`
	DeliveryTime string `json:"deliveryTime,omitempty"`
	CouponID     int64  `json:"couponId,omitempty"`
}

// Turn is the outcome of one customer input.
type Turn struct {
	Transcript string                 `json:"transcript,omitempty"`
	Reply      string                 `json:"reply,omitempty"`
	Speech     *Utterance             `json:"speech,omitempty"`
	Error      string                 `json:"error,omitempty"`
	ErrorKind  string                 `json:"errorKind,omitempty"`
	Checkout   *Checkout              `json:"checkout,omitempty"`
	History    []conversation.Message `json:"history"`
}

// State is what a polling client needs to render the session.
type State struct {
	ID           string                 `json:"id"`
	CustomerName string                 `json:"customerName"`
	Connected    bool                   `json:"connected"`
	Recording    bool                   `json:"recording"`
	Processing   bool                   `json:"processing"`
	History      []conversation.Message `json:"history"`
	Speech       *Utterance             `json:"speech,omitempty"`
	Error        string                 `json:"error,omitempty"`
	Checkout     *Checkout              `json:"checkout,omitempty"`
}

type Options struct {
	// Language is used for greetings and speech playback.
	Language string
	// TranscriptionLanguage is passed to speech-to-text when set.
	TranscriptionLanguage string
	// ServiceURL is shown in connectivity errors.
	ServiceURL string
	Logger     aqm.Logger
}

// Session is one customer's voice ordering conversation. Inputs are
// processed one at a time; recording is refused while one is processing.
type Session struct {
	id       string
	customer Customer
	caps     Capabilities
	orders   OrderHandler
	opts     Options
	logger   aqm.Logger
	now      func() time.Time

	history  conversation.History
	speaker  *Speaker
	recorder Recorder

	mu           sync.Mutex
	processing   bool
	closed       bool
	connected    bool
	lastError    string
	lastCheckout *Checkout
	lastActive   time.Time
}

func NewSession(id string, customer Customer, caps Capabilities, orders OrderHandler, opts Options) *Session {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	logger := opts.Logger
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Session{
		id:         id,
		customer:   customer,
		caps:       caps,
		orders:     orders,
		opts:       opts,
		logger:     logger.With("voice_session", id),
		now:        time.Now,
		speaker:    NewSpeaker(opts.Language),
		lastActive: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Info() Info {
	return Info{SessionID: s.id, Customer: s.customer}
}

// Start checks the capability server and greets the customer. It never
// fails on capability errors: an offline session gets the local greeting.
// It returns ErrBusy while a turn is in flight, so a turn never lands in
// the transcript that replaced it.
func (s *Session) Start(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.lastCheckout = nil
	s.mu.Unlock()

	s.recorder.Discard()
	s.speaker.Cancel()
	s.history.Reset()

	connected := s.caps.Health(ctx) == nil

	var greeting string
	if connected {
		g, err := s.caps.Greeting(ctx, s.opts.Language, s.customerName())
		if err != nil {
			s.logger.Info("greeting unavailable, using local greeting", "error", err)
		}
		greeting = strings.TrimSpace(g)
	}
	if greeting == "" {
		greeting = FallbackGreeting(s.customer.Name)
	}

	s.mu.Lock()
	s.connected = connected
	s.lastError = ""
	if !connected {
		s.lastError = MessageServiceDown
	}
	s.mu.Unlock()

	s.history.Append(conversation.Assistant(greeting))
	s.speaker.Speak(greeting)
	return nil
}

// Reset clears the conversation and greets again.
func (s *Session) Reset(ctx context.Context) error {
	return s.Start(ctx)
}

// Dispose stops recording, cancels speech and forgets the conversation.
func (s *Session) Dispose() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.recorder.Discard()
	s.speaker.Cancel()
	s.history.Reset()
}

// SendUtterance runs one text turn. Capability failures are reported in the
// turn; the returned error is for inputs the session refuses.
func (s *Session) SendUtterance(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyUtterance
	}
	if s.recorder.Active() {
		return nil, ErrBusy
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	return s.converse(ctx, text), nil
}

// Confirm asks the capability server to close the order from the current
// conversation, for clients that confirm explicitly.
func (s *Session) Confirm(ctx context.Context, finalMessage string) (*Turn, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	turn := &Turn{}
	conf, err := s.caps.Confirm(ctx, s.history.Snapshot(), strings.TrimSpace(finalMessage))
	if err != nil {
		return s.fail(turn, err, MessageSendFailed), nil
	}
	if summary, ok := s.summaryOf(conf.Order, conf.SummaryText); ok {
		turn.Checkout = s.checkout(ctx, summary)
	}
	turn.History = s.history.Snapshot()
	return turn, nil
}

func (s *Session) StartRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.processing {
		return ErrRecorderBusy
	}
	s.lastActive = s.now()
	return s.recorder.Start()
}

func (s *Session) AppendAudio(chunk []byte) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.recorder.Append(chunk)
}

// StopRecording ends the capture. Captured audio is transcribed and sent as
// an utterance; with nothing captured the turn is empty.
func (s *Session) StopRecording(ctx context.Context) (*Turn, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	audio, ok := s.recorder.Stop()
	if !ok {
		return &Turn{History: s.history.Snapshot()}, nil
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	turn := &Turn{}
	transcript, err := s.caps.Transcribe(ctx, audio, s.opts.TranscriptionLanguage)
	if err != nil {
		return s.fail(turn, err, MessageTranscribeFailed), nil
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		s.setError(MessageNotRecognized)
		turn.Error = MessageNotRecognized
		turn.History = s.history.Snapshot()
		return turn, nil
	}

	turn = s.converse(ctx, transcript)
	turn.Transcript = transcript
	return turn, nil
}

// SpeechPlayed acknowledges playback of utterance seq.
func (s *Session) SpeechPlayed(seq int64) {
	s.speaker.Played(seq)
}

func (s *Session) State() State {
	st := State{
		ID:           s.id,
		CustomerName: s.customerName(),
		Recording:    s.recorder.Active(),
		History:      s.history.Snapshot(),
	}
	if u, ok := s.speaker.Pending(); ok {
		st.Speech = &u
	}

	s.mu.Lock()
	st.Connected = s.connected
	st.Processing = s.processing
	st.Error = s.lastError
	st.Checkout = s.lastCheckout
	s.mu.Unlock()
	return st
}

// Idle reports whether the session saw no input since before cutoff and is
// not working on one.
func (s *Session) Idle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.processing && s.lastActive.Before(cutoff)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

func (s *Session) converse(ctx context.Context, text string) *Turn {
	turn := &Turn{}
	s.setError("")

	s.history.Append(conversation.Customer(text))
	reply, err := s.caps.Chat(ctx, s.history.Snapshot())
	if err != nil {
		return s.fail(turn, err, MessageSendFailed)
	}

	s.history.Append(conversation.Assistant(reply.Message))
	u := s.speaker.Speak(reply.Message)
	turn.Reply = reply.Message
	turn.Speech = &u

	if reply.OrderConfirmed {
		if summary, ok := s.summaryOf(reply.Order, reply.SummaryText); ok {
			turn.Checkout = s.checkout(ctx, summary)
		}
	}
	turn.History = s.history.Snapshot()
	return turn
}

func (s *Session) summaryOf(order *normalize.Summary, text string) (normalize.Summary, bool) {
	if order != nil {
		return *order, true
	}
	if text == "" {
		return normalize.Summary{}, false
	}
	summary, err := normalize.DecodeSummaryText(text)
	if err != nil {
		s.logger.Error("cannot decode order summary text", "error", err)
		return normalize.Summary{}, false
	}
	return summary, true
}

func (s *Session) checkout(ctx context.Context, summary normalize.Summary) *Checkout {
	if s.orders == nil {
		return nil
	}

	co, err := s.orders.OrderConfirmed(ctx, s.Info(), summary, s.history.Snapshot())
	if err != nil {
		s.logger.Error("voice order checkout failed", "error", err)
		if co == nil {
			co = &Checkout{Error: messageCheckoutFailed}
		}
	}

	s.mu.Lock()
	s.lastCheckout = co
	if co.Error != "" {
		s.lastError = co.Error
	}
	s.mu.Unlock()
	return co
}

func (s *Session) fail(turn *Turn, err error, fallback string) *Turn {
	msg := userMessage(err, s.opts.ServiceURL, fallback)
	s.logger.Error("voice capability call failed", "kind", KindOf(err).String(), "error", err)

	if KindOf(err) == Connectivity {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
	}
	s.setError(msg)

	turn.Error = msg
	turn.ErrorKind = KindOf(err).String()
	turn.History = s.history.Snapshot()
	return turn
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.processing {
		return ErrBusy
	}
	s.processing = true
	s.lastActive = s.now()
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.processing = false
	s.lastActive = s.now()
	s.mu.Unlock()
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) customerName() string {
	if s.customer.Name == "" {
		return DefaultCustomerName
	}
	return s.customer.Name
}

// FallbackGreeting is used whenever the greeting capability cannot answer.
func FallbackGreeting(name string) string {
	if name == "" || name == DefaultCustomerName {
		return "안녕하세요, 고객님. 원하시는 디너 주문을 말씀해 주세요."
	}
	return fmt.Sprintf("안녕하세요, %s 고객님. 원하시는 디너 주문을 말씀해 주세요.", name)
}
