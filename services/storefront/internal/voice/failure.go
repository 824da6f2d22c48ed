package voice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

type Kind int

const (
	Other Kind = iota
	Connectivity
	Server
)

func (k Kind) String() string {
	switch k {
	case Connectivity:
		return "connectivity"
	case Server:
		return "server"
	default:
		return "other"
	}
}

// Failure is a capability call that did not produce a usable answer.
type Failure struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("voice %s failed with status %d: %v", f.Op, f.Status, f.Err)
	}
	return fmt.Sprintf("voice %s failed: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

const (
	MessageServerError      = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	MessageSendFailed       = "메시지 전송 중 오류가 발생했습니다."
	MessageTranscribeFailed = "음성 인식 중 오류가 발생했습니다."
	MessageNotRecognized    = "음성을 인식하지 못했습니다."
	MessageServiceDown      = "FastAPI 서버에 연결할 수 없습니다. 서버를 실행해주세요."
)

// connectivityMessage names the capability endpoint so the customer knows
// what to start.
func connectivityMessage(baseURL string) string {
	msg := "FastAPI 서버에 연결할 수 없습니다. 서버가 실행 중인지 확인해주세요."
	if baseURL != "" {
		msg += " (" + baseURL + ")"
	}
	return msg
}

// KindOf classifies err; anything not produced by this package is Other.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return Other
}

// userMessage maps err to what the session shows. fallback covers Other.
func userMessage(err error, baseURL, fallback string) string {
	switch KindOf(err) {
	case Connectivity:
		return connectivityMessage(baseURL)
	case Server:
		return MessageServerError
	default:
		return fallback
	}
}

// transportFailure wraps an error returned before any response arrived.
func transportFailure(op string, err error) *Failure {
	kind := Other
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
	case errors.As(err, &netErr), strings.Contains(strings.ToLower(err.Error()), "connection refused"):
		kind = Connectivity
	}
	return &Failure{Kind: kind, Op: op, Err: err}
}

func statusFailure(op string, status int, body string) *Failure {
	kind := Other
	if status >= http.StatusInternalServerError && status < 600 {
		kind = Server
	}
	return &Failure{Kind: kind, Op: op, Status: status, Err: errors.New(strings.TrimSpace(body))}
}
