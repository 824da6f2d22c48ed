package voice

import (
	"bytes"
	"errors"
	"sync"
)

// MaxRecordingBytes caps the audio a single recording may collect.
const MaxRecordingBytes = 10 << 20

var (
	ErrAlreadyRecording  = errors.New("recording already in progress")
	ErrNotRecording      = errors.New("no recording in progress")
	ErrRecordingTooLarge = errors.New("recording exceeds size limit")
)

// Recorder collects audio chunks pushed by the browser between start and
// stop. MaxBytes bounds the total, MaxRecordingBytes when zero.
type Recorder struct {
	MaxBytes int

	mu     sync.Mutex
	active bool
	chunks [][]byte
	size   int
}

func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return ErrAlreadyRecording
	}
	r.active = true
	r.chunks = nil
	r.size = 0
	return nil
}

// Append stores a chunk; empty chunks are ignored. A chunk that would push
// the recording past the limit is rejected and the capture stays open with
// what it already holds.
func (r *Recorder) Append(chunk []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return ErrNotRecording
	}
	if len(chunk) == 0 {
		return nil
	}
	if r.size+len(chunk) > r.limit() {
		return ErrRecordingTooLarge
	}
	r.chunks = append(r.chunks, append([]byte(nil), chunk...))
	r.size += len(chunk)
	return nil
}

func (r *Recorder) limit() int {
	if r.MaxBytes > 0 {
		return r.MaxBytes
	}
	return MaxRecordingBytes
}

// Stop ends the capture and returns the collected audio. ok is false when
// nothing was captured.
func (r *Recorder) Stop() (audio []byte, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = false
	if len(r.chunks) == 0 {
		return nil, false
	}
	audio = bytes.Join(r.chunks, nil)
	r.chunks = nil
	r.size = 0
	return audio, true
}

// Discard ends the capture and drops whatever was collected.
func (r *Recorder) Discard() {
	r.mu.Lock()
	r.active = false
	r.chunks = nil
	r.size = 0
	r.mu.Unlock()
}

func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}
