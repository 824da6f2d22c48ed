package voice

import "sync"

// Utterance is text waiting to be spoken by the browser.
type Utterance struct {
	Seq  int64  `json:"seq"`
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// Speaker holds at most one pending utterance. Speaking again replaces it,
// which cancels whatever was still queued.
type Speaker struct {
	lang string

	mu      sync.Mutex
	seq     int64
	pending *Utterance
}

func NewSpeaker(lang string) *Speaker {
	if lang == "" {
		lang = DefaultLanguage
	}
	return &Speaker{lang: lang}
}

func (s *Speaker) Speak(text string) Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	u := Utterance{Seq: s.seq, Text: text, Lang: s.lang}
	s.pending = &u
	return u
}

func (s *Speaker) Cancel() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

func (s *Speaker) Pending() (Utterance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Utterance{}, false
	}
	return *s.pending, true
}

// Played clears the pending utterance if it is still seq.
func (s *Speaker) Played(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil && s.pending.Seq == seq {
		s.pending = nil
	}
}
