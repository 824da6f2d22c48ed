package deliverytime

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/conversation"
)

// Layout is the timestamp format exchanged with the order endpoints.
const Layout = "2006-01-02T15:04:05"

const (
	defaultHour   = 18
	defaultMinute = 0
)

// ReferenceDate anchors relative phrases such as "내일" when no other
// reference is configured.
var ReferenceDate = time.Date(2025, time.December, 8, 0, 0, 0, 0, time.Local)

var (
	fullDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`),
		regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`),
	}
	monthDayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일`),
		regexp.MustCompile(`(\d{1,2})/(\d{1,2})`),
		regexp.MustCompile(`(\d{1,2})-(\d{1,2})`),
	}

	pmPattern    = regexp.MustCompile(`오후\s*(\d{1,2})시(?:\s*(\d{1,2})분)?`)
	amPattern    = regexp.MustCompile(`오전\s*(\d{1,2})시(?:\s*(\d{1,2})분)?`)
	clockPattern = regexp.MustCompile(`(\d{1,2})시(?:\s*(\d{1,2})분)?|(\d{1,2}):(\d{1,2})`)
)

// Parser extracts delivery timestamps from Korean utterances.
type Parser struct {
	Reference time.Time
}

func NewParser(reference time.Time) *Parser {
	return &Parser{Reference: reference}
}

// Parse returns a "YYYY-MM-DDTHH:mm:ss" timestamp. A time of day without
// any date yields nothing; a date without a time defaults to 18:00.
func (p *Parser) Parse(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	year, month, day, ok := p.date(text)
	if !ok {
		return "", false
	}
	hour, minute := clock(text)

	ts := time.Date(year, time.Month(month), day, hour, minute, 0, 0, p.location())
	return ts.Format(Layout), true
}

// FromHistory scans customer messages newest first and returns the first
// one that parses.
func (p *Parser) FromHistory(history []conversation.Message) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role != conversation.RoleCustomer {
			continue
		}
		if ts, ok := p.Parse(msg.Content); ok {
			return ts, true
		}
	}
	return "", false
}

func (p *Parser) location() *time.Location {
	if p.Reference.IsZero() {
		return ReferenceDate.Location()
	}
	return p.Reference.Location()
}

func (p *Parser) reference() time.Time {
	if p.Reference.IsZero() {
		return ReferenceDate
	}
	return p.Reference
}

func (p *Parser) date(text string) (int, int, int, bool) {
	ref := p.reference()

	if offset, ok := relativeDays(text); ok {
		d := ref.AddDate(0, 0, offset)
		return d.Year(), int(d.Month()), d.Day(), true
	}

	for _, re := range fullDatePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return atoi(m[1]), atoi(m[2]), atoi(m[3]), true
		}
	}
	for _, re := range monthDayPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return ref.Year(), atoi(m[1]), atoi(m[2]), true
		}
	}
	return 0, 0, 0, false
}

// relativeDays checks "다다음날" before "다음날", which it contains.
func relativeDays(text string) (int, bool) {
	switch {
	case strings.Contains(text, "다다음날"):
		return 2, true
	case strings.Contains(text, "내일"), strings.Contains(text, "다음날"):
		return 1, true
	case strings.Contains(text, "모레"):
		return 2, true
	case strings.Contains(text, "오늘"):
		return 0, true
	}
	return 0, false
}

func clock(text string) (int, int) {
	if m := pmPattern.FindStringSubmatch(text); m != nil {
		hour := atoi(m[1]) + 12
		if hour == 24 {
			hour = 12
		}
		return hour, minuteOf(m[2])
	}

	if m := amPattern.FindStringSubmatch(text); m != nil {
		hour := atoi(m[1])
		if hour == 12 {
			hour = 0
		}
		return hour, minuteOf(m[2])
	}

	if m := clockPattern.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return atoi(m[1]), minuteOf(m[2])
		}
		return atoi(m[3]), minuteOf(m[4])
	}

	return defaultHour, defaultMinute
}

func minuteOf(s string) int {
	if s == "" {
		return 0
	}
	return atoi(s)
}

// atoi is only fed regexp digit groups.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
