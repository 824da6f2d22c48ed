package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/appetiteclub/dinner/services/storefront/internal/deliverytime"
)

// ParseTime prints the delivery timestamp found in text. reference, when
// set, is a YYYY-MM-DD date that anchors relative days.
func ParseTime(text, reference string, out io.Writer) error {
	p := &deliverytime.Parser{}
	if reference != "" {
		ref, err := time.ParseInLocation("2006-01-02", reference, time.Local)
		if err != nil {
			return fmt.Errorf("invalid reference date %q: %w", reference, err)
		}
		p.Reference = ref
	}

	ts, ok := p.Parse(text)
	if !ok {
		_, err := fmt.Fprintln(out, "no delivery time found")
		return err
	}
	_, err := fmt.Fprintln(out, ts)
	return err
}
