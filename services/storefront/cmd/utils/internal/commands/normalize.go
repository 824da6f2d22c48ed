package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/dinner/services/storefront/internal/catalog"
	"github.com/appetiteclub/dinner/services/storefront/internal/normalize"
)

type normalizeOutput struct {
	Requests interface{}      `json:"requests"`
	Dropped  []normalize.Drop `json:"dropped,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Normalize runs a saved order summary against a saved menu list and prints
// the cart requests it would produce. The summary may be JSON or the
// line-oriented summary text.
func Normalize(summaryPath, menusPath string, logger aqm.Logger, out io.Writer) error {
	raw, err := os.ReadFile(summaryPath)
	if err != nil {
		return fmt.Errorf("read summary: %w", err)
	}
	summary, err := decodeSummary(raw)
	if err != nil {
		return err
	}

	menuRaw, err := os.ReadFile(menusPath)
	if err != nil {
		return fmt.Errorf("read menus: %w", err)
	}
	var menus []catalog.Menu
	if err := json.Unmarshal(menuRaw, &menus); err != nil {
		return fmt.Errorf("decode menus: %w", err)
	}

	res, err := normalize.New(logger).Normalize(summary, menus)
	output := normalizeOutput{Requests: res.Requests, Dropped: res.Dropped}
	if err != nil {
		output.Error = err.Error()
	}
	return writeJSON(out, output)
}

func decodeSummary(raw []byte) (normalize.Summary, error) {
	var summary normalize.Summary
	if json.Valid(raw) {
		if err := json.Unmarshal(raw, &summary); err != nil {
			return summary, fmt.Errorf("decode summary: %w", err)
		}
		return summary, nil
	}
	summary, err := normalize.DecodeSummaryText(string(raw))
	if err != nil {
		return summary, fmt.Errorf("decode summary text: %w", err)
	}
	return summary, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
