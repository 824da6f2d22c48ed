package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/appetiteclub/dinner/services/storefront/internal/backend"
	"github.com/appetiteclub/dinner/services/storefront/internal/revision"
)

// DiffLog prints what changed in each modification log of a saved dump.
func DiffLog(path string, out io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read modification logs: %w", err)
	}

	var logs []backend.ModificationLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		return fmt.Errorf("decode modification logs: %w", err)
	}
	return writeJSON(out, revision.DiffAll(logs))
}
