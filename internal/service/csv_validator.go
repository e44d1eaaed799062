package service

import (
	"fmt"
	"strings"

	"finance-import/internal/models"
)

// RequiredColumns are the header fields a transaction CSV must declare.
// The scan order is fixed so the first missing column reported is
// deterministic.
var RequiredColumns = []string{"account", "category", "currency", "amount", "type", "date"}

// ValidateHeader checks that raw CSV text plausibly matches the transaction
// schema before anything is sent to the server. Matching is case-sensitive
// and order-independent; extra columns are allowed. It never panics: any
// failure during parsing becomes an invalid outcome.
func ValidateHeader(csvText string) (outcome models.ValidationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = models.ValidationOutcome{Valid: false, Error: fmt.Sprintf("%v", r)}
		}
	}()

	var lines []string
	for _, line := range strings.Split(csvText, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return models.ValidationOutcome{Valid: false, Error: "missing header or data row"}
	}

	present := make(map[string]bool)
	for _, field := range strings.Split(lines[0], ";") {
		present[strings.TrimSpace(field)] = true
	}

	for _, col := range RequiredColumns {
		if !present[col] {
			return models.ValidationOutcome{
				Valid: false,
				Error: fmt.Sprintf("missing required column: %s", col),
			}
		}
	}

	return models.ValidationOutcome{Valid: true}
}
