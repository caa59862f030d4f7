package reports

import (
	"encoding/csv"
	"fmt"
	"io"

	"eduverify/internal/verification/models"
)

// WriteCSV streams the register as CSV with a header row.
func WriteCSV(w io.Writer, requests []models.VerificationRequest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range requests {
		if err := cw.Write(Row(&requests[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
