package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Normalize upgrades a raw stored record to the current schema in place.
// Collections written by earlier portal versions used different field names;
// each mapping below fires only when the canonical field is absent, so the
// pass is idempotent and never clobbers migrated data.
func Normalize(rec map[string]any, now time.Time) {
	if strField(rec, "id") == "" {
		rec["id"] = uuid.NewString()
	}

	// studentName was a single display field before the split.
	if strField(rec, "firstName") == "" {
		if full := strField(rec, "studentName"); full != "" {
			first, last, _ := strings.Cut(full, " ")
			rec["firstName"] = first
			if strField(rec, "lastName") == "" && last != "" {
				rec["lastName"] = strings.TrimSpace(last)
			}
		}
	}

	renameIfAbsent(rec, "studentSapNumber", "studentNumber")
	renameIfAbsent(rec, "program", "programName")
	renameIfAbsent(rec, "applicationDate", "createdAt")

	// Some exports carried the year as a string, occasionally empty. Anything
	// unparseable is dropped rather than left to poison the schema decode.
	if s, ok := rec["yearOfPassing"].(string); ok {
		if y, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			rec["yearOfPassing"] = y
		} else {
			delete(rec, "yearOfPassing")
		}
	}
	if _, ok := rec["yearOfPassing"]; !ok {
		if y, ok := intField(rec, "passingYear"); ok {
			rec["yearOfPassing"] = y
		}
	}

	if _, ok := rec["amountPayable"]; !ok {
		if amt, ok := intField(rec, "feeAmount"); ok {
			rec["amountPayable"] = amt
		}
	}
	if _, ok := rec["totalPaymentReceived"]; !ok {
		if total, ok := intField(rec, "totalPayment"); ok {
			rec["totalPaymentReceived"] = total
		} else if amt, ok := intField(rec, "amountPayable"); ok && paid(rec) {
			rec["totalPaymentReceived"] = amt
		}
	}

	// Single-file uploads predate the attachments list.
	if _, ok := rec["attachments"]; !ok {
		var files []any
		for _, legacy := range []string{"degreeCertificateFile", "documentFile"} {
			if f, ok := rec[legacy].(map[string]any); ok {
				files = append(files, f)
			}
		}
		if len(files) > 0 {
			rec["attachments"] = files
		}
	}

	if strField(rec, "requesterRole") == "" {
		rec["requesterRole"] = "STUDENT"
	}
	if strField(rec, "requestType") == "" {
		rec["requestType"] = "REGULAR"
	}
	if strField(rec, "paymentStatus") == "" {
		if strField(rec, "requesterRole") == "GOVT" {
			rec["paymentStatus"] = "PAID_APPROVED"
		} else {
			rec["paymentStatus"] = "PAYMENT_PENDING"
		}
	}
	if strField(rec, "verificationStatus") == "" {
		rec["verificationStatus"] = "OPEN"
	}
	if strField(rec, "applicationStatus") == "" {
		rec["applicationStatus"] = "Pending"
	}
	if strField(rec, "createdAt") == "" {
		rec["createdAt"] = now.UTC().Format(time.RFC3339)
	}
}

func paid(rec map[string]any) bool {
	switch strField(rec, "paymentStatus") {
	case "PAID_PENDING_ACCOUNTS", "PAID_APPROVED":
		return true
	}
	return false
}

func strField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func renameIfAbsent(rec map[string]any, from, to string) {
	if _, ok := rec[to]; ok {
		return
	}
	if v, ok := rec[from]; ok {
		rec[to] = v
	}
}

func intField(rec map[string]any, key string) (int, bool) {
	switch v := rec[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}
