// Package fee computes the verification charge for a request.
//
// Government requesters are exempt. Urgent requests pay a flat premium.
// Regular requests are bracketed by record age: older records cost more to
// retrieve from the archive.
package fee

import (
	"math"
	"time"

	"eduverify/internal/verification/models"
)

const (
	// taxRate is the GST applied on every non-zero fee.
	taxRate = 0.18

	urgentBase = 7000
)

// regularBrackets maps the maximum record age in years to the base fee.
// Evaluated in order; ages beyond the last bracket fall through to oldestBase.
var regularBrackets = []struct {
	maxAge int
	base   int
}{
	{3, 2000},
	{5, 3000},
	{10, 4000},
}

const oldestBase = 5000

// Quote is a fully computed fee: base charge, tax and the payable total.
type Quote struct {
	Base  int `json:"baseAmount"`
	Tax   int `json:"taxAmount"`
	Total int `json:"amountPayable"`
}

// Compute returns the fee quote for a request. now anchors the record-age
// calculation. A year of passing in the future or implausibly old is charged
// at the oldest bracket rather than rejected; submission validation catches
// garbage years before this runs.
func Compute(role models.RequesterRole, requestType models.RequestType, yearOfPassing int, now time.Time) Quote {
	if role == models.RoleGovt {
		return Quote{}
	}

	base := oldestBase
	switch {
	case requestType == models.TypeUrgent:
		base = urgentBase
	case yearOfPassing > 0 && yearOfPassing <= now.Year():
		age := now.Year() - yearOfPassing
		for _, b := range regularBrackets {
			if age <= b.maxAge {
				base = b.base
				break
			}
		}
	}

	tax := int(math.Round(float64(base) * taxRate))
	return Quote{Base: base, Tax: tax, Total: base + tax}
}
