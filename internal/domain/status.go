package domain

import "strings"

// DOIStatus is the stock-health bucket derived from days of inventory.
type DOIStatus string

const (
	StatusLow       DOIStatus = "Low"
	StatusNormal    DOIStatus = "Normal"
	StatusOverstock DOIStatus = "Overstock"
)

const (
	// LowDOIThreshold is the exclusive upper bound of the Low bucket.
	LowDOIThreshold = 10.0
	// OverstockDOIThreshold is the exclusive lower bound of the Overstock bucket.
	OverstockDOIThreshold = 180.0
)

var doiStatusCodes = map[string]DOIStatus{
	"low":       StatusLow,
	"normal":    StatusNormal,
	"overstock": StatusOverstock,
}

// ClassifyDOI maps a days-of-inventory value to its status bucket.
// Every float64 has a bucket; negative values are Low.
func ClassifyDOI(doi float64) DOIStatus {
	switch {
	case doi < LowDOIThreshold:
		return StatusLow
	case doi > OverstockDOIThreshold:
		return StatusOverstock
	default:
		return StatusNormal
	}
}

// ParseDOIStatus returns the status for a given label (case-insensitive).
func ParseDOIStatus(label string) (DOIStatus, bool) {
	status, ok := doiStatusCodes[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}
