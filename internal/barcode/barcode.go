// Package barcode validates and classifies numeric product barcodes.
package barcode

import "regexp"

// MinManualLength is the minimum number of digits accepted from manual entry.
const MinManualLength = 8

var validBarcode = regexp.MustCompile(`^(\d{8}|\d{12}|\d{13}|\d{14})$`)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Valid reports whether the barcode is an all-digit string of a standard
// retail length: 8 (EAN-8), 12 (UPC-A), 13 (EAN-13) or 14 (GTIN-14).
func Valid(code string) bool {
	return validBarcode.MatchString(code)
}

// ValidManual reports whether a manually typed code is acceptable: digits
// only, at least MinManualLength long. Manual entry is deliberately looser
// than Valid so odd-length internal codes can still be keyed in.
func ValidManual(code string) bool {
	return len(code) >= MinManualLength && digitsOnly.MatchString(code)
}

// Format returns the symbology name implied by the barcode length, or
// "unknown" for non-standard codes.
func Format(code string) string {
	if !Valid(code) {
		return "unknown"
	}
	switch len(code) {
	case 8:
		return "EAN-8"
	case 12:
		return "UPC-A"
	case 13:
		return "EAN-13"
	default:
		return "GTIN-14"
	}
}
