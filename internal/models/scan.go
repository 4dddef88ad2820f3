package models

// ScanResult is a capture event produced by the scanner or by manual entry.
type ScanResult struct {
	Barcode string `json:"barcode"`
	Format  string `json:"format"`
}
