package extraction

import "strings"

// Kind classifies a submitted document.
type Kind string

const (
	KindRunsheet Kind = "runsheet"
	KindInvoice  Kind = "invoice"
	KindUnknown  Kind = "unknown"
)

var (
	runsheetMarkers = []string{"runsheet", "run_sheet", "run-sheet"}
	invoiceMarkers  = []string{"invoice", "bill", "dv_"}
)

// Classify decides runsheet vs invoice vs unknown from the filename alone.
// Matching is case-insensitive substring; unknown files are skipped by the
// batch with a warning rather than failing it.
func Classify(filename string) Kind {
	name := strings.ToLower(filename)
	for _, m := range runsheetMarkers {
		if strings.Contains(name, m) {
			return KindRunsheet
		}
	}
	for _, m := range invoiceMarkers {
		if strings.Contains(name, m) {
			return KindInvoice
		}
	}
	return KindUnknown
}
