package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     Kind
	}{
		{"runsheet_jan.txt", KindRunsheet},
		{"RUN_SHEET_week2.txt", KindRunsheet},
		{"run-sheet.txt", KindRunsheet},
		{"invoice_jan.txt", KindInvoice},
		{"Bill_2025-01.txt", KindInvoice},
		{"DV_10293.txt", KindInvoice},
		{"notes.txt", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.filename), tt.filename)
	}
}

func TestClassifyRunsheetWinsOverInvoice(t *testing.T) {
	// A name matching both marker sets is treated as a runsheet.
	assert.Equal(t, KindRunsheet, Classify("runsheet_with_invoice_totals.txt"))
}
