package extraction

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"consignment-reconciliation-backend/internal/domain"
)

// ErrNoData is returned when no file in a batch yielded usable records.
var ErrNoData = errors.New("extraction: no data extracted from any file")

// File is one submitted document.
type File struct {
	Name    string
	Content []byte
}

// Batch is the combined structured output of one submission.
type Batch struct {
	Runsheet  map[time.Time]RunsheetDay
	Invoice   map[time.Time][]domain.Money
	Warnings  []string
	FilesUsed int
}

// InvoiceDates returns the set of dates with at least one payment line.
func (b Batch) InvoiceDates() []time.Time {
	dates := make([]time.Time, 0, len(b.Invoice))
	for d := range b.Invoice {
		dates = append(dates, d)
	}
	return dates
}

// Empty reports whether the batch carries no usable records.
func (b Batch) Empty() bool {
	return len(b.Runsheet) == 0 && len(b.Invoice) == 0
}

// Service turns a list of raw documents into a Batch.
type Service struct {
	text TextExtractor
	log  zerolog.Logger
}

func NewService(text TextExtractor, log zerolog.Logger) *Service {
	return &Service{
		text: text,
		log:  log.With().Str("component", "extraction").Logger(),
	}
}

// ProcessFiles extracts every file in order. Files are handled sequentially
// because each document is decoded fully into memory; one file at a time
// bounds the peak. Per-file failures are warnings; the batch fails only if
// nothing at all was usable.
func (s *Service) ProcessFiles(files []File) (Batch, error) {
	batch := Batch{
		Runsheet: make(map[time.Time]RunsheetDay),
		Invoice:  make(map[time.Time][]domain.Money),
	}

	for _, f := range files {
		kind := Classify(f.Name)
		if kind == KindUnknown {
			s.warn(&batch, fmt.Sprintf("%s: unrecognized document type, skipped", f.Name))
			continue
		}

		text, err := s.text.Extract(f.Content, f.Name)
		if err != nil {
			s.warn(&batch, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}

		switch kind {
		case KindRunsheet:
			days, warnings := ParseRunsheet(text)
			s.collect(&batch, f.Name, warnings)
			if len(days) == 0 {
				s.warn(&batch, fmt.Sprintf("%s: no dated records found, excluded", f.Name))
				continue
			}
			for date, day := range days {
				cur := batch.Runsheet[date]
				cur.Consignments += day.Consignments
				cur.Pickups += day.Pickups
				batch.Runsheet[date] = cur
			}
		case KindInvoice:
			lines, warnings := ParseInvoice(text)
			s.collect(&batch, f.Name, warnings)
			if len(lines) == 0 {
				s.warn(&batch, fmt.Sprintf("%s: no dated records found, excluded", f.Name))
				continue
			}
			for _, line := range lines {
				batch.Invoice[line.Date] = append(batch.Invoice[line.Date], line.Amount)
			}
		}
		batch.FilesUsed++
	}

	if batch.Empty() {
		return batch, ErrNoData
	}
	return batch, nil
}

func (s *Service) warn(b *Batch, msg string) {
	s.log.Warn().Msg(msg)
	b.Warnings = append(b.Warnings, msg)
}

func (s *Service) collect(b *Batch, filename string, warnings []string) {
	for _, w := range warnings {
		s.warn(b, filename+": "+w)
	}
}
