package infrastructure

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoDocuments is returned when there is nothing to merge.
var ErrNoDocuments = errors.New("merge: no documents")

// PDFMerger concatenates PDF documents page by page.
type PDFMerger struct{}

func NewPDFMerger() *PDFMerger {
	api.DisableConfigDir()
	return &PDFMerger{}
}

// config returns a fresh configuration per call, pdfcpu mutates it.
func (m *PDFMerger) config() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge appends every page of every document, in the given order, into one
// PDF. The output page count always equals the sum of the input page counts.
func (m *PDFMerger) Merge(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	want := 0
	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		n, err := m.PageCount(d)
		if err != nil {
			return nil, fmt.Errorf("merge: document %d: %w", i+1, err)
		}
		want += n
		readers[i] = bytes.NewReader(d)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, m.config()); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	got, err := m.PageCount(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("merge: read back: %w", err)
	}
	if got != want {
		return nil, fmt.Errorf("merge: expected %d pages, got %d", want, got)
	}
	return out.Bytes(), nil
}

// PageCount returns the number of pages in a PDF document.
func (m *PDFMerger) PageCount(doc []byte) (int, error) {
	return api.PageCount(bytes.NewReader(doc), m.config())
}
