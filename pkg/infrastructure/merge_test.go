package infrastructure

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixturePDF builds an A4 document whose pages carry the given markers as text.
func fixturePDF(t *testing.T, markers ...string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 14)
	for _, m := range markers {
		pdf.AddPage()
		pdf.Cell(40, 10, m)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func pageMarkers(t *testing.T, doc []byte, markers []string) []string {
	t.Helper()
	ctx, err := api.ReadContext(bytes.NewReader(doc), NewPDFMerger().config())
	require.NoError(t, err)
	require.NoError(t, ctx.EnsurePageCount())
	require.Positive(t, ctx.PageCount)
	out := make([]string, 0, ctx.PageCount)
	for p := 1; p <= ctx.PageCount; p++ {
		r, err := pdfcpu.ExtractPageContent(ctx, p)
		require.NoError(t, err)
		content, err := io.ReadAll(r)
		require.NoError(t, err)
		found := ""
		for _, m := range markers {
			if bytes.Contains(content, []byte("("+m+")")) {
				found = m
				break
			}
		}
		out = append(out, found)
	}
	return out
}

func TestPDFMerger_PreservesOrder(t *testing.T) {
	m := NewPDFMerger()
	var docs [][]byte
	var markers []string
	for i := 1; i <= 6; i++ {
		marker := fmt.Sprintf("PAGE-%d", i)
		markers = append(markers, marker)
		docs = append(docs, fixturePDF(t, marker))
	}

	merged, err := m.Merge(docs)
	require.NoError(t, err)

	n, err := m.PageCount(merged)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, markers, pageMarkers(t, merged, markers))
}

func TestPDFMerger_MultiPageInputs(t *testing.T) {
	m := NewPDFMerger()
	docs := [][]byte{
		fixturePDF(t, "A1", "A2"),
		fixturePDF(t, "B1"),
		fixturePDF(t, "C1", "C2", "C3"),
	}
	merged, err := m.Merge(docs)
	require.NoError(t, err)

	want := []string{"A1", "A2", "B1", "C1", "C2", "C3"}
	assert.Equal(t, want, pageMarkers(t, merged, want))
}

func TestPDFMerger_SingleDocument(t *testing.T) {
	m := NewPDFMerger()
	merged, err := m.Merge([][]byte{fixturePDF(t, "ONLY")})
	require.NoError(t, err)
	n, err := m.PageCount(merged)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPDFMerger_Errors(t *testing.T) {
	m := NewPDFMerger()

	_, err := m.Merge(nil)
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = m.Merge([][]byte{fixturePDF(t, "OK"), []byte("not a pdf")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 2")
}
