package rag

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageExtractor is the text-extraction capability: raw document bytes in,
// ordered page texts out.
type PageExtractor interface {
	ExtractPages(filename string, data []byte) ([]PageText, error)
}

type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractPages returns the plain text of every page in order, tagged with
// its 1-based page number and the source filename. A page that cannot be
// read yields an empty page rather than failing the whole document; a
// document that cannot be opened at all is an error.
func (te *TextExtractor) ExtractPages(filename string, data []byte) ([]PageText, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", filename, err)
	}

	numPages := reader.NumPage()
	pages := make([]PageText, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)

		var text string
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				text = ""
			}
		}

		pages = append(pages, PageText{
			Text:           text,
			Page:           i,
			SourceDocument: filename,
		})
	}

	return pages, nil
}
