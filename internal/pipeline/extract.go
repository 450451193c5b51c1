package pipeline

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat means the declared MIME type is not one the
	// extractor knows. Callers skip the file rather than failing the batch.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyExtraction means extraction ran but produced no usable text
	// (image-only PDFs and the like). Also a skip, not a failure.
	ErrEmptyExtraction = errors.New("no text extracted")
)

const (
	mimePDF  = "application/pdf"
	mimeDoc  = "application/msword"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXls  = "application/vnd.ms-excel"
	mimeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Extract turns a stored blob into raw text based on its declared MIME
// type. It never touches storage; it only decodes what it is given.
func Extract(data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyExtraction
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	var (
		text string
		err  error
	)
	switch mt {
	case mimePDF:
		text, err = extractPDF(data)
	case mimeDoc, mimeDocx:
		text, err = extractWord(data)
	case mimeXls, mimeXlsx:
		text, err = extractSpreadsheet(data)
	default:
		if strings.HasPrefix(mt, "text/") {
			text = string(data)
		} else {
			return "", ErrUnsupportedFormat
		}
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyExtraction
	}
	return text, nil
}

// extractPDF pulls the text layer page by page, preserving page order
// and joining pages with newlines. Pages without a text layer are
// skipped rather than failing the document.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	var out strings.Builder
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(pageText)
	}
	return out.String(), nil
}

// extractWord handles .docx (an OpenXML zip) by walking word/document.xml
// for <w:t> runs. Legacy binary .doc blobs fall back to a printable-byte
// scrape, which loses formatting but keeps the raw text.
func extractWord(data []byte) (string, error) {
	if isZip(data) {
		return extractOpenXMLText(data, "word/document.xml")
	}
	return scrapePrintable(data), nil
}

func extractOpenXMLText(zipBytes []byte, part string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", fmt.Errorf("openxml container: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == part {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("openxml part %s not found", part)
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// extractSpreadsheet serializes each sheet in workbook order, prefixed
// with the sheet name.
func extractSpreadsheet(data []byte) (string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("spreadsheet reader: %w", err)
	}
	defer wb.Close()

	var out strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(sheet)
		out.WriteString(":\n")
		for _, row := range rows {
			out.WriteString(strings.Join(row, " "))
			out.WriteString("\n")
		}
	}
	return out.String(), nil
}

func isZip(b []byte) bool {
	// ZIP local file header: PK\x03\x04
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// scrapePrintable keeps runs of at least four printable bytes and drops
// everything else. Best effort for legacy binary formats.
func scrapePrintable(b []byte) string {
	var out strings.Builder
	var run []byte
	flush := func() {
		if len(run) >= 4 {
			out.Write(run)
			out.WriteByte(' ')
		}
		run = run[:0]
	}
	for _, c := range b {
		if c == '\n' || c == '\t' || (c >= 0x20 && c <= 0x7E) {
			run = append(run, c)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(strings.Fields(out.String()), " ")
}
