// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns uploaded PDF files into paper records. Metadata
// is best-effort: the first page of text supplies a title, an abstract,
// and a publication-year guess, and anything that cannot be derived is
// simply left empty.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/researchflow/researchflow/pkg/types"
)

// abstractLimit bounds the derived abstract.
const abstractLimit = 2000

// fallbackTitle is used when no title can be derived at all.
const fallbackTitle = "Uploaded Paper"

// yearPattern matches a plausible publication year anywhere in text.
var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// readFirstPage extracts the text of a PDF's first page. Package-level
// var for test substitution.
var readFirstPage = func(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "", nil
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// PaperFromPDF builds a paper record from a local PDF file. title
// overrides derivation when non-empty. Text extraction failures are
// logged to w as warnings; the paper is still created without an
// abstract.
func PaperFromPDF(path, title string, w io.Writer) (types.Paper, error) {
	if path == "" {
		return types.Paper{}, fmt.Errorf("PDF path is required")
	}

	firstPage, err := readFirstPage(path)
	if err != nil {
		fmt.Fprintf(w, "warning: extracting text from %s: %v\n", filepath.Base(path), err)
		firstPage = ""
	}

	filename := filepath.Base(path)

	abstract := strings.TrimSpace(firstPage)
	if r := []rune(abstract); len(r) > abstractLimit {
		abstract = string(r[:abstractLimit])
	}

	p := types.Paper{
		ID:         "upload_" + fmt.Sprintf("%x", uuid.New()),
		Title:      deriveTitle(title, filename, firstPage),
		Authors:    []types.Author{},
		Abstract:   abstract,
		Year:       deriveYear(firstPage + " " + filename),
		PDFURL:     path,
		SourceType: types.SourceUploaded,
	}
	return p, nil
}

// deriveTitle picks a title: the explicit one, then the filename with
// separators spaced out, then the first line of page text when it is
// long enough to be meaningful.
func deriveTitle(explicit, filename, firstPage string) string {
	if explicit != "" {
		return explicit
	}

	if filename != "" {
		base := strings.TrimSuffix(filename, filepath.Ext(filename))
		base = strings.ReplaceAll(base, "_", " ")
		base = strings.ReplaceAll(base, "-", " ")
		if t := strings.TrimSpace(base); t != "" {
			return t
		}
	}

	if firstPage != "" {
		lines := strings.Split(firstPage, "\n")
		if first := strings.TrimSpace(lines[0]); len(first) > 5 {
			return first
		}
	}

	return fallbackTitle
}

// deriveYear guesses a publication year from the first 19xx/20xx token.
func deriveYear(text string) *int {
	m := yearPattern.FindString(text)
	if m == "" {
		return nil
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &y
}
