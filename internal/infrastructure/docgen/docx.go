package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrNotDocx is returned when a manuscript file cannot be promoted to a
	// formatted article body. PDF manuscripts are preview-only.
	ErrNotDocx = errors.New("manuscript is not a .docx file")

	ErrNoDocumentXML = errors.New("docx archive has no word/document.xml")
)

// PromotableManuscript reports whether a manuscript file can be converted
// into an article body. Only .docx qualifies.
func PromotableManuscript(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".docx")
}

// ExtractDocxText pulls the plain text out of a .docx archive by reading
// word/document.xml. Paragraphs become lines separated by blank lines,
// tabs and breaks become spaces.
func ExtractDocxText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	var docFile *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", ErrNoDocumentXML
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	return decodeDocumentXML(rc)
}

func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		out         strings.Builder
		inText      bool
		paraHasText bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "p":
				paraHasText = false
			case "tab":
				out.WriteByte(' ')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if paraHasText {
					out.WriteString("\n\n")
				}
			}
		case xml.CharData:
			if inText {
				out.Write(t)
				paraHasText = true
			}
		}
	}

	return strings.TrimSpace(out.String()), nil
}
