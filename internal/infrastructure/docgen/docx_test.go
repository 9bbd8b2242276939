package docgen

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDocx assembles a minimal .docx archive around the given
// word/document.xml body.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestPromotableManuscript(t *testing.T) {
	assert.True(t, PromotableManuscript("paper.docx"))
	assert.True(t, PromotableManuscript("Final Revision.DOCX"))
	assert.False(t, PromotableManuscript("paper.pdf"))
	assert.False(t, PromotableManuscript("paper.doc"))
	assert.False(t, PromotableManuscript("paper"))
	assert.False(t, PromotableManuscript(""))
}

func TestExtractDocxText(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Introduction</w:t></w:r></w:p>
    <w:p><w:r><w:t>First</w:t><w:tab/><w:t>sentence.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractDocxText(buildDocx(t, doc))
	require.NoError(t, err)

	assert.Contains(t, text, "Introduction")
	assert.Contains(t, text, "First sentence.")
	// Paragraphs come out as separate blocks.
	assert.Contains(t, text, "Introduction\n\nFirst")
}

func TestExtractDocxText_NotAZip(t *testing.T) {
	_, err := ExtractDocxText([]byte("%PDF-1.7 not a zip at all"))
	assert.ErrorIs(t, err, ErrNotDocx)
}

func TestExtractDocxText_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<w:styles/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = ExtractDocxText(buf.Bytes())
	assert.ErrorIs(t, err, ErrNoDocumentXML)
}
