package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML, coreXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	// Add [Content_Types].xml (required for valid DOCX)
	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	if coreXML != "" {
		core, _ := w.Create("docProps/core.xml")
		core.Write([]byte(coreXML))
	}

	w.Close()
	return buf.Bytes()
}

func rawDOCX(uri string, content []byte) *domain.RawArticle {
	return &domain.RawArticle{
		Identity: "id-docx",
		URI:      uri,
		MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:  content,
	}
}

func TestNormalise_Success(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
</w:body>
</w:document>`

	coreXML := `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>Test Document</dc:title>
</cp:coreProperties>`

	raw := rawDOCX("/path/to/document.docx", createTestDOCX(docXML, coreXML))

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "id-docx", result.Article.Identity)
	assert.Equal(t, "Test Document", result.Article.Title)
	assert.Contains(t, result.Article.Text, "Hello World")
	assert.Equal(t, "/path/to/document.docx", result.Article.FilePath)
	assert.False(t, result.Article.FetchedAt.IsZero())
}

func TestNormalise_NilRaw(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_InvalidZip(t *testing.T) {
	result, err := New().Normalise(context.Background(), rawDOCX("/path/to/invalid.docx", []byte("not a zip file")))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_TitleFallbackToFilename(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Content</w:t></w:r></w:p>
</w:body>
</w:document>`

	// No core.xml - should fall back to filename
	result, err := New().Normalise(context.Background(), rawDOCX("/path/to/my_document.docx", createTestDOCX(docXML, "")))
	require.NoError(t, err)
	assert.Equal(t, "my document", result.Article.Title)
}

func TestNormalise_MultipleParagraphsAndRuns(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p>
<w:r><w:t>Hello </w:t></w:r>
<w:r><w:t>World</w:t></w:r>
</w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
</w:body>
</w:document>`

	result, err := New().Normalise(context.Background(), rawDOCX("/path/to/doc.docx", createTestDOCX(docXML, "")))
	require.NoError(t, err)
	assert.Equal(t, "Hello World\nSecond paragraph", result.Article.Text)
}

func TestNormalise_EmptyDocument(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
</w:body>
</w:document>`

	result, err := New().Normalise(context.Background(), rawDOCX("/path/to/empty.docx", createTestDOCX(docXML, "")))
	require.NoError(t, err)
	assert.Empty(t, result.Article.Text)
}

func TestSupportedMIMETypes(t *testing.T) {
	n := New()
	assert.Equal(t, []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}
