package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText("notes.txt", []byte("  Witness arrived at 9am.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Witness arrived at 9am.", text)
}

func TestExtractText_EmptyFile(t *testing.T) {
	_, err := ExtractText("notes.txt", []byte("   \n\t"))
	assert.Error(t, err)
}

func TestExtractText_BinaryRejected(t *testing.T) {
	_, err := ExtractText("image.png", []byte{0x89, 0x50, 0x4e, 0x47, 0xff, 0xfe})
	assert.Error(t, err)
}

func TestExtractText_FakePDFRejected(t *testing.T) {
	_, err := ExtractText("scan.pdf", []byte("this is not a pdf"))
	assert.Error(t, err)
}

func TestExtractText_PDFTextLayer(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\nBT (Hello) Tj (World) Tj ET\nendobj")

	text, err := ExtractText("doc.pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
}

func TestExtractText_PDFTJArray(t *testing.T) {
	pdf := []byte("%PDF-1.4\nBT [(depo)-250(sition)] TJ ET")

	text, err := ExtractText("doc.pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, "depo sition", text)
}

func TestExtractText_PDFEscapedParens(t *testing.T) {
	pdf := []byte(`%PDF-1.4 BT (Doe \(plaintiff\)) Tj ET`)

	text, err := ExtractText("doc.pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, "Doe (plaintiff)", text)
}

func TestExtractText_PDFWithoutTextLayer(t *testing.T) {
	// Font names and metadata strings are not text-showing operands
	pdf := []byte("%PDF-1.4\n/Producer (scanner firmware)\nstream\n\x00\x01\x02\nendstream")

	_, err := ExtractText("scan.pdf", pdf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selectable text")
}
