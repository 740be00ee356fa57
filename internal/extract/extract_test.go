package extract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFromUpload_CSV(t *testing.T) {
	data := "url,mirror\n https://a.test ,https://b.test\n\nhttps://c.test\n,\n"

	urls, err := FromUpload("links.CSV", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"url", "mirror", "https://a.test", "https://b.test", "https://c.test"}, urls)
}

func TestFromUpload_CSVMalformed(t *testing.T) {
	_, err := FromUpload("links.csv", strings.NewReader("\"unterminated\nhttps://a.test"))
	assert.Error(t, err)
}

func TestFromUpload_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "https://a.test"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "  "))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "https://b.test"))
	require.NoError(t, f.SetCellValue("Sheet1", "C2", " https://c.test"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	urls, err := FromUpload("book.xlsx", buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.test", "https://b.test", "https://c.test"}, urls)
}

func TestFromUpload_XLSXCorrupt(t *testing.T) {
	_, err := FromUpload("book.xlsx", bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)
}

func TestFromUpload_Unsupported(t *testing.T) {
	_, err := FromUpload("links.txt", strings.NewReader("https://a.test"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.csv"))
	assert.True(t, Supported("A.XLSX"))
	assert.False(t, Supported("a.xls"))
	assert.False(t, Supported("csv"))
}

func TestCombine(t *testing.T) {
	assert.Equal(t, []string{"https://m.test", "https://f.test"}, Combine("  https://m.test\n", []string{"https://f.test"}))
	assert.Equal(t, []string{"https://f.test"}, Combine("   ", []string{"https://f.test"}))
	assert.Empty(t, Combine("", nil))
}
