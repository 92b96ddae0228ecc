package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OtavioDayrots/Energy-Bill-Parser/dto"
	"github.com/OtavioDayrots/Energy-Bill-Parser/extract"
)

// fakeProcessor treats the raw file bytes as the extracted text, so tests
// control the pipeline input by writing plain files.
type fakeProcessor struct {
	glyphs     [][]extract.Glyph
	glyphCalls int
}

func (f *fakeProcessor) ExtractText(pdfData []byte) (string, error) {
	text := string(pdfData)
	if strings.Contains(text, "boom") {
		panic("decoder blew up")
	}
	return text, nil
}

func (f *fakeProcessor) ExtractGlyphs(pdfData []byte) ([][]extract.Glyph, error) {
	f.glyphCalls++
	return f.glyphs, nil
}

func (f *fakeProcessor) Validate(pdfData []byte) error {
	if strings.Contains(string(pdfData), "corrupt") {
		return errors.New("structurally invalid")
	}
	return nil
}

func newTestService() (*InvoiceService, *fakeProcessor) {
	proc := &fakeProcessor{}
	return NewInvoiceService(proc, extract.NewEngine(extract.Config{Window: 2})), proc
}

func TestProcessBytes(t *testing.T) {
	svc, _ := newTestService()
	text := "Unidade Consumidora: 12345678\nEnergia Ativa Injetada mUC R$ 40,00"

	record, err := svc.ProcessBytes("fatura.pdf", []byte(text))
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "fatura.pdf", record.Path)
	assert.Equal(t, "12345678", record.ConsumerUnit)
	require.NotNil(t, record.InjectedMUC)
	assert.Equal(t, 40.0, *record.InjectedMUC)
}

func TestProcessBytesNoText(t *testing.T) {
	svc, _ := newTestService()
	record, err := svc.ProcessBytes("vazio.pdf", nil)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, dto.ErrNoText)
}

func TestProcessBytesInvalidPDF(t *testing.T) {
	svc, _ := newTestService()
	record, err := svc.ProcessBytes("ruim.pdf", []byte("corrupt bytes"))
	assert.Nil(t, record)
	require.Error(t, err)
	assert.NotErrorIs(t, err, dto.ErrNoText)
}

func TestProcessBytesLazyGlyphs(t *testing.T) {
	svc, proc := newTestService()

	// All fields and the identifier resolve from text: the glyph pass must
	// never be paid for.
	text := strings.Join([]string{
		"Unidade Consumidora: 12345678",
		"Energia Ativa Injetada mUC R$ 40,00",
		"Energia Ativa Injetada oUC R$ 25,00",
		"Energia Ativa Injetada - Fora Ponta R$ 10,00",
	}, "\n")

	_, err := svc.ProcessBytes("fatura.pdf", []byte(text))
	require.NoError(t, err)
	assert.Equal(t, 0, proc.glyphCalls)

	// With gaps left by the text strategies, the layout source is consulted.
	_, err = svc.ProcessBytes("fatura.pdf", []byte("Energia Ativa Injetada mUC"))
	require.NoError(t, err)
	assert.Equal(t, 1, proc.glyphCalls)
}

func TestProcessBatchContinuesOnFailure(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	good := write("boa.pdf", "Energia Ativa Injetada mUC R$ 40,00")
	empty := write("vazia.pdf", "")
	bad := write("corrupta.pdf", "corrupt bytes")
	panics := write("explode.pdf", "boom")

	svc, _ := newTestService()
	resp := svc.ProcessBatch([]string{good, empty, bad, panics})

	require.Len(t, resp.Records, 1)
	assert.Equal(t, good, resp.Records[0].Path)
	assert.Equal(t, []string{empty}, resp.Skipped)
	assert.ElementsMatch(t, []string{bad, panics}, resp.Failed)
	assert.NotEmpty(t, resp.ProcessedAt)
}

func TestProcessFileMissing(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ProcessFile(filepath.Join(t.TempDir(), "nao-existe.pdf"))
	assert.Error(t, err)
}

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(sub, "B.PDF")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644))

	found, err := ListPDFs(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, found)

	// A single file path passes through untouched.
	found, err = ListPDFs(a)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, found)

	_, err = ListPDFs(filepath.Join(dir, "notas.txt"))
	assert.Error(t, err)

	_, err = ListPDFs(filepath.Join(dir, "nao-existe"))
	assert.Error(t, err)
}
