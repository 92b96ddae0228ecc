package extract

import (
	"log"
	"strings"

	"github.com/OtavioDayrots/Energy-Bill-Parser/dto"
)

// Strategy names recorded in InvoiceRecord.Sources.
const (
	StrategyColumn     = "column"
	StrategyProximity  = "proximity"
	StrategyLayout     = "layout"
	StrategyCorrection = "correction"
)

// Config is the whole tunable surface of the engine: the proximity window,
// the debug narration flag, and the vocabulary/correction tables (injected so
// tests can run with synthetic labels).
type Config struct {
	Window           int
	Debug            bool
	Vocabulary       Vocabulary
	CorrectionMarker string
	KnownTaxValues   []float64
}

// DefaultWindow is the proximity-search window in lines.
const DefaultWindow = 2

// Engine runs the ordered fallback pipeline over one document at a time.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Vocabulary.MUC == nil {
		cfg.Vocabulary = DefaultVocabulary()
	}
	if cfg.CorrectionMarker == "" {
		cfg.CorrectionMarker = defaultCorrectionMarker
	}
	if cfg.KnownTaxValues == nil {
		cfg.KnownTaxValues = defaultKnownTaxValues
	}
	return &Engine{cfg: cfg}
}

// LayoutSource hands out the per-page glyph structure on demand. Layout
// reconstruction is the expensive path, so the engine only asks for pages
// when text strategies leave gaps.
type LayoutSource interface {
	Pages() ([][]Glyph, error)
}

// Document is the decoded input for one extraction call.
type Document struct {
	Path   string
	Text   string
	Layout LayoutSource
}

// docState is the shared view the field strategies operate on.
type docState struct {
	lines    []string
	valueCol int
	window   int
}

// fieldStrategy is one step of the ordered pipeline: a pure function from
// document state to a value or absence. Keeping the steps in an explicit list
// makes their priority auditable and each independently testable.
type fieldStrategy struct {
	name string
	run  func(st *docState, label Label) (float64, bool)
}

func columnStrategy(st *docState, label Label) (float64, bool) {
	if st.valueCol < 0 {
		return 0, false
	}
	labelLines := FindLabelLines(st.lines, label)
	if len(labelLines) == 0 {
		return 0, false
	}
	return ExtractValueAtColumn(st.lines, labelLines[0].Index, st.valueCol, 2, true)
}

func proximityStrategy(st *docState, label Label) (float64, bool) {
	return ExtractLabelValueSum(st.lines, label, st.window, true)
}

// textStrategies run before any layout reconstruction; first success wins and
// later strategies never overwrite a resolved field.
var textStrategies = []fieldStrategy{
	{name: StrategyColumn, run: columnStrategy},
	{name: StrategyProximity, run: proximityStrategy},
}

// Extract resolves all fields of one bill. Empty text yields dto.ErrNoText:
// the caller skips the document without failing the batch.
func (e *Engine) Extract(doc Document) (*dto.InvoiceRecord, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, dto.ErrNoText
	}

	lines := SplitLines(doc.Text)
	st := &docState{
		lines:    lines,
		valueCol: FindColumnIndex(lines, valueColumnHeader),
		window:   e.cfg.Window,
	}

	vocab := e.cfg.Vocabulary
	record := &dto.InvoiceRecord{
		Path:           doc.Path,
		ConsumerUnit:   ExtractIdentifier(doc.Text, st.lines),
		Classification: ExtractClassification(doc.Text),
		ServiceType:    ExtractServiceType(doc.Text),
		VoltageMin:     ExtractVoltageMin(doc.Text),
		VoltageMax:     ExtractVoltageMax(doc.Text),
		Period:         ExtractBillingPeriod(st.lines, vocab.MUC, vocab.OUC, e.cfg.Window),
		Sources:        make(map[string]string),
	}

	if e.cfg.Debug && st.valueCol >= 0 {
		log.Printf("[DEBUG] %s: value column header at offset %d", doc.Path, st.valueCol)
	}

	record.InjectedMUC = e.resolveField(st, vocab.MUC, dto.FieldMUC, record)
	record.InjectedOUC = e.resolveField(st, vocab.OUC, dto.FieldOUC, record)
	record.InjectedOffPeak = e.resolveField(st, vocab.OffPeak, dto.FieldOffPeak, record)

	e.applyLayoutFallback(doc, record)
	e.applyCorrection(doc, st, record)

	record.Injected = record.InjectedMUC != nil || record.InjectedOUC != nil || record.InjectedOffPeak != nil
	if len(record.Sources) == 0 {
		record.Sources = nil
	}
	return record, nil
}

// resolveField folds the text strategies in order, stopping at the first
// success.
func (e *Engine) resolveField(st *docState, label Label, field string, record *dto.InvoiceRecord) *float64 {
	for _, strat := range textStrategies {
		if val, ok := strat.run(st, label); ok {
			if e.cfg.Debug {
				log.Printf("[DEBUG] %s resolved by %s: %v", field, strat.name, val)
			}
			record.Sources[field] = strat.name
			return &val
		}
	}
	return nil
}

// applyLayoutFallback reconstructs page layout once, only when a monetary
// field or the identifier is still missing, and fills just the gaps.
func (e *Engine) applyLayoutFallback(doc Document, record *dto.InvoiceRecord) {
	missing := record.InjectedMUC == nil || record.InjectedOUC == nil || record.InjectedOffPeak == nil
	if (!missing && record.ConsumerUnit != "") || doc.Layout == nil {
		return
	}

	pages, err := doc.Layout.Pages()
	if err != nil {
		if e.cfg.Debug {
			log.Printf("[DEBUG] %s: layout extraction failed: %v", doc.Path, err)
		}
		return
	}

	res := ExtractByLayout(pages, e.cfg.Vocabulary)
	if record.InjectedMUC == nil && res.MUC != nil {
		record.InjectedMUC = res.MUC
		record.Sources[dto.FieldMUC] = StrategyLayout
	}
	if record.InjectedOUC == nil && res.OUC != nil {
		record.InjectedOUC = res.OUC
		record.Sources[dto.FieldOUC] = StrategyLayout
	}
	if record.InjectedOffPeak == nil && res.OffPeak != nil {
		record.InjectedOffPeak = res.OffPeak
		record.Sources[dto.FieldOffPeak] = StrategyLayout
	}
	if record.ConsumerUnit == "" && res.Identifier != "" {
		record.ConsumerUnit = res.Identifier
		record.Sources[dto.FieldIdentifier] = StrategyLayout
	}
}

// applyCorrection is the deliberate file-specific sharp edge: for documents
// whose filename carries the marker, the sum of the three known tributos
// values overrides the mUC field — but only when every one of them is
// present.
func (e *Engine) applyCorrection(doc Document, st *docState, record *dto.InvoiceRecord) {
	if e.cfg.CorrectionMarker == "" || !strings.Contains(doc.Path, e.cfg.CorrectionMarker) {
		return
	}
	if total, ok := SumKnownTaxValues(st.lines, e.cfg.KnownTaxValues); ok {
		if e.cfg.Debug {
			log.Printf("[DEBUG] %s: tributos correction overrides mUC with %v", doc.Path, total)
		}
		record.InjectedMUC = &total
		record.Sources[dto.FieldMUC] = StrategyCorrection
	}
}
