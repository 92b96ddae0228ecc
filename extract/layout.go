package extract

import (
	"math"
	"sort"
	"strings"
)

// Glyph is one positioned text fragment as produced by the PDF decoder. X/Y
// are the glyph origin in page coordinates (origin at the bottom-left, so
// larger Y is higher on the page), W its advance width.
type Glyph struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// Span is a contiguous horizontal run of glyphs, the minimal addressable unit
// for column heuristics. Never mutated after construction.
type Span struct {
	Text string
	X0   float64
	X1   float64
	Y0   float64
	Y1   float64
}

// LayoutLine is a reconstructed text line with its vertical extent and
// ordered spans. Lines are produced per page, top of the page first.
type LayoutLine struct {
	Text     string
	TextNorm string
	Y0       float64
	Y1       float64
	Spans    []Span
}

func (l LayoutLine) yMid() float64 { return (l.Y0 + l.Y1) / 2.0 }

func (s Span) xMid() float64 { return (s.X0 + s.X1) / 2.0 }

const (
	// Glyphs within this vertical distance belong to the same line.
	rowTolerance = 3.0
	// Horizontal gap (in multiples of font size) that starts a new span.
	spanGapFactor = 1.0
	// Smaller gap that still separates words inside a span.
	wordGapFactor = 0.3
)

// BuildLayoutLines groups raw glyphs into ordered lines with spans. This is
// the coordinate-based view of the page, independent of the linear text
// stream, used when row/column structure was lost in plain extraction.
func BuildLayoutLines(glyphs []Glyph) []LayoutLine {
	var gs []Glyph
	for _, g := range glyphs {
		if strings.TrimSpace(g.Text) != "" {
			gs = append(gs, g)
		}
	}
	if len(gs) == 0 {
		return nil
	}

	// Top of the page first, then reading order.
	sort.SliceStable(gs, func(i, j int) bool {
		if math.Abs(gs[i].Y-gs[j].Y) > rowTolerance {
			return gs[i].Y > gs[j].Y
		}
		return gs[i].X < gs[j].X
	})

	var lines []LayoutLine
	var row []Glyph
	flush := func() {
		if len(row) == 0 {
			return
		}
		if ln, ok := buildLine(row); ok {
			lines = append(lines, ln)
		}
		row = row[:0]
	}

	for _, g := range gs {
		if len(row) > 0 && math.Abs(g.Y-row[0].Y) > rowTolerance {
			flush()
		}
		row = append(row, g)
	}
	flush()
	return lines
}

func buildLine(row []Glyph) (LayoutLine, bool) {
	var spans []Span
	var cur strings.Builder
	var curX0, curX1, curY0, curY1 float64

	endSpan := func() {
		text := cur.String()
		if strings.TrimSpace(text) != "" {
			spans = append(spans, Span{Text: text, X0: curX0, X1: curX1, Y0: curY0, Y1: curY1})
		}
		cur.Reset()
	}

	for i, g := range row {
		fontSize := g.FontSize
		if fontSize <= 0 {
			fontSize = 10
		}
		if i == 0 {
			curX0, curX1 = g.X, g.X+g.W
			curY0, curY1 = g.Y, g.Y+fontSize
			cur.WriteString(g.Text)
			continue
		}
		gap := g.X - curX1
		switch {
		case gap > spanGapFactor*fontSize+rowTolerance:
			endSpan()
			curX0 = g.X
			curY0, curY1 = g.Y, g.Y+fontSize
			cur.WriteString(g.Text)
		case gap > wordGapFactor*fontSize:
			cur.WriteString(" ")
			cur.WriteString(g.Text)
		default:
			cur.WriteString(g.Text)
		}
		curX1 = g.X + g.W
		curY0 = math.Min(curY0, g.Y)
		curY1 = math.Max(curY1, g.Y+fontSize)
	}
	endSpan()

	if len(spans) == 0 {
		return LayoutLine{}, false
	}

	parts := make([]string, len(spans))
	y0, y1 := spans[0].Y0, spans[0].Y1
	for i, sp := range spans {
		parts[i] = sp.Text
		y0 = math.Min(y0, sp.Y0)
		y1 = math.Max(y1, sp.Y1)
	}
	text := strings.Join(parts, " ")
	return LayoutLine{
		Text:     text,
		TextNorm: NormalizeText(text),
		Y0:       y0,
		Y1:       y1,
		Spans:    spans,
	}, true
}

// Logical column names for the header column map.
const (
	colQuantity  = "quant"
	colUnitPrice = "preco"
	colValue     = "valor"
	colTax       = "pis"
	colTaxBase   = "base"
	colTaxAmount = "icms"
	colTariff    = "tarifa"
)

var allColumns = []string{
	colQuantity, colUnitPrice, colValue, colTax, colTaxBase, colTaxAmount, colTariff,
}

// HeaderColumnMap maps a logical column name to the inferred horizontal
// midpoint of its header; absent when the keyword never shows up on the page.
type HeaderColumnMap map[string]float64

// LocateHeaderColumns scans span text for the known header keywords and
// records the midpoint of the FIRST matching span per column, stopping early
// once every column is placed. Keyword-based, so it can silently come back
// empty on header-less pages.
func LocateHeaderColumns(lines []LayoutLine) HeaderColumnMap {
	cols := make(HeaderColumnMap)
	set := func(name string, sp Span) {
		if _, ok := cols[name]; !ok {
			cols[name] = sp.xMid()
		}
	}
	for _, ln := range lines {
		for _, sp := range ln.Spans {
			txt := NormalizeText(sp.Text)
			if strings.Contains(txt, "valor") {
				set(colValue, sp)
			}
			if strings.Contains(txt, "preco") && strings.Contains(txt, "unit") {
				set(colUnitPrice, sp)
			}
			if strings.Contains(txt, "quant") {
				set(colQuantity, sp)
			}
			if strings.Contains(txt, "pis") && strings.Contains(txt, "cofins") {
				set(colTax, sp)
			}
			if strings.Contains(txt, "base") && strings.Contains(txt, "icms") {
				set(colTaxBase, sp)
			}
			if strings.Contains(txt, "icms (r$") || (strings.Contains(txt, "icms") && strings.Contains(txt, "r$")) {
				set(colTaxAmount, sp)
			}
			if strings.Contains(txt, "tarifa") && strings.Contains(txt, "unit") {
				set(colTariff, sp)
			}
		}
		if len(cols) == len(allColumns) {
			break
		}
	}
	return cols
}

const (
	// How far a numeric span may sit from the target column midpoint.
	columnTolerance = 50.0
	// A candidate must be this much closer to the target column than to any
	// competing column, disambiguating quantity vs. unit price vs. value.
	columnMargin = 10.0
	// Vertical ceiling for label-to-value association.
	maxAssociationDistance = 1000.0
)

// numberNearX extracts the numeric span value closest to targetX on one
// line, rejecting spans nearer to a competing column. With no target column
// it prefers the rightmost number.
func numberNearX(line LayoutLine, targetX float64, hasTarget bool, avoid []float64, tolerance float64) (float64, bool) {
	bestVal := 0.0
	bestDist := math.Inf(1)
	found := false

	for _, sp := range line.Spans {
		m := currencyRegex.FindString(sp.Text)
		if m == "" {
			m = numberBRRegex.FindString(sp.Text)
		}
		if m == "" {
			m = numberGenericRegex.FindString(sp.Text)
		}
		if m == "" {
			continue
		}
		val, err := ParseNumber(m)
		if err != nil {
			continue
		}

		xCenter := sp.xMid()
		var dist float64
		if !hasTarget {
			dist = -xCenter
		} else {
			dist = math.Abs(xCenter - targetX)
			if dist > tolerance {
				continue
			}
		}
		if len(avoid) > 0 && hasTarget {
			minOther := math.Inf(1)
			for _, ax := range avoid {
				minOther = math.Min(minOther, math.Abs(xCenter-ax))
			}
			if !(dist+columnMargin <= minOther) {
				continue
			}
		}
		if dist < bestDist {
			bestDist = dist
			bestVal = val
			found = true
		}
	}
	return bestVal, found
}

// columnCandidate is a numeric span attributed to the quantity column,
// waiting for a label to claim it.
type columnCandidate struct {
	val  float64
	line int
	yMid float64
}

// collectColumnValues gathers every number on the page that lies in the
// quantity column and clearly closer to it than to the competing columns.
func collectColumnValues(lines []LayoutLine, cols HeaderColumnMap) []columnCandidate {
	quantX, hasQuant := cols[colQuantity]
	var avoid []float64
	for _, name := range allColumns {
		if name == colQuantity {
			continue
		}
		if x, ok := cols[name]; ok {
			avoid = append(avoid, x)
		}
	}

	var out []columnCandidate
	for j, ln := range lines {
		if v, ok := numberNearX(ln, quantX, hasQuant, avoid, columnTolerance); ok {
			out = append(out, columnCandidate{val: v, line: j, yMid: ln.yMid()})
		}
	}
	return out
}

// findLayoutLabelLines returns indices of layout lines matching the label.
func findLayoutLabelLines(lines []LayoutLine, label Label) []int {
	var idxs []int
	for i, ln := range lines {
		if ContainsTokenGroups(ln.TextNorm, label) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// associateLabelValues assigns to each label line the UNUSED candidate with
// the smallest vertical-midpoint distance (bounded), marks its source line
// used so no numeric span serves two labels, and sums the assignments.
func associateLabelValues(lines []LayoutLine, labelIdxs []int, candidates []columnCandidate, used map[int]bool) (float64, bool) {
	total := 0.0
	found := false

	for _, idx := range labelIdxs {
		yTarget := lines[idx].yMid()
		bestLine := -1
		bestVal := 0.0
		bestDy := math.Inf(1)

		for _, c := range candidates {
			if used[c.line] {
				continue
			}
			dy := math.Abs(c.yMid - yTarget)
			if dy > maxAssociationDistance {
				continue
			}
			if dy < bestDy {
				bestDy = dy
				bestVal = c.val
				bestLine = c.line
			}
		}

		if bestLine >= 0 {
			used[bestLine] = true
			total += bestVal
			found = true
		}
	}
	return total, found
}

// findIdentifierInLayout recovers the consumer unit from layout lines when
// the text strategies failed, joining digits even when the decoder split
// them into separate glyph runs.
func findIdentifierInLayout(lines []LayoutLine) string {
	joinDigits := func(s string) string {
		return strings.Join(digitRegex.FindAllString(s, -1), "")
	}

	// 1) "Código do Cliente" block, value on the same or following lines.
	for i, ln := range lines {
		t := ln.TextNorm
		if (strings.Contains(t, "codigo") || strings.Contains(t, "cod.") || strings.Contains(t, "cod ")) &&
			strings.Contains(t, "cliente") {
			for j := i; j < min(len(lines), i+5); j++ {
				if digits := joinDigits(lines[j].Text); len(digits) >= 8 {
					return digits
				}
			}
		}
	}
	// 2) "Unidade Consumidora" on the line itself.
	for _, ln := range lines {
		t := ln.TextNorm
		if strings.Contains(t, "unidade") && strings.Contains(t, "consumidora") {
			if digits := joinDigits(ln.Text); len(digits) >= 8 {
				return digits
			}
		}
	}
	// 3) "Código da Instalação" block.
	for i, ln := range lines {
		t := ln.TextNorm
		if strings.Contains(t, "codigo") && (strings.Contains(t, "instalacao") || strings.Contains(t, "instala")) {
			for j := i; j < min(len(lines), i+5); j++ {
				if digits := joinDigits(lines[j].Text); len(digits) >= 8 {
					return digits
				}
			}
		}
	}
	return ""
}

// LayoutResult carries whatever the coordinate-based pass managed to fill.
type LayoutResult struct {
	MUC        *float64
	OUC        *float64
	OffPeak    *float64
	Identifier string
}

// ExtractByLayout runs the full coordinate-based fallback over all pages:
// locate header columns, collect quantity-column numbers, associate them to
// discount label lines by vertical proximity, and recover the identifier if
// still missing. Only invoked when text strategies left gaps.
func ExtractByLayout(pages [][]Glyph, vocab Vocabulary) LayoutResult {
	var res LayoutResult

	for _, glyphs := range pages {
		lines := BuildLayoutLines(glyphs)
		if len(lines) == 0 {
			continue
		}
		cols := LocateHeaderColumns(lines)
		candidates := collectColumnValues(lines, cols)
		used := make(map[int]bool)

		if res.Identifier == "" {
			res.Identifier = findIdentifierInLayout(lines)
		}

		probe := func(label Label) *float64 {
			idxs := findLayoutLabelLines(lines, label)
			if total, ok := associateLabelValues(lines, idxs, candidates, used); ok {
				return &total
			}
			return nil
		}

		if res.MUC == nil {
			res.MUC = probe(vocab.MUC)
		}
		if res.OUC == nil {
			res.OUC = probe(vocab.OUC)
		}
		if res.OffPeak == nil {
			res.OffPeak = probe(vocab.OffPeak)
		}
	}
	return res
}
