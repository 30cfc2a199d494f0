package pipeline

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"reponex/internal"
	"reponex/internal/util"
)

var (
	reAnchor  = regexp.MustCompile(`^\d{10,14}$`)
	reNumeric = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

	// Fixed column order of the known sales report: code, quantity sold,
	// description, four money columns, profit percent, stock.
	reSalesRow = regexp.MustCompile(
		`(\d+)\s+(\d+\.\d{1,2})\s+(.+?)\s+` +
			`(\d{1,3}(?:,\d{3})*\.\d{2})\s+(\d{1,3}(?:,\d{3})*\.\d{2})\s+` +
			`(\d{1,3}(?:,\d{3})*\.\d{2})\s+(\d{1,3}(?:,\d{3})*\.\d{2})\s+` +
			`(\d{1,3}(?:\.\d{2})?)\s*%\s+(\d+\.\d{2})`)
)

// ExtractPDFText returns the concatenated per-page text of a PDF, pages
// joined by a space. Token order follows the extraction layout, which is not
// guaranteed to be reading order on multi-column pages; the tokenizers below
// are built around that.
func ExtractPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// TokenizeProductRows recovers product rows from a whitespace-delimited token
// stream. A 10-14 digit token anchors a candidate row; the token after it is
// the quantity sold and also the first of the seven numeric slots; following
// tokens are classified as numeric (after stripping thousands separators and
// a trailing percent sign) or description text. An anchor that does not yield
// exactly 7 numerics is a false positive: the scan resumes one token later
// and nothing is emitted. Best-effort; a digit-heavy description can
// mis-segment a row and no row is rejected after the fact.
func TokenizeProductRows(tokens []string) []internal.ProductRow {
	out := []internal.ProductRow{}

	i := 0
	// Lookahead margin: a real row needs an anchor plus quantity plus a run
	// of numerics behind it.
	for i <= len(tokens)-10 {
		if !reAnchor.MatchString(tokens[i]) {
			i++
			continue
		}

		qty := math.NaN()
		if parsed, err := strconv.ParseFloat(tokens[i+1], 64); err == nil {
			qty = parsed
		}

		var numbers [7]float64
		found := 0
		var desc []string
		j := i + 1
		if math.IsNaN(qty) {
			// The quantity token is consumed either way; a non-numeric one
			// must not leak into the description.
			j = i + 2
		}
		for j < len(tokens) && found < 7 {
			candidate := strings.TrimSuffix(strings.ReplaceAll(tokens[j], ",", ""), "%")
			if reNumeric.MatchString(candidate) {
				numbers[found], _ = strconv.ParseFloat(candidate, 64)
				found++
			} else {
				desc = append(desc, tokens[j])
			}
			j++
		}

		if found < 7 {
			i++
			continue
		}

		out = append(out, internal.ProductRow{
			Code:         tokens[i],
			QuantitySold: qty,
			Description:  strings.Join(desc, " "),
			Numbers:      numbers,
			Stock:        numbers[6],
		})
		i = j
	}

	return out
}

// TokenizeSalesReport applies the strict fixed-pattern dialect to the full
// report text. A layout that deviates from the expected column order simply
// yields no rows.
func TokenizeSalesReport(text string) []internal.ProductRow {
	out := []internal.ProductRow{}
	for _, m := range reSalesRow.FindAllStringSubmatch(text, -1) {
		qty, _ := strconv.ParseFloat(m[2], 64)
		var numbers [7]float64
		numbers[0] = qty
		for k, capture := range m[4:10] {
			numbers[k+1], _ = strconv.ParseFloat(util.NormalizeNumericToken(capture), 64)
		}
		out = append(out, internal.ProductRow{
			Code:         m[1],
			QuantitySold: qty,
			Description:  strings.TrimSpace(m[3]),
			Numbers:      numbers,
			Stock:        numbers[6],
		})
	}
	return out
}

// Tokens splits extracted PDF text into its whitespace-delimited tokens.
func Tokens(text string) []string {
	return strings.Fields(text)
}
