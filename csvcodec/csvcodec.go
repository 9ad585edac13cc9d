// Package csvcodec parses and serializes the CRM's comma-separated exchange
// formats. The codec intentionally mirrors the historical import/export
// behavior: a double quote toggles quoting, fields are trimmed, and escaped
// embedded quotes ("") are NOT handled on either side. That asymmetry-free
// limitation is part of the format contract, not a bug to fix here.
package csvcodec

import (
	"log"
	"strings"
)

// Lead export column order. Import of leads is positional as well but uses
// a different column set (see ParseLeads).
var leadExportHeader = []string{
	"Company", "Website", "Last Called", "State", "Industry",
	"Phone", "Contact", "Email", "Comments", "Notes",
}

// prospectFieldCount is the fixed column count for prospect CSVs:
// Lead, State, Website, Phones, Status, Reason
const prospectFieldCount = 6

// LeadRow is one positional lead import row:
// Company, State, Website, Email, Phone, Industry, Comments
type LeadRow struct {
	Company  string
	State    string
	Website  string
	Email    string
	Phone    string
	Industry string
	Comments string
}

// ProspectRow is one positional prospect import row:
// Lead, State, Website, Phones, Status, Reason
type ProspectRow struct {
	Company string
	State   string
	Website string
	Phone   string
	Status  string
	Reason  string
}

// ParseLine splits a single CSV line into trimmed fields. A double quote
// toggles the in-quotes flag; commas inside quotes are literal. Surrounding
// quotes are stripped from each finished field.
func ParseLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))

	for i, field := range result {
		result[i] = stripMatchingQuotes(field)
	}
	return result
}

// ParseReasonLine splits a prospect CSV line. Free-text reason fields often
// contain unescaped commas, so once five fields are consumed the remainder
// of the line (minus surrounding quotes) becomes the sixth field verbatim.
func ParseReasonLine(line string) []string {
	line = strings.TrimSpace(line)

	var result []string
	var current strings.Builder
	inQuotes := false

	for i, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteRune(ch) // keep for strip below
		case ch == ',' && !inQuotes:
			result = append(result, stripMatchingQuotes(strings.TrimSpace(current.String())))
			current.Reset()

			if len(result) == prospectFieldCount-1 {
				remaining := strings.TrimSpace(line[i+len(","):])
				result = append(result, stripMatchingQuotes(remaining))
				return result
			}
		default:
			current.WriteRune(ch)
		}
	}

	result = append(result, stripMatchingQuotes(strings.TrimSpace(current.String())))
	return result
}

// ParseLeads parses lead CSV text. Line 0 is a header whose names are
// ignored; columns are positional. Rows with fewer fields than the header
// or with an empty company are counted as skipped.
func ParseLeads(text string) (rows []LeadRow, skipped int) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, 0
	}

	header := ParseLine(lines[0])

	for _, line := range lines[1:] {
		values := ParseLine(line)
		if len(values) < len(header) {
			skipped++
			continue
		}

		row := LeadRow{
			Company:  fieldAt(values, 0),
			State:    fieldAt(values, 1),
			Website:  fieldAt(values, 2),
			Email:    fieldAt(values, 3),
			Phone:    fieldAt(values, 4),
			Industry: fieldAt(values, 5),
			Comments: fieldAt(values, 6),
		}
		if row.Company == "" {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// ParseProspects parses prospect CSV text with the fixed six-column layout.
// Rows with fewer than six raw tokens or without a company are skipped with
// a logged warning.
func ParseProspects(text string) (rows []ProspectRow, skipped int) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, 0
	}

	for i, line := range lines[1:] {
		values := ParseReasonLine(line)
		if len(values) < prospectFieldCount {
			log.Printf("prospect csv: skipping row %d, insufficient fields (%d)", i+1, len(values))
			skipped++
			continue
		}

		row := ProspectRow{
			Company: fieldAt(values, 0),
			State:   fieldAt(values, 1),
			Website: fieldAt(values, 2),
			Phone:   fieldAt(values, 3),
			Status:  fieldAt(values, 4),
			Reason:  fieldAt(values, 5),
		}
		if row.Company == "" {
			log.Printf("prospect csv: skipping row %d, no company name", i+1)
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// SerializeLeads renders the fixed ten-column export. Every field is
// quote-wrapped; embedded quotes are not escaped, matching the parse side.
func SerializeLeads(records [][10]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(leadExportHeader, ","))
	b.WriteByte('\n')

	for _, record := range records {
		for i, field := range record {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(field)
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// LeadExportHeader returns a copy of the export column names
func LeadExportHeader() []string {
	header := make([]string, len(leadExportHeader))
	copy(header, leadExportHeader)
	return header
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func stripMatchingQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

func fieldAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
