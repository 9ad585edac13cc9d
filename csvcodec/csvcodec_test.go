package csvcodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	t.Run("plain fields", func(t *testing.T) {
		got := ParseLine("Acme,TX,acme.com")
		assert.Equal(t, []string{"Acme", "TX", "acme.com"}, got)
	})

	t.Run("quoted field with comma", func(t *testing.T) {
		got := ParseLine(`"Acme, Inc",TX,acme.com`)
		assert.Equal(t, []string{"Acme, Inc", "TX", "acme.com"}, got)
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		got := ParseLine("  Acme  , TX ,  acme.com ")
		assert.Equal(t, []string{"Acme", "TX", "acme.com"}, got)
	})

	t.Run("empty fields preserved", func(t *testing.T) {
		got := ParseLine("Acme,,TX,")
		assert.Equal(t, []string{"Acme", "", "TX", ""}, got)
	})
}

func TestParseReasonLine(t *testing.T) {
	t.Run("reason with embedded commas", func(t *testing.T) {
		got := ParseReasonLine(`Acme,TX,acme.com,(512) 555-0101,rejected,"too small, no budget, call later"`)
		require.Len(t, got, 6)
		assert.Equal(t, "too small, no budget, call later", got[5])
	})

	t.Run("unquoted reason with commas", func(t *testing.T) {
		got := ParseReasonLine("Acme,TX,acme.com,555,rejected,no fit, wrong region")
		require.Len(t, got, 6)
		assert.Equal(t, "no fit, wrong region", got[5])
	})

	t.Run("short line", func(t *testing.T) {
		got := ParseReasonLine("Acme,TX,acme.com")
		assert.Len(t, got, 3)
	})
}

func TestParseLeads(t *testing.T) {
	t.Run("positional columns", func(t *testing.T) {
		text := strings.Join([]string{
			"Company,State,Website,Email,Phone,Industry,Comments",
			`"Acme, Inc",TX,acme.com,sales@acme.com,(512) 555-0101,Plumbing,big account`,
		}, "\n")

		rows, skipped := ParseLeads(text)
		require.Len(t, rows, 1)
		assert.Zero(t, skipped)
		assert.Equal(t, "Acme, Inc", rows[0].Company)
		assert.Equal(t, "TX", rows[0].State)
		assert.Equal(t, "acme.com", rows[0].Website)
		assert.Equal(t, "sales@acme.com", rows[0].Email)
		assert.Equal(t, "(512) 555-0101", rows[0].Phone)
		assert.Equal(t, "Plumbing", rows[0].Industry)
		assert.Equal(t, "big account", rows[0].Comments)
	})

	t.Run("header names ignored", func(t *testing.T) {
		text := "A,B,C\nAcme,TX,acme.com"
		rows, skipped := ParseLeads(text)
		require.Len(t, rows, 1)
		assert.Zero(t, skipped)
		assert.Equal(t, "Acme", rows[0].Company)
	})

	t.Run("short and empty-company rows skipped", func(t *testing.T) {
		text := strings.Join([]string{
			"Company,State,Website",
			"Acme,TX,acme.com",
			"OnlyOneField",
			",TX,nobody.com",
		}, "\n")

		rows, skipped := ParseLeads(text)
		assert.Len(t, rows, 1)
		assert.Equal(t, 2, skipped)
	})

	t.Run("blank lines ignored", func(t *testing.T) {
		text := "Company,State\n\nAcme,TX\n\n"
		rows, skipped := ParseLeads(text)
		assert.Len(t, rows, 1)
		assert.Zero(t, skipped)
	})

	t.Run("empty input", func(t *testing.T) {
		rows, skipped := ParseLeads("")
		assert.Empty(t, rows)
		assert.Zero(t, skipped)
	})
}

func TestParseProspects(t *testing.T) {
	t.Run("six columns with reason remainder", func(t *testing.T) {
		text := strings.Join([]string{
			"Lead,State,Website,Phones,Status,Reason",
			`Acme,TX,acme.com,(512) 555-0101; (512) 555-0102,rejected,"no budget, revisit Q3"`,
		}, "\n")

		rows, skipped := ParseProspects(text)
		require.Len(t, rows, 1)
		assert.Zero(t, skipped)
		assert.Equal(t, "Acme", rows[0].Company)
		assert.Equal(t, "(512) 555-0101; (512) 555-0102", rows[0].Phone)
		assert.Equal(t, "rejected", rows[0].Status)
		assert.Equal(t, "no budget, revisit Q3", rows[0].Reason)
	})

	t.Run("short rows counted", func(t *testing.T) {
		text := "Lead,State,Website,Phones,Status,Reason\nAcme,TX,acme.com"
		rows, skipped := ParseProspects(text)
		assert.Empty(t, rows)
		assert.Equal(t, 1, skipped)
	})

	t.Run("missing company counted", func(t *testing.T) {
		text := "Lead,State,Website,Phones,Status,Reason\n,TX,acme.com,555,new,fine"
		rows, skipped := ParseProspects(text)
		assert.Empty(t, rows)
		assert.Equal(t, 1, skipped)
	})
}

func TestSerializeLeads(t *testing.T) {
	t.Run("fixed header and quoting", func(t *testing.T) {
		out := SerializeLeads([][10]string{
			{"Acme", "acme.com", "2025-01-02", "TX", "Plumbing", "(512) 555-0101", "Jane", "jane@acme.com", "good", "called twice"},
		})

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Company,Website,Last Called,State,Industry,Phone,Contact,Email,Comments,Notes", lines[0])
		assert.Equal(t, `"Acme","acme.com","2025-01-02","TX","Plumbing","(512) 555-0101","Jane","jane@acme.com","good","called twice"`, lines[1])
	})

	t.Run("round trip for quote-free fields", func(t *testing.T) {
		out := SerializeLeads([][10]string{
			{"Acme, Inc", "acme.com", "", "TX", "", "", "", "", "", ""},
		})

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		parsed := ParseLine(lines[1])
		require.Len(t, parsed, 10)
		assert.Equal(t, "Acme, Inc", parsed[0])
		assert.Equal(t, "TX", parsed[3])
	})

	t.Run("no records", func(t *testing.T) {
		out := SerializeLeads(nil)
		assert.Equal(t, "Company,Website,Last Called,State,Industry,Phone,Contact,Email,Comments,Notes\n", out)
	})
}
