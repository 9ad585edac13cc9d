package businessflow

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
)

func newImportExportFlowForTest(t *testing.T) (*ImportExportFlowImpl, *fakeLeadRepo, *fakeConfigRepo) {
	t.Helper()
	leadRepo := newFakeLeadRepo()
	configRepo := &fakeConfigRepo{}
	flow := &ImportExportFlowImpl{
		leadRepo:   leadRepo,
		configRepo: configRepo,
		exportDir:  t.TempDir(),
	}
	return flow, leadRepo, configRepo
}

func TestImportLeads(t *testing.T) {
	ctx := context.Background()

	t.Run("imports positional csv rows", func(t *testing.T) {
		flow, leadRepo, _ := newImportExportFlowForTest(t)

		csv := "Company,State,Website,Email,Phone,Industry,Comments\n" +
			"Acme Plumbing,TX,acme.example,info@acme.example,555-0101,Plumbing,big fleet\n" +
			",CA,no-name.example,x@example.com,555-0102,Paint,skipped row\n" +
			"Bravo Electric,WA,bravo.example,hi@bravo.example,555-0103,Electrical,\n"

		resp, err := flow.ImportLeads(ctx, &dto.ImportLeadsRequest{CSV: csv}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Imported)
		assert.Equal(t, 1, resp.Skipped)

		leads, _ := leadRepo.List(ctx)
		require.Len(t, leads, 2)
		assert.Equal(t, "Acme Plumbing", leads[0].Company)
		assert.Equal(t, "big fleet", leads[0].Comments)
		assert.Nil(t, leads[0].LastCalled)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		flow, _, _ := newImportExportFlowForTest(t)
		_, err := flow.ImportLeads(ctx, &dto.ImportLeadsRequest{CSV: "\n\n"}, nil)
		require.Error(t, err)
		assert.True(t, IsEmptyImport(err))
	})
}

func TestExportLeads(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the ten-column csv", func(t *testing.T) {
		flow, leadRepo, _ := newImportExportFlowForTest(t)

		called := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
		require.NoError(t, leadRepo.Save(ctx, &models.Lead{
			Company:    "Export Me",
			State:      "TX",
			Phone:      "555-0100",
			LastCalled: &called,
		}))

		resp, err := flow.ExportLeads(ctx)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.Filename, "leads-export-"))
		assert.True(t, strings.HasSuffix(resp.Filename, ".csv"))

		lines := strings.Split(strings.TrimRight(resp.CSV, "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Company,Website,Last Called,State,Industry,Phone,Contact,Email,Comments,Notes", lines[0])
		assert.Contains(t, lines[1], `"Export Me"`)
		assert.Contains(t, lines[1], `"2025-02-01"`)
	})

	t.Run("nothing to export", func(t *testing.T) {
		flow, _, _ := newImportExportFlowForTest(t)
		_, err := flow.ExportLeads(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNothingToExport)
	})
}

func TestExportWorkbook(t *testing.T) {
	ctx := context.Background()
	flow, leadRepo, _ := newImportExportFlowForTest(t)

	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Texan One", State: "TX"}))
	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Texan Two", State: "TX"}))
	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Washingtonian", State: "WA"}))
	require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Stateless Co"}))

	resp, err := flow.ExportWorkbook(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Sheets)
	assert.Equal(t, 4, resp.Leads)

	wb, err := excelize.OpenFile(filepath.Join(flow.exportDir, resp.Filename))
	require.NoError(t, err)
	defer wb.Close()

	sheets := wb.GetSheetList()
	assert.ElementsMatch(t, []string{"TX", "WA", "Unknown"}, sheets)

	company, err := wb.GetCellValue("TX", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Texan One", company)

	header, err := wb.GetCellValue("WA", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Company", header)
}

func TestBulkExport(t *testing.T) {
	ctx := context.Background()

	t.Run("includes config when seeded", func(t *testing.T) {
		flow, leadRepo, configRepo := newImportExportFlowForTest(t)
		require.NoError(t, leadRepo.Save(ctx, &models.Lead{Company: "Snapshot Co"}))
		configRepo.cfg = &models.AppConfig{ID: models.AppConfigID, CallQueueDays: 14}

		resp, err := flow.BulkExport(ctx)
		require.NoError(t, err)
		require.Len(t, resp.Leads, 1)
		require.NotNil(t, resp.Config)
		assert.Equal(t, 14, resp.Config.CallQueueDays)
		assert.NotEmpty(t, resp.ExportDate)
	})

	t.Run("empty database still snapshots", func(t *testing.T) {
		flow, _, _ := newImportExportFlowForTest(t)

		resp, err := flow.BulkExport(ctx)
		require.NoError(t, err)
		assert.Empty(t, resp.Leads)
		assert.Nil(t, resp.Config)
	})
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "TX", sanitizeSheetName("TX"))
	assert.Equal(t, "NorthDakota", sanitizeSheetName("North/Dakota"))
	assert.Equal(t, "Unknown", sanitizeSheetName("[]"))
	assert.Len(t, sanitizeSheetName(strings.Repeat("x", 40)), 31)
}
