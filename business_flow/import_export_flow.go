package businessflow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/csvcodec"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

// ImportExportFlow defines bulk data exchange operations
type ImportExportFlow interface {
	ImportLeads(ctx context.Context, req *dto.ImportLeadsRequest, metadata *ClientMetadata) (*dto.ImportLeadsResponse, error)
	ExportLeads(ctx context.Context) (*dto.ExportLeadsResponse, error)
	ExportWorkbook(ctx context.Context) (*dto.ExportWorkbookResponse, error)
	BulkExport(ctx context.Context) (*dto.BulkExportResponse, error)
}

// ImportExportFlowImpl implements ImportExportFlow
type ImportExportFlowImpl struct {
	leadRepo   repository.LeadRepository
	configRepo repository.AppConfigRepository
	exportDir  string
}

// NewImportExportFlow creates a new import/export flow
func NewImportExportFlow(
	leadRepo repository.LeadRepository,
	configRepo repository.AppConfigRepository,
	exportDir string,
) ImportExportFlow {
	return &ImportExportFlowImpl{
		leadRepo:   leadRepo,
		configRepo: configRepo,
		exportDir:  exportDir,
	}
}

func (f *ImportExportFlowImpl) ImportLeads(ctx context.Context, req *dto.ImportLeadsRequest, metadata *ClientMetadata) (*dto.ImportLeadsResponse, error) {
	if req == nil || strings.TrimSpace(req.CSV) == "" {
		return nil, NewBusinessError("EMPTY_IMPORT", "import text is empty", ErrEmptyImport)
	}

	rows, skipped := csvcodec.ParseLeads(req.CSV)

	imported := 0
	for _, row := range rows {
		lead := models.Lead{
			Company:   row.Company,
			State:     row.State,
			Website:   row.Website,
			Email:     row.Email,
			Phone:     row.Phone,
			Industry:  row.Industry,
			Comments:  row.Comments,
			DateAdded: utils.UTCNow(),
		}
		if err := f.leadRepo.Save(ctx, &lead); err != nil {
			log.Printf("lead import: failed to save %q: %v", row.Company, err)
			skipped++
			continue
		}
		imported++
	}

	return &dto.ImportLeadsResponse{
		Message:  "Leads imported",
		Imported: imported,
		Skipped:  skipped,
	}, nil
}

func (f *ImportExportFlowImpl) ExportLeads(ctx context.Context) (*dto.ExportLeadsResponse, error) {
	leads, err := f.leadRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}
	if len(leads) == 0 {
		return nil, NewBusinessError("NOTHING_TO_EXPORT", "No leads to export", ErrNothingToExport)
	}

	records := make([][10]string, 0, len(leads))
	for _, lead := range leads {
		records = append(records, exportRecord(lead))
	}

	return &dto.ExportLeadsResponse{
		Message:  "Leads exported",
		Filename: fmt.Sprintf("leads-export-%s.csv", utils.UTCNow().Format("2006-01-02")),
		CSV:      csvcodec.SerializeLeads(records),
	}, nil
}

// ExportWorkbook writes an xlsx workbook with one sheet per state. Leads
// without a state land on an "Unknown" sheet.
func (f *ImportExportFlowImpl) ExportWorkbook(ctx context.Context) (*dto.ExportWorkbookResponse, error) {
	leads, err := f.leadRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}
	if len(leads) == 0 {
		return nil, NewBusinessError("NOTHING_TO_EXPORT", "No leads to export", ErrNothingToExport)
	}

	byState := make(map[string][]*models.Lead)
	var states []string
	for _, lead := range leads {
		state := lead.State
		if state == "" {
			state = "Unknown"
		}
		if _, ok := byState[state]; !ok {
			states = append(states, state)
		}
		byState[state] = append(byState[state], lead)
	}

	wb := excelize.NewFile()
	defer func() {
		if closeErr := wb.Close(); closeErr != nil {
			log.Printf("workbook export: close failed: %v", closeErr)
		}
	}()

	header := csvcodec.LeadExportHeader()
	for i, state := range states {
		sheet := sanitizeSheetName(state)
		if i == 0 {
			if err := wb.SetSheetName(wb.GetSheetName(0), sheet); err != nil {
				return nil, NewBusinessError("WORKBOOK_EXPORT_FAILED", "Failed to build workbook", err)
			}
		} else {
			if _, err := wb.NewSheet(sheet); err != nil {
				return nil, NewBusinessError("WORKBOOK_EXPORT_FAILED", "Failed to build workbook", err)
			}
		}

		for col, name := range header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := wb.SetCellValue(sheet, cell, name); err != nil {
				return nil, NewBusinessError("WORKBOOK_EXPORT_FAILED", "Failed to build workbook", err)
			}
		}
		for rowIdx, lead := range byState[state] {
			record := exportRecord(lead)
			for col, value := range record {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err := wb.SetCellValue(sheet, cell, value); err != nil {
					return nil, NewBusinessError("WORKBOOK_EXPORT_FAILED", "Failed to build workbook", err)
				}
			}
		}
	}

	filename := fmt.Sprintf("leads-export-%s.xlsx", utils.UTCNow().Format("2006-01-02"))
	path := filepath.Join(f.exportDir, filename)
	if err := wb.SaveAs(path); err != nil {
		return nil, NewBusinessError("WORKBOOK_EXPORT_FAILED", "Failed to write workbook", err)
	}

	return &dto.ExportWorkbookResponse{
		Message:  "Workbook exported",
		Filename: filename,
		Sheets:   len(states),
		Leads:    len(leads),
	}, nil
}

func (f *ImportExportFlowImpl) BulkExport(ctx context.Context) (*dto.BulkExportResponse, error) {
	leads, err := f.leadRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}

	out := &dto.BulkExportResponse{
		Leads:      ToLeadDTOs(leads),
		ExportDate: utils.UTCNowRFC3339(),
	}

	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("CONFIG_LOOKUP_FAILED", "Failed to load settings", err)
	}
	if cfg != nil {
		dtoCfg := ToAppConfigDTO(*cfg)
		out.Config = &dtoCfg
	}

	return out, nil
}

func exportRecord(lead *models.Lead) [10]string {
	lastCalled := ""
	if lead.LastCalled != nil {
		lastCalled = lead.LastCalled.Format("2006-01-02")
	}
	return [10]string{
		lead.Company,
		lead.Website,
		lastCalled,
		lead.State,
		lead.Industry,
		lead.Phone,
		lead.Contact,
		lead.Email,
		lead.Comments,
		lead.Notes,
	}
}

// sanitizeSheetName strips characters Excel rejects in sheet names and
// trims to the 31-char limit
func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "")
	cleaned := replacer.Replace(name)
	if cleaned == "" {
		cleaned = "Unknown"
	}
	if len(cleaned) > 31 {
		cleaned = cleaned[:31]
	}
	return cleaned
}
