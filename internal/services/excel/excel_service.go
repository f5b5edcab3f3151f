package excel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/its2darkai/Follow-up-crm/internal/models"

	"github.com/xuri/excelize/v2"
)

// Service renders ledger snapshots as Excel workbooks for the admin export.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ExportResult carries the rendered workbook and a suggested filename.
type ExportResult struct {
	Filename string
	Content  []byte
}

var logColumns = []string{
	"id", "agent_name", "agent_email", "client_name", "phone",
	"lead_status", "call_type", "follow_up_date", "follow_up_time",
	"description", "is_completed", "second_voice_requested", "created_at",
}

// ExportInteractionLogs renders the given ledger records into a workbook,
// newest first, with completed and overdue rows tinted for quick scanning.
func (s *Service) ExportInteractionLogs(logs []models.InteractionLog) (*ExportResult, error) {
	f := excelize.NewFile()

	paidStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"C6EFCE"}, // Green
			Pattern: 1,
		},
	})
	notInterestedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"D9D9D9"}, // Gray
			Pattern: 1,
		},
	})
	secondVoiceStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFC000"}, // Orange
			Pattern: 1,
		},
	})

	sheetName := "Interaction Logs"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(0)

	for i, col := range logColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowIdx, log := range logs {
		row := rowIdx + 2
		values := []interface{}{
			log.ID, log.AgentName, log.AgentEmail, log.ClientName, log.Phone,
			string(log.LeadStatus), string(log.CallType), log.FollowUpDate, log.FollowUpTime,
			log.Description, log.IsCompleted, log.SecondVoice,
			log.CreatedAt.Format(time.RFC3339),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}

		var style int
		switch log.LeadStatus {
		case models.StatusPaid:
			style = paidStyle
		case models.StatusNotInterested:
			style = notInterestedStyle
		case models.StatusSecondVoice:
			style = secondVoiceStyle
		default:
			continue
		}
		startCell, _ := excelize.CoordinatesToCellName(1, row)
		endCell, _ := excelize.CoordinatesToCellName(len(logColumns), row)
		f.SetCellStyle(sheetName, startCell, endCell, style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	return &ExportResult{
		Filename: fmt.Sprintf("interaction_logs_%d.xlsx", time.Now().Unix()),
		Content:  bytes.Clone(buf.Bytes()),
	}, nil
}
