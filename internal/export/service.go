// Package export renders a finished analysis result as an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/common"
	"github.com/caseflow-ai/caseflow/internal/registry"
)

// Service is a tiny façade over the job registry that produces XLSX bytes.
type Service struct {
	registry registry.Store
	logger   *slog.Logger
}

func NewService(store registry.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{registry: store, logger: logger}
}

// ExportResultXLSX returns a workbook for a SUCCEEDED job: one sheet of
// prognosis scenarios, one of strategy steps, one of specialist outcomes.
func (s *Service) ExportResultXLSX(jobID uuid.UUID) ([]byte, error) {
	start := time.Now()

	job, err := s.registry.Get(jobID)
	if err != nil {
		return nil, common.WrapError(err, "load job")
	}
	if job.Status != constants.JobStatusSucceeded || job.Result == nil {
		return nil, common.NewAppError("EXPORT_NOT_READY",
			fmt.Sprintf("job %s is %s", jobID, job.Status), common.ErrValidation)
	}
	result := job.Result

	f := excelize.NewFile()

	const scenarioSheet = "Prognosis"
	idx, err := f.NewSheet(scenarioSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	writeRow(f, scenarioSheet, 1, []any{"Scenario", "Probability %", "Estimated Value (EUR)", "Estimated Duration (months)", "Summary"})
	row := 2
	for _, sc := range result.Prognosis.Scenarios {
		writeRow(f, scenarioSheet, row, []any{string(sc.Kind), sc.Probability, sc.EstimatedValueEUR, sc.EstimatedMonths, sc.Summary})
		row++
	}
	writeRow(f, scenarioSheet, row+1, []any{"Most likely", string(result.Prognosis.MostLikely)})
	writeRow(f, scenarioSheet, row+2, []any{"Recommendation", result.Prognosis.Recommendation})

	const strategySheet = "Strategy"
	if _, err := f.NewSheet(strategySheet); err != nil {
		return nil, err
	}
	writeRow(f, strategySheet, 1, []any{"Step", "Action", "Deadline", "Required Documents"})
	for i, step := range result.Strategy.Steps {
		docs := ""
		for j, d := range step.RequiredDocuments {
			if j > 0 {
				docs += "; "
			}
			docs += d
		}
		writeRow(f, strategySheet, i+2, []any{step.Order, step.Action, step.Deadline, docs})
	}

	const opinionSheet = "Specialists"
	if _, err := f.NewSheet(opinionSheet); err != nil {
		return nil, err
	}
	writeRow(f, opinionSheet, 1, []any{"Specialist", "Status", "Confidence", "Text / Reason"})
	ids := make([]string, 0, len(result.Outcomes))
	for id := range result.Outcomes {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for i, id := range ids {
		oc := result.Outcomes[constants.Specialist(id)]
		if oc.Opinion != nil {
			writeRow(f, opinionSheet, i+2, []any{id, "OK", oc.Opinion.Confidence, oc.Opinion.Text})
		} else {
			writeRow(f, opinionSheet, i+2, []any{id, "FAILED", "", oc.Failure.Reason})
		}
	}

	// Drop the default sheet so the workbook opens on Prognosis.
	_ = f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, common.WrapError(err, "write workbook")
	}

	s.logger.Info("export.xlsx.ok",
		"job_id", jobID,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
