package directory

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/sajili/core/student"
)

const exportSheet = "Students"

var exportHeader = []interface{}{"ID", "Name", "Email", "Subjects", "Average Mark", "Grade", "Outcome"}

// ExportFilename returns a unique name for a directory export file.
func ExportFilename() string {
	return fmt.Sprintf("students-%s.xlsx", uuid.NewString())
}

// ExportXLSX writes the full directory to `w` as a spreadsheet report,
// one row per student, in insertion order.
func (svc *Service) ExportXLSX(w io.Writer) error {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err = f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	if err = f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for i, std := range students {
		outcome := "FAIL"
		if std.IsPassing(svc.scale) {
			outcome = "PASS"
		}
		row := []interface{}{
			std.ID,
			std.Name,
			std.Email,
			joinSubjectCodes(std.Subjects),
			std.AverageMark(),
			std.Grade(svc.scale),
			outcome,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "computing cell name")
		}
		if err = f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing row for student %s", std.ID)
		}
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing spreadsheet")
	}
	return nil
}

func joinSubjectCodes(subjects []student.Subject) string {
	codes := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		codes = append(codes, sub.Code)
	}
	return strings.Join(codes, ", ")
}
