package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/workdeskhq/attendance-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

// ExportService renders attendance data into downloadable report files.
type ExportService interface {
	// WriteAttendanceXLSX writes an attendance report for the inclusive date
	// range [start, end] to w as an xlsx workbook.
	WriteAttendanceXLSX(ctx context.Context, w io.Writer, start time.Time, end time.Time) error
}

type exportServiceImpl struct {
	attendanceRepository attendance.AttendanceRepository
}

func NewExportService(attendanceRepository attendance.AttendanceRepository) ExportService {
	return &exportServiceImpl{
		attendanceRepository: attendanceRepository,
	}
}

const sheetName = "Attendance"

var reportHeaders = []string{
	"Date", "Employee ID", "Employee Name", "Check In", "Check Out",
	"Status", "Break Hours", "Working Hours", "Late", "Report Tasks",
}

// WriteAttendanceXLSX implements ExportService.
func (s *exportServiceImpl) WriteAttendanceXLSX(ctx context.Context, w io.Writer, start time.Time, end time.Time) error {
	records, err := s.attendanceRepository.ListRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to list attendance for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, record := range records {
		row := i + 2

		var employeeName string
		if record.EmployeeName != nil {
			employeeName = *record.EmployeeName
		}

		var checkOut string
		if record.CheckOut != nil {
			checkOut = record.CheckOut.Format(time.RFC3339)
		}

		var breakHours float64
		if record.CheckOut != nil {
			breakHours = record.TotalBreakHours(*record.CheckOut)
		}

		var workingHours interface{}
		if record.WorkingHours != nil {
			workingHours = *record.WorkingHours
		}

		values := []interface{}{
			record.Date.Format("2006-01-02"),
			record.EmployeeID,
			employeeName,
			record.CheckIn.Format(time.RFC3339),
			checkOut,
			string(record.Status),
			breakHours,
			workingHours,
			record.IsLate,
			record.ReportTasks,
		}

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
