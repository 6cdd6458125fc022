package service

import (
	"bytes"
	"context"
	"fmt"

	"tablebook/infras/metrics"
	"tablebook/internal/domains/booking/model"
	"tablebook/internal/domains/booking/model/dto"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	"tablebook/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeader = []any{
	"ID", "User", "Restaurant", "Table", "Date", "Start", "End", "People", "Notes", "Created At", "Created By",
}

// Export renders the bookings matching filter as an XLSX workbook, ordered by
// date and start time.
func (s *serviceImpl) Export(ctx context.Context, filter dto.BookingFilter) (content []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldBookingDate, SortDir: gDto.SortDirAsc}, filter.ToFilterGroup())
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for export")

		return nil, fmt.Errorf("failed to get bookings for export: %w", err)
	}

	content, err = writeWorkbook(bookings)
	if err != nil {
		log.Error().Err(err).Msg("failed to render bookings workbook")

		return nil, fmt.Errorf("failed to render bookings workbook: %w", err)
	}

	metrics.IncBookingExport()

	return content, nil
}

func writeWorkbook(bookings []model.Booking) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := file.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	if err := boldHeader(file, exportSheet); err != nil {
		return nil, err
	}

	for i, booking := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("locate row %d: %w", i+2, err)
		}

		notes := ""
		if booking.Notes != nil {
			notes = *booking.Notes
		}

		row := []any{
			booking.ID,
			booking.UserID,
			booking.RestaurantID,
			booking.TableID,
			booking.BookingDate.Format(constant.DayFormat),
			booking.StartTime.String(),
			booking.EndTime.String(),
			booking.NumberOfPeople,
			notes,
			timezone.Format(booking.CreatedAt, constant.DateFormat),
			booking.CreatedBy,
		}

		if err := file.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func boldHeader(file *excelize.File, sheet string) error {
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return fmt.Errorf("locate header: %w", err)
	}

	if err := file.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	return nil
}
