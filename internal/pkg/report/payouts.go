// Package report выгрузки в XLSX.
package report

import (
	"fmt"
	"io"

	"dispatch/internal/entities"

	"github.com/xuri/excelize/v2"
)

const payoutsSheet = "Выплаты"

var payoutHeaders = []string{
	"Номер",
	"Водитель",
	"Тип",
	"Статус",
	"Начало периода",
	"Конец периода",
	"Доставок",
	"Брутто",
	"Налог",
	"Комиссия",
	"Комиссия за срочность",
	"К выплате",
	"Референс",
	"Создана",
}

// WritePayouts пишет выплаты одним листом, по строке на выплату.
func WritePayouts(w io.Writer, payouts []entities.DriverPayout) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(payoutsSheet)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SetSheetRow(payoutsSheet, "A1", &payoutHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range payouts {
		p := &payouts[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}

		reference := ""
		if p.Reference != nil {
			reference = *p.Reference
		}

		row := []any{
			p.PayoutNumber,
			p.DriverID,
			p.Type.String(),
			p.Status.String(),
			p.PeriodStart.Format("02.01.2006"),
			p.PeriodEnd.Format("02.01.2006"),
			len(p.Deliveries),
			p.GrossAmount,
			p.Tax,
			p.ProcessingFee,
			p.InstantFee,
			p.NetAmount,
			reference,
			p.CreatedAt.Format("02.01.2006 15:04"),
		}
		if err := f.SetSheetRow(payoutsSheet, cell, &row); err != nil {
			return fmt.Errorf("write payout %s: %w", p.PayoutNumber, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
