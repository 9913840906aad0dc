// Package export renders report windows as XLSX workbooks
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/util"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet = "Summary"
	recordsSheet = "Records"
)

// sheet writes rows sequentially into one worksheet
type sheet struct {
	f    *excelize.File
	name string
	row  int
}

func (s *sheet) write(values ...interface{}) error {
	s.row++
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			return err
		}
		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
		}
		if err := s.f.SetCellValue(s.name, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *sheet) blank() {
	s.row++
}

func newWorkbook() (*excelize.File, *sheet, *sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, nil, nil, err
	}
	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, nil, nil, err
	}
	return f, &sheet{f: f, name: summarySheet}, &sheet{f: f, name: recordsSheet}, nil
}

func writeWindow(s *sheet, w domain.Window, loc *time.Location) error {
	if err := s.write("From", util.FormatDate(w.Start, loc)); err != nil {
		return err
	}
	// End is exclusive; show the last covered day
	return s.write("To", util.FormatDate(w.End.AddDate(0, 0, -1), loc))
}

func writeBreakdown(s *sheet, entries []domain.BreakdownEntry) error {
	s.blank()
	if err := s.write("Category", "Amount", "Count", "Percentage"); err != nil {
		return err
	}
	for _, e := range entries {
		if err := s.write(e.Category, e.Amount, e.Count, e.Percentage); err != nil {
			return err
		}
	}
	return nil
}

func finish(f *excelize.File, widths map[string]float64) (*excelize.File, error) {
	for col, width := range widths {
		if err := f.SetColWidth(recordsSheet, col, col, width); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Expenses builds a workbook with the expense summary and every expense of the window
func Expenses(summary *domain.ExpenseSummary, listing *domain.ExpenseListing, loc *time.Location) (*excelize.File, error) {
	f, sum, rec, err := newWorkbook()
	if err != nil {
		return nil, err
	}

	if err := writeWindow(sum, summary.Window, loc); err != nil {
		return nil, err
	}
	rows := [][]interface{}{
		{"Total (paid)", summary.Total},
		{"Paid expenses", summary.Count},
		{domain.LoansAndInterests, summary.LoansAndInterests},
		{"Pending", summary.PendingTotal},
	}
	for _, r := range rows {
		if err := sum.write(r...); err != nil {
			return nil, err
		}
	}
	if err := writeBreakdown(sum, summary.Breakdown); err != nil {
		return nil, err
	}

	if err := rec.write("Date", "Category", "Subcategory", "Amount", "Status", "Mode", "Remarks"); err != nil {
		return nil, err
	}
	for _, e := range listing.Expenses {
		mode := ""
		if e.PaymentMode != nil {
			mode = string(*e.PaymentMode)
		}
		if err := rec.write(util.FormatDate(e.Date, loc), e.Category, e.SubCategory, e.Amount, string(e.PaymentStatus), mode, e.Remarks); err != nil {
			return nil, err
		}
	}

	return finish(f, map[string]float64{"A": 12, "B": 20, "C": 20, "D": 12, "G": 40})
}

// Sales builds a workbook with the sales summary and every sales sheet of the window
func Sales(summary *domain.SalesSummary, listing *domain.SalesListing, loc *time.Location) (*excelize.File, error) {
	f, sum, rec, err := newWorkbook()
	if err != nil {
		return nil, err
	}

	if err := writeWindow(sum, summary.Window, loc); err != nil {
		return nil, err
	}
	rows := [][]interface{}{
		{"Opening cash", summary.OpeningCash},
		{"Purchase cash", summary.PurchaseCash},
		{"Online cash", summary.OnlineCash},
		{"Physical cash", summary.PhysicalCash},
		{"Cash transferred", summary.CashTransferred},
		{"Closing cash", summary.ClosingCash},
		{"Total sales", summary.TotalSales},
		{"Records", summary.Count},
	}
	for _, r := range rows {
		if err := sum.write(r...); err != nil {
			return nil, err
		}
	}
	if err := writeBreakdown(sum, summary.Breakdown); err != nil {
		return nil, err
	}

	if err := rec.write("Date", "Opening", "Purchase", "Online", "Physical", "Transferred", "Closing", "Total", "Remarks"); err != nil {
		return nil, err
	}
	for _, s := range listing.Sales {
		if err := rec.write(util.FormatDate(s.Date, loc), s.OpeningCash, s.PurchaseCash, s.OnlineCash, s.PhysicalCash, s.CashTransferred, s.ClosingCash, s.TotalSales, s.Remarks); err != nil {
			return nil, err
		}
	}

	return finish(f, map[string]float64{"A": 12, "I": 40})
}

// Orders builds a workbook with the order summary and every order of the window
func Orders(summary *domain.OrderSummary, listing *domain.OrderListing, loc *time.Location) (*excelize.File, error) {
	f, sum, rec, err := newWorkbook()
	if err != nil {
		return nil, err
	}

	if err := writeWindow(sum, summary.Window, loc); err != nil {
		return nil, err
	}
	if err := sum.write("Total", summary.Total); err != nil {
		return nil, err
	}
	if err := sum.write("Orders", summary.Count); err != nil {
		return nil, err
	}
	if err := writeBreakdown(sum, summary.Breakdown); err != nil {
		return nil, err
	}

	if err := rec.write("Order ID", "Order date", "Delivery date", "Amount", "Mode", "Remarks"); err != nil {
		return nil, err
	}
	for _, o := range listing.Orders {
		delivery := ""
		if o.DeliveryDate != nil {
			delivery = util.FormatDate(*o.DeliveryDate, loc)
		}
		if err := rec.write(o.OrderID, util.FormatDate(o.OrderDate, loc), delivery, o.Amount, string(o.PaymentMode), o.Remarks); err != nil {
			return nil, err
		}
	}

	return finish(f, map[string]float64{"A": 16, "B": 12, "C": 14, "F": 40})
}

// Filename names a workbook after its kind and window, e.g. expense_2024-03.xlsx
func Filename(kind string, w domain.Window, loc *time.Location) string {
	switch w.Mode {
	case domain.WindowMonth:
		return fmt.Sprintf("%s_%04d-%02d.xlsx", kind, w.Year, w.Month)
	case domain.WindowYear:
		return fmt.Sprintf("%s_%04d.xlsx", kind, w.Year)
	}
	return fmt.Sprintf("%s_%s_%s.xlsx", kind, util.FormatDate(w.Start, loc), util.FormatDate(w.End.AddDate(0, 0, -1), loc))
}
