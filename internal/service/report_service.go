package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/util"
)

var hundred = decimal.NewFromInt(100)

// Breakdown labels of the sales channels
const (
	ChannelOnline   = "Online"
	ChannelPhysical = "Physical"
)

// ReportService computes summaries, daily series and listings over time windows
type ReportService struct {
	expenseRepo domain.ExpenseRepository
	salesRepo   domain.SalesRepository
	orderRepo   domain.OrderRepository
	loc         *time.Location
}

// NewReportService creates a new ReportService. Days are bucketed in loc.
func NewReportService(
	expenseRepo domain.ExpenseRepository,
	salesRepo domain.SalesRepository,
	orderRepo domain.OrderRepository,
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		expenseRepo: expenseRepo,
		salesRepo:   salesRepo,
		orderRepo:   orderRepo,
		loc:         loc,
	}
}

// Location returns the timezone windows and days are computed in
func (s *ReportService) Location() *time.Location {
	return s.loc
}

// percentOf renders 100*amount/total with two decimals, "0" when total is zero
func percentOf(amount, total decimal.Decimal) string {
	if total.IsZero() {
		return "0"
	}
	return amount.Mul(hundred).Div(total).StringFixed(2)
}

// sortBreakdown orders entries by amount descending, then name
func sortBreakdown(entries []domain.BreakdownEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].Amount.Cmp(entries[j].Amount); c != 0 {
			return c > 0
		}
		return entries[i].Category < entries[j].Category
	})
}

// SummarizeExpenses aggregates paid expenses, keeping Loans & Interests out of the total
func SummarizeExpenses(window domain.Window, expenses []*domain.Expense) *domain.ExpenseSummary {
	summary := &domain.ExpenseSummary{
		Window:            window,
		Total:             decimal.Zero,
		LoansAndInterests: decimal.Zero,
		PendingTotal:      decimal.Zero,
		Breakdown:         []domain.BreakdownEntry{},
	}

	index := make(map[string]int)
	for _, e := range expenses {
		if e.Category == domain.LoansAndInterests {
			if e.IsPaid() {
				summary.LoansAndInterests = summary.LoansAndInterests.Add(e.Amount)
			}
			continue
		}
		if !e.IsPaid() {
			summary.PendingTotal = summary.PendingTotal.Add(e.Amount)
			continue
		}

		summary.Total = summary.Total.Add(e.Amount)
		summary.Count++

		i, ok := index[e.Category]
		if !ok {
			i = len(summary.Breakdown)
			index[e.Category] = i
			summary.Breakdown = append(summary.Breakdown, domain.BreakdownEntry{Category: e.Category, Amount: decimal.Zero})
		}
		summary.Breakdown[i].Amount = summary.Breakdown[i].Amount.Add(e.Amount)
		summary.Breakdown[i].Count++
	}

	for i := range summary.Breakdown {
		summary.Breakdown[i].Percentage = percentOf(summary.Breakdown[i].Amount, summary.Total)
	}
	sortBreakdown(summary.Breakdown)

	return summary
}

// SummarizeSales totals every cash column and splits takings by channel
func SummarizeSales(window domain.Window, records []*domain.Sales) *domain.SalesSummary {
	summary := &domain.SalesSummary{
		Window:          window,
		OpeningCash:     decimal.Zero,
		PurchaseCash:    decimal.Zero,
		OnlineCash:      decimal.Zero,
		PhysicalCash:    decimal.Zero,
		CashTransferred: decimal.Zero,
		ClosingCash:     decimal.Zero,
		TotalSales:      decimal.Zero,
	}

	var onlineCount, physicalCount int
	for _, r := range records {
		summary.OpeningCash = summary.OpeningCash.Add(r.OpeningCash)
		summary.PurchaseCash = summary.PurchaseCash.Add(r.PurchaseCash)
		summary.OnlineCash = summary.OnlineCash.Add(r.OnlineCash)
		summary.PhysicalCash = summary.PhysicalCash.Add(r.PhysicalCash)
		summary.CashTransferred = summary.CashTransferred.Add(r.CashTransferred)
		summary.ClosingCash = summary.ClosingCash.Add(r.ClosingCash)
		summary.TotalSales = summary.TotalSales.Add(r.TotalSales)
		summary.Count++
		if r.OnlineCash.IsPositive() {
			onlineCount++
		}
		if r.PhysicalCash.IsPositive() {
			physicalCount++
		}
	}

	summary.Breakdown = []domain.BreakdownEntry{
		{Category: ChannelOnline, Amount: summary.OnlineCash, Count: onlineCount, Percentage: percentOf(summary.OnlineCash, summary.TotalSales)},
		{Category: ChannelPhysical, Amount: summary.PhysicalCash, Count: physicalCount, Percentage: percentOf(summary.PhysicalCash, summary.TotalSales)},
	}
	sortBreakdown(summary.Breakdown)

	return summary
}

// SummarizeOrders totals orders and splits them by payment mode
func SummarizeOrders(window domain.Window, orders []*domain.Order) *domain.OrderSummary {
	summary := &domain.OrderSummary{
		Window: window,
		Total:  decimal.Zero,
	}

	amounts := map[domain.PaymentMode]decimal.Decimal{
		domain.PaymentModeCash:   decimal.Zero,
		domain.PaymentModeOnline: decimal.Zero,
	}
	counts := make(map[domain.PaymentMode]int)
	for _, o := range orders {
		summary.Total = summary.Total.Add(o.Amount)
		summary.Count++
		amounts[o.PaymentMode] = amounts[o.PaymentMode].Add(o.Amount)
		counts[o.PaymentMode]++
	}

	summary.Breakdown = make([]domain.BreakdownEntry, 0, len(amounts))
	for mode, amount := range amounts {
		summary.Breakdown = append(summary.Breakdown, domain.BreakdownEntry{
			Category:   string(mode),
			Amount:     amount,
			Count:      counts[mode],
			Percentage: percentOf(amount, summary.Total),
		})
	}
	sortBreakdown(summary.Breakdown)

	return summary
}

// ExpenseSummary returns the paid-expense summary of a window
func (s *ReportService) ExpenseSummary(ctx context.Context, window domain.Window) (*domain.ExpenseSummary, error) {
	expenses, err := s.expenseRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return SummarizeExpenses(window, expenses), nil
}

// SalesSummary returns the sales summary of a window
func (s *ReportService) SalesSummary(ctx context.Context, window domain.Window) (*domain.SalesSummary, error) {
	records, err := s.salesRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return SummarizeSales(window, records), nil
}

// OrderSummary returns the order summary of a window
func (s *ReportService) OrderSummary(ctx context.Context, window domain.Window) (*domain.OrderSummary, error) {
	orders, err := s.orderRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return SummarizeOrders(window, orders), nil
}

func requireMonth(window domain.Window) error {
	if window.Mode != domain.WindowMonth {
		return fmt.Errorf("%w: daily data requires month and year", domain.ErrInvalidInput)
	}
	return nil
}

// DailySales returns one entry per day of a month window with sales and order takings
func (s *ReportService) DailySales(ctx context.Context, window domain.Window) (*domain.DailySales, error) {
	if err := requireMonth(window); err != nil {
		return nil, err
	}

	records, err := s.salesRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	orders, err := s.orderRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return BuildDailySales(window, records, orders, s.loc), nil
}

// BuildDailySales buckets sales by Date and orders by OrderDate into the days of a month window
func BuildDailySales(window domain.Window, records []*domain.Sales, orders []*domain.Order, loc *time.Location) *domain.DailySales {
	n := window.DaysInMonth()
	result := &domain.DailySales{
		Window:     window,
		Days:       make([]domain.DailySalesEntry, n),
		SalesTotal: decimal.Zero,
		OrderTotal: decimal.Zero,
		Total:      decimal.Zero,
	}
	for i := range result.Days {
		day := window.Start.AddDate(0, 0, i)
		result.Days[i] = domain.DailySalesEntry{
			Day:         i + 1,
			Date:        util.FormatDate(day, loc),
			SalesAmount: decimal.Zero,
			OrderAmount: decimal.Zero,
			Total:       decimal.Zero,
		}
	}

	for _, r := range records {
		if !window.Contains(r.Date) {
			continue
		}
		entry := &result.Days[util.DayOf(r.Date, loc)-1]
		entry.SalesAmount = entry.SalesAmount.Add(r.TotalSales)
		result.SalesTotal = result.SalesTotal.Add(r.TotalSales)
	}
	for _, o := range orders {
		if !window.Contains(o.OrderDate) {
			continue
		}
		entry := &result.Days[util.DayOf(o.OrderDate, loc)-1]
		entry.OrderAmount = entry.OrderAmount.Add(o.Amount)
		result.OrderTotal = result.OrderTotal.Add(o.Amount)
	}

	for i := range result.Days {
		result.Days[i].Total = result.Days[i].SalesAmount.Add(result.Days[i].OrderAmount)
	}
	result.Total = result.SalesTotal.Add(result.OrderTotal)

	return result
}

// DailyExpenses returns per-day paid expense totals of a month window, Loans & Interests excluded
func (s *ReportService) DailyExpenses(ctx context.Context, window domain.Window) (*domain.DailyExpenses, error) {
	if err := requireMonth(window); err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	n := window.DaysInMonth()
	result := &domain.DailyExpenses{
		Window: window,
		Days:   make([]domain.DailyExpenseEntry, n),
		Total:  decimal.Zero,
	}
	for i := range result.Days {
		result.Days[i] = domain.DailyExpenseEntry{
			Day:    i + 1,
			Date:   util.FormatDate(window.Start.AddDate(0, 0, i), s.loc),
			Amount: decimal.Zero,
		}
	}

	for _, e := range expenses {
		if !e.IsPaid() || e.Category == domain.LoansAndInterests || !window.Contains(e.Date) {
			continue
		}
		entry := &result.Days[util.DayOf(e.Date, s.loc)-1]
		entry.Amount = entry.Amount.Add(e.Amount)
		entry.Count++
		result.Total = result.Total.Add(e.Amount)
	}

	return result, nil
}

// ExpenseListing returns a window's expenses by date with the sorted distinct categories present
func (s *ReportService) ExpenseListing(ctx context.Context, window domain.Window) (*domain.ExpenseListing, error) {
	expenses, err := s.expenseRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	names := make([]string, 0, len(expenses))
	for _, e := range expenses {
		names = append(names, e.Category)
	}

	return &domain.ExpenseListing{
		Window:     window,
		Expenses:   expenses,
		Categories: distinctSorted(names),
	}, nil
}

// SalesListing returns a window's sales records by date
func (s *ReportService) SalesListing(ctx context.Context, window domain.Window) (*domain.SalesListing, error) {
	records, err := s.salesRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return &domain.SalesListing{Window: window, Sales: records}, nil
}

// OrderListing returns a window's orders by order date with the payment modes present
func (s *ReportService) OrderListing(ctx context.Context, window domain.Window) (*domain.OrderListing, error) {
	orders, err := s.orderRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	modes := make([]string, 0, len(orders))
	for _, o := range orders {
		modes = append(modes, string(o.PaymentMode))
	}

	return &domain.OrderListing{
		Window:     window,
		Orders:     orders,
		Categories: distinctSorted(modes),
	}, nil
}

// Totals returns the per-source totals of a window used by custom cards
func (s *ReportService) Totals(ctx context.Context, window domain.Window) (*domain.WindowTotals, error) {
	expenses, err := s.expenseRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	records, err := s.salesRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	orders, err := s.orderRepo.ListByDateRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totals := &domain.WindowTotals{
		ByCategory: make(map[string]decimal.Decimal),
		Sales:      decimal.Zero,
		Orders:     decimal.Zero,
	}
	for _, e := range expenses {
		if e.IsPaid() {
			totals.ByCategory[e.Category] = totals.ByCategory[e.Category].Add(e.Amount)
		}
	}
	for _, r := range records {
		totals.Sales = totals.Sales.Add(r.TotalSales)
	}
	for _, o := range orders {
		totals.Orders = totals.Orders.Add(o.Amount)
	}

	return totals, nil
}

// DashboardSummary returns the headline figures of a window
func (s *ReportService) DashboardSummary(ctx context.Context, window domain.Window) (*domain.DashboardSummary, error) {
	expenses, err := s.ExpenseSummary(ctx, window)
	if err != nil {
		return nil, err
	}
	sales, err := s.SalesSummary(ctx, window)
	if err != nil {
		return nil, err
	}
	orders, err := s.OrderSummary(ctx, window)
	if err != nil {
		return nil, err
	}

	// Net = sales + orders - expenses - loans & interests
	net := sales.TotalSales.Add(orders.Total).Sub(expenses.Total).Sub(expenses.LoansAndInterests)

	return &domain.DashboardSummary{
		Window:            window,
		SalesTotal:        sales.TotalSales,
		OrderTotal:        orders.Total,
		ExpenseTotal:      expenses.Total,
		LoansAndInterests: expenses.LoansAndInterests,
		PendingExpenses:   expenses.PendingTotal,
		Net:               net,
	}, nil
}

func distinctSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0)
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}
