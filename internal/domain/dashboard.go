package domain

import "github.com/shopspring/decimal"

// BreakdownEntry is one slice of a summary total
type BreakdownEntry struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage string          `json:"percentage"`
}

// ExpenseSummary aggregates paid expenses of a window.
// Loans & Interests is reported separately and is not part of Total or Breakdown.
type ExpenseSummary struct {
	Window            Window           `json:"window"`
	Total             decimal.Decimal  `json:"total"`
	Count             int              `json:"count"`
	LoansAndInterests decimal.Decimal  `json:"loansAndInterests"`
	PendingTotal      decimal.Decimal  `json:"pendingTotal"`
	Breakdown         []BreakdownEntry `json:"breakdown"`
}

// SalesSummary aggregates the cash columns of a window's sales sheets
type SalesSummary struct {
	Window          Window           `json:"window"`
	OpeningCash     decimal.Decimal  `json:"openingCash"`
	PurchaseCash    decimal.Decimal  `json:"purchaseCash"`
	OnlineCash      decimal.Decimal  `json:"onlineCash"`
	PhysicalCash    decimal.Decimal  `json:"physicalCash"`
	CashTransferred decimal.Decimal  `json:"cashTransferred"`
	ClosingCash     decimal.Decimal  `json:"closingCash"`
	TotalSales      decimal.Decimal  `json:"totalSales"`
	Count           int              `json:"count"`
	Breakdown       []BreakdownEntry `json:"breakdown"`
}

// OrderSummary aggregates a window's orders by payment mode
type OrderSummary struct {
	Window    Window           `json:"window"`
	Total     decimal.Decimal  `json:"total"`
	Count     int              `json:"count"`
	Breakdown []BreakdownEntry `json:"breakdown"`
}

// DailySalesEntry is one day of a month's sales and order takings
type DailySalesEntry struct {
	Day         int             `json:"day"`
	Date        string          `json:"date"`
	SalesAmount decimal.Decimal `json:"salesAmount"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
	Total       decimal.Decimal `json:"total"`
}

// DailySales is the per-day series of a month window
type DailySales struct {
	Window     Window            `json:"window"`
	Days       []DailySalesEntry `json:"days"`
	SalesTotal decimal.Decimal   `json:"salesTotal"`
	OrderTotal decimal.Decimal   `json:"orderTotal"`
	Total      decimal.Decimal   `json:"total"`
}

// DailyExpenseEntry is one day of a month's paid expenses
type DailyExpenseEntry struct {
	Day    int             `json:"day"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// DailyExpenses is the per-day expense series of a month window
type DailyExpenses struct {
	Window Window              `json:"window"`
	Days   []DailyExpenseEntry `json:"days"`
	Total  decimal.Decimal     `json:"total"`
}

// ExpenseListing is the raw expense list of a window
type ExpenseListing struct {
	Window     Window     `json:"window"`
	Expenses   []*Expense `json:"expenses"`
	Categories []string   `json:"categories"`
}

// SalesListing is the raw sales list of a window
type SalesListing struct {
	Window Window   `json:"window"`
	Sales  []*Sales `json:"sales"`
}

// OrderListing is the raw order list of a window; Categories holds the payment modes present
type OrderListing struct {
	Window     Window   `json:"window"`
	Orders     []*Order `json:"orders"`
	Categories []string `json:"categories"`
}

// DashboardSummary contains the headline figures of a window
type DashboardSummary struct {
	Window            Window          `json:"window"`
	SalesTotal        decimal.Decimal `json:"salesTotal"`
	OrderTotal        decimal.Decimal `json:"orderTotal"`
	ExpenseTotal      decimal.Decimal `json:"expenseTotal"`
	LoansAndInterests decimal.Decimal `json:"loansAndInterests"`
	PendingExpenses   decimal.Decimal `json:"pendingExpenses"`
	Net               decimal.Decimal `json:"net"`
}

// WindowTotals holds per-source totals used to evaluate custom cards
type WindowTotals struct {
	// ByCategory sums paid expenses per category, Loans & Interests included
	ByCategory map[string]decimal.Decimal
	Sales      decimal.Decimal
	Orders     decimal.Decimal
}

// CardValue is the evaluated total of one custom card
type CardValue struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// CardEvaluation is the evaluation of a user's custom cards over a window
type CardEvaluation struct {
	Window Window          `json:"window"`
	Cards  []CardValue     `json:"cards"`
	InHand decimal.Decimal `json:"inHand"`
}
