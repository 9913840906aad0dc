package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/testutil"
)

type salesFixture struct {
	svc   *SalesService
	repo  *testutil.MockSalesRepository
	files *testutil.MockFileRepository
}

func newSalesFixture() *salesFixture {
	repo := testutil.NewMockSalesRepository()
	files := testutil.NewMockFileRepository()
	return &salesFixture{svc: NewSalesService(repo, NewAttachmentService(files)), repo: repo, files: files}
}

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCreateSales_DerivesTotal(t *testing.T) {
	f := newSalesFixture()
	publisher := &recordingPublisher{}
	f.svc.SetEventPublisher(publisher)

	sales, err := f.svc.CreateSales(context.Background(), CreateSalesInput{
		Date:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		OpeningCash:  decimal.NewFromInt(1000),
		OnlineCash:   decimal.RequireFromString("120.25"),
		PhysicalCash: decimal.RequireFromString("79.75"),
		ClosingCash:  decimal.NewFromInt(1079),
		File:         pdfUpload(),
		CreatedBy:    "user-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !sales.TotalSales.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected total 200, got %s", sales.TotalSales)
	}
	if sales.FileURL == "" || !f.files.Has(sales.FileURL) {
		t.Errorf("expected stored attachment, got %q", sales.FileURL)
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != "sales.created" {
		t.Errorf("expected one sales.created event, got %+v", publisher.events)
	}
	if publisher.audiences[0] != domain.RoleAccountant {
		t.Errorf("expected accountant audience, got %v", publisher.audiences[0])
	}
}

func TestCreateSales_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateSalesInput
		field string
	}{
		{
			name:  "missing date",
			input: CreateSalesInput{OnlineCash: decimal.NewFromInt(10)},
			field: "date",
		},
		{
			name:  "negative physical cash",
			input: CreateSalesInput{Date: time.Now(), PhysicalCash: decimal.NewFromInt(-1)},
			field: "physicalCash",
		},
		{
			name:  "online cash with three decimals",
			input: CreateSalesInput{Date: time.Now(), OnlineCash: decimal.RequireFromString("10.005")},
			field: "onlineCash",
		},
		{
			name:  "opening cash too large",
			input: CreateSalesInput{Date: time.Now(), OpeningCash: decimal.RequireFromString("1e13")},
			field: "openingCash",
		},
		{
			name:  "negative closing cash",
			input: CreateSalesInput{Date: time.Now(), ClosingCash: decimal.NewFromInt(-5)},
			field: "closingCash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSalesFixture()
			tt.input.File = pdfUpload()

			_, err := f.svc.CreateSales(context.Background(), tt.input)
			var fieldErr *domain.FieldError
			if !errors.As(err, &fieldErr) || fieldErr.Field != tt.field {
				t.Fatalf("expected %s FieldError, got %v", tt.field, err)
			}
			if f.files.Count() != 0 {
				t.Errorf("expected staged file to be discarded, %d left", f.files.Count())
			}
			if len(f.repo.Sales) != 0 {
				t.Errorf("expected nothing stored, got %d records", len(f.repo.Sales))
			}
		})
	}
}

func TestUpdateSales_RecomputesTotalAndReplacesFile(t *testing.T) {
	f := newSalesFixture()
	created, err := f.svc.CreateSales(context.Background(), CreateSalesInput{
		Date:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		OnlineCash:   decimal.NewFromInt(10),
		PhysicalCash: decimal.NewFromInt(20),
		File:         pdfUpload(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	oldFile := created.FileURL

	updated, err := f.svc.UpdateSales(context.Background(), created.ID, UpdateSalesInput{
		PhysicalCash: decPtr("5"),
		File:         pdfUpload(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.TotalSales.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected total 15, got %s", updated.TotalSales)
	}
	if !updated.OnlineCash.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected online cash to be untouched, got %s", updated.OnlineCash)
	}
	if updated.FileURL == oldFile {
		t.Fatal("expected a new attachment reference")
	}
	if f.files.Has(oldFile) || !f.files.Has(updated.FileURL) || f.files.Count() != 1 {
		t.Errorf("expected only the new attachment to remain, have %d files", f.files.Count())
	}
}

func TestUpdateSales_FailureKeepsOldFile(t *testing.T) {
	f := newSalesFixture()
	created, err := f.svc.CreateSales(context.Background(), CreateSalesInput{
		Date:       time.Now(),
		OnlineCash: decimal.NewFromInt(10),
		File:       pdfUpload(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	f.repo.UpdateErr = errors.New("write failed")

	if _, err := f.svc.UpdateSales(context.Background(), created.ID, UpdateSalesInput{File: pdfUpload()}); err == nil {
		t.Fatal("expected update error")
	}
	if !f.files.Has(created.FileURL) || f.files.Count() != 1 {
		t.Errorf("expected only the original attachment, have %d files", f.files.Count())
	}
}

func TestUpdateSales_RejectsNegative(t *testing.T) {
	f := newSalesFixture()
	created, err := f.svc.CreateSales(context.Background(), CreateSalesInput{Date: time.Now(), OnlineCash: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = f.svc.UpdateSales(context.Background(), created.ID, UpdateSalesInput{OnlineCash: decPtr("-0.01")})
	var fieldErr *domain.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "onlineCash" {
		t.Fatalf("expected onlineCash FieldError, got %v", err)
	}

	got, _ := f.svc.GetSales(context.Background(), created.ID)
	if !got.OnlineCash.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected stored record unchanged, got %s", got.OnlineCash)
	}
}

func TestDeleteSales(t *testing.T) {
	f := newSalesFixture()
	publisher := &recordingPublisher{}
	f.svc.SetEventPublisher(publisher)
	created, err := f.svc.CreateSales(context.Background(), CreateSalesInput{Date: time.Now(), File: pdfUpload()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := f.svc.DeleteSales(context.Background(), created.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.files.Count() != 0 {
		t.Errorf("expected attachment to be removed, %d left", f.files.Count())
	}
	if _, err := f.svc.GetSales(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := f.svc.DeleteSales(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if n := len(publisher.events); n != 2 || publisher.events[1].Type != "sales.deleted" {
		t.Errorf("expected created and deleted events, got %+v", publisher.events)
	}
}
