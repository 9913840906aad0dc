package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/testutil"
)

func newCardFixture() (*CustomCardService, *reportFixture, *testutil.MockCategoryRepository) {
	reports := newReportFixture()
	categories := testutil.NewMockCategoryRepository()
	svc := NewCustomCardService(testutil.NewMockCustomCardRepository(), testutil.NewMockCustomInHandRepository(), categories, reports.svc)
	return svc, reports, categories
}

func TestCreateCard_Validation(t *testing.T) {
	svc, _, categories := newCardFixture()
	categories.AddCategory("Fuel")
	ctx := context.Background()

	_, err := svc.CreateCard(ctx, "u1", CardInput{Name: "Profit", Entries: []domain.CardEntry{{Category: "Travel", Operator: "+"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateCard(ctx, "u1", CardInput{Name: "Profit", Entries: []domain.CardEntry{{Category: "Fuel", Operator: "*"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateCard(ctx, "u1", CardInput{Name: " ", Entries: []domain.CardEntry{{Category: "Fuel", Operator: "+"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	card, err := svc.CreateCard(ctx, "u1", CardInput{Name: "Profit", Entries: []domain.CardEntry{
		{Category: domain.CardSourceSales, Operator: domain.OperatorAdd},
		{Category: "Fuel", Operator: domain.OperatorSubtract},
	}})
	require.NoError(t, err)
	assert.Equal(t, "u1", card.UserID)
}

func TestCards_ScopedToOwner(t *testing.T) {
	svc, _, _ := newCardFixture()
	ctx := context.Background()

	card, err := svc.CreateCard(ctx, "u1", CardInput{Name: "Sales", Entries: []domain.CardEntry{{Category: domain.CardSourceSales, Operator: "+"}}})
	require.NoError(t, err)

	cards, err := svc.ListCards(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, cards)

	_, err = svc.UpdateCard(ctx, "u2", card.ID, CardInput{Name: "X", Entries: card.Entries})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.ErrorIs(t, svc.DeleteCard(ctx, "u2", card.ID), domain.ErrNotFound)
	assert.NoError(t, svc.DeleteCard(ctx, "u1", card.ID))
}

func TestInHand_RequiresOwnCards(t *testing.T) {
	svc, _, _ := newCardFixture()
	ctx := context.Background()

	empty, err := svc.GetInHand(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)

	card, err := svc.CreateCard(ctx, "u1", CardInput{Name: "Orders", Entries: []domain.CardEntry{{Category: domain.CardSourceOrders, Operator: "+"}}})
	require.NoError(t, err)

	_, err = svc.SaveInHand(ctx, "u2", []domain.InHandEntry{{CardID: card.ID, Operator: "+"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	saved, err := svc.SaveInHand(ctx, "u1", []domain.InHandEntry{{CardID: card.ID, Operator: "+"}})
	require.NoError(t, err)
	assert.Equal(t, "Orders", saved.Entries[0].CardName)

	again, err := svc.SaveInHand(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	assert.Empty(t, again.Entries)
}

func TestEvaluate(t *testing.T) {
	svc, reports, categories := newCardFixture()
	categories.AddCategory("Fuel")
	categories.AddCategory(domain.LoansAndInterests)
	ctx := context.Background()

	reports.addSales(t, day(3, 1), 800, 200)
	reports.addOrder(t, "ORD-1", day(3, 2), 100, domain.PaymentModeCash)
	reports.addExpense(t, "Fuel", day(3, 3), 150, true)
	reports.addExpense(t, "Fuel", day(3, 4), 999, false)
	reports.addExpense(t, domain.LoansAndInterests, day(3, 5), 50, true)

	revenue, err := svc.CreateCard(ctx, "u1", CardInput{Name: "Revenue", Entries: []domain.CardEntry{
		{Category: domain.CardSourceSales, Operator: "+"},
		{Category: domain.CardSourceOrders, Operator: "+"},
	}})
	require.NoError(t, err)
	costs, err := svc.CreateCard(ctx, "u1", CardInput{Name: "Costs", Entries: []domain.CardEntry{
		{Category: "Fuel", Operator: "+"},
		{Category: domain.LoansAndInterests, Operator: "+"},
	}})
	require.NoError(t, err)
	_, err = svc.SaveInHand(ctx, "u1", []domain.InHandEntry{
		{CardID: revenue.ID, Operator: "+"},
		{CardID: costs.ID, Operator: "-"},
	})
	require.NoError(t, err)

	result, err := svc.Evaluate(ctx, "u1", marchWindow(t))
	require.NoError(t, err)

	require.Len(t, result.Cards, 2)
	totals := map[string]decimal.Decimal{}
	for _, c := range result.Cards {
		totals[c.Name] = c.Total
	}
	assert.True(t, totals["Revenue"].Equal(decimal.NewFromInt(1100)))
	assert.True(t, totals["Costs"].Equal(decimal.NewFromInt(200)))
	assert.True(t, result.InHand.Equal(decimal.NewFromInt(900)), "in hand %s", result.InHand)
}
