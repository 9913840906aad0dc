package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

// CustomCardService manages per-user dashboard cards and the in-hand formula
type CustomCardService struct {
	cardRepo     domain.CustomCardRepository
	inHandRepo   domain.CustomInHandRepository
	categoryRepo domain.CategoryRepository
	reports      *ReportService
}

// NewCustomCardService creates a new CustomCardService
func NewCustomCardService(
	cardRepo domain.CustomCardRepository,
	inHandRepo domain.CustomInHandRepository,
	categoryRepo domain.CategoryRepository,
	reports *ReportService,
) *CustomCardService {
	return &CustomCardService{
		cardRepo:     cardRepo,
		inHandRepo:   inHandRepo,
		categoryRepo: categoryRepo,
		reports:      reports,
	}
}

// CardInput holds the editable fields of a custom card
type CardInput struct {
	Name    string
	Entries []domain.CardEntry
}

func (s *CustomCardService) validateCard(ctx context.Context, input *CardInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.NewFieldError("name", "Name is required")
	}
	if len(input.Name) > domain.MaxNameLength {
		return domain.NewFieldError("name", fmt.Sprintf("Name must be at most %d characters", domain.MaxNameLength))
	}
	if len(input.Entries) == 0 {
		return domain.NewFieldError("entries", "At least one entry is required")
	}

	for i := range input.Entries {
		entry := &input.Entries[i]
		entry.Category = strings.TrimSpace(entry.Category)
		if !entry.Operator.Valid() {
			return domain.NewFieldError("entries", "Operator must be + or -")
		}
		if entry.Category == domain.CardSourceSales || entry.Category == domain.CardSourceOrders {
			continue
		}
		if _, err := s.categoryRepo.GetByName(ctx, entry.Category); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewFieldError("entries", fmt.Sprintf("Category %q does not exist", entry.Category))
			}
			return err
		}
	}
	return nil
}

// CreateCard creates a card owned by userID
func (s *CustomCardService) CreateCard(ctx context.Context, userID string, input CardInput) (*domain.CustomCard, error) {
	if err := s.validateCard(ctx, &input); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.Create(ctx, &domain.CustomCard{
		UserID:  userID,
		Name:    input.Name,
		Entries: input.Entries,
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Str("user_id", userID).Str("card_id", card.ID).Msg("Custom card created")
	return card, nil
}

// ListCards returns the cards of userID
func (s *CustomCardService) ListCards(ctx context.Context, userID string) ([]*domain.CustomCard, error) {
	return s.cardRepo.ListByUser(ctx, userID)
}

// UpdateCard replaces the name and entries of a card owned by userID
func (s *CustomCardService) UpdateCard(ctx context.Context, userID, id string, input CardInput) (*domain.CustomCard, error) {
	card, err := s.cardRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateCard(ctx, &input); err != nil {
		return nil, err
	}

	card.Name = input.Name
	card.Entries = input.Entries
	return s.cardRepo.Update(ctx, card)
}

// DeleteCard removes a card owned by userID
func (s *CustomCardService) DeleteCard(ctx context.Context, userID, id string) error {
	return s.cardRepo.Delete(ctx, userID, id)
}

// GetInHand returns the in-hand formula of userID, empty when none was saved
func (s *CustomCardService) GetInHand(ctx context.Context, userID string) (*domain.CustomInHand, error) {
	inHand, err := s.inHandRepo.GetByUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.CustomInHand{UserID: userID, Entries: []domain.InHandEntry{}}, nil
	}
	return inHand, err
}

// SaveInHand replaces the in-hand formula of userID. Every entry must reference one of the user's cards.
func (s *CustomCardService) SaveInHand(ctx context.Context, userID string, entries []domain.InHandEntry) (*domain.CustomInHand, error) {
	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cards))
	for _, c := range cards {
		names[c.ID] = c.Name
	}

	normalized := make([]domain.InHandEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Operator.Valid() {
			return nil, domain.NewFieldError("entries", "Operator must be + or -")
		}
		name, ok := names[entry.CardID]
		if !ok {
			return nil, domain.NewFieldError("entries", fmt.Sprintf("Card %q does not exist", entry.CardID))
		}
		entry.CardName = name
		normalized = append(normalized, entry)
	}

	return s.inHandRepo.Upsert(ctx, &domain.CustomInHand{
		UserID:  userID,
		Entries: normalized,
	})
}

// Evaluate computes every card of userID and the in-hand total over a window
func (s *CustomCardService) Evaluate(ctx context.Context, userID string, window domain.Window) (*domain.CardEvaluation, error) {
	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	inHand, err := s.GetInHand(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reports.Totals(ctx, window)
	if err != nil {
		return nil, err
	}

	return EvaluateCards(window, cards, inHand, totals), nil
}

// EvaluateCards applies card and in-hand formulas to precomputed totals.
// In-hand entries pointing at deleted cards contribute nothing.
func EvaluateCards(window domain.Window, cards []*domain.CustomCard, inHand *domain.CustomInHand, totals *domain.WindowTotals) *domain.CardEvaluation {
	result := &domain.CardEvaluation{
		Window: window,
		Cards:  make([]domain.CardValue, 0, len(cards)),
		InHand: decimal.Zero,
	}

	byID := make(map[string]decimal.Decimal, len(cards))
	for _, card := range cards {
		total := decimal.Zero
		for _, entry := range card.Entries {
			total = applyOperator(total, entry.Operator, sourceValue(totals, entry.Category))
		}
		byID[card.ID] = total
		result.Cards = append(result.Cards, domain.CardValue{ID: card.ID, Name: card.Name, Total: total})
	}

	if inHand != nil {
		for _, entry := range inHand.Entries {
			if value, ok := byID[entry.CardID]; ok {
				result.InHand = applyOperator(result.InHand, entry.Operator, value)
			}
		}
	}

	return result
}

func sourceValue(totals *domain.WindowTotals, source string) decimal.Decimal {
	switch source {
	case domain.CardSourceSales:
		return totals.Sales
	case domain.CardSourceOrders:
		return totals.Orders
	}
	return totals.ByCategory[source]
}

func applyOperator(acc decimal.Decimal, op domain.Operator, value decimal.Decimal) decimal.Decimal {
	if op == domain.OperatorSubtract {
		return acc.Sub(value)
	}
	return acc.Add(value)
}
