package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

// sequence generates readable unique IDs for mock records
type sequence struct {
	prefix string
	next   int
}

func (s *sequence) id() string {
	s.next++
	return fmt.Sprintf("%s-%d", s.prefix, s.next)
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	mu        sync.Mutex
	Users     map[string]*domain.User
	seq       sequence
	UpdateErr error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		seq:   sequence{prefix: "user"},
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.ProfilePicture != nil {
		p := *u.ProfilePicture
		c.ProfilePicture = &p
	}
	return &c
}

// AddUser stores a user directly, assigning an ID if missing
func (m *MockUserRepository) AddUser(user *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = m.seq.id()
	}
	m.Users[user.ID] = cloneUser(user)
	return user
}

// Create stores a new user, rejecting duplicate emails
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	user.ID = m.seq.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.Users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

// GetByID retrieves a user by ID regardless of active state
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[id]; ok {
		return cloneUser(user), nil
	}
	return nil, domain.ErrNotFound
}

// GetActiveByID retrieves an active user by ID
func (m *MockUserRepository) GetActiveByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[id]; ok && user.IsActive {
		return cloneUser(user), nil
	}
	return nil, domain.ErrNotFound
}

// GetActiveByEmail retrieves an active user by normalized email
func (m *MockUserRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email && user.IsActive {
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListActive returns active users ordered by name
func (m *MockUserRepository) ListActive(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.User, 0)
	for _, user := range m.Users {
		if user.IsActive {
			result = append(result, cloneUser(user))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update replaces a stored user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if _, ok := m.Users[user.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	for id, existing := range m.Users {
		if id != user.ID && existing.Email == user.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	user.UpdatedAt = time.Now()
	m.Users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

// SetActive flips the active flag of a user
func (m *MockUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.IsActive = active
	return nil
}

// Delete removes a user permanently
func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Users, id)
	return nil
}

// Count returns the number of stored users
func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Users)), nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	mu         sync.Mutex
	Categories map[string]*domain.Category
	seq        sequence
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[string]*domain.Category),
		seq:        sequence{prefix: "category"},
	}
}

func cloneCategory(c *domain.Category) *domain.Category {
	out := *c
	out.SubCategories = append([]string{}, c.SubCategories...)
	return &out
}

// AddCategory is a test helper that stores a category with the given subcategories
func (m *MockCategoryRepository) AddCategory(name string, subs ...string) *domain.Category {
	c, _ := m.Create(context.Background(), &domain.Category{Name: name, SubCategories: subs})
	return c
}

// Create stores a new category, rejecting duplicate names
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Categories {
		if existing.Name == category.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	category.ID = m.seq.id()
	if category.SubCategories == nil {
		category.SubCategories = []string{}
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = cloneCategory(category)
	return cloneCategory(category), nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, domain.ErrNotFound
}

// GetByName retrieves a category by exact name
func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Categories {
		if c.Name == name {
			return cloneCategory(c), nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns categories ordered by name
func (m *MockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		result = append(result, cloneCategory(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update replaces a stored category
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[category.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	for id, existing := range m.Categories {
		if id != category.ID && existing.Name == category.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	category.UpdatedAt = time.Now()
	m.Categories[category.ID] = cloneCategory(category)
	return cloneCategory(category), nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Categories, id)
	return nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	mu        sync.Mutex
	Expenses  map[string]*domain.Expense
	seq       sequence
	CreateErr error
	UpdateErr error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[string]*domain.Expense),
		seq:      sequence{prefix: "expense"},
	}
}

func cloneExpense(e *domain.Expense) *domain.Expense {
	out := *e
	if e.PaymentMode != nil {
		mode := *e.PaymentMode
		out.PaymentMode = &mode
	}
	return &out
}

// Create stores a new expense
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	expense.ID = m.seq.id()
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = cloneExpense(expense)
	return cloneExpense(expense), nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.Expenses[id]; ok {
		return cloneExpense(e), nil
	}
	return nil, domain.ErrNotFound
}

// Update replaces a stored expense
func (m *MockExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if _, ok := m.Expenses[expense.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	expense.UpdatedAt = time.Now()
	m.Expenses[expense.ID] = cloneExpense(expense)
	return cloneExpense(expense), nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// ListByDateRange returns expenses in [start, end) ordered by date
func (m *MockExpenseRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Expense, 0)
	for _, e := range m.Expenses {
		if !e.Date.Before(start) && e.Date.Before(end) {
			result = append(result, cloneExpense(e))
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// MockSalesRepository is a mock implementation of domain.SalesRepository
type MockSalesRepository struct {
	mu        sync.Mutex
	Sales     map[string]*domain.Sales
	seq       sequence
	UpdateErr error
}

// NewMockSalesRepository creates a new MockSalesRepository
func NewMockSalesRepository() *MockSalesRepository {
	return &MockSalesRepository{
		Sales: make(map[string]*domain.Sales),
		seq:   sequence{prefix: "sales"},
	}
}

// Create stores a new sales record
func (m *MockSalesRepository) Create(ctx context.Context, sales *domain.Sales) (*domain.Sales, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sales.ID = m.seq.id()
	sales.CreatedAt = time.Now()
	sales.UpdatedAt = sales.CreatedAt
	stored := *sales
	m.Sales[sales.ID] = &stored
	out := stored
	return &out, nil
}

// GetByID retrieves a sales record by ID
func (m *MockSalesRepository) GetByID(ctx context.Context, id string) (*domain.Sales, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Sales[id]; ok {
		out := *s
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

// Update replaces a stored sales record
func (m *MockSalesRepository) Update(ctx context.Context, sales *domain.Sales) (*domain.Sales, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if _, ok := m.Sales[sales.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	sales.UpdatedAt = time.Now()
	stored := *sales
	m.Sales[sales.ID] = &stored
	out := stored
	return &out, nil
}

// Delete removes a sales record
func (m *MockSalesRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Sales, id)
	return nil
}

// ListByDateRange returns sales in [start, end) ordered by date
func (m *MockSalesRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Sales, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Sales, 0)
	for _, s := range m.Sales {
		if !s.Date.Before(start) && s.Date.Before(end) {
			out := *s
			result = append(result, &out)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// MockOrderRepository is a mock implementation of domain.OrderRepository
type MockOrderRepository struct {
	mu        sync.Mutex
	Orders    map[string]*domain.Order
	seq       sequence
	UpdateErr error
}

// NewMockOrderRepository creates a new MockOrderRepository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		Orders: make(map[string]*domain.Order),
		seq:    sequence{prefix: "order"},
	}
}

func cloneOrder(o *domain.Order) *domain.Order {
	out := *o
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		out.DeliveryDate = &d
	}
	return &out
}

// Create stores a new order, rejecting duplicate order IDs
func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Orders {
		if existing.OrderID == order.OrderID {
			return nil, domain.ErrAlreadyExists
		}
	}
	order.ID = m.seq.id()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	m.Orders[order.ID] = cloneOrder(order)
	return cloneOrder(order), nil
}

// GetByID retrieves an order by ID
func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.Orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, domain.ErrNotFound
}

// Update replaces a stored order
func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if _, ok := m.Orders[order.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	for id, existing := range m.Orders {
		if id != order.ID && existing.OrderID == order.OrderID {
			return nil, domain.ErrAlreadyExists
		}
	}
	order.UpdatedAt = time.Now()
	m.Orders[order.ID] = cloneOrder(order)
	return cloneOrder(order), nil
}

// Delete removes an order
func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Orders, id)
	return nil
}

// ListByDateRange returns orders with orderDate in [start, end) ordered by orderDate
func (m *MockOrderRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Order, 0)
	for _, o := range m.Orders {
		if !o.OrderDate.Before(start) && o.OrderDate.Before(end) {
			result = append(result, cloneOrder(o))
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OrderDate.Before(result[j].OrderDate) })
	return result, nil
}

// MockCustomCardRepository is a mock implementation of domain.CustomCardRepository
type MockCustomCardRepository struct {
	mu    sync.Mutex
	Cards map[string]*domain.CustomCard
	seq   sequence
}

// NewMockCustomCardRepository creates a new MockCustomCardRepository
func NewMockCustomCardRepository() *MockCustomCardRepository {
	return &MockCustomCardRepository{
		Cards: make(map[string]*domain.CustomCard),
		seq:   sequence{prefix: "card"},
	}
}

func cloneCard(c *domain.CustomCard) *domain.CustomCard {
	out := *c
	out.Entries = append([]domain.CardEntry{}, c.Entries...)
	return &out
}

// Create stores a new custom card
func (m *MockCustomCardRepository) Create(ctx context.Context, card *domain.CustomCard) (*domain.CustomCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card.ID = m.seq.id()
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	m.Cards[card.ID] = cloneCard(card)
	return cloneCard(card), nil
}

// GetByID retrieves a card owned by userID
func (m *MockCustomCardRepository) GetByID(ctx context.Context, userID, id string) (*domain.CustomCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Cards[id]; ok && c.UserID == userID {
		return cloneCard(c), nil
	}
	return nil, domain.ErrNotFound
}

// ListByUser returns the cards owned by userID ordered by creation
func (m *MockCustomCardRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CustomCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.CustomCard, 0)
	for _, c := range m.Cards {
		if c.UserID == userID {
			result = append(result, cloneCard(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update replaces a stored card
func (m *MockCustomCardRepository) Update(ctx context.Context, card *domain.CustomCard) (*domain.CustomCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Cards[card.ID]
	if !ok || existing.UserID != card.UserID {
		return nil, domain.ErrNotFound
	}
	card.UpdatedAt = time.Now()
	m.Cards[card.ID] = cloneCard(card)
	return cloneCard(card), nil
}

// Delete removes a card owned by userID
func (m *MockCustomCardRepository) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Cards[id]
	if !ok || existing.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.Cards, id)
	return nil
}

// MockCustomInHandRepository is a mock implementation of domain.CustomInHandRepository
type MockCustomInHandRepository struct {
	mu     sync.Mutex
	ByUser map[string]*domain.CustomInHand
	seq    sequence
}

// NewMockCustomInHandRepository creates a new MockCustomInHandRepository
func NewMockCustomInHandRepository() *MockCustomInHandRepository {
	return &MockCustomInHandRepository{
		ByUser: make(map[string]*domain.CustomInHand),
		seq:    sequence{prefix: "inhand"},
	}
}

// GetByUser returns the user's in-hand formula
func (m *MockCustomInHandRepository) GetByUser(ctx context.Context, userID string) (*domain.CustomInHand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ih, ok := m.ByUser[userID]; ok {
		out := *ih
		out.Entries = append([]domain.InHandEntry{}, ih.Entries...)
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

// Upsert creates or replaces the user's in-hand formula
func (m *MockCustomInHandRepository) Upsert(ctx context.Context, inHand *domain.CustomInHand) (*domain.CustomInHand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if existing, ok := m.ByUser[inHand.UserID]; ok {
		inHand.ID = existing.ID
		inHand.CreatedAt = existing.CreatedAt
	} else {
		inHand.ID = m.seq.id()
		inHand.CreatedAt = now
	}
	inHand.UpdatedAt = now
	stored := *inHand
	stored.Entries = append([]domain.InHandEntry{}, inHand.Entries...)
	m.ByUser[inHand.UserID] = &stored
	out := stored
	return &out, nil
}

// MockFileRepository is an in-memory storage.FileRepository
type MockFileRepository struct {
	mu        sync.Mutex
	Files     map[string][]byte
	Types     map[string]string
	UploadErr error
	DeleteErr error
}

// NewMockFileRepository creates a new MockFileRepository
func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{
		Files: make(map[string][]byte),
		Types: make(map[string]string),
	}
}

// Upload stores data in memory
func (m *MockFileRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.Files[objectPath] = buf.Bytes()
	m.Types[objectPath] = contentType
	return objectPath, nil
}

// Delete removes a stored object
func (m *MockFileRepository) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Files, objectPath)
	delete(m.Types, objectPath)
	return nil
}

// GenerateURL returns a fake signed URL
func (m *MockFileRepository) GenerateURL(ctx context.Context, objectPath string) (string, error) {
	return "https://files.test/" + objectPath + "?signed=1", nil
}

// Count returns the number of stored objects
func (m *MockFileRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Files)
}

// Has reports whether the object referenced by ref ("/uploads/<name>") is stored
func (m *MockFileRepository) Has(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Files[strings.TrimPrefix(ref, "/uploads/")]
	return ok
}
