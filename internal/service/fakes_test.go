package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/cashflowpro/forecast-go/internal/domain"
)

// In-memory store fakes for service tests.

type fakeRuleStore struct {
	rules []domain.BudgetRule
	err   error
}

func (f *fakeRuleStore) ListRules(ctx context.Context, userID string) ([]domain.BudgetRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules, nil
}

func (f *fakeRuleStore) GetRule(ctx context.Context, userID, ruleID string) (*domain.BudgetRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			return &f.rules[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "budget_rule", ID: ruleID}
}

func (f *fakeRuleStore) CreateRule(ctx context.Context, userID string, req *domain.CreateRuleRequest) (*domain.BudgetRule, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	rule := domain.BudgetRule{
		ID:            fmt.Sprintf("rule-%d", len(f.rules)+1),
		UserID:        userID,
		Name:          req.Name,
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      req.Category,
		Frequency:     req.Frequency,
		RecurrenceDay: req.RecurrenceDay,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      isActive,
		CreatedAt:     time.Now(),
	}
	f.rules = append(f.rules, rule)
	return &rule, nil
}

func (f *fakeRuleStore) UpdateRule(ctx context.Context, userID, ruleID string, req *domain.UpdateRuleRequest) (*domain.BudgetRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			if req.Amount != nil {
				f.rules[i].Amount = *req.Amount
			}
			if req.Name != nil {
				f.rules[i].Name = *req.Name
			}
			return &f.rules[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "budget_rule", ID: ruleID}
}

func (f *fakeRuleStore) DeleteRule(ctx context.Context, userID, ruleID string) error {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "budget_rule", ID: ruleID}
}

type fakeTransactionStore struct {
	txns []domain.OneTimeTransaction
	err  error
}

func (f *fakeTransactionStore) ListTransactions(ctx context.Context, userID string) ([]domain.OneTimeTransaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.txns, nil
}

func (f *fakeTransactionStore) GetTransaction(ctx context.Context, userID, txnID string) (*domain.OneTimeTransaction, error) {
	for i := range f.txns {
		if f.txns[i].ID == txnID {
			return &f.txns[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "transaction", ID: txnID}
}

func (f *fakeTransactionStore) FindOverride(ctx context.Context, userID, ruleID, date string) (*domain.OneTimeTransaction, error) {
	for i := range f.txns {
		if f.txns[i].IsOverride && f.txns[i].OverrideRuleID == ruleID && f.txns[i].Date == date {
			return &f.txns[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionStore) CreateTransaction(ctx context.Context, userID string, req *domain.CreateTransactionRequest) (*domain.OneTimeTransaction, error) {
	txn := domain.OneTimeTransaction{
		ID:             fmt.Sprintf("txn-%d", len(f.txns)+1),
		UserID:         userID,
		Date:           req.Date,
		Description:    req.Description,
		Amount:         req.Amount,
		Type:           req.Type,
		IsOverride:     req.OverrideRuleID != "",
		OverrideRuleID: req.OverrideRuleID,
		CreatedAt:      time.Now(),
	}
	f.txns = append(f.txns, txn)
	return &txn, nil
}

func (f *fakeTransactionStore) UpdateTransaction(ctx context.Context, userID, txnID string, req *domain.UpdateTransactionRequest) (*domain.OneTimeTransaction, error) {
	for i := range f.txns {
		if f.txns[i].ID == txnID {
			if req.Amount != nil {
				f.txns[i].Amount = *req.Amount
			}
			if req.Date != nil {
				f.txns[i].Date = *req.Date
			}
			return &f.txns[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "transaction", ID: txnID}
}

func (f *fakeTransactionStore) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	for i := range f.txns {
		if f.txns[i].ID == txnID {
			f.txns = append(f.txns[:i], f.txns[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "transaction", ID: txnID}
}

type fakeCheckpointStore struct {
	checkpoints []domain.BalanceCheckpoint
	err         error
}

func (f *fakeCheckpointStore) ListCheckpoints(ctx context.Context, userID string) ([]domain.BalanceCheckpoint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.checkpoints, nil
}

func (f *fakeCheckpointStore) GetCheckpointMap(ctx context.Context, userID string) (domain.CheckpointMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := make(domain.CheckpointMap, len(f.checkpoints))
	for _, cp := range f.checkpoints {
		m[cp.Date] = cp.Balance
	}
	return m, nil
}

func (f *fakeCheckpointStore) GetCheckpointByDate(ctx context.Context, userID, date string) (*domain.BalanceCheckpoint, error) {
	for i := range f.checkpoints {
		if f.checkpoints[i].Date == date {
			return &f.checkpoints[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCheckpointStore) CreateCheckpoint(ctx context.Context, userID string, req *domain.CreateCheckpointRequest) (*domain.BalanceCheckpoint, error) {
	cp := domain.BalanceCheckpoint{
		ID:        fmt.Sprintf("cp-%d", len(f.checkpoints)+1),
		UserID:    userID,
		Date:      req.Date,
		Balance:   req.Balance,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}
	f.checkpoints = append(f.checkpoints, cp)
	return &cp, nil
}

func (f *fakeCheckpointStore) DeleteCheckpoint(ctx context.Context, userID, checkpointID string) error {
	for i := range f.checkpoints {
		if f.checkpoints[i].ID == checkpointID {
			f.checkpoints = append(f.checkpoints[:i], f.checkpoints[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "balance_checkpoint", ID: checkpointID}
}

type fakeCardStore struct {
	cards    []domain.CreditCard
	payments []domain.CreditCardPayment
	err      error
}

func (f *fakeCardStore) ListCards(ctx context.Context, userID string) ([]domain.CreditCard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cards, nil
}

func (f *fakeCardStore) GetCard(ctx context.Context, userID, cardID string) (*domain.CreditCard, error) {
	for i := range f.cards {
		if f.cards[i].ID == cardID {
			return &f.cards[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "credit_card", ID: cardID}
}

func (f *fakeCardStore) CreateCard(ctx context.Context, userID string, req *domain.CreateCardRequest) (*domain.CreditCard, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	card := domain.CreditCard{
		ID:       fmt.Sprintf("card-%d", len(f.cards)+1),
		UserID:   userID,
		Name:     req.Name,
		Last4:    req.Last4,
		Balance:  req.Balance,
		Limit:    req.Limit,
		DueDate:  req.DueDate,
		IsActive: isActive,
	}
	f.cards = append(f.cards, card)
	return &card, nil
}

func (f *fakeCardStore) DeleteCard(ctx context.Context, userID, cardID string) error {
	for i := range f.cards {
		if f.cards[i].ID == cardID {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "credit_card", ID: cardID}
}

func (f *fakeCardStore) ListCardPayments(ctx context.Context, userID, cardID string) ([]domain.CreditCardPayment, error) {
	var out []domain.CreditCardPayment
	for _, p := range f.payments {
		if p.CardID == cardID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCardStore) CreateCardPayment(ctx context.Context, userID, cardID string, req *domain.CreateCardPaymentRequest) (*domain.CreditCardPayment, error) {
	card, err := f.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	p := domain.CreditCardPayment{
		ID:          fmt.Sprintf("pay-%d", len(f.payments)+1),
		UserID:      userID,
		CardID:      cardID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Notes:       req.Notes,
	}
	f.payments = append(f.payments, p)
	card.Balance -= req.Amount
	if card.Balance < 0 {
		card.Balance = 0
	}
	return &p, nil
}

type fakeProfileStore struct {
	users []domain.UserProfile
}

func (f *fakeProfileStore) GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			return &f.users[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: email}
}

func (f *fakeProfileStore) GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	for i := range f.users {
		if f.users[i].ID == userID {
			return &f.users[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
}

type fakeCache struct {
	entries map[string]*domain.ForecastResponse
	hits    int
	misses  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.ForecastResponse)}
}

func (c *fakeCache) Get(key string) (*domain.ForecastResponse, bool) {
	v, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

func (c *fakeCache) Set(key string, value *domain.ForecastResponse) {
	c.entries[key] = value
}

func (c *fakeCache) Delete(key string) {
	delete(c.entries, key)
}

type noopInvalidator struct {
	calls int
}

func (n *noopInvalidator) InvalidateUser(userID string) { n.calls++ }
