package billing

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/repo"
	"github.com/mimipoint/backend/internal/wallet"
)

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[uuid.UUID]model.Plan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[uuid.UUID]model.Plan)}
}

func (r *memPlanRepo) CreatePlan(_ context.Context, p model.Plan) (model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[p.ID] = p
	return p, nil
}

func (r *memPlanRepo) GetPlanByID(_ context.Context, id uuid.UUID) (model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return model.Plan{}, customErrors.NewNotFound("plan")
	}
	return p, nil
}

func (r *memPlanRepo) ListPlans(_ context.Context, _, _ int) ([]model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	return out, nil
}

func (r *memPlanRepo) UpdatePlan(_ context.Context, p model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.ID]; !ok {
		return customErrors.NewNotFound("plan")
	}
	r.plans[p.ID] = p
	return nil
}

func (r *memPlanRepo) DeletePlan(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plans, id)
	return nil
}

type memSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[uuid.UUID]model.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[uuid.UUID]model.Subscription)}
}

func (r *memSubscriptionRepo) CreateSubscription(_ context.Context, s model.Subscription) (model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subs {
		if existing.UserID == s.UserID {
			return model.Subscription{}, customErrors.ErrAlreadyExists
		}
	}
	r.subs[s.ID] = s
	return s, nil
}

func (r *memSubscriptionRepo) GetSubscriptionByID(_ context.Context, id uuid.UUID) (model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return model.Subscription{}, customErrors.NewNotFound("subscription")
	}
	return s, nil
}

func (r *memSubscriptionRepo) GetSubscriptionByUserID(_ context.Context, userID uuid.UUID) (model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.UserID == userID {
			return s, nil
		}
	}
	return model.Subscription{}, customErrors.NewNotFound("subscription")
}

func (r *memSubscriptionRepo) ListSubscriptions(_ context.Context, _, _ int) ([]model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSubscriptionRepo) UpdateSubscription(_ context.Context, s model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[s.ID]; !ok {
		return customErrors.NewNotFound("subscription")
	}
	r.subs[s.ID] = s
	return nil
}

func (r *memSubscriptionRepo) DeleteSubscription(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
	return nil
}

type noopGateway struct{}

func (noopGateway) VerifyPayment(_ context.Context, _ string) (bool, json.RawMessage, error) {
	return true, nil, nil
}

type testWalletRepo struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]model.Wallet
}

func newTestWalletRepo() *testWalletRepo {
	return &testWalletRepo{wallets: make(map[uuid.UUID]model.Wallet)}
}

func (r *testWalletRepo) CreateWallet(_ context.Context, w model.Wallet) (model.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[w.ID] = w
	return w, nil
}

func (r *testWalletRepo) GetWalletByID(_ context.Context, id uuid.UUID) (model.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return model.Wallet{}, customErrors.NewNotFound("wallet")
	}
	return w, nil
}

func (r *testWalletRepo) ListWallets(_ context.Context, userID uuid.UUID) ([]model.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Wallet
	for _, w := range r.wallets {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *testWalletRepo) ListWalletsByType(_ context.Context, userID uuid.UUID, wt model.WalletType) ([]model.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Wallet
	for _, w := range r.wallets {
		if w.UserID == userID && w.WalletType == wt {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *testWalletRepo) DeleteWallet(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wallets, id)
	return nil
}

func (r *testWalletRepo) Deposit(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return customErrors.NewNotFound("wallet")
	}
	w.Balance = w.Balance.Add(amount)
	r.wallets[id] = w
	return nil
}

func (r *testWalletRepo) Withdraw(_ context.Context, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return false, customErrors.NewNotFound("wallet")
	}
	if w.Balance.LessThan(amount) {
		return false, nil
	}
	w.Balance = w.Balance.Sub(amount)
	r.wallets[id] = w
	return true, nil
}

type testTransactionRepo struct {
	mu  sync.Mutex
	txs map[uuid.UUID]model.Transaction
}

func newTestTransactionRepo() *testTransactionRepo {
	return &testTransactionRepo{txs: make(map[uuid.UUID]model.Transaction)}
}

func (r *testTransactionRepo) CreateTransaction(_ context.Context, tx model.Transaction) (model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs[tx.ID] = tx
	return tx, nil
}

func (r *testTransactionRepo) GetTransactionByID(_ context.Context, id uuid.UUID) (model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return model.Transaction{}, customErrors.NewNotFound("transaction")
	}
	return tx, nil
}

func (r *testTransactionRepo) GetTransactionByReference(_ context.Context, reference string) (model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.Reference == reference {
			return tx, nil
		}
	}
	return model.Transaction{}, customErrors.NewNotFound("transaction")
}

func (r *testTransactionRepo) ListTransactions(_ context.Context, _, _ int) ([]model.Transaction, error) {
	return nil, nil
}

func (r *testTransactionRepo) ListUserTransactions(_ context.Context, userID uuid.UUID, _, _ int) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *testTransactionRepo) SettleIfPending(_ context.Context, id uuid.UUID, status model.TransactionStatus, payload []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok || tx.Status != model.TxPending {
		return false, nil
	}
	tx.Status = status
	tx.ProviderResponse = payload
	r.txs[id] = tx
	return true, nil
}

func (r *testTransactionRepo) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.txs, id)
	return nil
}

type testTxManager struct {
	wallets      *testWalletRepo
	transactions *testTransactionRepo
}

func (m *testTxManager) WithinTx(_ context.Context, fn func(repo.TxRepos) error) error {
	return fn(m)
}

func (m *testTxManager) Users() repo.UserRepo               { return nil }
func (m *testTxManager) OOBTokens() repo.OOBTokenRepo       { return nil }
func (m *testTxManager) Wallets() repo.WalletRepo           { return m.wallets }
func (m *testTxManager) Transactions() repo.TransactionRepo { return m.transactions }

type testActivityRepo struct{}

func (testActivityRepo) CreateActivity(_ context.Context, _ model.Activity) error { return nil }

func (testActivityRepo) ListActivities(_ context.Context, _ uuid.UUID, _, _ int) ([]model.Activity, error) {
	return nil, nil
}

type billingFixture struct {
	svc     *Service
	wallets *wallet.Service
	subs    *memSubscriptionRepo
	userID  uuid.UUID
	wallet  uuid.UUID
}

func newBillingFixture(t *testing.T, balance int64) *billingFixture {
	t.Helper()
	ctx := context.Background()

	walletRepo := newTestWalletRepo()
	txRepo := newTestTransactionRepo()
	tm := &testTxManager{wallets: walletRepo, transactions: txRepo}
	wallets := wallet.NewService(
		walletRepo, txRepo, testActivityRepo{}, tm, noopGateway{}, zap.NewNop(),
	)
	subs := newMemSubscriptionRepo()
	svc := NewService(newMemPlanRepo(), subs, wallets, zap.NewNop())

	userID := uuid.New()
	owned, err := wallets.List(ctx, userID)
	require.NoError(t, err)
	walletID := owned[0].ID
	if balance > 0 {
		_, err = wallets.Deposit(ctx, userID, walletID, decimal.NewFromInt(balance))
		require.NoError(t, err)
	}

	return &billingFixture{svc: svc, wallets: wallets, subs: subs, userID: userID, wallet: walletID}
}

func (f *billingFixture) plan(t *testing.T, price int64, cycle model.BillingCycle) model.Plan {
	t.Helper()
	p, err := f.svc.CreatePlan(context.Background(), model.Plan{
		Name:         "starter",
		Price:        decimal.NewFromInt(price),
		BillingCycle: cycle,
	})
	require.NoError(t, err)
	return p
}

func TestCreatePlan_Validation(t *testing.T) {
	f := newBillingFixture(t, 0)

	_, err := f.svc.CreatePlan(context.Background(), model.Plan{Price: decimal.NewFromInt(10)})
	require.True(t, customErrors.IsInvalidArgument(err))

	_, err = f.svc.CreatePlan(context.Background(), model.Plan{Name: "x", Price: decimal.NewFromInt(-1)})
	require.True(t, customErrors.IsInvalidArgument(err))
}

func TestSubscribe(t *testing.T) {
	f := newBillingFixture(t, 100)
	ctx := context.Background()
	plan := f.plan(t, 40, model.CycleMonthly)

	sub, err := f.svc.Subscribe(ctx, f.userID, plan.ID, f.wallet)
	require.NoError(t, err)
	require.Equal(t, model.SubscriptionActive, sub.Status)
	require.WithinDuration(t, time.Now().Add(30*24*time.Hour), sub.EndDate, time.Minute)

	w, err := f.wallets.Get(ctx, f.userID, f.wallet)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(60)))
}

func TestSubscribe_InsufficientFunds(t *testing.T) {
	f := newBillingFixture(t, 10)
	plan := f.plan(t, 40, model.CycleMonthly)

	_, err := f.svc.Subscribe(context.Background(), f.userID, plan.ID, f.wallet)
	require.True(t, customErrors.IsInsufficientFunds(err))

	_, err = f.svc.Current(context.Background(), f.userID)
	require.True(t, customErrors.IsNotFound(err))
}

func TestSubscribe_ReplacesExisting(t *testing.T) {
	f := newBillingFixture(t, 200)
	ctx := context.Background()
	monthly := f.plan(t, 40, model.CycleMonthly)
	annual := f.plan(t, 100, model.CycleAnnually)

	first, err := f.svc.Subscribe(ctx, f.userID, monthly.ID, f.wallet)
	require.NoError(t, err)

	second, err := f.svc.Subscribe(ctx, f.userID, annual.ID, f.wallet)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, annual.ID, second.PlanID)
	require.WithinDuration(t, time.Now().Add(365*24*time.Hour), second.EndDate, time.Minute)

	all, err := f.subs.ListSubscriptions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestRenew_ReanchorsAtNow(t *testing.T) {
	f := newBillingFixture(t, 200)
	ctx := context.Background()
	plan := f.plan(t, 40, model.CycleMonthly)

	sub, err := f.svc.Subscribe(ctx, f.userID, plan.ID, f.wallet)
	require.NoError(t, err)

	// Simulate a subscription nearing its end.
	sub.StartDate = time.Now().Add(-29 * 24 * time.Hour)
	sub.EndDate = time.Now().Add(24 * time.Hour)
	require.NoError(t, f.subs.UpdateSubscription(ctx, sub))

	renewed, err := f.svc.Renew(ctx, f.userID, f.wallet)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(30*24*time.Hour), renewed.EndDate, time.Minute)

	w, err := f.wallets.Get(ctx, f.userID, f.wallet)
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(decimal.NewFromInt(120)))
}

func TestCancelAndExpiry(t *testing.T) {
	f := newBillingFixture(t, 100)
	ctx := context.Background()
	plan := f.plan(t, 40, model.CycleMonthly)

	sub, err := f.svc.Subscribe(ctx, f.userID, plan.ID, f.wallet)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, f.userID))
	current, err := f.svc.Current(ctx, f.userID)
	require.NoError(t, err)
	require.Equal(t, model.SubscriptionInactive, current.Status)

	sub.Status = model.SubscriptionActive
	sub.EndDate = time.Now().Add(-time.Hour)
	require.NoError(t, f.subs.UpdateSubscription(ctx, sub))

	current, err = f.svc.Current(ctx, f.userID)
	require.NoError(t, err)
	require.Equal(t, model.SubscriptionExpired, current.Status)
}
