package ledger

import (
	"context"
	"sync"
	"testing"

	"finapi/internal/domain"
	"finapi/internal/events"
	"finapi/internal/storage/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.StatementCreated
}

func (p *recordingPublisher) Publish(topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := event.(events.StatementCreated); ok {
		p.events = append(p.events, e)
	}
	return nil
}

func newTestLedger() (*Ledger, *memory.UserStore, *memory.StatementStore, *recordingPublisher) {
	users := memory.NewUserStore()
	statements := memory.NewStatementStore()
	pub := &recordingPublisher{}
	return NewLedger(users, statements, pub), users, statements, pub
}

func createUser(t *testing.T, users *memory.UserStore, name string) string {
	t.Helper()
	u := domain.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    name + "@finapi.test",
		Password: "hash",
		Role:     "user",
	}
	if err := users.Create(context.Background(), &u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBalanceOfUserWithoutStatementsIsZero(t *testing.T) {
	l, users, _, _ := newTestLedger()
	userID := createUser(t, users, "alice")

	b, err := l.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if !b.Balance.IsZero() {
		t.Fatalf("balance=%s want 0", b.Balance)
	}
	if len(b.Statement) != 0 {
		t.Fatalf("statement count=%d want 0", len(b.Statement))
	}
}

func TestBalanceOfUnknownUser(t *testing.T) {
	l, _, _, _ := newTestLedger()
	if _, err := l.GetBalance(context.Background(), uuid.NewString()); err != domain.ErrUserNotFound {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
}

func TestDepositsSumToBalance(t *testing.T) {
	l, users, _, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	ctx := context.Background()

	var want int64
	for _, v := range []int64{100, 250, 7} {
		if _, err := l.Deposit(ctx, userID, amt(v), "deposit"); err != nil {
			t.Fatalf("Deposit(%d): %v", v, err)
		}
		want += v
	}

	b, err := l.GetBalance(ctx, userID)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if !b.Balance.Equal(amt(want)) {
		t.Fatalf("balance=%s want %d", b.Balance, want)
	}
	if len(b.Statement) != 3 {
		t.Fatalf("statement count=%d want 3", len(b.Statement))
	}
}

func TestDepositReturnsPersistedStatement(t *testing.T) {
	l, users, _, pub := newTestLedger()
	userID := createUser(t, users, "alice")

	stmt, err := l.Deposit(context.Background(), userID, amt(100), "salary")
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if stmt.ID == "" {
		t.Fatal("statement id not set")
	}
	if stmt.UserID != userID || stmt.SenderID != nil {
		t.Fatalf("ids: user=%s sender=%v", stmt.UserID, stmt.SenderID)
	}
	if stmt.Type != domain.Deposit || stmt.Description != "salary" || !stmt.Amount.Equal(amt(100)) {
		t.Fatalf("unexpected statement %+v", stmt)
	}
	if stmt.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
	if len(pub.events) != 1 || pub.events[0].StatementID != stmt.ID {
		t.Fatalf("published events=%+v", pub.events)
	}
}

func TestDepositForUnknownUser(t *testing.T) {
	l, _, statements, _ := newTestLedger()
	if _, err := l.Deposit(context.Background(), uuid.NewString(), amt(100), "x"); err != domain.ErrUserNotFound {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
	if statements.Len() != 0 {
		t.Fatalf("ledger len=%d want 0", statements.Len())
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	l, users, statements, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	for _, v := range []int64{0, -10} {
		if _, err := l.Deposit(context.Background(), userID, amt(v), "x"); err != domain.ErrInvalidAmount {
			t.Fatalf("Deposit(%d) err=%v want ErrInvalidAmount", v, err)
		}
	}
	if statements.Len() != 0 {
		t.Fatalf("ledger len=%d want 0", statements.Len())
	}
}

func TestWithdrawSucceedsWithSufficientFunds(t *testing.T) {
	l, users, _, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	ctx := context.Background()

	if _, err := l.Deposit(ctx, userID, amt(100), "deposit"); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	stmt, err := l.Withdraw(ctx, userID, amt(50), "groceries")
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if stmt.Type != domain.Withdraw || !stmt.Amount.Equal(amt(50)) {
		t.Fatalf("unexpected statement %+v", stmt)
	}

	b, _ := l.GetBalance(ctx, userID)
	if !b.Balance.Equal(amt(50)) {
		t.Fatalf("balance=%s want 50", b.Balance)
	}
}

func TestWithdrawExactBalanceSucceeds(t *testing.T) {
	l, users, _, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	ctx := context.Background()

	l.Deposit(ctx, userID, amt(100), "deposit")
	if _, err := l.Withdraw(ctx, userID, amt(100), "all of it"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	b, _ := l.GetBalance(ctx, userID)
	if !b.Balance.IsZero() {
		t.Fatalf("balance=%s want 0", b.Balance)
	}
}

func TestWithdrawInsufficientFundsLeavesLedgerUntouched(t *testing.T) {
	l, users, statements, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	ctx := context.Background()

	l.Deposit(ctx, userID, amt(100), "deposit")
	if _, err := l.Withdraw(ctx, userID, amt(101), "too much"); err != domain.ErrInsufficientFunds {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}
	if statements.Len() != 1 {
		t.Fatalf("ledger len=%d want 1", statements.Len())
	}
	b, _ := l.GetBalance(ctx, userID)
	if !b.Balance.Equal(amt(100)) {
		t.Fatalf("balance=%s want 100", b.Balance)
	}
}

func TestTransferMovesFundsAndConservesTotal(t *testing.T) {
	l, users, statements, _ := newTestLedger()
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	ctx := context.Background()

	l.Deposit(ctx, alice, amt(100), "deposit")
	stmt, err := l.Transfer(ctx, alice, bob, amt(40), "rent")
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	// Single row, recorded from the recipient's perspective.
	if stmt.Type != domain.Transfer || stmt.UserID != bob {
		t.Fatalf("unexpected statement %+v", stmt)
	}
	if stmt.SenderID == nil || *stmt.SenderID != alice {
		t.Fatalf("sender_id=%v want %s", stmt.SenderID, alice)
	}
	if statements.Len() != 2 {
		t.Fatalf("ledger len=%d want 2", statements.Len())
	}

	ba, _ := l.GetBalance(ctx, alice)
	bb, _ := l.GetBalance(ctx, bob)
	if !ba.Balance.Equal(amt(60)) {
		t.Fatalf("alice balance=%s want 60", ba.Balance)
	}
	if !bb.Balance.Equal(amt(40)) {
		t.Fatalf("bob balance=%s want 40", bb.Balance)
	}
	if !ba.Balance.Add(bb.Balance).Equal(amt(100)) {
		t.Fatalf("total=%s want 100", ba.Balance.Add(bb.Balance))
	}
	// The transfer row shows up in both parties' statements.
	if len(ba.Statement) != 2 || len(bb.Statement) != 1 {
		t.Fatalf("statement counts alice=%d bob=%d", len(ba.Statement), len(bb.Statement))
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	l, users, statements, _ := newTestLedger()
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	ctx := context.Background()

	l.Deposit(ctx, alice, amt(10), "deposit")
	if _, err := l.Transfer(ctx, alice, bob, amt(11), "rent"); err != domain.ErrInsufficientFunds {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}
	if statements.Len() != 1 {
		t.Fatalf("ledger len=%d want 1", statements.Len())
	}
}

func TestTransferToSelf(t *testing.T) {
	l, users, _, _ := newTestLedger()
	alice := createUser(t, users, "alice")
	ctx := context.Background()

	l.Deposit(ctx, alice, amt(100), "deposit")
	if _, err := l.Transfer(ctx, alice, alice, amt(10), "loop"); err != domain.ErrSameUser {
		t.Fatalf("err=%v want ErrSameUser", err)
	}
}

func TestTransferToUnknownRecipient(t *testing.T) {
	l, users, _, _ := newTestLedger()
	alice := createUser(t, users, "alice")
	ctx := context.Background()

	l.Deposit(ctx, alice, amt(100), "deposit")
	if _, err := l.Transfer(ctx, alice, uuid.NewString(), amt(10), "rent"); err != domain.ErrUserNotFound {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
}

func TestGetStatementOperation(t *testing.T) {
	l, users, _, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	ctx := context.Background()

	created, err := l.Deposit(ctx, userID, amt(100), "salary")
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	got, err := l.GetStatementOperation(ctx, userID, created.ID)
	if err != nil {
		t.Fatalf("GetStatementOperation: %v", err)
	}
	if got.ID != created.ID || got.UserID != userID || got.SenderID != nil {
		t.Fatalf("got %+v want %+v", got, created)
	}
	if got.Type != domain.Deposit || got.Description != "salary" || !got.Amount.Equal(amt(100)) {
		t.Fatalf("got %+v want %+v", got, created)
	}
}

func TestGetStatementOperationUnknownID(t *testing.T) {
	l, users, _, _ := newTestLedger()
	userID := createUser(t, users, "alice")

	if _, err := l.GetStatementOperation(context.Background(), userID, uuid.NewString()); err != domain.ErrStatementNotFound {
		t.Fatalf("err=%v want ErrStatementNotFound", err)
	}
}

func TestGetStatementOperationUnknownUser(t *testing.T) {
	l, _, _, _ := newTestLedger()
	if _, err := l.GetStatementOperation(context.Background(), uuid.NewString(), uuid.NewString()); err != domain.ErrUserNotFound {
		t.Fatalf("err=%v want ErrUserNotFound", err)
	}
}

// Deposit 100, withdraw 50, fail to withdraw 1000: balance and entry count
// must survive the failed attempt, and entries keep insertion order.
func TestDepositWithdrawScenario(t *testing.T) {
	l, users, statements, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	ctx := context.Background()

	l.Deposit(ctx, userID, amt(100), "deposit")
	b, _ := l.GetBalance(ctx, userID)
	if !b.Balance.Equal(amt(100)) {
		t.Fatalf("balance=%s want 100", b.Balance)
	}

	l.Withdraw(ctx, userID, amt(50), "withdraw")
	b, _ = l.GetBalance(ctx, userID)
	if !b.Balance.Equal(amt(50)) {
		t.Fatalf("balance=%s want 50", b.Balance)
	}
	if len(b.Statement) != 2 {
		t.Fatalf("statement count=%d want 2", len(b.Statement))
	}
	if b.Statement[0].Type != domain.Deposit || b.Statement[1].Type != domain.Withdraw {
		t.Fatalf("order: %s, %s", b.Statement[0].Type, b.Statement[1].Type)
	}

	if _, err := l.Withdraw(ctx, userID, amt(1000), "too much"); err != domain.ErrInsufficientFunds {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}
	b, _ = l.GetBalance(ctx, userID)
	if !b.Balance.Equal(amt(50)) {
		t.Fatalf("balance=%s want 50 after failed withdraw", b.Balance)
	}
	if statements.Len() != 2 {
		t.Fatalf("ledger len=%d want 2", statements.Len())
	}
}

// Concurrent withdrawals must never drive the balance negative: with 100 in
// the account and ten concurrent withdrawals of 30, exactly three can pass.
func TestConcurrentWithdrawalsKeepBalanceNonNegative(t *testing.T) {
	l, users, _, _ := newTestLedger()
	userID := createUser(t, users, "alice")
	ctx := context.Background()

	l.Deposit(ctx, userID, amt(100), "deposit")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Withdraw(ctx, userID, amt(30), "race"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 3 {
		t.Fatalf("succeeded=%d want 3", succeeded)
	}
	b, _ := l.GetBalance(ctx, userID)
	if b.Balance.IsNegative() {
		t.Fatalf("balance went negative: %s", b.Balance)
	}
	if !b.Balance.Equal(amt(10)) {
		t.Fatalf("balance=%s want 10", b.Balance)
	}
}
