package memory

import (
	"context"
	"sync"

	"critter-market/internal/ports/ledger"
)

// Ledger es la implementación in-memory del libro de moneda, para dev y
// tests. Cada cuenta tiene saldo libre y saldo reservado; el mínimo
// existencial aplica al saldo libre del emisor en transfers keep-alive.
type Ledger struct {
	mu  sync.Mutex
	min uint64

	free     map[string]uint64
	reserved map[string]uint64
}

func NewLedger(existentialMin uint64) *Ledger {
	return &Ledger{
		min:      existentialMin,
		free:     make(map[string]uint64),
		reserved: make(map[string]uint64),
	}
}

// Credit acredita saldo libre; lo usa el bootstrap de génesis y los tests.
func (l *Ledger) Credit(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.free[account] += amount
}

func (l *Ledger) FreeBalance(ctx context.Context, account string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.free[account], nil
}

// ReservedBalance expone lo reservado de una cuenta (consultas y tests).
func (l *Ledger) ReservedBalance(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserved[account]
}

func (l *Ledger) Transfer(ctx context.Context, from, to string, amount uint64, keepAlive bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.free[from]
	if balance < amount {
		return ledger.ErrInsufficientBalance
	}
	if keepAlive && balance-amount < l.min {
		return ledger.ErrInsufficientBalance
	}

	l.free[from] = balance - amount
	l.free[to] += amount
	return nil
}

func (l *Ledger) Reserve(ctx context.Context, account string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.free[account] < amount {
		return ledger.ErrInsufficientBalance
	}
	l.free[account] -= amount
	l.reserved[account] += amount
	return nil
}

func (l *Ledger) Unreserve(ctx context.Context, account string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// liberar más de lo reservado no es error: se libera lo que haya
	if amount > l.reserved[account] {
		amount = l.reserved[account]
	}
	l.reserved[account] -= amount
	l.free[account] += amount
	return nil
}
