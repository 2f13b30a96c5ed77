package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientBalance cubre tanto saldo libre insuficiente como
	// transferencias que dejarían al emisor por debajo del mínimo existencial.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Ledger es el libro de moneda externo. El core nunca muta balances
// directamente: solo consume estas primitivas. Cada operación es atómica
// por sí misma; las composiciones (compra con stake) las orquesta el core
// con compensación explícita.
type Ledger interface {
	// FreeBalance devuelve el saldo libre (no reservado) de la cuenta.
	FreeBalance(ctx context.Context, account string) (uint64, error)

	// Transfer mueve amount de from a to. Con keepAlive, falla con
	// ErrInsufficientBalance si from quedaría debajo del mínimo existencial.
	Transfer(ctx context.Context, from, to string, amount uint64, keepAlive bool) error

	// Reserve congela amount del saldo libre de la cuenta.
	Reserve(ctx context.Context, account string, amount uint64) error

	// Unreserve libera hasta amount de lo reservado. Liberar más de lo
	// reservado no es error: se libera lo que haya.
	Unreserve(ctx context.Context, account string, amount uint64) error
}
