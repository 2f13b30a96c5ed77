package creatures

import "errors"

// Errores de validación: la acción se rechaza sin tocar estado.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrAssetNotFound  = errors.New("creature not found")
	ErrNotOwner       = errors.New("caller is not the owner")
	ErrSameParentID   = errors.New("parents must be distinct")
	ErrTransferToSelf = errors.New("transfer to self")
)

// Errores de capacidad: se alcanzó un límite estructural.
var (
	ErrExceedMaxOwned = errors.New("owner reached max creatures")
	ErrCountOverflow  = errors.New("creature counter overflow")
)

// ErrInsufficientStake: el ledger rechazó la reserva del stake.
var ErrInsufficientStake = errors.New("insufficient balance for stake")
