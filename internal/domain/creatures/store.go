package creatures

import "context"

// Store es el almacén autoritativo: tabla de criaturas por id, índice de
// dueños acotado (MaxOwned por cuenta) y contador global.
//
// Toda mutación compuesta corre dentro de Atomically: o se comprometen
// todas las escrituras del callback, o ninguna. Si fn devuelve error, el
// estado queda exactamente como antes de la llamada.
type Store interface {
	Atomically(ctx context.Context, fn func(tx Tx) error) error

	// View ejecuta fn en un alcance de solo lectura; las escrituras que
	// fn pudiera hacer se descartan siempre.
	View(ctx context.Context, fn func(tx Tx) error) error
}

// Tx es el alcance transaccional sobre el store.
type Tx interface {
	// Creature devuelve el registro o ErrAssetNotFound.
	Creature(id string) (Creature, error)

	// PutCreature inserta o reemplaza el registro por id.
	PutCreature(c Creature) error

	// OwnedBy devuelve los ids del índice de la cuenta. El orden no
	// tiene significado.
	OwnedBy(account string) ([]string, error)

	// AppendOwned agrega id al índice de la cuenta; ErrExceedMaxOwned si
	// ya está en capacidad.
	AppendOwned(account, id string) error

	// RemoveOwned saca id del índice de la cuenta (swap-remove: puede
	// reordenar el resto). ErrAssetNotFound si no estaba.
	RemoveOwned(account, id string) error

	// CanOwnMore falla con ErrExceedMaxOwned si la cuenta está en capacidad.
	CanOwnMore(account string) error

	// Count devuelve el total de criaturas acuñadas en la historia.
	Count() (uint64, error)
	SetCount(n uint64) error

	// Listings devuelve las criaturas con precio publicado.
	Listings() ([]Creature, error)
}
