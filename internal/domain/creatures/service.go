package creatures

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"critter-market/internal/platform/logger"
	"critter-market/internal/ports/beacon"
	"critter-market/internal/ports/ledger"
)

// Service implementa el ciclo de vida del activo: mint, breed, transfer y
// las consultas. Toda acción corre serializada por el beacon (una a la vez,
// en orden de llegada) y compromete sus escrituras de forma atómica.
type Service struct {
	store  Store
	ledger ledger.Ledger
	beacon beacon.Source
	notify Notifier
	log    logger.Logger
	stake  uint64
}

type Options struct {
	Store  Store
	Ledger ledger.Ledger
	Beacon beacon.Source

	Notifier Notifier
	Logger   logger.Logger

	// StakePerCreature > 0 activa la variante con staking: cada criatura
	// mantiene ese monto reservado contra el balance de su dueño actual.
	StakePerCreature uint64
}

func NewService(opts Options) *Service {
	notify := opts.Notifier
	if notify == nil {
		notify = NotifierFunc(func(Event) {})
	}
	lg := opts.Logger
	if lg == nil {
		lg = logger.New(logger.Options{Level: logger.Error})
	}
	return &Service{
		store:  opts.Store,
		ledger: opts.Ledger,
		beacon: opts.Beacon,
		notify: notify,
		log:    lg,
		stake:  opts.StakePerCreature,
	}
}

// StakePerCreature expone el monto de stake configurado (0 = sin staking).
// Lo consume el mercado para el chequeo de solvencia previo a la compra.
func (s *Service) StakePerCreature() uint64 {
	return s.stake
}

// Mint acuña una criatura nueva con genoma y sexo generados.
func (s *Service) Mint(ctx context.Context, owner string) (Creature, error) {
	if strings.TrimSpace(owner) == "" {
		return Creature{}, ErrInvalidInput
	}

	height, index, done := s.beacon.Begin()
	defer done()

	dna := DeriveDNA(s.beacon.Random(TagDNA), height, index, owner, TagDNA)
	gender := DeriveGender(s.beacon.Random(TagGender))

	c, err := s.mint(ctx, owner, dna, gender)
	if err != nil {
		return Creature{}, err
	}

	s.emit(Event{Seq: index, Type: EventCreated, CreatureID: c.ID, Owner: owner})
	s.log.Info("creature minted", map[string]any{"id": c.ID, "owner": owner, "seq": index})
	return c, nil
}

// MintWith acuña con material pre-suministrado (lo usa solo el bootstrap
// de génesis).
func (s *Service) MintWith(ctx context.Context, owner string, dna Genome, gender Gender) (Creature, error) {
	if strings.TrimSpace(owner) == "" {
		return Creature{}, ErrInvalidInput
	}
	if gender != GenderMale && gender != GenderFemale {
		return Creature{}, ErrInvalidInput
	}

	_, index, done := s.beacon.Begin()
	defer done()

	c, err := s.mint(ctx, owner, dna, gender)
	if err != nil {
		return Creature{}, err
	}

	s.emit(Event{Seq: index, Type: EventCreated, CreatureID: c.ID, Owner: owner})
	s.log.Info("creature minted", map[string]any{"id": c.ID, "owner": owner, "seq": index, "genesis": true})
	return c, nil
}

// Breed cruza dos criaturas del caller en una cría nueva.
func (s *Service) Breed(ctx context.Context, caller, id1, id2 string) (Creature, error) {
	if strings.TrimSpace(caller) == "" || id1 == "" || id2 == "" {
		return Creature{}, ErrInvalidInput
	}
	if id1 == id2 {
		return Creature{}, ErrSameParentID
	}

	height, index, done := s.beacon.Begin()
	defer done()

	var out Creature
	err := s.store.Atomically(ctx, func(tx Tx) error {
		p1, err := tx.Creature(id1)
		if err != nil {
			return err
		}
		p2, err := tx.Creature(id2)
		if err != nil {
			return err
		}
		if p1.Owner != caller || p2.Owner != caller {
			return ErrNotOwner
		}

		// El selector es un genoma fresco: bit en 1 = byte del padre 1.
		selector := DeriveDNA(s.beacon.Random(TagDNA), height, index, caller, TagDNA)
		child := Crossover(selector, p1.DNA, p2.DNA)
		gender := DeriveGender(s.beacon.Random(TagGender))

		c, err := s.mintInTx(ctx, tx, caller, child, gender)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return Creature{}, err
	}

	s.emit(Event{Seq: index, Type: EventCreated, CreatureID: out.ID, Owner: caller})
	s.log.Info("creature bred", map[string]any{"id": out.ID, "owner": caller, "parent1": id1, "parent2": id2, "seq": index})
	return out, nil
}

// Transfer mueve una criatura del caller a otra cuenta.
func (s *Service) Transfer(ctx context.Context, from, to, id string) error {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" || id == "" {
		return ErrInvalidInput
	}
	if from == to {
		return ErrTransferToSelf
	}

	_, index, done := s.beacon.Begin()
	defer done()

	err := s.store.Atomically(ctx, func(tx Tx) error {
		c, err := tx.Creature(id)
		if err != nil {
			return err
		}
		if c.Owner != from {
			return ErrNotOwner
		}
		_, err = s.MoveOwnership(ctx, tx, id, to)
		return err
	})
	if err != nil {
		return err
	}

	s.emit(Event{Seq: index, Type: EventTransferred, CreatureID: id, From: from, To: to})
	s.log.Info("creature transferred", map[string]any{"id": id, "from": from, "to": to, "seq": index})
	return nil
}

// MoveOwnership reasigna la criatura al destino dentro del alcance atómico
// dado: swap-remove del índice del dueño actual, limpieza del precio, alta
// en el índice del destino y — con staking — swap de la reserva (se reserva
// del destino antes de tocar nada; se libera la del dueño saliente al
// final). Si un paso falla, el ledger queda compensado y el Atomically que
// envuelve la llamada revierte el store.
func (s *Service) MoveOwnership(ctx context.Context, tx Tx, id, to string) (Creature, error) {
	c, err := tx.Creature(id)
	if err != nil {
		return Creature{}, err
	}
	prev := c.Owner

	staked := false
	if s.stake > 0 {
		if err := s.ledger.Reserve(ctx, to, s.stake); err != nil {
			return Creature{}, ErrInsufficientStake
		}
		staked = true
	}
	revert := func() {
		if staked {
			_ = s.ledger.Unreserve(ctx, to, s.stake)
		}
	}

	if err := tx.RemoveOwned(prev, id); err != nil {
		revert()
		return Creature{}, err
	}
	if err := tx.AppendOwned(to, id); err != nil {
		revert()
		return Creature{}, err
	}

	c.Owner = to
	c.Price = nil
	if err := tx.PutCreature(c); err != nil {
		revert()
		return Creature{}, err
	}

	if staked {
		_ = s.ledger.Unreserve(ctx, prev, s.stake)
	}
	return c, nil
}

// Emit publica un evento del mercado con sobre uuid. Lo usa el paquete
// market para que todos los eventos salgan por el mismo notifier.
func (s *Service) Emit(ev Event) {
	s.emit(ev)
}

func (s *Service) emit(ev Event) {
	ev.ID = uuid.NewString()
	s.notify.Emit(ev)
}

func (s *Service) mint(ctx context.Context, owner string, dna Genome, gender Gender) (Creature, error) {
	var out Creature
	err := s.store.Atomically(ctx, func(tx Tx) error {
		c, err := s.mintInTx(ctx, tx, owner, dna, gender)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return Creature{}, err
	}
	return out, nil
}

// mintInTx es el alta común de Mint/MintWith/Breed. Orden de los pasos:
// overflow del contador, reserva de stake, capacidad del dueño, escritura.
// Un fallo tardío libera la reserva antes de devolver el error.
func (s *Service) mintInTx(ctx context.Context, tx Tx, owner string, dna Genome, gender Gender) (Creature, error) {
	cnt, err := tx.Count()
	if err != nil {
		return Creature{}, err
	}
	if cnt == math.MaxUint64 {
		return Creature{}, ErrCountOverflow
	}
	id := NewID(dna, gender, owner, cnt)

	staked := false
	if s.stake > 0 {
		if err := s.ledger.Reserve(ctx, owner, s.stake); err != nil {
			return Creature{}, ErrInsufficientStake
		}
		staked = true
	}
	revert := func() {
		if staked {
			_ = s.ledger.Unreserve(ctx, owner, s.stake)
		}
	}

	if err := tx.AppendOwned(owner, id); err != nil {
		revert()
		return Creature{}, err
	}
	c := Creature{ID: id, DNA: dna, Gender: gender, Owner: owner}
	if err := tx.PutCreature(c); err != nil {
		revert()
		return Creature{}, err
	}
	if err := tx.SetCount(cnt + 1); err != nil {
		revert()
		return Creature{}, err
	}
	return c, nil
}

// ---- Consultas ----

func (s *Service) Get(ctx context.Context, id string) (Creature, error) {
	var out Creature
	err := s.store.View(ctx, func(tx Tx) error {
		c, err := tx.Creature(id)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *Service) OwnerOf(ctx context.Context, id string) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Owner, nil
}

// OwnedBy devuelve las criaturas de la cuenta, resueltas desde el índice.
func (s *Service) OwnedBy(ctx context.Context, account string) ([]Creature, error) {
	out := make([]Creature, 0)
	err := s.store.View(ctx, func(tx Tx) error {
		ids, err := tx.OwnedBy(account)
		if err != nil {
			return err
		}
		for _, id := range ids {
			c, err := tx.Creature(id)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) TotalCount(ctx context.Context) (uint64, error) {
	var n uint64
	err := s.store.View(ctx, func(tx Tx) error {
		cnt, err := tx.Count()
		if err != nil {
			return err
		}
		n = cnt
		return nil
	})
	return n, err
}
