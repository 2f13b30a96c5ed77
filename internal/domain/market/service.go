package market

import (
	"context"
	"errors"
	"strings"

	"critter-market/internal/domain/creatures"
	"critter-market/internal/platform/logger"
	"critter-market/internal/ports/beacon"
	"critter-market/internal/ports/ledger"
)

var (
	ErrNotForSale          = errors.New("creature not for sale")
	ErrBidTooLow           = errors.New("bid below ask price")
	ErrBuyerIsOwner        = errors.New("buyer already owns the creature")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidInput        = errors.New("invalid input")
)

// PricePolicy decide cómo se compara el bid contra el ask y cuánto se paga.
type PricePolicy string

const (
	// PolicyMin: bid >= ask; se paga el bid (comportamiento del original).
	PolicyMin PricePolicy = "min"
	// PolicyExact: se paga el ask publicado; el bid solo debe cubrirlo.
	PolicyExact PricePolicy = "exact"
)

func ParsePolicy(s string) PricePolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(PolicyExact)) {
		return PolicyExact
	}
	return PolicyMin
}

// Service implementa el mercado: publicar precio y comprar. Comparte el
// store y el turno de acciones con el servicio de criaturas para que la
// compra (ledger + cambio de dueño) sea una sola unidad atómica.
type Service struct {
	store     creatures.Store
	ledger    ledger.Ledger
	creatures *creatures.Service
	beacon    beacon.Source
	log       logger.Logger
	policy    PricePolicy
}

type Options struct {
	Store     creatures.Store
	Ledger    ledger.Ledger
	Creatures *creatures.Service
	Beacon    beacon.Source
	Logger    logger.Logger
	Policy    PricePolicy
}

func NewService(opts Options) *Service {
	lg := opts.Logger
	if lg == nil {
		lg = logger.New(logger.Options{Level: logger.Error})
	}
	policy := opts.Policy
	if policy == "" {
		policy = PolicyMin
	}
	return &Service{
		store:     opts.Store,
		ledger:    opts.Ledger,
		creatures: opts.Creatures,
		beacon:    opts.Beacon,
		log:       lg,
		policy:    policy,
	}
}

// SetPrice publica (price != nil) o retira (price == nil) el listing.
// Solo el dueño actual puede hacerlo.
func (s *Service) SetPrice(ctx context.Context, caller, id string, price *uint64) error {
	if strings.TrimSpace(caller) == "" || id == "" {
		return ErrInvalidInput
	}

	_, index, done := s.beacon.Begin()
	defer done()

	err := s.store.Atomically(ctx, func(tx creatures.Tx) error {
		c, err := tx.Creature(id)
		if err != nil {
			return err
		}
		if c.Owner != caller {
			return creatures.ErrNotOwner
		}
		c.Price = price
		return tx.PutCreature(c)
	})
	if err != nil {
		return err
	}

	s.creatures.Emit(creatures.Event{Seq: index, Type: creatures.EventListed, CreatureID: id, Owner: caller, Price: price})
	s.log.Info("price set", map[string]any{"id": id, "owner": caller, "price": price, "seq": index})
	return nil
}

// Buy compra la criatura al precio publicado. Precondiciones en orden:
// existe, el comprador no es el dueño, hay listing, el bid satisface la
// política, el saldo libre cubre precio (+ stake), el comprador tiene
// capacidad. Recién ahí se mueve la plata y el dueño, todo o nada.
func (s *Service) Buy(ctx context.Context, buyer, id string, bid uint64) (creatures.Creature, error) {
	if strings.TrimSpace(buyer) == "" || id == "" {
		return creatures.Creature{}, ErrInvalidInput
	}

	_, index, done := s.beacon.Begin()
	defer done()

	var (
		out    creatures.Creature
		seller string
		paid   uint64
	)
	err := s.store.Atomically(ctx, func(tx creatures.Tx) error {
		c, err := tx.Creature(id)
		if err != nil {
			return err
		}
		if c.Owner == buyer {
			return ErrBuyerIsOwner
		}
		if c.Price == nil {
			return ErrNotForSale
		}
		ask := *c.Price

		if bid < ask {
			return ErrBidTooLow
		}
		paid = bid
		if s.policy == PolicyExact {
			paid = ask
		}
		seller = c.Owner

		// Solvencia: precio más el stake que se va a reservar.
		need := paid + s.creatures.StakePerCreature()
		free, err := s.ledger.FreeBalance(ctx, buyer)
		if err != nil {
			return err
		}
		if free < need {
			return ErrInsufficientBalance
		}

		// Capacidad del comprador antes de mover plata.
		if err := tx.CanOwnMore(buyer); err != nil {
			return err
		}

		// KeepAlive: el comprador no puede quedar debajo del mínimo
		// existencial del ledger.
		if err := s.ledger.Transfer(ctx, buyer, seller, paid, true); err != nil {
			return ErrInsufficientBalance
		}

		if _, err := s.creatures.MoveOwnership(ctx, tx, id, buyer); err != nil {
			// Compensación: la plata ya se movió, se devuelve antes de
			// que el rollback del store haga efecto.
			_ = s.ledger.Transfer(ctx, seller, buyer, paid, false)
			return err
		}

		c, err = tx.Creature(id)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return creatures.Creature{}, err
	}

	s.creatures.Emit(creatures.Event{Seq: index, Type: creatures.EventSold, CreatureID: id, Buyer: buyer, Seller: seller, Price: &paid})
	s.log.Info("creature sold", map[string]any{"id": id, "buyer": buyer, "seller": seller, "price": paid, "seq": index})
	return out, nil
}

// Listings devuelve las criaturas actualmente en venta.
func (s *Service) Listings(ctx context.Context) ([]creatures.Creature, error) {
	var out []creatures.Creature
	err := s.store.View(ctx, func(tx creatures.Tx) error {
		items, err := tx.Listings()
		if err != nil {
			return err
		}
		out = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
