package market

import (
	"context"
	"errors"
	"testing"

	"critter-market/internal/adapters/beacon/chain"
	ledgermem "critter-market/internal/adapters/ledger/memory"
	storagemem "critter-market/internal/adapters/storage/memory"
	"critter-market/internal/domain/creatures"
)

// fixture arma el stack real in-memory completo: store, ledger y beacon
// compartidos entre criaturas y mercado, igual que en el router.
type fixture struct {
	market    *Service
	creatures *creatures.Service
	ledger    *ledgermem.Ledger
	events    *[]creatures.Event
}

func newFixture(maxOwned int, policy PricePolicy, stake uint64) *fixture {
	store := storagemem.NewCreatureStore(maxOwned)
	led := ledgermem.NewLedger(1)
	src := chain.New("test-seed")

	events := &[]creatures.Event{}
	crs := creatures.NewService(creatures.Options{
		Store:  store,
		Ledger: led,
		Beacon: src,
		Notifier: creatures.NotifierFunc(func(ev creatures.Event) {
			*events = append(*events, ev)
		}),
		StakePerCreature: stake,
	})
	mkt := NewService(Options{
		Store:     store,
		Ledger:    led,
		Creatures: crs,
		Beacon:    src,
		Policy:    policy,
	})
	return &fixture{market: mkt, creatures: crs, ledger: led, events: events}
}

func (f *fixture) mintFor(t *testing.T, owner string) creatures.Creature {
	t.Helper()
	c, err := f.creatures.Mint(context.Background(), owner)
	if err != nil {
		t.Fatalf("Mint for %s: %v", owner, err)
	}
	return c
}

func (f *fixture) listFor(t *testing.T, owner, id string, price uint64) {
	t.Helper()
	if err := f.market.SetPrice(context.Background(), owner, id, &price); err != nil {
		t.Fatalf("SetPrice: %v", err)
	}
}

func TestBuy_HappyPath(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)
	ctx := context.Background()
	f.ledger.Credit("alice", 1000)
	f.ledger.Credit("bob", 1000)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	got, err := f.market.Buy(ctx, "bob", c.ID, 100)
	if err != nil {
		t.Fatalf("Buy error: %v", err)
	}

	if got.Owner != "bob" {
		t.Fatalf("expected owner bob, got %s", got.Owner)
	}
	if got.ForSale() {
		t.Fatalf("purchase must clear the listing")
	}
	if free, _ := f.ledger.FreeBalance(ctx, "alice"); free != 1100 {
		t.Fatalf("seller balance: expected 1100, got %d", free)
	}
	if free, _ := f.ledger.FreeBalance(ctx, "bob"); free != 900 {
		t.Fatalf("buyer balance: expected 900, got %d", free)
	}
	if owned, _ := f.creatures.OwnedBy(ctx, "alice"); len(owned) != 0 {
		t.Fatalf("id must leave the seller's set")
	}
	if owned, _ := f.creatures.OwnedBy(ctx, "bob"); len(owned) != 1 {
		t.Fatalf("id must enter the buyer's set exactly once")
	}

	last := (*f.events)[len(*f.events)-1]
	if last.Type != creatures.EventSold || last.Buyer != "bob" || last.Seller != "alice" {
		t.Fatalf("expected Sold event, got %#v", last)
	}
	if last.Price == nil || *last.Price != 100 {
		t.Fatalf("Sold event must carry the paid amount, got %#v", last.Price)
	}
}

func TestBuy_NotForSale(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)
	f.ledger.Credit("bob", 1000)

	c := f.mintFor(t, "alice")

	_, err := f.market.Buy(context.Background(), "bob", c.ID, 100)
	if !errors.Is(err, ErrNotForSale) {
		t.Fatalf("expected ErrNotForSale, got %v", err)
	}
}

func TestBuy_BidTooLow_NoStateChange(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)
	ctx := context.Background()
	f.ledger.Credit("bob", 1000)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	_, err := f.market.Buy(ctx, "bob", c.ID, 99)
	if !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow, got %v", err)
	}

	got, _ := f.creatures.Get(ctx, c.ID)
	if got.Owner != "alice" || !got.ForSale() {
		t.Fatalf("failed buy must leave owner and listing intact, got %#v", got)
	}
	if free, _ := f.ledger.FreeBalance(ctx, "bob"); free != 1000 {
		t.Fatalf("failed buy must not move money, got %d", free)
	}
}

func TestBuy_BuyerIsOwner(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	_, err := f.market.Buy(context.Background(), "alice", c.ID, 100)
	if !errors.Is(err, ErrBuyerIsOwner) {
		t.Fatalf("expected ErrBuyerIsOwner, got %v", err)
	}
}

func TestBuy_InsufficientBalance(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)
	f.ledger.Credit("bob", 50)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	_, err := f.market.Buy(context.Background(), "bob", c.ID, 100)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestBuy_KeepAliveMinimum(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)
	ctx := context.Background()
	// exactamente el precio: el transfer dejaría al comprador en cero,
	// debajo del mínimo existencial del ledger
	f.ledger.Credit("bob", 100)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	_, err := f.market.Buy(ctx, "bob", c.ID, 100)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	got, _ := f.creatures.Get(ctx, c.ID)
	if got.Owner != "alice" {
		t.Fatalf("failed buy must leave owner intact")
	}
	if free, _ := f.ledger.FreeBalance(ctx, "bob"); free != 100 {
		t.Fatalf("failed buy must not move money, got %d", free)
	}
}

func TestBuy_PolicyMin_PaysBid(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)
	ctx := context.Background()
	f.ledger.Credit("bob", 1000)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	if _, err := f.market.Buy(ctx, "bob", c.ID, 150); err != nil {
		t.Fatalf("Buy error: %v", err)
	}
	if free, _ := f.ledger.FreeBalance(ctx, "alice"); free != 150 {
		t.Fatalf("seller must receive the bid (150), got %d", free)
	}
	if free, _ := f.ledger.FreeBalance(ctx, "bob"); free != 850 {
		t.Fatalf("buyer must pay the bid (150), got %d", free)
	}
}

func TestBuy_PolicyExact_PaysAsk(t *testing.T) {
	f := newFixture(16, PolicyExact, 0)
	ctx := context.Background()
	f.ledger.Credit("bob", 1000)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	if _, err := f.market.Buy(ctx, "bob", c.ID, 150); err != nil {
		t.Fatalf("Buy error: %v", err)
	}
	if free, _ := f.ledger.FreeBalance(ctx, "alice"); free != 100 {
		t.Fatalf("seller must receive the ask (100), got %d", free)
	}
	if free, _ := f.ledger.FreeBalance(ctx, "bob"); free != 900 {
		t.Fatalf("buyer must pay the ask (100), got %d", free)
	}
}

func TestBuy_BuyerAtCapacity_NoStateChange(t *testing.T) {
	f := newFixture(1, PolicyMin, 0)
	ctx := context.Background()
	f.ledger.Credit("bob", 1000)

	c := f.mintFor(t, "alice")
	f.mintFor(t, "bob")
	f.listFor(t, "alice", c.ID, 100)

	_, err := f.market.Buy(ctx, "bob", c.ID, 100)
	if !errors.Is(err, creatures.ErrExceedMaxOwned) {
		t.Fatalf("expected ErrExceedMaxOwned, got %v", err)
	}
	if free, _ := f.ledger.FreeBalance(ctx, "bob"); free != 1000 {
		t.Fatalf("failed buy must not move money, got %d", free)
	}
	got, _ := f.creatures.Get(ctx, c.ID)
	if got.Owner != "alice" {
		t.Fatalf("failed buy must leave owner intact")
	}
}

func TestBuy_Staked_ReserveSwapsToBuyer(t *testing.T) {
	f := newFixture(16, PolicyMin, 25)
	ctx := context.Background()
	f.ledger.Credit("alice", 1000)
	f.ledger.Credit("bob", 1000)

	c := f.mintFor(t, "alice")
	if f.ledger.ReservedBalance("alice") != 25 {
		t.Fatalf("mint must reserve the stake, got %d", f.ledger.ReservedBalance("alice"))
	}
	f.listFor(t, "alice", c.ID, 100)

	if _, err := f.market.Buy(ctx, "bob", c.ID, 100); err != nil {
		t.Fatalf("Buy error: %v", err)
	}

	if f.ledger.ReservedBalance("alice") != 0 {
		t.Fatalf("seller's stake must be released, got %d", f.ledger.ReservedBalance("alice"))
	}
	if f.ledger.ReservedBalance("bob") != 25 {
		t.Fatalf("buyer's stake must be reserved, got %d", f.ledger.ReservedBalance("bob"))
	}
	// bob: 1000 - 100 (precio) - 25 (reserva) de saldo libre
	if free, _ := f.ledger.FreeBalance(ctx, "bob"); free != 875 {
		t.Fatalf("buyer free balance: expected 875, got %d", free)
	}
	// alice: 1000 - 25 + 100 + 25 de vuelta
	if free, _ := f.ledger.FreeBalance(ctx, "alice"); free != 1100 {
		t.Fatalf("seller free balance: expected 1100, got %d", free)
	}
}

func TestBuy_Staked_PriceCoveredButNotStake(t *testing.T) {
	f := newFixture(16, PolicyMin, 25)
	f.ledger.Credit("alice", 1000)
	// cubre el precio pero no precio + stake
	f.ledger.Credit("bob", 110)

	c := f.mintFor(t, "alice")
	f.listFor(t, "alice", c.ID, 100)

	_, err := f.market.Buy(context.Background(), "bob", c.ID, 100)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if free, _ := f.ledger.FreeBalance(context.Background(), "bob"); free != 110 {
		t.Fatalf("failed buy must not move money, got %d", free)
	}
}

func TestSetPrice_OwnerDelistAndListings(t *testing.T) {
	f := newFixture(16, PolicyMin, 0)
	ctx := context.Background()

	c1 := f.mintFor(t, "alice")
	c2 := f.mintFor(t, "alice")
	f.listFor(t, "alice", c1.ID, 100)
	f.listFor(t, "alice", c2.ID, 200)

	if err := f.market.SetPrice(ctx, "bob", c1.ID, nil); !errors.Is(err, creatures.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := f.market.SetPrice(ctx, "alice", "deadbeefdeadbeefdeadbeefdeadbeef", nil); !errors.Is(err, creatures.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}

	// retirar el listing de c1
	if err := f.market.SetPrice(ctx, "alice", c1.ID, nil); err != nil {
		t.Fatalf("SetPrice(nil) error: %v", err)
	}

	listings, err := f.market.Listings(ctx)
	if err != nil {
		t.Fatalf("Listings error: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != c2.ID {
		t.Fatalf("expected only c2 listed, got %#v", listings)
	}
	if listings[0].Price == nil || *listings[0].Price != 200 {
		t.Fatalf("listing must carry its price, got %#v", listings[0].Price)
	}

	// el retiro también se publica, con precio nulo
	last := (*f.events)[len(*f.events)-1]
	if last.Type != creatures.EventListed || last.Price != nil {
		t.Fatalf("expected Listed event with nil price, got %#v", last)
	}
}
