package postgres

import (
	"context"
	"database/sql"

	"critter-market/internal/domain/creatures"
)

// CreatureStore implementa el store sobre Postgres. El alcance atómico es
// literalmente una transacción SQL: commit si el callback vuelve sin error,
// rollback si no.
type CreatureStore struct {
	db       *sql.DB
	maxOwned int
}

func NewCreatureStore(db *sql.DB, maxOwned int) *CreatureStore {
	return &CreatureStore{db: db, maxOwned: maxOwned}
}

func (s *CreatureStore) Atomically(ctx context.Context, fn func(tx creatures.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&pgTx{ctx: ctx, tx: sqlTx, maxOwned: s.maxOwned}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

func (s *CreatureStore) View(ctx context.Context, fn func(tx creatures.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	// rollback siempre: un View nunca compromete nada
	defer func() { _ = sqlTx.Rollback() }()
	return fn(&pgTx{ctx: ctx, tx: sqlTx, maxOwned: s.maxOwned})
}

type pgTx struct {
	ctx      context.Context
	tx       *sql.Tx
	maxOwned int
}

func (t *pgTx) Creature(id string) (creatures.Creature, error) {
	row := t.tx.QueryRowContext(t.ctx, `
		SELECT id, owner_account, dna, gender, price
		FROM creatures
		WHERE id = $1
	`, id)

	var (
		c     creatures.Creature
		dna   []byte
		price sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Owner, &dna, &c.Gender, &price); err != nil {
		if err == sql.ErrNoRows {
			return creatures.Creature{}, creatures.ErrAssetNotFound
		}
		return creatures.Creature{}, err
	}
	copy(c.DNA[:], dna)
	if price.Valid {
		p := uint64(price.Int64)
		c.Price = &p
	}
	return c, nil
}

func (t *pgTx) PutCreature(c creatures.Creature) error {
	var price sql.NullInt64
	if c.Price != nil {
		price = sql.NullInt64{Int64: int64(*c.Price), Valid: true}
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO creatures (id, owner_account, dna, gender, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			owner_account = EXCLUDED.owner_account,
			price = EXCLUDED.price
	`, c.ID, c.Owner, c.DNA[:], string(c.Gender), price)
	return err
}

func (t *pgTx) OwnedBy(account string) ([]string, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT creature_id FROM creature_owned WHERE account = $1
	`, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (t *pgTx) AppendOwned(account, id string) error {
	if err := t.CanOwnMore(account); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO creature_owned (account, creature_id) VALUES ($1, $2)
	`, account, id)
	return err
}

func (t *pgTx) RemoveOwned(account, id string) error {
	res, err := t.tx.ExecContext(t.ctx, `
		DELETE FROM creature_owned WHERE account = $1 AND creature_id = $2
	`, account, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return creatures.ErrAssetNotFound
	}
	return nil
}

func (t *pgTx) CanOwnMore(account string) error {
	var n int
	row := t.tx.QueryRowContext(t.ctx, `
		SELECT count(*) FROM creature_owned WHERE account = $1
	`, account)
	if err := row.Scan(&n); err != nil {
		return err
	}
	if n >= t.maxOwned {
		return creatures.ErrExceedMaxOwned
	}
	return nil
}

func (t *pgTx) Count() (uint64, error) {
	var n int64
	row := t.tx.QueryRowContext(t.ctx, `SELECT n FROM creature_counter`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (t *pgTx) SetCount(n uint64) error {
	_, err := t.tx.ExecContext(t.ctx, `UPDATE creature_counter SET n = $1`, int64(n))
	return err
}

func (t *pgTx) Listings() ([]creatures.Creature, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT id, owner_account, dna, gender, price
		FROM creatures
		WHERE price IS NOT NULL
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]creatures.Creature, 0)
	for rows.Next() {
		var (
			c     creatures.Creature
			dna   []byte
			price sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Owner, &dna, &c.Gender, &price); err != nil {
			return nil, err
		}
		copy(c.DNA[:], dna)
		if price.Valid {
			p := uint64(price.Int64)
			c.Price = &p
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
