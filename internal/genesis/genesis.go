package genesis

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"critter-market/internal/domain/creatures"
)

// File es el bootstrap YAML: cuentas con saldo inicial y criaturas
// pre-cargadas con dna y sexo ya decididos.
//
//	accounts:
//	  - account: alice
//	    balance: 1000
//	creatures:
//	  - owner: alice
//	    dna: 0f1e2d3c4b5a69788796a5b4c3d2e1f0
//	    gender: female
type File struct {
	Accounts  []Account  `yaml:"accounts"`
	Creatures []Creature `yaml:"creatures"`
}

type Account struct {
	Account string `yaml:"account"`
	Balance uint64 `yaml:"balance"`
}

type Creature struct {
	Owner  string `yaml:"owner"`
	DNA    string `yaml:"dna"` // hex de 32 caracteres
	Gender string `yaml:"gender"`
}

func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("genesis: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("genesis: %w", err)
	}
	for i, c := range f.Creatures {
		if _, err := creatures.ParseGenome(c.DNA); err != nil {
			return File{}, fmt.Errorf("genesis: creature %d: %w", i, err)
		}
		switch creatures.Gender(c.Gender) {
		case creatures.GenderMale, creatures.GenderFemale:
		default:
			return File{}, fmt.Errorf("genesis: creature %d: bad gender %q", i, c.Gender)
		}
	}
	return f, nil
}

// Creditor es lo que génesis necesita del ledger (lo cumple el in-memory).
type Creditor interface {
	Credit(account string, amount uint64)
}

// Apply acredita las cuentas y acuña las criaturas del archivo, en orden,
// por el mismo camino de mint que usa el tráfico normal. Las cuentas van
// primero para que el mint con staking encuentre saldo.
func Apply(ctx context.Context, f File, led Creditor, svc *creatures.Service) error {
	for _, a := range f.Accounts {
		led.Credit(a.Account, a.Balance)
	}
	for i, c := range f.Creatures {
		dna, err := creatures.ParseGenome(c.DNA)
		if err != nil {
			return fmt.Errorf("genesis: creature %d: %w", i, err)
		}
		if _, err := svc.MintWith(ctx, c.Owner, dna, creatures.Gender(c.Gender)); err != nil {
			return fmt.Errorf("genesis: creature %d: %w", i, err)
		}
	}
	return nil
}
