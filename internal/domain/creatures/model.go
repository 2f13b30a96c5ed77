package creatures

import (
	"encoding/hex"
	"fmt"
)

// Gender define el sexo de la criatura.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// GenomeSize es el tamaño fijo del material genético, en bytes.
const GenomeSize = 16

// Genome es el payload genético de 16 bytes del que derivan los rasgos.
type Genome [GenomeSize]byte

func (g Genome) Hex() string {
	return hex.EncodeToString(g[:])
}

// ParseGenome acepta el genoma en hex de 32 caracteres.
func ParseGenome(s string) (Genome, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Genome{}, fmt.Errorf("genome: %w", err)
	}
	if len(b) != GenomeSize {
		return Genome{}, fmt.Errorf("genome: expected %d bytes, got %d", GenomeSize, len(b))
	}
	var g Genome
	copy(g[:], b)
	return g, nil
}

// Creature es el registro autoritativo de un activo.
// Price nil = no está en venta. El ID es un content-hash asignado al crear
// y no cambia nunca; Owner y Price son los únicos campos mutables.
type Creature struct {
	ID     string
	DNA    Genome
	Gender Gender
	Price  *uint64
	Owner  string
}

// ForSale indica si existe un listing activo.
func (c Creature) ForSale() bool {
	return c.Price != nil
}
