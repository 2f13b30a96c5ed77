package creatures

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Tags de separación de dominio para el beacon: la semilla de dna y la de
// gender nunca deben coincidir.
const (
	TagDNA    = "dna"
	TagGender = "gender"
)

// DeriveDNA genera un genoma determinístico: blake2b-128 sobre la
// concatenación semilla ‖ altura ‖ índice ‖ caller ‖ tag. Con los mismos
// insumos produce siempre el mismo genoma (replay verificable).
func DeriveDNA(seed [32]byte, height, index uint64, caller, tag string) Genome {
	h, _ := blake2b.New(GenomeSize, nil)
	var buf [8]byte

	h.Write(seed[:])
	binary.BigEndian.PutUint64(buf[:], height)
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], index)
	h.Write(buf[:])
	h.Write([]byte(caller))
	h.Write([]byte(tag))

	var g Genome
	copy(g[:], h.Sum(nil))
	return g
}

// DeriveGender toma un bit de paridad del primer byte de la semilla.
func DeriveGender(seed [32]byte) Gender {
	if seed[0]%2 == 0 {
		return GenderMale
	}
	return GenderFemale
}

// Crossover combina dos genomas con un selector: cada bit del hijo viene
// del padre a donde el selector tiene 1, y del padre b donde tiene 0.
// Es un multiplexor a nivel de bit, no un promedio.
func Crossover(selector, a, b Genome) Genome {
	var child Genome
	for i := 0; i < GenomeSize; i++ {
		child[i] = (selector[i] & a[i]) | (^selector[i] & b[i])
	}
	return child
}

// NewID deriva el identificador de una criatura como content-hash del
// registro al momento de crearla. Incluye el contador global para que dos
// criaturas de génesis con dna y dueño idénticos no colisionen.
func NewID(dna Genome, gender Gender, owner string, count uint64) string {
	h, _ := blake2b.New(GenomeSize, nil)
	var buf [8]byte

	h.Write(dna[:])
	h.Write([]byte(gender))
	h.Write([]byte(owner))
	binary.BigEndian.PutUint64(buf[:], count)
	h.Write(buf[:])

	var id Genome
	copy(id[:], h.Sum(nil))
	return id.Hex()
}
