package chain

import (
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Chain es el beacon determinista: una cadena de hash blake2b sembrada por
// configuración. Además de entregar semillas, serializa las acciones del
// core: Begin toma el turno (de a una, en orden de llegada) y asigna el
// índice de secuencia. Con la misma semilla y la misma secuencia de
// acciones, las semillas entregadas se repiten exactas — que es lo que hace
// reproducible el estado en un replay.
type Chain struct {
	turn sync.Mutex

	state  [32]byte
	height uint64
	index  uint64
}

func New(seed string) *Chain {
	return &Chain{state: blake2b.Sum256([]byte(seed))}
}

// Begin toma el turno de la acción. done() lo libera; llamarlo siempre.
func (c *Chain) Begin() (height uint64, index uint64, done func()) {
	c.turn.Lock()
	index = c.index
	c.index++
	return c.height, index, c.turn.Unlock
}

// Random entrega la semilla para el tag y avanza la cadena. Solo válido
// con el turno tomado; el avance depende del tag, así que la secuencia de
// llamadas dentro de una acción también queda fijada por el código.
func (c *Chain) Random(tag string) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write(c.state[:])
	h.Write([]byte(tag))

	var out [32]byte
	copy(out[:], h.Sum(nil))
	c.state = blake2b.Sum256(out[:])
	return out
}

// AdvanceHeight sube la altura de bloque. El bootstrap de génesis corre en
// la altura 0 y avanza a 1 antes de servir tráfico.
func (c *Chain) AdvanceHeight() {
	c.turn.Lock()
	defer c.turn.Unlock()
	c.height++
}
