package beacon

// Source es el faro de entropía externo más el contexto de ejecución
// (altura y número de orden de la acción en curso).
//
// Las acciones del core se procesan de a una: Begin toma el turno y lo
// devuelve con done(). Mientras se tiene el turno, Random entrega semillas
// deterministas por tag — misma semilla del beacon + misma secuencia de
// acciones = mismos resultados (replay auditable).
type Source interface {
	// Begin abre el turno de una acción: entrega la altura de bloque
	// actual y el índice de secuencia asignado a la acción. done libera
	// el turno; llamarlo siempre, incluso si la acción falla.
	Begin() (height uint64, index uint64, done func())

	// Random devuelve la semilla para el tag dado dentro de la acción en
	// curso. Solo válido entre Begin y done.
	Random(tag string) [32]byte
}
