package auth

// Claims es la identidad ya autenticada del caller.
// El core trata AccountID como un identificador opaco y comparable;
// quién lo emitió y cómo se verificó es problema del colaborador externo.
type Claims struct {
	AccountID string
}
