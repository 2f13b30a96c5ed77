package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
// En modo dev el router funciona sin verifier (header X-Debug-Account-ID).
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
