package web

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const confirmTTL = 5 * time.Minute

// confirmations guarda tokens de un solo uso para el borrado total.
// Cada token vale 1; Consume lo decrementa bajo el lock de go-cache,
// así dos consumos concurrentes no pueden ganar ambos.
type confirmations struct {
	pending *cache.Cache
}

func newConfirmations(ttl time.Duration) *confirmations {
	if ttl <= 0 {
		ttl = confirmTTL
	}
	return &confirmations{pending: cache.New(ttl, 2*ttl)}
}

func (c *confirmations) Issue() string {
	token := uuid.NewString()
	c.pending.SetDefault(token, 1)
	return token
}

// Consume devuelve true una sola vez por token emitido y no expirado.
func (c *confirmations) Consume(token string) bool {
	token = strings.TrimSpace(token)
	if _, err := uuid.Parse(token); err != nil {
		return false
	}

	left, err := c.pending.DecrementInt(token, 1)
	if err != nil {
		return false
	}
	c.pending.Delete(token)
	return left == 0
}
