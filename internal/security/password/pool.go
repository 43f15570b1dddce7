package password

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Hasher serializa el hashing bcrypt detrás de un semáforo para que una
// ráfaga de registros/logins no acapare todos los cores del proceso.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher crea un Hasher con a lo sumo maxConcurrent hashes en vuelo.
// maxConcurrent <= 0 usa GOMAXPROCS-1 (mínimo 1).
func NewHasher(maxConcurrent int) *Hasher {
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.GOMAXPROCS(0) - 1
		if maxConcurrent < 1 {
			maxConcurrent = 1
		}
	}
	return &Hasher{sem: semaphore.NewWeighted(int64(maxConcurrent))}
}

// Hash ejecuta Hash respetando el límite de concurrencia.
// Respeta cancelación del contexto mientras espera un slot.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)
	return Hash(plain)
}

// Verify ejecuta Verify respetando el límite de concurrencia. Si el contexto
// ya está cancelado, reporta mismatch (el caller trata el error aparte).
func (h *Hasher) Verify(ctx context.Context, plain, digest string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)
	return Verify(plain, digest)
}
