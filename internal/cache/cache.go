// Package cache abstrae el cache in-process usado por el módulo de quiz
// (preguntas y categorías son read-heavy y cambian poco).
package cache

import "time"

// Cache es un KV con TTL. Los valores son bytes ya serializados.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
