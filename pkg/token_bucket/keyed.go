package token_bucket

import (
	"sync"
	"time"
)

// KeyedLimiter держит отдельный bucket на ключ (например, на водителя).
// Bucket'ы, к которым не обращались дольше idleTTL, вычищаются при Allow.
type KeyedLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*TokenBucket
	capacity   int
	refillRate float64
	idleTTL    time.Duration
	lastSweep  time.Time
	now        Clock
}

func NewKeyedLimiter(capacity int, refillRate float64, idleTTL time.Duration) *KeyedLimiter {
	return NewKeyedLimiterWithClock(capacity, refillRate, idleTTL, time.Now)
}

func NewKeyedLimiterWithClock(capacity int, refillRate float64, idleTTL time.Duration, now Clock) *KeyedLimiter {
	return &KeyedLimiter{
		buckets:    make(map[string]*TokenBucket),
		capacity:   capacity,
		refillRate: refillRate,
		idleTTL:    idleTTL,
		lastSweep:  now(),
		now:        now,
	}
}

func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	now := k.now()
	if k.idleTTL > 0 && now.Sub(k.lastSweep) >= k.idleTTL {
		k.sweep(now)
	}

	bucket, ok := k.buckets[key]
	if !ok {
		bucket = NewTokenBucketWithClock(k.capacity, k.refillRate, k.now)
		k.buckets[key] = bucket
	}
	k.mu.Unlock()

	return bucket.Allow()
}

// Len количество живых bucket'ов.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

func (k *KeyedLimiter) sweep(now time.Time) {
	for key, bucket := range k.buckets {
		if bucket.idleSince(now) >= k.idleTTL {
			delete(k.buckets, key)
		}
	}
	k.lastSweep = now
}
