// SessionRegistry — каталоги UI-сессий в LRU-кэше с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable: неактивные сессии вытесняются сами.
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики реестра сессий.
var (
	sessionHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fw_sessions_hits_total",
		Help: "Общее количество обращений к существующей сессии каталога.",
	})
	sessionMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fw_sessions_misses_total",
		Help: "Общее количество обращений к отсутствующей или истёкшей сессии.",
	})
)

// SessionRegistry — реестр каталогов по идентификатору сессии.
// Каждый экземпляр сервиса хранит сессии в памяти (per-instance).
type SessionRegistry struct {
	cache   *expirable.LRU[string, *Catalog]
	factory func() *Catalog

	// mu сериализует Acquire, чтобы одна сессия не получила два каталога
	mu sync.Mutex
}

// NewSessionRegistry создаёт реестр.
// maxSize — максимальное число сессий, ttl — время жизни с момента создания.
// factory создаёт каталог для новой сессии.
func NewSessionRegistry(maxSize int, ttl time.Duration, factory func() *Catalog) *SessionRegistry {
	return &SessionRegistry{
		cache:   expirable.NewLRU[string, *Catalog](maxSize, nil, ttl),
		factory: factory,
	}
}

// Get возвращает каталог сессии. (nil, false) — сессии нет или она истекла.
func (s *SessionRegistry) Get(sessionID string) (*Catalog, bool) {
	c, ok := s.cache.Get(sessionID)
	if ok {
		sessionHitsTotal.Inc()
		return c, true
	}
	sessionMissesTotal.Inc()
	return nil, false
}

// Acquire возвращает каталог сессии, создавая новую сессию при необходимости.
// Невалидный (не UUID) или неизвестный идентификатор заменяется новым.
// created=true — сессия создана этим вызовом, клиенту нужно выдать новый ID.
func (s *SessionRegistry) Acquire(sessionID string) (id string, c *Catalog, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := uuid.Parse(sessionID); err == nil {
		if c, ok := s.Get(sessionID); ok {
			return sessionID, c, false
		}
	} else {
		sessionMissesTotal.Inc()
	}

	id = uuid.NewString()
	c = s.factory()
	s.cache.Add(id, c)
	return id, c, true
}

// Remove завершает сессию.
func (s *SessionRegistry) Remove(sessionID string) {
	s.cache.Remove(sessionID)
}

// Len возвращает число активных сессий.
func (s *SessionRegistry) Len() int {
	return s.cache.Len()
}
