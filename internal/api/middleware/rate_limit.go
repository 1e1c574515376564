package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-VenueService/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, повторите позже"

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RateLimitOptions параметры ограничителя
type RateLimitOptions struct {
	RequestsPerSecond float64
	Burst             int
	// MaxClients сколько IP отслеживается одновременно, вытесняются давно не приходившие
	MaxClients int
	// IdleTTL через сколько после последнего запроса клиент забывается (0 - без срока)
	IdleTTL time.Duration
}

// RateLimiter ограничивает частоту запросов с одного IP
type RateLimiter struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *rate.Limiter]
	rps     rate.Limit
	burst   int
	logger  Logger
}

// NewRateLimiter создает ограничитель: RequestsPerSecond запросов в секунду, Burst запросов подряд
func NewRateLimiter(opts RateLimitOptions, logger Logger) *RateLimiter {
	return &RateLimiter{
		clients: expirable.NewLRU[string, *rate.Limiter](opts.MaxClients, nil, opts.IdleTTL),
		rps:     rate.Limit(opts.RequestsPerSecond),
		burst:   opts.Burst,
		logger:  logger,
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.clients.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
	}
	// повторный Add продлевает срок жизни записи
	l.clients.Add(ip, limiter)
	return limiter
}

// Tracked количество отслеживаемых клиентов
func (l *RateLimiter) Tracked() int {
	return l.clients.Len()
}

// Middleware возвращает 429, когда лимит клиента исчерпан
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.limiter(ip).Allow() {
			l.logger.Warn("%s %s - Rate limit exceeded: ip=%s", r.Method, r.URL.Path, ip)
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
