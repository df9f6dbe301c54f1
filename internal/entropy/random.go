// Package entropy provides the randomness behind production rolls, combat,
// and encounters. A random.org pool backs critical draws when an API key is
// configured; crypto/rand is the fallback. The engine consumes this through
// its Dice interface so tests can script rolls.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Source draws uniform random numbers, optionally refilled from random.org.
type Source struct {
	apiKey string
	client *http.Client

	mu   sync.Mutex
	pool []float64
}

// New creates a Source. With an empty apiKey every draw uses crypto/rand.
func New(apiKey string) *Source {
	s := &Source{apiKey: apiKey}
	if apiKey != "" {
		s.client = &http.Client{Timeout: 15 * time.Second}
	}
	return s
}

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 {
	if s == nil || s.apiKey == "" {
		return cryptoRandFloat()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pool) < 10 {
		s.refill()
	}
	if len(s.pool) == 0 {
		return cryptoRandFloat()
	}

	val := s.pool[0]
	s.pool = s.pool[1:]
	return val
}

// Roll100 returns a uniform roll in [0, 100) for production tables.
func (s *Source) Roll100() float64 {
	return s.Float() * 100
}

// Chance returns true with probability p in [0, 1].
func (s *Source) Chance(p float64) bool {
	return s.Float() < p
}

// IntN returns a uniform int in [0, n). n must be positive.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns a uniform float64 in [min, max].
func (s *Source) Between(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.Float()*(max-min)
}

func (s *Source) refill() {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        s.apiKey,
			"n":             100,
			"decimalPlaces": 6,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return
	}

	resp, err := s.client.Post("https://api.random.org/json-rpc/4/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return
	}
	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return
	}

	s.pool = append(s.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
}

// cryptoRandFloat generates a uniform float64 in [0, 1) from crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 keeps the game playable.
		return 0.5
	}
	// 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
