// Package cartstore keeps a locally-persisted mirror of the server cart
// for instant rendering. The server summary is the single source of truth:
// every mutation round-trips and replaces local state wholesale, and a
// mutation that fails after retries leaves the mirror stale.
package cartstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"tiendanorte/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

const maxRetries = 2

// Store mirrors the last-known server cart summary.
type Store struct {
	baseURL   string
	client    *http.Client
	logger    *log.Logger
	retryBase time.Duration

	mu         sync.Mutex
	summary    domain.CartSummary
	drawerOpen bool
}

// New builds a Store with its own cookie jar so the server's guest cart
// cookie survives across calls.
func New(baseURL string, logger *log.Logger) (*Store, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
		logger:    logger,
		retryBase: time.Second,
	}, nil
}

// Summary returns a copy of the mirrored cart state.
func (s *Store) Summary() domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.summary
	out.Items = append([]domain.SummaryItem(nil), s.summary.Items...)
	return out
}

func (s *Store) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

func (s *Store) CloseDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
}

// Add sets the line for productID to quantity and opens the drawer.
func (s *Store) Add(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	err := s.mutate(ctx, http.MethodPost, map[string]any{"productId": productID, "quantity": quantity})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drawerOpen = true
	s.mu.Unlock()
	return nil
}

// Update sets the line quantity; the server removes the line for
// non-positive quantities.
func (s *Store) Update(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, http.MethodPatch, map[string]any{"productId": productID, "quantity": quantity})
}

func (s *Store) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, http.MethodDelete, map[string]any{"productId": productID})
}

// Refresh pulls the current server summary without mutating the cart.
func (s *Store) Refresh(ctx context.Context) error {
	return s.roundTrip(ctx, http.MethodGet, nil)
}

func (s *Store) mutate(ctx context.Context, method string, body map[string]any) error {
	return s.roundTrip(ctx, method, body)
}

// roundTrip sends one cart request with a bounded retry schedule: two
// retries after the first failure, delay doubling from a 1-second base.
// Client errors (4xx) are never retried.
func (s *Store) roundTrip(ctx context.Context, method string, body map[string]any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	op := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/cart", reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("cart request: server returned %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("cart request: rejected with %d", resp.StatusCode))
		}

		var summary domain.CartSummary
		if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
			return backoff.Permanent(fmt.Errorf("decode cart summary: %w", err))
		}

		s.mu.Lock()
		s.summary = summary
		s.mu.Unlock()
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryBase
	bo.Multiplier = 2
	bo.RandomizationFactor = 0

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
	if err != nil {
		s.logger.Printf("cartstore: %s /cart failed: %v", method, err)
		return err
	}
	return nil
}
