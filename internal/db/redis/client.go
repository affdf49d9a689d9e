package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/movierec/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const (
	defaultClientName   = "movierec"
	defaultPollInterval = 100 * time.Millisecond
)

// Config holds connection parameters for a Redis or Valkey store.
// ClientName shows up in CLIENT LIST; empty means "movierec".
type Config struct {
	Addrs        []string
	Username     string
	Password     string
	DB           int
	ClientName   string
	PollInterval time.Duration // WaitForReady ping interval
}

// Store implements db.Store via rueidis.
type Store struct {
	client       rueidis.Client
	pollInterval time.Duration
}

// NewStore creates a store via rueidis. Works against Redis and Valkey alike.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(clientOption(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, pollInterval: pollInterval(cfg.PollInterval)}, nil
}

// clientOption maps Config onto rueidis. Metadata entries are small and
// TTL-bound, so client-side caching stays off.
func clientOption(cfg Config) rueidis.ClientOption {
	name := cfg.ClientName
	if name == "" {
		name = defaultClientName
	}
	return rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   name,
		DisableCache: true,
	}
}

func pollInterval(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultPollInterval
	}
	return d
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval(s.pollInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cache: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
