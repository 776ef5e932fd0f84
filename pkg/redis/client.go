package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client envoltorio sobre go-redis que se inyecta en los componentes que lo necesitan.
type Client struct {
	rdb *redis.Client
}

// New crea el cliente desde REDIS_URL y verifica la conexión con PING.
func New(url, password string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return &Client{rdb: rdb}, nil
}

// NewFromClient usa un *redis.Client ya construido (tests con miniredis).
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Raw devuelve el cliente go-redis subyacente.
func (c *Client) Raw() *redis.Client {
	return c.rdb
}

// Close cierra las conexiones.
func (c *Client) Close() error {
	return c.rdb.Close()
}
