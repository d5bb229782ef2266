package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define o contrato de interface para qualquer serviço de cache que o Repositório possa usar.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr incrementa o contador em key e garante que ele expire em expiration.
	Incr(ctx context.Context, key string, expiration time.Duration) (int64, error)
	Close() error
}

// ErrCacheMiss é retornado quando a chave não é encontrada no cache.
var ErrCacheMiss = redis.Nil

// ErrDisabled é retornado pelo NoopClient em operações de contagem.
var ErrDisabled = errors.New("cache desabilitado")

// RedisClient é a implementação concreta da interface Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient cria o cliente Redis e testa a conexão com PING.
func NewRedisClient(addr string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &RedisClient{rdb: rdb}, nil
}

// Get recupera o valor associado a uma chave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set define um valor para uma chave com um tempo de expiração.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete remove uma chave do cache.
func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// incrScript incrementa o contador e garante o TTL na mesma operação atômica.
// Uma chave que tenha ficado sem expiração recebe o TTL no próximo incremento.
var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Incr incrementa key numa janela fixa de duração expiration.
func (c *RedisClient) Incr(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	return incrScript.Run(ctx, c.rdb, []string{key}, expiration.Milliseconds()).Int64()
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// NoopClient é usado quando o Redis não está configurado: toda leitura é miss.
type NoopClient struct{}

// NewNoopClient cria um cliente de cache que não armazena nada.
func NewNoopClient() NoopClient { return NoopClient{} }

func (NoopClient) Get(context.Context, string) (string, error) { return "", ErrCacheMiss }

func (NoopClient) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (NoopClient) Delete(context.Context, string) error { return nil }

func (NoopClient) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, ErrDisabled
}

func (NoopClient) Close() error { return nil }
