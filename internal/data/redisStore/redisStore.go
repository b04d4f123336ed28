package redisStore

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/akolanti/CourseRAG/internal/config"
	"github.com/akolanti/CourseRAG/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

var (
	instances = make(map[int]*Store)
	mu        sync.RWMutex
	logger    = logger_i.NewLogger("Redis Store")
	once      sync.Once
)

// Connection is where the redis server lives. One client is kept per DB index.
type Connection struct {
	Addr     string
	Password string
}

type Store struct {
	client *redis.Client
	Type   int
}

// GetRedisStore returns the shared store for dbType, or nil when redis is
// unreachable so the caller can fall back to memory.
func GetRedisStore(ctx context.Context, conn Connection, dbType int) *Store {
	mu.RLock()
	instance, exists := instances[dbType]
	mu.RUnlock()

	if exists {
		return instance
	}

	mu.Lock()
	defer mu.Unlock()

	if instance, exists = instances[dbType]; exists {
		return instance
	}
	return createNewStore(ctx, conn, dbType)
}

func closeRedisStores(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Redis Stores")
	mu.Lock()
	defer mu.Unlock()
	for dbType, store := range instances {
		if err := store.client.Close(); err != nil {
			logger.Error("Error closing redis client", "db", dbType, "error", err)
		}
		delete(instances, dbType)
	}
	logger.Info("Redis Store Closed successfully")
}

func createNewStore(ctx context.Context, conn Connection, dbType int) *Store {
	if conn.Addr == "" {
		conn.Addr = config.RedisAddr
	}
	log := logger.With("db", strconv.Itoa(dbType))

	newClient := redis.NewClient(&redis.Options{
		Addr:                  conn.Addr,
		Password:              conn.Password,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		log.Error("Redis is offline", "addr", conn.Addr, "error", err.Error())
		_ = newClient.Close()
		return nil
	}

	log.Info("Redis client init successfully")

	newStore := &Store{
		client: newClient,
		Type:   dbType,
	}

	instances[dbType] = newStore
	once.Do(func() {
		go closeRedisStores(ctx)
	})
	return newStore
}

// NewTestStore wraps an existing client, used with miniredis.
func NewTestStore(client *redis.Client) *Store {
	return &Store{client: client}
}
