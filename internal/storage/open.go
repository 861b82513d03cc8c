package storage

import (
	"context"
	"fmt"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Options struct {
	Driver        string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Postgres      Credentials
	MongoURI      string
	MongoDBName   string
}

// Open connects the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, "":
		return OpenSQLite(opts.SQLitePath)
	case DriverRedis:
		return ConnectRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case DriverPostgres:
		return OpenPostgres(opts.Postgres)
	case DriverMongo:
		return ConnectMongoDB(ctx, opts.MongoURI, opts.MongoDBName)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
