package kv

import (
	"context"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/farxc/portal-emendas/internal/config"
	"github.com/farxc/portal-emendas/internal/db"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the backend selected by cfg.Storage.Driver. The returned
// closer releases database connections and must be called on shutdown.
func Open(ctx context.Context, cfg config.Config) (Store, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nopCloser{}, nil

	case config.DriverFile:
		s, err := NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil

	case config.DriverPostgres:
		conn, err := db.New(cfg.DB.Addr, cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns, cfg.DB.MaxIdleTime)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewSQLStore(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return s, conn, nil

	case config.DriverSQLite:
		conn, err := db.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewSQLStore(ctx, conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		return s, conn, nil

	case config.DriverDynamoDB, config.DriverS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.AWSRegion))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		if cfg.Storage.Driver == config.DriverDynamoDB {
			return NewDynamoDBStore(dynamodb.NewFromConfig(awsCfg), cfg.Storage.DynamoDBTable), nopCloser{}, nil
		}
		if cfg.Storage.S3Bucket == "" {
			return nil, nil, fmt.Errorf("S3_BUCKET is required for the s3 driver")
		}
		return NewS3Store(s3.NewFromConfig(awsCfg), cfg.Storage.S3Bucket, cfg.Storage.S3Prefix), nopCloser{}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
