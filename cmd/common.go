package cmd

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wsmxd/mxdblog/pkg/envs"
	"github.com/wsmxd/mxdblog/pkg/infras/database"
	"github.com/wsmxd/mxdblog/pkg/infras/kvstore"
	"github.com/wsmxd/mxdblog/pkg/logging"
)

func newDBConfig() database.Config {
	return database.Config{
		Host:     envs.MysqlHost,
		Port:     envs.MysqlPort,
		User:     envs.MysqlUser,
		Password: envs.MysqlPassword,
		Database: envs.MysqlDatabase,
		Charset:  envs.MysqlCharSet,
	}
}

func newKVConfig() kvstore.Config {
	return kvstore.Config{
		Backend:  envs.KVBackend,
		Timeout:  envs.KVTimeout,
		CacheTTL: envs.KVCacheTTL,
		Upstash: kvstore.UpstashConfig{
			URL:   envs.UpstashRestURL,
			Token: envs.UpstashRestToken,
		},
		Redis: kvstore.RedisConfig{
			Addr:     envs.RedisAddr,
			Password: envs.RedisPassword,
			DB:       envs.RedisDB,
		},
		Mysql: newDBConfig(),
	}
}

// registerer 为 nil 时不上报指标
func newKVClient(ctx context.Context, registerer prometheus.Registerer) (*kvstore.Client, error) {
	opts := []kvstore.Option{kvstore.WithLogger(logging.GetKVLogger())}
	if registerer != nil {
		opts = append(opts, kvstore.WithRegisterer(registerer))
	}
	return kvstore.New(ctx, newKVConfig(), opts...)
}
