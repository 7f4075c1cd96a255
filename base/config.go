package base

import (
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/security"
	"wopanel/pkg/core/start"
	"wopanel/pkg/executor"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var (
	Configures *start.Configures
	Logger     *logger.Log
	ENV        string
	AdminAuth  *security.AdminAuth
	DB         *gorm.DB
	RDB        *redis.Client
	Cache      *cache.Cache
	Locker     *redislock.Client
	Cron       *cron.Cron
	Executor   executor.Executor
)
