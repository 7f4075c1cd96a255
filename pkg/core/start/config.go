package start

import (
	"fmt"
	"time"

	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/security"

	"github.com/bsm/redislock"
	"github.com/go-redis/cache/v9"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type JwtConfig struct {
	AdminSecret string `yaml:"admin-secret"`
	ExpireTime  int    `yaml:"expire-time"` // 小时
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Database struct {
	Host     string `yaml:"host"`
	Port     int64  `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DbName   string `yaml:"db-name"`
}

type LogConfig struct {
	Level string            `yaml:"level"`
	File  logger.FileConfig `yaml:",inline"`
}

// WordOpsConfig 外部工具与托管目录配置
type WordOpsConfig struct {
	WoPath   string `yaml:"wo-path"`   // wo 命令路径
	WpPath   string `yaml:"wp-path"`   // wp-cli 命令路径
	Webroot  string `yaml:"webroot"`   // 站点根目录（/var/www）
	AssetDir string `yaml:"asset-dir"` // 本地插件/主题仓库目录
	Timeout  int    `yaml:"timeout"`   // 单条命令超时（秒）
}

type AcmeConfig struct {
	Email   string `yaml:"email"`
	Staging bool   `yaml:"staging"`
}

type Config struct {
	AppName string        `yaml:"app-name"`
	Env     string        `yaml:"env"`
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Jwt     JwtConfig     `yaml:"jwt"`
	Redis   RedisConfig   `yaml:"redis"`
	Database Database     `yaml:"db"`
	Log     LogConfig     `yaml:"log"`
	WordOps WordOpsConfig `yaml:"wordops"`
	Acme    AcmeConfig    `yaml:"acme"`
	Static  string        `yaml:"static"` // 前端静态文件目录
}

type Configures struct {
	Config    Config
	Logger    *logger.Log
	AdminAuth *security.AdminAuth
}

func NewConfigures(file []byte, env string) *Configures {
	var cfg Config
	err := yaml.Unmarshal(file, &cfg)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败，因为%v", err))
	}

	cfg.Env = env
	applyDefaults(&cfg)

	c := &Configures{
		Config: cfg,
		Logger: logger.InitLogger(cfg.Log.Level, &cfg.Log.File),
	}

	c.AdminAuth = c.EnableAdminAuth()

	return c
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.WordOps.WoPath == "" {
		cfg.WordOps.WoPath = "/usr/local/bin/wo"
	}
	if cfg.WordOps.WpPath == "" {
		cfg.WordOps.WpPath = "/usr/local/bin/wp"
	}
	if cfg.WordOps.Webroot == "" {
		cfg.WordOps.Webroot = "/var/www"
	}
	if cfg.WordOps.AssetDir == "" {
		cfg.WordOps.AssetDir = "/var/lib/wopanel/assets"
	}
	if cfg.WordOps.Timeout == 0 {
		cfg.WordOps.Timeout = 600
	}
}

func (c *Configures) EnableAdminAuth() *security.AdminAuth {
	return security.NewAdminAuth([]byte(c.Config.Jwt.AdminSecret), time.Duration(c.Config.Jwt.ExpireTime)*time.Hour)
}

func (c *Configures) EnableMysql() *gorm.DB {
	dsnCfg := mysqldriver.NewConfig()
	dsnCfg.User = c.Config.Database.User
	dsnCfg.Passwd = c.Config.Database.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", c.Config.Database.Host, c.Config.Database.Port)
	dsnCfg.DBName = c.Config.Database.DbName
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.Local
	dsnCfg.Params = map[string]string{"charset": "utf8mb4"}

	db, err := gorm.Open(mysql.Open(dsnCfg.FormatDSN()), &gorm.Config{})
	if err != nil {
		c.Logger.WithField("database", c.Config.Database.Host).WithErr(err).Panic("连接数据库失败")
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.Logger.WithErr(err).Panic("获取底层数据库连接失败")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}

func (c *Configures) EnableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
}

func (c *Configures) EnableCache(rdb *redis.Client) *cache.Cache {
	return cache.New(&cache.Options{
		Redis:      rdb,
		LocalCache: cache.NewTinyLFU(1000, time.Minute),
	})
}

func (c *Configures) EnableLocker(rdb *redis.Client) *redislock.Client {
	return redislock.New(rdb)
}
