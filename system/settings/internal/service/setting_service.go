package service

import (
	"context"
	"time"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/system/settings/internal/dao"
	"wopanel/system/settings/internal/model"

	"github.com/go-redis/cache/v9"
)

const cacheTTL = 10 * time.Minute

// SettingService 配置服务，读路径走 redis 缓存，敏感项落库前加密
type SettingService struct {
	dao    *dao.SettingDao
	cache  *cache.Cache
	cipher *Cipher
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewSettingService 创建配置服务实例，cache 可以为 nil（直接读库）
func NewSettingService(dao *dao.SettingDao, c *cache.Cache, cipher *Cipher, log *logger.Log) *SettingService {
	return &SettingService{
		dao:    dao,
		cache:  c,
		cipher: cipher,
		log:    log,
		err:    errorc.NewErrorBuilder("SettingService"),
	}
}

func cacheKey(key string) string {
	return "wopanel:setting:" + key
}

// Get 读取配置，不存在时返回空串
func (s *SettingService) Get(ctx context.Context, key string) (string, error) {
	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, cacheKey(key), &cached); err == nil {
			return cached, nil
		}
	}

	setting, err := s.dao.FindByKey(ctx, key)
	if err != nil {
		if errorc.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}

	value := setting.Value
	if setting.Encrypted {
		value, err = s.cipher.Decrypt(setting.Value)
		if err != nil {
			return "", err
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(&cache.Item{
			Ctx:   ctx,
			Key:   cacheKey(key),
			Value: value,
			TTL:   cacheTTL,
		})
	}

	return value, nil
}

// Set 写入明文配置
func (s *SettingService) Set(ctx context.Context, key, value string) error {
	return s.save(ctx, key, value, false)
}

// SetSecret 写入敏感配置，加密后落库
func (s *SettingService) SetSecret(ctx context.Context, key, value string) error {
	return s.save(ctx, key, value, true)
}

func (s *SettingService) save(ctx context.Context, key, value string, encrypted bool) error {
	stored := value
	if encrypted && value != "" {
		var err error
		stored, err = s.cipher.Encrypt(value)
		if err != nil {
			return err
		}
	}

	err := s.dao.Upsert(ctx, &model.Setting{
		Key:       key,
		Value:     stored,
		Encrypted: encrypted && value != "",
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cacheKey(key))
	}
	return nil
}

// CloudflareCredentials 读取 Cloudflare DNS 凭证，任一为空视为未配置
func (s *SettingService) CloudflareCredentials(ctx context.Context) (email string, apiKey string, ok bool, err error) {
	email, err = s.Get(ctx, model.KeyCloudflareEmail)
	if err != nil {
		return "", "", false, err
	}
	apiKey, err = s.Get(ctx, model.KeyCloudflareKey)
	if err != nil {
		return "", "", false, err
	}
	return email, apiKey, email != "" && apiKey != "", nil
}
