package dao

import (
	"context"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/mvc"
	"wopanel/system/settings/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingDao 配置数据访问层
type SettingDao struct {
	mvc.IBaseDao[model.Setting]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

// NewSettingDao 创建配置DAO实例
func NewSettingDao(db *gorm.DB, log *logger.Log) *SettingDao {
	return &SettingDao{
		IBaseDao: mvc.NewGormDao[model.Setting](db),
		log:      log,
		err:      errorc.NewErrorBuilder("SettingDao"),
		db:       db,
	}
}

// FindByKey 根据键查询配置
func (d *SettingDao) FindByKey(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	err := d.db.WithContext(ctx).Where("`key` = ?", key).First(&setting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, d.err.New("配置项不存在", err).WithCode(errorc.ErrorCodeNotFound)
		}
		return nil, d.err.New("查询配置失败", err).DB()
	}
	return &setting, nil
}

// Upsert 写入配置，键已存在时覆盖值
func (d *SettingDao) Upsert(ctx context.Context, setting *model.Setting) error {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "encrypted", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return d.err.New("保存配置失败", err).DB()
	}
	return nil
}

// WithTx 使用事务
func (d *SettingDao) WithTx(tx *gorm.DB) *SettingDao {
	return &SettingDao{
		IBaseDao: mvc.NewGormDao[model.Setting](tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}
