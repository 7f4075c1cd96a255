package settings

import (
	"wopanel/pkg/core/logger"
	"wopanel/system/settings/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	if err := db.AutoMigrate(&model.Setting{}); err != nil {
		log.WithErr(err).Error("迁移配置表失败")
		return err
	}
	return nil
}
