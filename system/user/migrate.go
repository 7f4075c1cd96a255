package user

import (
	"wopanel/pkg/core/logger"
	"wopanel/system/user/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	if err := db.AutoMigrate(&model.Admin{}); err != nil {
		log.WithErr(err).Error("迁移管理员表失败")
		return err
	}
	return nil
}
