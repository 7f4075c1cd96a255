package deploy

import (
	"wopanel/pkg/core/logger"
	"wopanel/system/deploy/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	if err := db.AutoMigrate(&model.DeployRecord{}); err != nil {
		log.WithErr(err).Error("迁移部署历史表失败")
		return err
	}
	return nil
}
