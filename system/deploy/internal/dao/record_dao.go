package dao

import (
	"context"
	"time"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/mvc"
	"wopanel/system/deploy/internal/model"

	"gorm.io/gorm"
)

// RecordDao 部署历史数据访问层
type RecordDao struct {
	mvc.IBaseDao[model.DeployRecord]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

// NewRecordDao 创建部署历史DAO实例
func NewRecordDao(db *gorm.DB, log *logger.Log) *RecordDao {
	return &RecordDao{
		IBaseDao: mvc.NewGormDao[model.DeployRecord](db),
		log:      log,
		err:      errorc.NewErrorBuilder("RecordDao"),
		db:       db,
	}
}

// Record 落库一条部署历史
func (d *RecordDao) Record(ctx context.Context, record *model.DeployRecord) error {
	if err := d.db.WithContext(ctx).Create(record).Error; err != nil {
		return d.err.New("保存部署历史失败", err).DB()
	}
	return nil
}

// FindByDomain 按域名倒序查询部署历史
func (d *RecordDao) FindByDomain(ctx context.Context, domain string, limit int) ([]*model.DeployRecord, error) {
	var records []*model.DeployRecord
	err := d.db.WithContext(ctx).
		Where("domain = ?", domain).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, d.err.New("查询部署历史失败", err).DB()
	}
	return records, nil
}

// FindRecent 查询最近的部署历史
func (d *RecordDao) FindRecent(ctx context.Context, limit int) ([]*model.DeployRecord, error) {
	var records []*model.DeployRecord
	err := d.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, d.err.New("查询部署历史失败", err).DB()
	}
	return records, nil
}

// DeleteBefore 删除结束时间早于 before 的历史，返回删除行数
func (d *RecordDao) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("finished_at < ?", before).
		Delete(&model.DeployRecord{})
	if result.Error != nil {
		return 0, d.err.New("清理部署历史失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}
