package dao

import (
	"context"
	"time"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/core/mvc"
	"wopanel/system/ssl/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CertificateDao 证书数据访问层
type CertificateDao struct {
	mvc.IBaseDao[model.Certificate]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

// NewCertificateDao 创建证书DAO实例
func NewCertificateDao(db *gorm.DB, log *logger.Log) *CertificateDao {
	return &CertificateDao{
		IBaseDao: mvc.NewGormDao[model.Certificate](db),
		log:      log,
		err:      errorc.NewErrorBuilder("CertificateDao"),
		db:       db,
	}
}

// FindByDomain 根据域名查询证书
func (d *CertificateDao) FindByDomain(ctx context.Context, domain string) (*model.Certificate, error) {
	var cert model.Certificate
	err := d.db.WithContext(ctx).Where("domain = ?", domain).First(&cert).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, d.err.New("证书记录不存在", err).WithCode(errorc.ErrorCodeNotFound)
		}
		return nil, d.err.New("查询证书失败", err).DB()
	}
	return &cert, nil
}

// Upsert 写入证书记录，同域名覆盖
func (d *CertificateDao) Upsert(ctx context.Context, cert *model.Certificate) error {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"method", "fullchain_pem", "privkey_pem", "account_key_pem",
			"cert_url", "issued_at", "expires_at", "updated_at",
		}),
	}).Create(cert).Error
	if err != nil {
		return d.err.New("保存证书失败", err).DB()
	}
	return nil
}

// FindExpiring 查询指定时间前过期的 dns-01 证书
func (d *CertificateDao) FindExpiring(ctx context.Context, before time.Time) ([]*model.Certificate, error) {
	var certs []*model.Certificate
	err := d.db.WithContext(ctx).
		Where("method = ? AND expires_at < ?", model.MethodDNS01, before).
		Find(&certs).Error
	if err != nil {
		return nil, d.err.New("查询待续期证书失败", err).DB()
	}
	return certs, nil
}

// WithTx 使用事务
func (d *CertificateDao) WithTx(tx *gorm.DB) *CertificateDao {
	return &CertificateDao{
		IBaseDao: mvc.NewGormDao[model.Certificate](tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}
