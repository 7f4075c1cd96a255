package service

import (
	"context"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/wo"
	"wopanel/pkg/wp"
)

// SiteSummary 站点列表的一行
type SiteSummary struct {
	Domain string `json:"domain"`
	Type   string `json:"type"`
}

// SiteService 站点管理服务，同步调用驱动工具
type SiteService struct {
	driver *wo.Driver
	wp     *wp.Client
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewSiteService 创建站点服务实例
func NewSiteService(driver *wo.Driver, wpClient *wp.Client, log *logger.Log) *SiteService {
	return &SiteService{
		driver: driver,
		wp:     wpClient,
		log:    log,
		err:    errorc.NewErrorBuilder("SiteService"),
	}
}

// List 列出已托管站点
func (s *SiteService) List(ctx context.Context) ([]SiteSummary, error) {
	domains, err := s.driver.SiteList(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]SiteSummary, 0, len(domains))
	for _, domain := range domains {
		summaries = append(summaries, SiteSummary{Domain: domain, Type: "wp"})
	}
	return summaries, nil
}

// Info 查询站点详情
func (s *SiteService) Info(ctx context.Context, domain string) (*wo.SiteInfo, error) {
	return s.driver.Info(ctx, domain)
}

// Delete 删除站点及其数据
func (s *SiteService) Delete(ctx context.Context, domain string) error {
	output, err := s.driver.SiteDelete(ctx, domain)
	if err != nil {
		s.log.WithField("domain", domain).WithErr(err).Error("删除站点失败")
		return err
	}
	s.log.WithField("domain", domain).WithField("output", output).Info("站点已删除")
	return nil
}

// SwitchPHP 切换站点 PHP 版本
func (s *SiteService) SwitchPHP(ctx context.Context, domain, version string) error {
	_, err := s.driver.SwitchPHP(ctx, domain, version)
	return err
}

// AutoLoginURL 返回站点后台免密登录地址：
// 优先用 wp-cli 生成一次性会话链接，失败时退回站点首页地址
func (s *SiteService) AutoLoginURL(ctx context.Context, domain, adminUser string) (string, error) {
	if adminUser != "" {
		if url, err := s.wp.AdminLoginURL(ctx, domain, adminUser); err == nil {
			return url, nil
		}
	}
	return s.driver.SiteURL(ctx, domain)
}
