package service

import (
	"context"
	"time"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	"wopanel/pkg/wo"
	"wopanel/system/ssl/internal/dao"
	"wopanel/system/ssl/internal/model"
)

// renewBefore 距过期不足 30 天时续期
const renewBefore = 30 * 24 * time.Hour

// CredentialSource 提供 DNS API 凭证，由配置组件实现
type CredentialSource interface {
	CloudflareCredentials(ctx context.Context) (email string, apiKey string, ok bool, err error)
}

// CertificateService 站点证书服务
// 配置了 Cloudflare 凭证时走 DNS-01（支持内网站点与泛解析），
// 否则退回驱动工具自带的 HTTP-01 流程
type CertificateService struct {
	dao         *dao.CertificateDao
	acme        *AcmeService
	driver      *wo.Driver
	installer   CertInstaller
	credentials CredentialSource
	acmeEmail   string
	staging     bool
	log         *logger.Log
	err         *errorc.ErrorBuilder
}

// NewCertificateService 创建证书服务实例
func NewCertificateService(
	dao *dao.CertificateDao,
	acme *AcmeService,
	driver *wo.Driver,
	installer CertInstaller,
	credentials CredentialSource,
	acmeEmail string,
	staging bool,
	log *logger.Log,
) *CertificateService {
	return &CertificateService{
		dao:         dao,
		acme:        acme,
		driver:      driver,
		installer:   installer,
		credentials: credentials,
		acmeEmail:   acmeEmail,
		staging:     staging,
		log:         log,
		err:         errorc.NewErrorBuilder("CertificateService"),
	}
}

// Status 查询站点证书记录，不存在时返回 nil
func (s *CertificateService) Status(ctx context.Context, domain string) (*model.Certificate, error) {
	cert, err := s.dao.FindByDomain(ctx, domain)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return cert, nil
}

// Issue 为站点签发证书，返回使用的签发方式
func (s *CertificateService) Issue(ctx context.Context, domain string) (model.IssueMethod, error) {
	cfEmail, cfKey, hasDNS, err := s.credentials.CloudflareCredentials(ctx)
	if err != nil {
		return "", err
	}

	if !hasDNS {
		return model.MethodHTTP01, s.issueHTTP01(ctx, domain)
	}
	return model.MethodDNS01, s.issueDNS01(ctx, domain, cfEmail, cfKey)
}

// issueHTTP01 由驱动工具完成签发与 nginx 安装，只记录签发事实
func (s *CertificateService) issueHTTP01(ctx context.Context, domain string) error {
	if _, err := s.driver.IssueCert(ctx, domain); err != nil {
		return err
	}

	now := time.Now()
	return s.dao.Upsert(ctx, &model.Certificate{
		Domain:    domain,
		Method:    model.MethodHTTP01,
		IssuedAt:  now,
		ExpiresAt: now.Add(90 * 24 * time.Hour),
	})
}

func (s *CertificateService) issueDNS01(ctx context.Context, domain, cfEmail, cfKey string) error {
	// 复用已有账户私钥，避免重复注册 ACME 账户
	var accountKey string
	if existing, err := s.dao.FindByDomain(ctx, domain); err == nil {
		accountKey = existing.AccountKeyPem
	}

	resp, err := s.acme.IssueCertificate(&IssueRequest{
		Domains:    []string{domain},
		Email:      s.acmeEmail,
		CfEmail:    cfEmail,
		CfAPIKey:   cfKey,
		AccountKey: accountKey,
		UseStaging: s.staging,
	})
	if err != nil {
		return err
	}

	err = s.dao.Upsert(ctx, &model.Certificate{
		Domain:        domain,
		Method:        model.MethodDNS01,
		FullchainPem:  resp.FullchainPem,
		PrivkeyPem:    resp.PrivkeyPem,
		AccountKeyPem: resp.AccountKeyPem,
		CertURL:       resp.CertURL,
		IssuedAt:      resp.IssuedAt,
		ExpiresAt:     resp.ExpiresAt,
	})
	if err != nil {
		return err
	}

	// 证书先落库再安装，安装失败时记录还在，续期任务会重装
	return s.installer.Install(ctx, domain, resp.FullchainPem, resp.PrivkeyPem)
}

// RenewExpiring 续期临近过期的 dns-01 证书，由定时任务调用
func (s *CertificateService) RenewExpiring(ctx context.Context) error {
	certs, err := s.dao.FindExpiring(ctx, time.Now().Add(renewBefore))
	if err != nil {
		return err
	}
	if len(certs) == 0 {
		return nil
	}

	cfEmail, cfKey, hasDNS, err := s.credentials.CloudflareCredentials(ctx)
	if err != nil {
		return err
	}
	if !hasDNS {
		s.log.Warn("存在待续期证书但未配置 Cloudflare 凭证，跳过续期")
		return nil
	}

	for _, cert := range certs {
		resp, err := s.acme.RenewCertificate(&IssueRequest{
			Domains:    []string{cert.Domain},
			Email:      s.acmeEmail,
			CfEmail:    cfEmail,
			CfAPIKey:   cfKey,
			AccountKey: cert.AccountKeyPem,
			UseStaging: s.staging,
		}, cert.FullchainPem, cert.PrivkeyPem)
		if err != nil {
			// 单个域名续期失败不阻塞其余域名
			s.log.WithField("domain", cert.Domain).WithErr(err).Error("证书续期失败")
			continue
		}

		err = s.dao.Upsert(ctx, &model.Certificate{
			Domain:        cert.Domain,
			Method:        model.MethodDNS01,
			FullchainPem:  resp.FullchainPem,
			PrivkeyPem:    resp.PrivkeyPem,
			AccountKeyPem: resp.AccountKeyPem,
			CertURL:       resp.CertURL,
			IssuedAt:      resp.IssuedAt,
			ExpiresAt:     resp.ExpiresAt,
		})
		if err != nil {
			s.log.WithField("domain", cert.Domain).WithErr(err).Error("保存续期证书失败")
			continue
		}

		if err := s.installer.Install(ctx, cert.Domain, resp.FullchainPem, resp.PrivkeyPem); err != nil {
			s.log.WithField("domain", cert.Domain).WithErr(err).Error("安装续期证书失败")
		}
	}
	return nil
}
