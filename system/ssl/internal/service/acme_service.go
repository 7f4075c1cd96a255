package service

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"

	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge/dns01"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/providers/dns/cloudflare"
	"github.com/go-acme/lego/v4/registration"
)

const (
	// DefaultACMEServer Let's Encrypt 生产环境
	DefaultACMEServer = lego.LEDirectoryProduction
	// StagingACMEServer Let's Encrypt 测试环境
	StagingACMEServer = lego.LEDirectoryStaging
)

// AcmeService 封装 lego 调用，通过 Cloudflare DNS-01 申请与续期证书
type AcmeService struct {
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewAcmeService 创建 ACME 服务实例
func NewAcmeService(log *logger.Log) *AcmeService {
	return &AcmeService{
		log: log.WithEntryName("AcmeService"),
		err: errorc.NewErrorBuilder("AcmeService"),
	}
}

// AcmeUser 实现 lego 的账户接口
type AcmeUser struct {
	Email        string
	Registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *AcmeUser) GetEmail() string {
	return u.Email
}

func (u *AcmeUser) GetRegistration() *registration.Resource {
	return u.Registration
}

func (u *AcmeUser) GetPrivateKey() crypto.PrivateKey {
	return u.key
}

// IssueRequest 证书签发请求
type IssueRequest struct {
	Domains    []string
	Email      string // ACME 注册邮箱
	CfEmail    string // Cloudflare 账号邮箱
	CfAPIKey   string // Cloudflare Global API Key
	AccountKey string // ACME 账户私钥 PEM，为空则新建账户
	UseStaging bool
}

// IssueResponse 证书签发结果
type IssueResponse struct {
	FullchainPem  string
	PrivkeyPem    string
	CertURL       string
	ExpiresAt     time.Time
	IssuedAt      time.Time
	AccountKeyPem string
}

// IssueCertificate 通过 DNS-01 签发证书
func (s *AcmeService) IssueCertificate(req *IssueRequest) (*IssueResponse, error) {
	s.log.WithField("domains", req.Domains).Info("开始签发证书")

	client, user, err := s.newClient(req)
	if err != nil {
		return nil, err
	}

	certificates, err := client.Certificate.Obtain(certificate.ObtainRequest{
		Domains: req.Domains,
		Bundle:  true,
	})
	if err != nil {
		return nil, s.err.New("申请证书失败", err)
	}

	s.log.WithField("cert_url", certificates.CertURL).Info("证书申请成功")

	return s.buildResponse(user, certificates)
}

// RenewCertificate 续期已有证书
func (s *AcmeService) RenewCertificate(req *IssueRequest, existingCertPem, existingKeyPem string) (*IssueResponse, error) {
	s.log.WithField("domains", req.Domains).Info("开始续期证书")

	client, user, err := s.newClient(req)
	if err != nil {
		return nil, err
	}

	certificates, err := client.Certificate.Renew(certificate.Resource{
		Certificate: []byte(existingCertPem),
		PrivateKey:  []byte(existingKeyPem),
	}, true, false, "")
	if err != nil {
		return nil, s.err.New("续期证书失败", err)
	}

	s.log.WithField("cert_url", certificates.CertURL).Info("证书续期成功")

	return s.buildResponse(user, certificates)
}

// newClient 组装 lego 客户端：账户、CA 地址、DNS-01 Provider、注册
func (s *AcmeService) newClient(req *IssueRequest) (*lego.Client, *AcmeUser, error) {
	user, err := s.createOrLoadUser(req.Email, req.AccountKey)
	if err != nil {
		return nil, nil, s.err.New("创建或加载 ACME 账户失败", err)
	}

	config := lego.NewConfig(user)
	if req.UseStaging {
		config.CADirURL = StagingACMEServer
	} else {
		config.CADirURL = DefaultACMEServer
	}

	client, err := lego.NewClient(config)
	if err != nil {
		return nil, nil, s.err.New("创建 ACME 客户端失败", err)
	}

	cfConfig := cloudflare.NewDefaultConfig()
	cfConfig.AuthEmail = req.CfEmail
	cfConfig.AuthKey = req.CfAPIKey
	dnsProvider, err := cloudflare.NewDNSProviderConfig(cfConfig)
	if err != nil {
		return nil, nil, s.err.New("创建 Cloudflare DNS Provider 失败", err)
	}

	err = client.Challenge.SetDNS01Provider(dnsProvider,
		dns01.AddDNSTimeout(120*time.Second),
		dns01.AddRecursiveNameservers([]string{
			"8.8.8.8:53",
			"1.1.1.1:53",
		}),
	)
	if err != nil {
		return nil, nil, s.err.New("设置 DNS-01 Provider 失败", err)
	}

	if user.Registration == nil {
		reg, err := client.Registration.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
		if err != nil {
			return nil, nil, s.err.New("注册 ACME 账户失败", err)
		}
		user.Registration = reg
		s.log.WithField("account_url", reg.URI).Info("ACME 账户注册成功")
	}

	return client, user, nil
}

func (s *AcmeService) buildResponse(user *AcmeUser, certificates *certificate.Resource) (*IssueResponse, error) {
	expiresAt, issuedAt, err := ParseCertificate(certificates.Certificate)
	if err != nil {
		return nil, s.err.New("解析证书失败", err)
	}

	accountKeyPem, err := EncodePrivateKey(user.key)
	if err != nil {
		return nil, s.err.New("序列化账户私钥失败", err)
	}

	return &IssueResponse{
		FullchainPem:  string(certificates.Certificate),
		PrivkeyPem:    string(certificates.PrivateKey),
		CertURL:       certificates.CertURL,
		ExpiresAt:     expiresAt,
		IssuedAt:      issuedAt,
		AccountKeyPem: accountKeyPem,
	}, nil
}

// createOrLoadUser 创建或加载 ACME 账户
func (s *AcmeService) createOrLoadUser(email, accountKeyPem string) (*AcmeUser, error) {
	var privateKey crypto.PrivateKey
	var err error

	if accountKeyPem != "" {
		privateKey, err = DecodePrivateKey(accountKeyPem)
		if err != nil {
			return nil, fmt.Errorf("解码账户私钥失败: %w", err)
		}
	} else {
		privateKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("生成账户私钥失败: %w", err)
		}
	}

	return &AcmeUser{
		Email: email,
		key:   privateKey,
	}, nil
}

// ParseCertificate 解析 PEM 证书的有效期
func ParseCertificate(certPem []byte) (expiresAt, issuedAt time.Time, err error) {
	block, _ := pem.Decode(certPem)
	if block == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("无法解析 PEM 格式证书")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("解析 X509 证书失败: %w", err)
	}

	return cert.NotAfter, cert.NotBefore, nil
}

// EncodePrivateKey 编码 EC 私钥为 PEM
func EncodePrivateKey(key crypto.PrivateKey) (string, error) {
	switch k := key.(type) {
	case *ecdsa.PrivateKey:
		keyBytes, err := x509.MarshalECPrivateKey(k)
		if err != nil {
			return "", err
		}
		pemBlock := &pem.Block{
			Type:  "EC PRIVATE KEY",
			Bytes: keyBytes,
		}
		return string(pem.EncodeToMemory(pemBlock)), nil
	default:
		return "", fmt.Errorf("不支持的私钥类型")
	}
}

// DecodePrivateKey 解码 PEM 格式的 EC 私钥
func DecodePrivateKey(pemStr string) (crypto.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, fmt.Errorf("无法解析 PEM 格式私钥")
	}

	switch block.Type {
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("不支持的私钥类型: %s", block.Type)
	}
}
