package model

import (
	"time"

	"wopanel/pkg/core/model/common"
)

// IssueMethod 证书签发方式
type IssueMethod string

const (
	MethodDNS01  IssueMethod = "dns-01"  // lego + Cloudflare DNS
	MethodHTTP01 IssueMethod = "http-01" // 驱动工具自带的 -le 流程
)

// Certificate 站点证书记录
// http-01 证书由驱动工具自行落盘，这里只记录签发事实；
// dns-01 证书的 PEM 内容与 ACME 账户私钥一并入库，供续期使用
type Certificate struct {
	common.Model
	Domain        string      `gorm:"uniqueIndex;size:255;not null" json:"domain" comment:"站点域名"`
	Method        IssueMethod `gorm:"size:20;not null" json:"method" comment:"签发方式"`
	FullchainPem  string      `gorm:"type:text" json:"-" comment:"完整证书链"`
	PrivkeyPem    string      `gorm:"type:text" json:"-" comment:"证书私钥"`
	AccountKeyPem string      `gorm:"type:text" json:"-" comment:"ACME 账户私钥"`
	CertURL       string      `gorm:"size:500" json:"certUrl" comment:"证书资源地址"`
	IssuedAt      time.Time   `json:"issuedAt" comment:"签发时间"`
	ExpiresAt     time.Time   `json:"expiresAt" comment:"过期时间"`
}

// TableName 指定表名
func (Certificate) TableName() string {
	return "ssl_certificates"
}

// NeedsRenewal 距过期不足 renewBefore 时需要续期
func (c *Certificate) NeedsRenewal(renewBefore time.Duration) bool {
	return time.Until(c.ExpiresAt) < renewBefore
}
