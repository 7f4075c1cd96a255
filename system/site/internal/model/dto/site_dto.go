package dto

// SwitchPHPReq 切换站点 PHP 版本请求
type SwitchPHPReq struct {
	Version string `json:"version" validate:"required,oneof=7.4 8.0 8.1 8.2 8.3" comment:"PHP 版本"`
}

// CheckSSLResp 证书探测结果
type CheckSSLResp struct {
	Domain string `json:"domain"`
	Secure bool   `json:"secure"`
}
