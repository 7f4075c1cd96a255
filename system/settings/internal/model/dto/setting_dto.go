package dto

// SaveSettingsReq 保存面板设置请求
type SaveSettingsReq struct {
	CfEmail string `json:"cfEmail" validate:"omitempty,email" comment:"Cloudflare 邮箱"`
	CfKey   string `json:"cfKey" validate:"omitempty,min=10" comment:"Cloudflare API Key"`
}

// SettingsResp 面板设置响应，敏感值只返回是否已配置
type SettingsResp struct {
	CfEmail  string `json:"cfEmail"`
	CfKeySet bool   `json:"cfKeySet"`
}
