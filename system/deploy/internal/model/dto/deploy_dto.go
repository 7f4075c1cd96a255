package dto

// CreateSiteReq 创建站点请求，domains 支持空格、逗号、换行分隔的多个域名
type CreateSiteReq struct {
	Domains  string   `json:"domains" form:"domains" validate:"required" comment:"域名列表"`
	Stack    string   `json:"stack" form:"stack" validate:"omitempty,oneof=fastcgi redis" comment:"缓存架构"`
	Username string   `json:"username" form:"username" validate:"required,min=2,max=60" comment:"站点管理员账号"`
	Email    string   `json:"email" form:"email" validate:"required,email" comment:"站点管理员邮箱"`
	Password string   `json:"password" form:"password" validate:"omitempty,min=8" comment:"站点管理员密码"`
	Install  []string `json:"install" form:"install" validate:"omitempty,max=50,dive,required" comment:"安装项定位符"`
	Activate []string `json:"activate" form:"activate" validate:"omitempty,dive,required" comment:"需要激活的安装项"`
}

// SubmitResp 提交结果，部署在后台继续进行
type SubmitResp struct {
	Domains []string `json:"domains"`
}

// HistoryReq 部署历史查询
type HistoryReq struct {
	Domain string `query:"domain" validate:"omitempty,fqdn" comment:"按域名过滤"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100" comment:"返回条数"`
}
