package dto

// AdminLoginReq 管理员登录请求
type AdminLoginReq struct {
	Account  string `json:"account" validate:"required,min=2,max=100" comment:"账号"`
	Password string `json:"password" validate:"required,min=4,max=100" comment:"密码"`
}

// AdminLoginResp 管理员登录响应
type AdminLoginResp struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	Account   string   `json:"account"`
	IsSuper   bool     `json:"isSuper"`
	Roles     []string `json:"roles"`
}

// CreateAdminReq 创建管理员请求
type CreateAdminReq struct {
	Account  string `json:"account" validate:"required,alphanum,min=2,max=100" comment:"账号"`
	Password string `json:"password" validate:"required,min=6,max=100" comment:"密码"`
	Remark   string `json:"remark" validate:"max=500" comment:"备注"`
}

// ResetAdminPasswordReq 重置管理员密码请求
type ResetAdminPasswordReq struct {
	AdminID     int64  `json:"-"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=100" comment:"新密码"`
}

// UpdateAdminPasswordReq 修改自己密码请求
type UpdateAdminPasswordReq struct {
	OldPassword string `json:"oldPassword" validate:"required" comment:"旧密码"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=100" comment:"新密码"`
}

// UpdateAdminStatusReq 更新管理员状态请求
type UpdateAdminStatusReq struct {
	AdminID int64 `json:"-"`
	Status  int8  `json:"status" validate:"oneof=0 1" comment:"状态"`
}
