package dto

// InstallTunnelReq 安装隧道请求，token 为空时只安装二进制不注册服务
type InstallTunnelReq struct {
	Token string `json:"token" form:"token" validate:"omitempty,startswith=ey"`
}
