package dto

// DeleteAssetReq 删除本地资源请求
type DeleteAssetReq struct {
	Path string `json:"path" validate:"required" comment:"资源文件路径"`
}
