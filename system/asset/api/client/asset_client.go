package client

import (
	"context"

	assetdto "wopanel/system/asset/api/dto"
	"wopanel/system/asset/internal/app"
)

// AssetClient 供部署组件解析安装项的对外客户端
type AssetClient struct {
	app *app.App
}

func NewAssetClient(app *app.App) *AssetClient {
	return &AssetClient{app: app}
}

// Resolve 将定位符解析为资源引用，本地路径会校验仓库边界
func (c *AssetClient) Resolve(ctx context.Context, locator string, kind assetdto.AssetKind) (*assetdto.AssetReference, error) {
	return c.app.VaultService.Resolve(ctx, locator, kind)
}
