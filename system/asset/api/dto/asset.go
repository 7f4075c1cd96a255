package dto

// AssetKind 资源类型
type AssetKind string

const (
	KindPlugin AssetKind = "plugin"
	KindTheme  AssetKind = "theme"
)

// AssetOrigin 资源来源
type AssetOrigin string

const (
	OriginCatalog AssetOrigin = "catalog" // 官方仓库，locator 为 slug
	OriginLocal   AssetOrigin = "local"   // 本地仓库，locator 为绝对路径
)

// AssetReference 一个可安装的插件或主题
type AssetReference struct {
	Name    string      `json:"name"`
	Kind    AssetKind   `json:"kind"`
	Origin  AssetOrigin `json:"origin"`
	Locator string      `json:"locator"`
}

// Catalog 面板内置的官方仓库资源清单
func Catalog() []AssetReference {
	return []AssetReference{
		{Name: "Elementor", Kind: KindPlugin, Origin: OriginCatalog, Locator: "elementor"},
		{Name: "Yoast SEO", Kind: KindPlugin, Origin: OriginCatalog, Locator: "wordpress-seo"},
		{Name: "WooCommerce", Kind: KindPlugin, Origin: OriginCatalog, Locator: "woocommerce"},
		{Name: "Wordfence", Kind: KindPlugin, Origin: OriginCatalog, Locator: "wordfence"},
		{Name: "Classic Editor", Kind: KindPlugin, Origin: OriginCatalog, Locator: "classic-editor"},
		{Name: "Astra", Kind: KindTheme, Origin: OriginCatalog, Locator: "astra"},
		{Name: "Hello Elementor", Kind: KindTheme, Origin: OriginCatalog, Locator: "hello-elementor"},
	}
}
