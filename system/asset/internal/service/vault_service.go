package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	errorc "wopanel/pkg/core/err"
	"wopanel/pkg/core/logger"
	assetdto "wopanel/system/asset/api/dto"
)

// VaultService 本地插件/主题仓库，文件按 plugin_/theme_ 前缀归类
type VaultService struct {
	dir string
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewVaultService dir 为仓库目录，不存在时自动创建
// 目录统一转成绝对路径，配置里写相对路径时边界判断才不会失真
func NewVaultService(dir string, log *logger.Log) *VaultService {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.WithErr(err).WithField("dir", dir).Error("创建资源仓库目录失败")
	}
	return &VaultService{
		dir: dir,
		log: log,
		err: errorc.NewErrorBuilder("VaultService"),
	}
}

// Dir 仓库目录
func (s *VaultService) Dir() string {
	return s.dir
}

// List 列出仓库内的资源
func (s *VaultService) List(ctx context.Context) ([]assetdto.AssetReference, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, s.err.New("读取资源仓库目录失败", err)
	}

	var assets []assetdto.AssetReference
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		assets = append(assets, referenceFor(s.dir, entry.Name()))
	}
	return assets, nil
}

// referenceFor 按文件名前缀判断资源类型，无前缀时按名称猜测
func referenceFor(dir, filename string) assetdto.AssetReference {
	kind := assetdto.KindPlugin
	name := filename
	switch {
	case strings.HasPrefix(filename, "theme_"):
		kind = assetdto.KindTheme
		name = strings.TrimPrefix(filename, "theme_")
	case strings.HasPrefix(filename, "plugin_"):
		name = strings.TrimPrefix(filename, "plugin_")
	case strings.Contains(strings.ToLower(filename), "theme"):
		kind = assetdto.KindTheme
	}
	return assetdto.AssetReference{
		Name:    name,
		Kind:    kind,
		Origin:  assetdto.OriginLocal,
		Locator: filepath.Join(dir, filename),
	}
}

// Save 保存上传的压缩包，kind 决定文件名前缀
func (s *VaultService) Save(ctx context.Context, kind assetdto.AssetKind, filename string, content io.Reader) (*assetdto.AssetReference, error) {
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || !strings.HasSuffix(filename, ".zip") {
		return nil, s.err.New("只支持上传 zip 压缩包", nil).ValidWithCtx()
	}

	prefix := "plugin_"
	if kind == assetdto.KindTheme {
		prefix = "theme_"
	}
	target := filepath.Join(s.dir, prefix+filename)

	f, err := os.Create(target)
	if err != nil {
		return nil, s.err.New("写入资源文件失败", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(target)
		return nil, s.err.New("写入资源文件失败", err)
	}

	ref := referenceFor(s.dir, prefix+filename)
	s.log.WithField("path", ref.Locator).Info("资源已入库")
	return &ref, nil
}

// Delete 删除仓库内的资源文件，仓库外的路径一律拒绝
func (s *VaultService) Delete(ctx context.Context, path string) error {
	if !s.Contains(path) {
		return s.err.New("路径不在资源仓库内", nil).ValidWithCtx()
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return s.err.New("资源文件不存在", err).WithCode(errorc.ErrorCodeNotFound)
		}
		return s.err.New("删除资源文件失败", err)
	}
	return nil
}

// Contains 判断路径是否位于仓库目录内（拒绝 .. 逃逸）
func (s *VaultService) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.dir, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}

// Resolve 将安装项定位符解析为资源引用：
// 绝对路径视为本地资源并校验仓库边界，其余视为官方仓库 slug
func (s *VaultService) Resolve(ctx context.Context, locator string, kind assetdto.AssetKind) (*assetdto.AssetReference, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, s.err.New("安装项定位符为空", nil).ValidWithCtx()
	}

	if filepath.IsAbs(locator) {
		if !s.Contains(locator) {
			return nil, s.err.New("本地资源路径不在仓库目录内："+locator, nil).ValidWithCtx()
		}
		ref := referenceFor(s.dir, filepath.Base(locator))
		ref.Kind = kindOrGuess(kind, ref.Kind)
		return &ref, nil
	}

	for _, item := range assetdto.Catalog() {
		if item.Locator == locator {
			ref := item
			return &ref, nil
		}
	}

	return &assetdto.AssetReference{
		Name:    locator,
		Kind:    kindOrGuess(kind, assetdto.KindPlugin),
		Origin:  assetdto.OriginCatalog,
		Locator: locator,
	}, nil
}

func kindOrGuess(requested, fallback assetdto.AssetKind) assetdto.AssetKind {
	if requested == assetdto.KindPlugin || requested == assetdto.KindTheme {
		return requested
	}
	return fallback
}
