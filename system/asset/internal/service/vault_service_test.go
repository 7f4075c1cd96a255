package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wopanel/pkg/core/logger"
	assetdto "wopanel/system/asset/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) *VaultService {
	t.Helper()
	return NewVaultService(t.TempDir(), logger.InitLogger("error", nil))
}

func TestSaveAndList(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	ref, err := v.Save(ctx, assetdto.KindTheme, "astra.zip", strings.NewReader("zip-bytes"))
	require.NoError(t, err)
	assert.Equal(t, assetdto.KindTheme, ref.Kind)
	assert.Equal(t, "astra.zip", ref.Name)
	assert.True(t, strings.HasSuffix(ref.Locator, "theme_astra.zip"))

	_, err = v.Save(ctx, assetdto.KindPlugin, "seo.zip", strings.NewReader("zip-bytes"))
	require.NoError(t, err)

	assets, err := v.List(ctx)
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}

func TestSaveRejectsNonZip(t *testing.T) {
	v := newTestVault(t)

	_, err := v.Save(context.Background(), assetdto.KindPlugin, "evil.php", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	v := newTestVault(t)

	ref, err := v.Save(context.Background(), assetdto.KindPlugin, "../../etc/cron.zip", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Dir(), "plugin_cron.zip"), ref.Locator)
}

func TestDeleteEnforcesVaultBoundary(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	outside := filepath.Join(t.TempDir(), "outside.zip")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	err := v.Delete(ctx, outside)
	require.Error(t, err)
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr, "仓库外的文件不能被删除")

	ref, err := v.Save(ctx, assetdto.KindPlugin, "ok.zip", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, v.Delete(ctx, ref.Locator))
	_, statErr = os.Stat(ref.Locator)
	assert.True(t, os.IsNotExist(statErr))
}

func TestResolveLocalPath(t *testing.T) {
	v := newTestVault(t)
	ctx := context.Background()

	ref, err := v.Save(ctx, assetdto.KindTheme, "astra.zip", strings.NewReader("x"))
	require.NoError(t, err)

	resolved, err := v.Resolve(ctx, ref.Locator, "")
	require.NoError(t, err)
	assert.Equal(t, assetdto.OriginLocal, resolved.Origin)
	assert.Equal(t, assetdto.KindTheme, resolved.Kind)
	assert.Equal(t, ref.Locator, resolved.Locator)
}

func TestResolveRejectsEscape(t *testing.T) {
	v := newTestVault(t)

	_, err := v.Resolve(context.Background(), "/etc/passwd", assetdto.KindPlugin)
	assert.Error(t, err)

	_, err = v.Resolve(context.Background(), filepath.Join(v.Dir(), "..", "escape.zip"), assetdto.KindPlugin)
	assert.Error(t, err)

	_, err = v.Resolve(context.Background(), "", assetdto.KindPlugin)
	assert.Error(t, err)
}

func TestRelativeVaultDir(t *testing.T) {
	t.Chdir(t.TempDir())
	v := NewVaultService("vault", logger.InitLogger("error", nil))
	ctx := context.Background()

	assert.True(t, filepath.IsAbs(v.Dir()))

	ref, err := v.Save(ctx, assetdto.KindPlugin, "seo.zip", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, v.Contains(ref.Locator))

	resolved, err := v.Resolve(ctx, ref.Locator, "")
	require.NoError(t, err)
	assert.Equal(t, assetdto.OriginLocal, resolved.Origin)
	require.NoError(t, v.Delete(ctx, ref.Locator))
}

func TestResolveCatalogSlug(t *testing.T) {
	v := newTestVault(t)

	ref, err := v.Resolve(context.Background(), "astra", "")
	require.NoError(t, err)
	assert.Equal(t, assetdto.OriginCatalog, ref.Origin)
	assert.Equal(t, assetdto.KindTheme, ref.Kind)
	assert.Equal(t, "Astra", ref.Name)

	ref, err = v.Resolve(context.Background(), "some-unknown-plugin", "")
	require.NoError(t, err)
	assert.Equal(t, assetdto.OriginCatalog, ref.Origin)
	assert.Equal(t, assetdto.KindPlugin, ref.Kind)
}
