package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"wopanel/app"
	"wopanel/base"
	"wopanel/pkg/core/start"
	"wopanel/pkg/executor"
	"wopanel/router"

	"github.com/bsm/redislock"
	"github.com/robfig/cron/v3"
)

func main() {
	env, filename := getBaseInfo()

	file, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败,因为：%v", err))
	}

	configures := start.NewConfigures(file, env)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = env
	base.AdminAuth = configures.AdminAuth

	base.DB = configures.EnableMysql()

	// 执行数据库迁移
	if err := app.AutoMigrate(base.DB); err != nil {
		configures.Logger.Panic(fmt.Sprintf("数据库迁移失败: %v", err))
	}

	base.RDB = configures.EnableRedis()
	base.Cache = configures.EnableCache(base.RDB)
	base.Locker = configures.EnableLocker(base.RDB)
	base.Executor = executor.NewLocalExecutor(
		time.Duration(configures.Config.WordOps.Timeout)*time.Second,
		base.Logger,
	)

	// 创建应用组合根
	appRoot := app.NewApp()

	// 初始化默认超级管理员（当 panel_admin 表为空时自动创建 admin/admin）
	if err := appRoot.UserModule.EnsureBootstrapSuperAdmin(context.Background()); err != nil {
		configures.Logger.Panic(fmt.Sprintf("初始化默认超级管理员失败: %v", err))
	}

	registerCronJobs(appRoot)

	// 创建 Fiber 应用
	fiberApp := app.GetApp()

	// 注册路由
	router.Register(appRoot, fiberApp)

	log.Fatal(fiberApp.Listen(fmt.Sprintf(":%d", base.Configures.Config.Port)))
}

// registerCronJobs 注册后台定时任务：
//   - 每天凌晨 2:30 续期临近过期的 DNS-01 证书（redis 分布式锁防止多实例重复执行）
//   - 每小时清理终结的部署进度记录与过期历史
func registerCronJobs(appRoot *app.App) {
	base.Cron = cron.New()

	_, err := base.Cron.AddFunc("30 2 * * *", func() {
		ctx := context.Background()
		lock, err := base.Locker.Obtain(ctx, "wopanel:cron:cert-renew", 10*time.Minute, nil)
		if err == redislock.ErrNotObtained {
			return
		}
		if err != nil {
			base.Logger.WithErr(err).Error("获取证书续期任务锁失败")
			return
		}
		defer lock.Release(ctx)

		base.Logger.Info("开始执行 SSL 证书自动续期任务")
		appRoot.SslModule.RenewExpiring(ctx)
	})
	if err != nil {
		base.Configures.Logger.Panic(fmt.Sprintf("注册证书续期任务失败: %v", err))
	}

	_, err = base.Cron.AddFunc("@hourly", func() {
		appRoot.DeployModule.EvictStale(context.Background())
	})
	if err != nil {
		base.Configures.Logger.Panic(fmt.Sprintf("注册部署记录清理任务失败: %v", err))
	}

	base.Cron.Start()
	base.Logger.Info("定时任务已启动")
}

func getBaseInfo() (string, string) {
	// 定义命令行参数
	env := flag.String("env", "dev", "环境配置 (dev, prod, test等)")
	configFile := flag.String("config", "", "配置文件路径，默认为 ./resources/{env}.yaml")

	// 解析命令行参数
	flag.Parse()

	// 如果没有指定配置文件路径，则使用默认路径
	var filename string
	if *configFile == "" {
		getwd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("获取当前文件位置失败,因为：%v", err))
		}
		filename = getwd + "/resources/" + *env + ".yaml"
	} else {
		filename = *configFile
	}
	return *env, filename
}
