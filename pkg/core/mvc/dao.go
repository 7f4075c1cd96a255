package mvc

import "context"

// IBaseDao 基础数据访问接口
type IBaseDao[T any] interface {
	// Create 创建实体
	Create(ctx context.Context, entity *T) error
	// DeleteById 根据ID删除
	DeleteById(ctx context.Context, id interface{}) error
	// UpdateById 根据ID更新
	UpdateById(ctx context.Context, id interface{}, entity *T) (int64, error)
	// FindById 根据ID查询
	FindById(ctx context.Context, id interface{}) (*T, error)
	// FindAll 查询全部
	FindAll(ctx context.Context) ([]*T, error)
	// FindPage 分页查询
	FindPage(ctx context.Context, page *Page, condition *T) ([]*T, int64, error)
	// Count 统计总数
	Count(ctx context.Context) (int64, error)
	// WithTx 使用事务
	WithTx(tx interface{}) IBaseDao[T]
}
