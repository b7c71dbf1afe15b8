package pipeline

import "context"

// FieldEquals 表示一个等值过滤条件，多个Values等价于SQL IN
type FieldEquals struct {
	Field  string
	Values []interface{}
}

// Query 是传给RecordStore的类型化查询描述符，
// 取代按调用点拼接的链式查询
type Query struct {
	Table      string
	Filters    []FieldEquals
	Projection []string
	OrderBy    string
	Descending bool
	Limit      int
}

// RecordStore 定义对扁平数据存储的只读访问。
// 生产实现基于gorm，测试使用内存实现。
// 存储层不做重试，错误原样返回给上层分类。
type RecordStore interface {
	FindWhere(ctx context.Context, q Query, dest interface{}) error
}

// Eq 构造单值过滤条件
func Eq(field string, value interface{}) FieldEquals {
	return FieldEquals{Field: field, Values: []interface{}{value}}
}

// In 构造多值过滤条件
func In(field string, values ...interface{}) FieldEquals {
	return FieldEquals{Field: field, Values: values}
}

// InUint 构造uint集合的多值过滤条件
func InUint(field string, ids []uint) FieldEquals {
	values := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	return FieldEquals{Field: field, Values: values}
}
