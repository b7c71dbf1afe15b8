package services

import (
	"context"

	"gorm.io/gorm"

	"smartess-http-service/internal/domain/services/pipeline"
)

// GormRecordStore 是RecordStore的gorm实现，
// 把类型化查询描述符翻译为单表查询
type GormRecordStore struct {
	DB *gorm.DB
}

// NewRecordStore 创建一个基于gorm的记录存储
func NewRecordStore(db *gorm.DB) pipeline.RecordStore {
	return &GormRecordStore{DB: db}
}

// FindWhere 执行一次单表查询，多值过滤翻译为SQL IN
func (s *GormRecordStore) FindWhere(ctx context.Context, q pipeline.Query, dest interface{}) error {
	tx := s.DB.WithContext(ctx).Table(q.Table)

	if len(q.Projection) > 0 {
		tx = tx.Select(q.Projection)
	}

	for _, f := range q.Filters {
		if len(f.Values) == 1 {
			tx = tx.Where(f.Field+" = ?", f.Values[0])
		} else {
			tx = tx.Where(f.Field+" IN ?", f.Values)
		}
	}

	if q.OrderBy != "" {
		order := q.OrderBy
		if q.Descending {
			order += " DESC"
		}
		tx = tx.Order(order)
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	return tx.Find(dest).Error
}
