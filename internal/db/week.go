package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Week 对应 weeks 集合中的一条文档
// WeekNumber 是面向用户的周序号，唯一索引兜底并发创建时的重复写入
type Week struct {
	ID         string `gorm:"primaryKey;size:36"`
	WeekNumber int    `gorm:"uniqueIndex"`
	Title      string
	Goal       string
}

// TableName 固定集合名
func (Week) TableName() string {
	return "weeks"
}

// BeforeCreate 为新文档分配存储侧 ID
func (w *Week) BeforeCreate(*gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
