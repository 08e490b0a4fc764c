package model

import (
	"time"

	"github.com/google/uuid"
)

// 警示比较运算符
const (
	OperatorAbove = ">"
	OperatorBelow = "<"
)

// AlertCondition 价格警示条件
// 属于单一用户，触发一次后即从存储中移除。条件之间不去重，
// 同一用户可重复设定相同条件，各自独立评估、独立触发。
type AlertCondition struct {
	ID        string    `json:"id"`
	StockID   string    `json:"stock_id"`
	Operator  string    `json:"operator"` // ">" 或 "<"
	Target    float64   `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAlertCondition 创建新的警示条件
func NewAlertCondition(stockID, operator string, target float64) AlertCondition {
	return AlertCondition{
		ID:        uuid.New().String(),
		StockID:   stockID,
		Operator:  operator,
		Target:    target,
		CreatedAt: time.Now(),
	}
}

// Triggered 判断当前价格是否满足触发条件
func (c AlertCondition) Triggered(price float64) bool {
	switch c.Operator {
	case OperatorAbove:
		return price > c.Target
	case OperatorBelow:
		return price < c.Target
	}
	return false
}
