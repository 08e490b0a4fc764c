package alert

import (
	"sync"

	"StockMate/pkg/model"
)

// Store 用户警示条件存储
// 进程内存储，重启即清空；不去重也不设上限。
// 映射 user_id → 条件列表，列表顺序即设定顺序。
type Store struct {
	mu     sync.RWMutex
	alerts map[string][]model.AlertCondition
}

// NewStore 创建警示存储
func NewStore() *Store {
	return &Store{
		alerts: make(map[string][]model.AlertCondition),
	}
}

// Add 为用户追加一条警示条件
func (s *Store) Add(userID string, cond model.AlertCondition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alerts[userID] = append(s.alerts[userID], cond)
}

// Users 返回当前持有警示的用户快照
// 巡检期间的并发增删不影响返回的切片。
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.alerts))
	for userID := range s.alerts {
		users = append(users, userID)
	}
	return users
}

// Snapshot 返回用户警示条件的副本
func (s *Store) Snapshot(userID string) []model.AlertCondition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conds := s.alerts[userID]
	snapshot := make([]model.AlertCondition, len(conds))
	copy(snapshot, conds)
	return snapshot
}

// Remove 移除用户的指定警示条件
// 以条件ID定位，列表中不存在时静默返回。
func (s *Store) Remove(userID, conditionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conds := s.alerts[userID]
	for i, cond := range conds {
		if cond.ID == conditionID {
			s.alerts[userID] = append(conds[:i], conds[i+1:]...)
			break
		}
	}
	if len(s.alerts[userID]) == 0 {
		delete(s.alerts, userID)
	}
}

// Count 返回用户当前的警示条件数
func (s *Store) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.alerts[userID])
}
