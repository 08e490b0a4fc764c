package market

import (
	"sync"
)

// NameCache 股票名称缓存
// 名称查询是最慢也最容易失败的外部调用，成功解析一次后
// 在进程生命周期内不再失效。
type NameCache struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewNameCache 创建名称缓存
func NewNameCache() *NameCache {
	return &NameCache{
		names: make(map[string]string),
	}
}

// Get 读取缓存的名称
func (c *NameCache) Get(stockID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name, ok := c.names[stockID]
	return name, ok
}

// Set 写入名称
func (c *NameCache) Set(stockID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.names[stockID] = name
}

// Len 返回缓存条目数
func (c *NameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.names)
}
