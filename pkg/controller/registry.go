package controller

import (
	"fmt"
	"sync"

	"github.com/gonewx/charanim/pkg/clips"
	"github.com/gonewx/charanim/pkg/player"
)

// Registry 角色标识 → Animator 的进程级注册表
//
// 这是核心允许的唯一跨角色共享状态，作为显式对象持有（不提供
// 隐式全局实例）。生命周期：Create 时插入，Destroy 时停止会话
// 并移除。核心控制器自身从不查询注册表
type Registry struct {
	mu        sync.RWMutex
	animators map[string]*Animator
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{animators: make(map[string]*Animator)}
}

// Create 为角色创建 Animator 并插入注册表
// 标识已存在时返回错误（先 Destroy 旧实例再创建）
func (r *Registry) Create(id string, p player.Player, cfg ConfigProvider, src MovementSource, selector *clips.Selector) (*Animator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.animators[id]; exists {
		return nil, fmt.Errorf("registry: animator for %q already exists", id)
	}
	an := NewAnimator(p, cfg, src, selector)
	r.animators[id] = an
	return an, nil
}

// Get 返回角色的 Animator；不存在时返回 (nil, false)
func (r *Registry) Get(id string) (*Animator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	an, ok := r.animators[id]
	return an, ok
}

// Destroy 销毁角色的 Animator 并从注册表移除
// 标识不存在时是无操作
func (r *Registry) Destroy(id string) {
	r.mu.Lock()
	an, ok := r.animators[id]
	delete(r.animators, id)
	r.mu.Unlock()

	if ok {
		an.Destroy()
	}
}

// Len 返回注册表中的角色数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.animators)
}
