package controller

import (
	"fmt"
	"sort"

	"github.com/gonewx/charanim/pkg/clips"
	"github.com/gonewx/charanim/pkg/player"
)

// 动作动画的默认播放优先级（高于姿态动画）
const actionPlaybackPriority = 1

// ActionOptions 动作条目的播放选项
type ActionOptions struct {
	// Looped 是否循环播放（动作默认一次性）
	Looped bool
	// Priority 播放优先级；0 使用默认值
	Priority int
}

// InvocationHook 外部调用挂钩（如表情菜单）
// 核心把自己的播放处理器安装进去，外部菜单按动作键发起播放
type InvocationHook interface {
	Bind(handler func(actionKey string) (player.Handle, error))
}

// ActionController 独立的动作（表情）动画集合
//
// 动作以任意字符串为键，不参与运动状态机：播放一个动作不会改变
// 姿态控制器的任何状态。宿主如需动作独占播放，自行在播放前后调用
// PoseController 的 SetCoreCanPlayAnims(false/true)。
//
// 每个键可以同时存在多个活动会话，互相独立；会话自然完成或被
// 显式停止后从活动集中移除
type ActionController struct {
	player   player.Player
	catalog  *clips.Catalog
	selector *clips.Selector

	options map[string]ActionOptions
	live    map[string][]*player.Session

	destroyed bool
}

// NewActionController 创建动作控制器
// selector 为 nil 时使用时间种子的选择器
func NewActionController(p player.Player, selector *clips.Selector) *ActionController {
	if selector == nil {
		selector = clips.NewSelector()
	}
	return &ActionController{
		player:   p,
		catalog:  clips.NewCatalog(),
		selector: selector,
		options:  make(map[string]ActionOptions),
		live:     make(map[string][]*player.Session),
	}
}

// CreateAction 注册一个动作（覆盖同名条目）
// 列表非法时返回 ErrInvalidClipList，原有条目保持不变；
// opts 为 nil 时使用默认选项
func (a *ActionController) CreateAction(key string, list clips.ClipList, opts *ActionOptions) error {
	if a.destroyed {
		return ErrDestroyed
	}
	if err := a.catalog.Set(key, list); err != nil {
		return fmt.Errorf("action %q: %w", key, err)
	}
	if opts != nil {
		a.options[key] = *opts
	} else {
		delete(a.options, key)
	}
	return nil
}

// BulkCreateAction 批量注册动作（键按字典序处理，保证失败点确定）
// 遇到第一个校验失败即停止，返回的错误中包含出错的键；
// 之前已注册的键保持注册后的状态
func (a *ActionController) BulkCreateAction(mapping map[string]clips.ClipList, opts *ActionOptions) error {
	if a.destroyed {
		return ErrDestroyed
	}
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := a.CreateAction(key, mapping[key], opts); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAction 删除动作条目并停止该键下的全部活动会话
func (a *ActionController) RemoveAction(key string) {
	if a.destroyed {
		return
	}
	a.catalog.Remove(key)
	delete(a.options, key)
	a.stopLive(key, 0)
}

// StopAllActions 无淡出地停止指定键下的全部活动会话（条目保留）
func (a *ActionController) StopAllActions(key string) {
	if a.destroyed {
		return
	}
	a.stopLive(key, 0)
}

// GetAction 返回动作的候选剪辑列表（副本）
func (a *ActionController) GetAction(key string) (clips.ClipList, bool) {
	return a.catalog.Get(key)
}

// GetRandomActionAnim 对动作执行一次选择但不播放
// 键不存在时返回 ErrUnknownActionKey
func (a *ActionController) GetRandomActionAnim(key string) (clips.ClipDescriptor, error) {
	list, ok := a.catalog.Get(key)
	if !ok {
		return clips.ClipDescriptor{}, fmt.Errorf("action %q: %w", key, ErrUnknownActionKey)
	}
	return a.selector.Pick(list)
}

// PlayRandomActionAnim 按权重选择一个剪辑并启动新的播放会话
// 会话加入该键的活动集，自然完成后自动移除
func (a *ActionController) PlayRandomActionAnim(key string) (player.Handle, error) {
	if a.destroyed {
		return nil, ErrDestroyed
	}
	list, ok := a.catalog.Get(key)
	if !ok {
		return nil, fmt.Errorf("action %q: %w", key, ErrUnknownActionKey)
	}

	descriptor, err := a.selector.Pick(list)
	if err != nil {
		return nil, fmt.Errorf("action %q: %w", key, err)
	}

	opts := a.options[key]
	priority := opts.Priority
	if priority == 0 {
		priority = actionPlaybackPriority
	}
	looped := opts.Looped || descriptor.Looped

	session, err := player.Start(a.player, descriptor, looped, priority, 1)
	if err != nil {
		return nil, fmt.Errorf("action %q: %w", key, err)
	}

	a.live[key] = append(a.live[key], session)
	session.OnFinished(func() {
		a.prune(key)
	})
	return session.Handle(), nil
}

// PlayAction 是 PlayRandomActionAnim 的别名
func (a *ActionController) PlayAction(key string) (player.Handle, error) {
	return a.PlayRandomActionAnim(key)
}

// BindExternalInvocationHook 把 PlayAction 安装为外部菜单的处理器
func (a *ActionController) BindExternalInvocationHook(hook InvocationHook) {
	hook.Bind(a.PlayAction)
}

// LiveSessionCount 返回指定键下仍在播放的会话数
func (a *ActionController) LiveSessionCount(key string) int {
	count := 0
	for _, s := range a.live[key] {
		if s.Active() {
			count++
		}
	}
	return count
}

// Destroy 停止全部活动会话并清空目录；重复调用是无操作
func (a *ActionController) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	for key := range a.live {
		a.stopLive(key, 0)
	}
	a.live = make(map[string][]*player.Session)
	a.catalog.Clear()
	a.options = make(map[string]ActionOptions)
}

// stopLive 停止并移除指定键下的全部活动会话
func (a *ActionController) stopLive(key string, fadeSeconds float64) {
	for _, s := range a.live[key] {
		s.Stop(fadeSeconds)
	}
	delete(a.live, key)
}

// prune 移除指定键下已终止的会话
func (a *ActionController) prune(key string) {
	sessions := a.live[key]
	alive := sessions[:0]
	for _, s := range sessions {
		if s.Active() {
			alive = append(alive, s)
		}
	}
	if len(alive) == 0 {
		delete(a.live, key)
		return
	}
	a.live[key] = alive
}
