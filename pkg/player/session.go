package player

import (
	"fmt"

	"github.com/gonewx/charanim/pkg/clips"
)

// SessionState 播放会话的生命周期状态
type SessionState int

const (
	// SessionPlaying 播放中（唯一的非终止状态）
	SessionPlaying SessionState = iota
	// SessionStopped 被显式停止
	SessionStopped
	// SessionSuperseded 被新会话取代
	SessionSuperseded
	// SessionFinished 非循环播放自然结束
	SessionFinished
)

// String 返回会话状态的字符串表示（用于日志）
func (s SessionState) String() string {
	switch s {
	case SessionPlaying:
		return "Playing"
	case SessionStopped:
		return "Stopped"
	case SessionSuperseded:
		return "Superseded"
	case SessionFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Session 包装恰好一个外部播放句柄
//
// 所有权纪律：每次 Start 创建一个句柄，每次进入终止状态
// （Stopped / Superseded / Finished）恰好释放一次——终止后的
// Stop / Supersede / 调速调权全部是无操作，完成回调也不再转发。
// 这保证句柄既不泄漏也不会二次释放
type Session struct {
	handle     Handle
	clip       clips.ClipDescriptor
	looped     bool
	state      SessionState
	onFinished []func()
}

// Start 用选定的剪辑创建并启动一个播放会话
//
// 实际播放速度为剪辑自身速度乘以 speedMultiplier；
// speedMultiplier <= 0 视为 1
func Start(p Player, d clips.ClipDescriptor, looped bool, priority int, speedMultiplier float64) (*Session, error) {
	handle, err := p.LoadAndStart(d.ID, looped, priority)
	if err != nil {
		return nil, fmt.Errorf("start clip %q: %w", d.ID, err)
	}

	s := &Session{
		handle: handle,
		clip:   d,
		looped: looped,
		state:  SessionPlaying,
	}

	if speedMultiplier <= 0 {
		speedMultiplier = 1
	}
	handle.AdjustSpeed(d.Speed * speedMultiplier)

	if !looped {
		handle.OnFinished(func() {
			// 已被停止/取代（含控制器销毁）后收到的完成通知必须是无操作
			if s.state != SessionPlaying {
				return
			}
			s.state = SessionFinished
			// 完成也是终止状态：立即释放句柄，之后的 Stop/Supersede
			// 不再触碰它
			s.handle.Stop(0)
			for _, fn := range s.onFinished {
				fn()
			}
		})
	}
	return s, nil
}

// Clip 返回会话启动时选定的剪辑描述符（选中后不可变）
func (s *Session) Clip() clips.ClipDescriptor {
	return s.clip
}

// Handle 返回底层播放句柄（host 可用于微调，不得自行 Stop）
func (s *Session) Handle() Handle {
	return s.handle
}

// State 返回会话当前状态
func (s *Session) State() SessionState {
	return s.state
}

// Active 报告会话是否仍在播放
func (s *Session) Active() bool {
	return s.state == SessionPlaying
}

// Stop 以给定淡出时长停止会话；对已终止的会话是无操作
func (s *Session) Stop(fadeSeconds float64) {
	if s.state != SessionPlaying {
		return
	}
	s.state = SessionStopped
	s.handle.Stop(fadeSeconds)
}

// Supersede 会话被新会话取代时调用
// 淡出时长取剪辑配置的 FadeOut，未配置时复用 FadeIn，
// 与新会话的淡入形成交叉渐变
func (s *Session) Supersede() {
	if s.state != SessionPlaying {
		return
	}
	s.state = SessionSuperseded
	s.handle.Stop(s.fadeOut())
}

// AdjustSpeed 按新的倍率调整播放速度（基于剪辑自身速度）
func (s *Session) AdjustSpeed(multiplier float64) {
	if s.state != SessionPlaying {
		return
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	s.handle.AdjustSpeed(s.clip.Speed * multiplier)
}

// AdjustWeight 调整混合权重
func (s *Session) AdjustWeight(weight float64) {
	if s.state != SessionPlaying {
		return
	}
	s.handle.AdjustWeight(weight)
}

// OnFinished 注册完成回调（仅非循环会话会触发，最多一次）
func (s *Session) OnFinished(fn func()) {
	s.onFinished = append(s.onFinished, fn)
}

func (s *Session) fadeOut() float64 {
	if s.clip.FadeOut > 0 {
		return s.clip.FadeOut
	}
	return s.clip.FadeIn
}
