package player

import (
	"fmt"
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameClip 一个已注册剪辑的全部帧图片与帧率
type FrameClip struct {
	Frames []*ebiten.Image // 动画的所有帧图片
	FPS    float64         // 帧率（每秒逻辑帧数）
}

// FramePlayer 基于 ebiten 的逐帧动画参考播放器
//
// 实现 Player 接口，供 showcase 程序以及不接大型动画引擎的宿主使用。
// 帧推进使用累加器方案：Accumulator 累积 deltaTime，达到 1/(FPS*speed)
// 即推进一帧；非循环剪辑到达尾帧时锁定并触发完成通知，轨道在
// 收到 Stop 后移除（会话层在完成时立即发出 Stop）。
//
// Stop(fade) 在 fade 时长内把轨道权重线性降到 0 再移除；新轨道启动后
// 以 FadeIn 时长线性升到目标权重，两者重叠形成交叉渐变
type FramePlayer struct {
	clips  map[string]FrameClip
	tracks []*frameTrack

	// FadeIn 所有新轨道的淡入时长（秒），0 表示瞬时出现
	FadeIn float64

	// DefaultFPS 剪辑未指定帧率时使用的默认值
	DefaultFPS float64
}

// NewFramePlayer 创建空的逐帧播放器
func NewFramePlayer() *FramePlayer {
	return &FramePlayer{
		clips:      make(map[string]FrameClip),
		FadeIn:     0.1,
		DefaultFPS: 12,
	}
}

// Register 注册一个剪辑的帧序列；fps <= 0 时使用 DefaultFPS
func (p *FramePlayer) Register(clipID string, frames []*ebiten.Image, fps float64) {
	p.clips[clipID] = FrameClip{Frames: frames, FPS: fps}
}

// LoadAndStart 实现 Player 接口
// 未注册的剪辑返回错误（预加载是外部协作方的职责，这里不做兜底）
func (p *FramePlayer) LoadAndStart(clipID string, looped bool, priority int) (Handle, error) {
	clip, ok := p.clips[clipID]
	if !ok {
		return nil, fmt.Errorf("frame player: clip %q not registered", clipID)
	}
	if len(clip.Frames) == 0 {
		return nil, fmt.Errorf("frame player: clip %q has no frames", clipID)
	}

	t := &frameTrack{
		player:   p,
		clip:     clip,
		looped:   looped,
		priority: priority,
		speed:    1,
		weight:   1,
		fadeIn:   p.FadeIn,
		fadeInT:  p.FadeIn,
	}
	p.tracks = append(p.tracks, t)
	return t, nil
}

// Update 推进所有活动轨道的帧与淡入淡出
// 由宿主的游戏循环每帧调用
func (p *FramePlayer) Update(deltaTime float64) {
	alive := p.tracks[:0]
	for _, t := range p.tracks {
		if t.update(deltaTime) {
			alive = append(alive, t)
		}
	}
	// 被移除的尾部元素置 nil，避免残留引用
	for i := len(alive); i < len(p.tracks); i++ {
		p.tracks[i] = nil
	}
	p.tracks = alive
}

// Draw 按优先级从低到高绘制所有活动轨道
// 权重与淡入淡出系数作用于 alpha
func (p *FramePlayer) Draw(screen *ebiten.Image, x, y float64) {
	ordered := make([]*frameTrack, len(p.tracks))
	copy(ordered, p.tracks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].priority < ordered[j].priority
	})

	for _, t := range ordered {
		img := t.clip.Frames[t.frame]
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleAlpha(float32(t.alpha()))
		screen.DrawImage(img, op)
	}
}

// ActiveTracks 返回当前活动轨道数（验证程序与测试使用）
func (p *FramePlayer) ActiveTracks() int {
	return len(p.tracks)
}

// frameTrack 一条活动播放轨道，实现 Handle 接口
type frameTrack struct {
	player   *FramePlayer
	clip     FrameClip
	frame    int
	acc      float64
	speed    float64
	weight   float64
	looped   bool
	priority int

	fadeIn   float64 // 剩余淡入时长
	fadeInT  float64 // 淡入总时长
	fading   bool    // 淡出中
	fadeLeft float64
	fadeTot  float64

	stopped  bool
	finished bool
	done     []func()
}

// Stop 实现 Handle：开始淡出，fade == 0 立即移除
func (t *frameTrack) Stop(fadeSeconds float64) {
	if t.stopped {
		return
	}
	if fadeSeconds <= 0 {
		t.stopped = true
		return
	}
	t.fading = true
	t.fadeLeft = fadeSeconds
	t.fadeTot = fadeSeconds
}

// AdjustSpeed 实现 Handle
func (t *frameTrack) AdjustSpeed(multiplier float64) {
	if multiplier > 0 {
		t.speed = multiplier
	}
}

// AdjustWeight 实现 Handle
func (t *frameTrack) AdjustWeight(weight float64) {
	if weight < 0 {
		weight = 0
	}
	t.weight = weight
}

// OnFinished 实现 Handle
func (t *frameTrack) OnFinished(fn func()) {
	t.done = append(t.done, fn)
}

// update 推进一帧，返回轨道是否仍然存活
func (t *frameTrack) update(deltaTime float64) bool {
	if t.stopped {
		return false
	}
	if t.fadeIn > 0 {
		t.fadeIn -= deltaTime
		if t.fadeIn < 0 {
			t.fadeIn = 0
		}
	}
	if t.fading {
		t.fadeLeft -= deltaTime
		if t.fadeLeft <= 0 {
			t.stopped = true
			return false
		}
	}
	if t.finished {
		// 非循环剪辑锁定在尾帧，等待 Stop 到来后移除
		return true
	}

	fps := t.clip.FPS
	if fps <= 0 {
		fps = t.player.DefaultFPS
	}
	frameTime := 1.0 / (fps * t.speed)

	t.acc += deltaTime
	for t.acc >= frameTime {
		t.acc -= frameTime
		t.frame++
		if t.frame >= len(t.clip.Frames) {
			if t.looped {
				t.frame = 0
				continue
			}
			// 非循环：停在尾帧并通知完成
			t.frame = len(t.clip.Frames) - 1
			t.finished = true
			log.Printf("[FramePlayer] 非循环剪辑播放完成 (帧数: %d)", len(t.clip.Frames))
			for _, fn := range t.done {
				fn()
			}
			break
		}
	}
	// 完成回调里发出的无淡出停止在本次推进内即生效
	if t.stopped {
		return false
	}
	return true
}

// alpha 返回当前绘制透明度（权重 × 淡入系数 × 淡出系数）
func (t *frameTrack) alpha() float64 {
	a := t.weight
	if t.fadeInT > 0 && t.fadeIn > 0 {
		a *= 1 - t.fadeIn/t.fadeInT
	}
	if t.fading && t.fadeTot > 0 {
		a *= t.fadeLeft / t.fadeTot
	}
	return a
}
