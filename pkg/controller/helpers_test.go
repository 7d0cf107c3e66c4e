package controller

// 测试共用的假播放服务：记录创建的全部句柄，支持手动触发完成通知

import (
	"errors"

	"github.com/gonewx/charanim/pkg/config"
	"github.com/gonewx/charanim/pkg/player"
)

type fakeHandle struct {
	clipID    string
	looped    bool
	priority  int
	stopCount int
	stopFade  float64
	speeds    []float64
	weights   []float64
	finished  []func()
}

func (h *fakeHandle) Stop(fadeSeconds float64) {
	h.stopCount++
	h.stopFade = fadeSeconds
}

func (h *fakeHandle) AdjustSpeed(multiplier float64) {
	h.speeds = append(h.speeds, multiplier)
}

func (h *fakeHandle) AdjustWeight(weight float64) {
	h.weights = append(h.weights, weight)
}

func (h *fakeHandle) OnFinished(fn func()) {
	h.finished = append(h.finished, fn)
}

func (h *fakeHandle) fire() {
	for _, fn := range h.finished {
		fn()
	}
}

type fakePlayer struct {
	handles []*fakeHandle
	failAll bool
}

func (p *fakePlayer) LoadAndStart(clipID string, looped bool, priority int) (player.Handle, error) {
	if p.failAll {
		return nil, errors.New("fake player: load failed")
	}
	h := &fakeHandle{clipID: clipID, looped: looped, priority: priority}
	p.handles = append(p.handles, h)
	return h, nil
}

// totalStops 返回全部句柄累计的 Stop 调用次数
func (p *fakePlayer) totalStops() int {
	n := 0
	for _, h := range p.handles {
		n += h.stopCount
	}
	return n
}

// staticConfig 固定配置的 ConfigProvider
type staticConfig struct {
	cfg config.MovementConfig
}

func (s staticConfig) Movement() config.MovementConfig {
	return s.cfg
}

// staticWalkSpeed 固定步行速度的 MovementSource
type staticWalkSpeed float64

func (s staticWalkSpeed) WalkSpeed() float64 {
	return float64(s)
}
