// verify_pose_machine.go - 姿态状态机验证程序
// 使用脚本化的信号序列驱动 Animator，对录制型假播放器的
// 会话轨迹做逐项断言
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gonewx/charanim/pkg/clips"
	"github.com/gonewx/charanim/pkg/controller"
	"github.com/gonewx/charanim/pkg/player"
	"github.com/gonewx/charanim/pkg/types"
)

var verbose = flag.Bool("verbose", false, "详细日志")

// ========== 验证报告结构 ==========

type ValidationReport struct {
	TestName string
	Passed   bool
	Message  string
}

var validationReports []ValidationReport

func addReport(testName string, passed bool, message string) {
	validationReports = append(validationReports, ValidationReport{
		TestName: testName,
		Passed:   passed,
		Message:  message,
	})
	status := "✗ FAIL"
	if passed {
		status = "✓ PASS"
	}
	log.Printf("%s | %-30s | %s", status, testName, message)
}

// ========== 录制型假播放器 ==========

// recordedHandle 记录一条会话的生命周期事件
type recordedHandle struct {
	clipID   string
	looped   bool
	priority int
	speed    float64
	stops    int
	stopFade float64
	done     []func()
}

func (h *recordedHandle) Stop(fadeSeconds float64) {
	h.stops++
	h.stopFade = fadeSeconds
}

func (h *recordedHandle) AdjustSpeed(multiplier float64) { h.speed = multiplier }
func (h *recordedHandle) AdjustWeight(weight float64)    {}
func (h *recordedHandle) OnFinished(fn func())           { h.done = append(h.done, fn) }

// fire 模拟非循环剪辑自然播放完成
func (h *recordedHandle) fire() {
	for _, fn := range h.done {
		fn()
	}
}

// recordingPlayer 记录所有启动过的会话
type recordingPlayer struct {
	handles []*recordedHandle
}

func (p *recordingPlayer) LoadAndStart(clipID string, looped bool, priority int) (player.Handle, error) {
	h := &recordedHandle{clipID: clipID, looped: looped, priority: priority, speed: 1}
	p.handles = append(p.handles, h)
	if *verbose {
		log.Printf("[RecordingPlayer] 启动会话 clip=%s looped=%v priority=%d", clipID, looped, priority)
	}
	return h, nil
}

func (p *recordingPlayer) last() *recordedHandle {
	if len(p.handles) == 0 {
		return nil
	}
	return p.handles[len(p.handles)-1]
}

func (p *recordingPlayer) totalStops() int {
	n := 0
	for _, h := range p.handles {
		n += h.stops
	}
	return n
}

// ========== 构造 ==========

const tick = 1.0 / 60.0

func newAnimator(p *recordingPlayer) *controller.Animator {
	an := controller.NewAnimator(p, nil, nil, clips.NewSeededSelector(7))
	mapping := map[string]clips.ClipList{}
	for pose := types.PoseIdle; pose <= types.PoseDead; pose++ {
		mapping[pose.String()] = clips.ClipList{{ID: "clip_" + pose.String()}}
	}
	if err := an.Pose.LoadCatalog(mapping); err != nil {
		log.Fatalf("加载姿态目录失败: %v", err)
	}
	return an
}

// ========== 验证场景 ==========

// validateSpeedSignals 验证连续速度信号到姿态的映射
func validateSpeedSignals() {
	p := &recordingPlayer{}
	an := newAnimator(p)
	defer an.Destroy()

	script := []struct {
		speed float64
		want  types.Pose
	}{
		{5, types.PoseWalk},
		{20, types.PoseRun},
		{0, types.PoseIdle},
	}
	for _, step := range script {
		an.Conn.Running(step.speed)
		an.Update(tick)
		pose := an.Pose.GetPose()
		addReport("SpeedSignals", pose == step.want,
			fmt.Sprintf("Running(%.0f) → %s (期望 %s)", step.speed, pose, step.want))
	}
}

// validateJumpSequence 验证跳跃→下落→落地的完整序列
func validateJumpSequence() {
	p := &recordingPlayer{}
	an := newAnimator(p)
	defer an.Destroy()

	an.Conn.Jumping()
	an.Update(tick)
	addReport("JumpSequence", an.Pose.GetPose() == types.PoseJump,
		fmt.Sprintf("Jumping 信号后姿态为 %s", an.Pose.GetPose()))

	// 超过跳跃时长未落地，自动转入下落
	for i := 0; i < 30; i++ {
		an.Update(tick)
	}
	addReport("JumpSequence", an.Pose.GetPose() == types.PoseFreefall,
		fmt.Sprintf("跳跃超时后姿态为 %s", an.Pose.GetPose()))

	an.Conn.StateChanged(types.StateFreefall, types.StateLanded)
	an.Update(tick)
	addReport("JumpSequence", an.Pose.GetPose() == types.PoseLanded,
		fmt.Sprintf("落地后姿态为 %s", an.Pose.GetPose()))

	last := p.last()
	addReport("JumpSequence", last != nil && !last.looped,
		"落地剪辑是一次性播放")
}

// validateDiscretePriority 验证同一 tick 内离散信号优先于连续信号
func validateDiscretePriority() {
	p := &recordingPlayer{}
	an := newAnimator(p)
	defer an.Destroy()

	an.Conn.StateChanged(types.StateNone, types.StateSeated)
	an.Conn.Running(20)
	an.Update(tick)
	addReport("DiscretePriority", an.Pose.GetPose() == types.PoseSit,
		fmt.Sprintf("Seated 之后的 Running 被丢弃，姿态为 %s", an.Pose.GetPose()))

	// 下一 tick 的连续信号恢复正常
	an.Conn.Running(20)
	an.Update(tick)
	addReport("DiscretePriority", an.Pose.GetPose() == types.PoseRun,
		fmt.Sprintf("下一 tick 的 Running 生效，姿态为 %s", an.Pose.GetPose()))
}

// validateSuspendReplay 验证动作期间暂停姿态播放并在恢复时重放
func validateSuspendReplay() {
	p := &recordingPlayer{}
	an := newAnimator(p)
	defer an.Destroy()

	if err := an.Actions.CreateAction("bow", clips.ClipList{{ID: "bow"}}, nil); err != nil {
		log.Fatalf("注册动作失败: %v", err)
	}

	an.Pose.SetCoreCanPlayAnims(false)
	if _, err := an.Actions.PlayAction("bow"); err != nil {
		log.Fatalf("播放动作失败: %v", err)
	}
	before := len(p.handles)

	an.Conn.Running(5)
	an.Update(tick)
	addReport("SuspendReplay", len(p.handles) == before,
		"暂停期间的姿态请求不启动会话")

	p.last().fire()
	an.Pose.SetCoreCanPlayAnims(true)
	addReport("SuspendReplay", an.Pose.GetPose() == types.PoseWalk,
		fmt.Sprintf("恢复后重放最近请求，姿态为 %s", an.Pose.GetPose()))
	last := p.last()
	addReport("SuspendReplay", last != nil && last.clipID == "clip_Walk",
		fmt.Sprintf("重放启动剪辑 %s", last.clipID))
}

// validateCrossfade 验证姿态切换时旧会话以淡出停止
func validateCrossfade() {
	p := &recordingPlayer{}
	an := newAnimator(p)
	defer an.Destroy()

	an.Conn.Running(5)
	an.Update(tick)
	first := p.last()

	an.Conn.Running(20)
	an.Update(tick)
	addReport("Crossfade", first.stops == 1 && first.stopFade > 0,
		fmt.Sprintf("旧会话淡出停止 (fade=%.2f)", first.stopFade))
}

// validateDestroy 验证销毁恰好释放每个句柄一次
func validateDestroy() {
	p := &recordingPlayer{}
	an := newAnimator(p)

	an.Conn.Running(5)
	an.Update(tick)
	_ = an.Actions.CreateAction("wave", clips.ClipList{{ID: "wave", Looped: true}}, nil)
	_, _ = an.Actions.PlayAction("wave")

	an.Destroy()
	an.Destroy()
	addReport("Destroy", p.totalStops() == len(p.handles),
		fmt.Sprintf("每个句柄恰好释放一次 (%d/%d)", p.totalStops(), len(p.handles)))

	err := an.Pose.ChangePose(types.PoseIdle, 0, false)
	addReport("Destroy", err != nil, fmt.Sprintf("销毁后 ChangePose 返回 %v", err))
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	validateSpeedSignals()
	validateJumpSequence()
	validateDiscretePriority()
	validateSuspendReplay()
	validateCrossfade()
	validateDestroy()

	passed, failed := 0, 0
	for _, r := range validationReports {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}
	log.Printf("")
	log.Printf("========== 验证结果: %d 通过, %d 失败 ==========", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
