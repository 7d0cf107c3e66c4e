package controller

import (
	"errors"
	"testing"

	"github.com/gonewx/charanim/pkg/clips"
	"github.com/gonewx/charanim/pkg/player"
	"github.com/gonewx/charanim/pkg/types"
)

func newTestPoseController(p *fakePlayer) *PoseController {
	return NewPoseController(p, clips.NewSeededSelector(1))
}

// TestChangePoseBasic 测试基本的姿态切换：创建会话、更新姿态、发出通知
func TestChangePoseBasic(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})

	var events []types.Pose
	c.OnPoseChanged(func(old, new types.Pose, track player.Handle) {
		if track == nil {
			t.Error("PoseChanged delivered nil track")
		}
		events = append(events, new)
	})

	if err := c.ChangePose(types.PoseWalk, 0, true); err != nil {
		t.Fatalf("ChangePose failed: %v", err)
	}
	if c.GetPose() != types.PoseWalk {
		t.Errorf("Expected pose Walk, got %v", c.GetPose())
	}
	if len(p.handles) != 1 || p.handles[0].clipID != "walk" {
		t.Fatalf("Expected one walk handle, got %+v", p.handles)
	}
	if !p.handles[0].looped {
		t.Error("Walk pose should start a looped session")
	}
	if len(events) != 1 || events[0] != types.PoseWalk {
		t.Errorf("Expected one PoseChanged(Walk), got %v", events)
	}
	if c.GetCurrentTrack() == nil {
		t.Error("Expected current track after change")
	}
}

// TestChangePoseRedundantCoreTrigger 测试冗余的内部重复触发是无操作：
// 相同姿态的 core 请求不创建新会话、不发通知
func TestChangePoseRedundantCoreTrigger(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseIdle, clips.ClipList{{ID: "A"}})

	events := 0
	c.OnPoseChanged(func(old, new types.Pose, track player.Handle) { events++ })

	// 初始姿态是 Idle，但尚无会话：宿主显式请求（core=false）可以启动
	if err := c.ChangePose(types.PoseIdle, 0, false); err != nil {
		t.Fatalf("ChangePose failed: %v", err)
	}
	// 内部重复触发：无操作
	if err := c.ChangePose(types.PoseIdle, 0, true); err != nil {
		t.Fatalf("Redundant trigger returned error: %v", err)
	}

	if len(p.handles) != 1 {
		t.Errorf("Expected exactly 1 session, got %d", len(p.handles))
	}
	if events != 1 {
		t.Errorf("Expected exactly 1 PoseChanged, got %d", events)
	}
}

// TestChangePoseSupersedesPrevious 测试新会话以交叉渐变取代旧会话
func TestChangePoseSupersedesPrevious(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk", FadeOut: 0.25}})
	_ = c.SetPoseAnims(types.PoseRun, clips.ClipList{{ID: "run"}})

	_ = c.ChangePose(types.PoseWalk, 0, true)
	_ = c.ChangePose(types.PoseRun, 0, true)

	if p.handles[0].stopCount != 1 {
		t.Errorf("Expected previous session stopped once, got %d", p.handles[0].stopCount)
	}
	if p.handles[0].stopFade != 0.25 {
		t.Errorf("Expected configured fadeOut 0.25, got %v", p.handles[0].stopFade)
	}
	if c.GetPose() != types.PoseRun {
		t.Errorf("Expected pose Run, got %v", c.GetPose())
	}
}

// TestChangePoseDisabled 测试禁用姿态的请求被静默忽略，重新启用后成功
func TestChangePoseDisabled(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseSwim, clips.ClipList{{ID: "swim"}})

	c.SetPoseEnabled(types.PoseSwim, false)
	if err := c.ChangePose(types.PoseSwim, 0, true); err != nil {
		t.Fatalf("Disabled pose request returned error: %v", err)
	}
	if c.GetPose() != types.PoseIdle {
		t.Errorf("Pose changed despite being disabled: %v", c.GetPose())
	}
	if len(p.handles) != 0 {
		t.Errorf("Session created for disabled pose: %d", len(p.handles))
	}

	c.SetPoseEnabled(types.PoseSwim, true)
	if err := c.ChangePose(types.PoseSwim, 0, true); err != nil {
		t.Fatalf("ChangePose after re-enable failed: %v", err)
	}
	if c.GetPose() != types.PoseSwim {
		t.Errorf("Expected pose Swim after re-enable, got %v", c.GetPose())
	}
}

// TestChangePoseMissingAnimations 测试目录缺失时切换中止且状态保持
func TestChangePoseMissingAnimations(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})
	_ = c.ChangePose(types.PoseWalk, 0, true)

	err := c.ChangePose(types.PoseClimb, 0, true)
	if !errors.Is(err, ErrMissingPoseAnimations) {
		t.Fatalf("Expected ErrMissingPoseAnimations, got %v", err)
	}
	// 当前姿态与会话保持不变
	if c.GetPose() != types.PoseWalk {
		t.Errorf("Pose changed by failed transition: %v", c.GetPose())
	}
	if p.handles[0].stopCount != 0 {
		t.Errorf("Active session stopped by failed transition")
	}
}

// TestPlaybackGateSuspendAndReplay 测试动作抢占期间姿态请求被记录，
// 恢复后重放最近一次请求
func TestPlaybackGateSuspendAndReplay(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})
	_ = c.SetPoseAnims(types.PoseRun, clips.ClipList{{ID: "run"}})

	c.SetCoreCanPlayAnims(false)
	if c.Gate() != types.GateSuspendedForAction {
		t.Fatalf("Expected SuspendedForAction, got %v", c.Gate())
	}

	_ = c.ChangePose(types.PoseWalk, 0, true)
	_ = c.ChangePose(types.PoseRun, 0, true)
	if len(p.handles) != 0 {
		t.Fatalf("Sessions created while suspended: %d", len(p.handles))
	}

	c.SetCoreCanPlayAnims(true)
	// 只重放最近一次请求（Run）
	if len(p.handles) != 1 || p.handles[0].clipID != "run" {
		t.Fatalf("Expected replay of run only, got %+v", p.handles)
	}
	if c.GetPose() != types.PoseRun {
		t.Errorf("Expected pose Run after replay, got %v", c.GetPose())
	}
}

// TestPlaybackGateRecordsCurrentPose 测试门控关闭期间与当前姿态相同的
// 请求同样被记录：重放的是最近一次请求，不是更早的那次
func TestPlaybackGateRecordsCurrentPose(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})
	_ = c.SetPoseAnims(types.PoseRun, clips.ClipList{{ID: "run"}})

	_ = c.ChangePose(types.PoseWalk, 0, true)
	c.SetCoreCanPlayAnims(false)

	// 旧会话未被停止，仍然 Active；随后先请求 Run 再请求 Walk
	_ = c.ChangePose(types.PoseRun, 0, true)
	_ = c.ChangePose(types.PoseWalk, 0, true)

	c.SetCoreCanPlayAnims(true)
	last := p.handles[len(p.handles)-1]
	if last.clipID != "walk" {
		t.Errorf("Expected replay of latest request (walk), got %q", last.clipID)
	}
	if c.GetPose() != types.PoseWalk {
		t.Errorf("Expected pose Walk after replay, got %v", c.GetPose())
	}
}

// TestPlaybackGateDisabled 测试全局关闭优先于动作抢占
func TestPlaybackGateDisabled(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})

	c.SetCoreActive(false)
	if c.GetCoreActive() {
		t.Error("Expected CoreActive=false")
	}
	// 关闭状态下动作抢占开关不改变门控
	c.SetCoreCanPlayAnims(false)
	if c.Gate() != types.GateDisabled {
		t.Errorf("Disabled gate changed by CanPlayAnims: %v", c.Gate())
	}

	_ = c.ChangePose(types.PoseWalk, 0, true)
	if len(p.handles) != 0 {
		t.Error("Session created while disabled")
	}

	c.SetCoreActive(true)
	if len(p.handles) != 1 {
		t.Errorf("Expected replay after reactivation, got %d sessions", len(p.handles))
	}
}

// TestStopCoreAnimations 测试清场：停止会话但保持记录的姿态
func TestStopCoreAnimations(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})
	_ = c.ChangePose(types.PoseWalk, 0, true)

	c.StopCoreAnimations(0.1)
	if p.handles[0].stopCount != 1 || p.handles[0].stopFade != 0.1 {
		t.Errorf("Expected one stop with fade 0.1, got %+v", p.handles[0])
	}
	if c.GetPose() != types.PoseWalk {
		t.Errorf("Recorded pose changed by StopCoreAnimations: %v", c.GetPose())
	}
	if c.GetCurrentTrack() != nil {
		t.Error("Expected nil current track after stop")
	}
}

// TestChangeCoreAnim 测试单条目替换只影响后续切换
func TestChangeCoreAnim(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseIdle, clips.ClipList{{ID: "old"}})
	_ = c.ChangePose(types.PoseIdle, 0, false)

	if err := c.ChangeCoreAnim(types.PoseIdle, 0, clips.ClipDescriptor{ID: "new"}); err != nil {
		t.Fatalf("ChangeCoreAnim failed: %v", err)
	}
	// 当前会话不受影响
	if p.handles[0].stopCount != 0 {
		t.Error("Live session touched by catalog replacement")
	}

	infos, ok := c.GetCoreAnimInfos(types.PoseIdle)
	if !ok || infos[0].ID != "new" {
		t.Errorf("Expected replaced entry, got %+v", infos)
	}

	// 下一次切换使用新条目
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})
	_ = c.ChangePose(types.PoseWalk, 0, true)
	_ = c.ChangePose(types.PoseIdle, 0, true)
	last := p.handles[len(p.handles)-1]
	if last.clipID != "new" {
		t.Errorf("Expected next transition to use new clip, got %q", last.clipID)
	}
}

// TestGetRandomCoreAnim 测试只选择不播放
func TestGetRandomCoreAnim(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseIdle, clips.ClipList{{ID: "idle1"}, {ID: "idle2"}})

	d, err := c.GetRandomCoreAnim(types.PoseIdle)
	if err != nil {
		t.Fatalf("GetRandomCoreAnim failed: %v", err)
	}
	if d.ID != "idle1" && d.ID != "idle2" {
		t.Errorf("Unexpected selection %q", d.ID)
	}
	if len(p.handles) != 0 {
		t.Error("Selection started a session")
	}

	if _, err := c.GetRandomCoreAnim(types.PoseClimb); !errors.Is(err, ErrMissingPoseAnimations) {
		t.Errorf("Expected ErrMissingPoseAnimations, got %v", err)
	}
}

// TestOneShotPoseReleasesHandleOnFinish 测试一次性姿态自然播放完成时
// 句柄随完成立即释放；之后的切换与销毁不会再次触碰它
func TestOneShotPoseReleasesHandleOnFinish(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseJump, clips.ClipList{{ID: "jump"}})
	_ = c.SetPoseAnims(types.PoseIdle, clips.ClipList{{ID: "idle"}})

	_ = c.ChangePose(types.PoseJump, 0, true)
	jump := p.handles[0]
	jump.fire()
	if jump.stopCount != 1 {
		t.Fatalf("Expected handle released on finish, got %d stops", jump.stopCount)
	}

	_ = c.ChangePose(types.PoseIdle, 0, true)
	c.Destroy()
	if jump.stopCount != 1 {
		t.Errorf("Finished handle released again: %d stops", jump.stopCount)
	}
	// 全部释放：jump 随完成，idle 随销毁，各一次
	if p.totalStops() != 2 {
		t.Errorf("Expected 2 total releases, got %d", p.totalStops())
	}
}

// TestPoseControllerDestroy 测试销毁幂等且句柄恰好释放一次
func TestPoseControllerDestroy(t *testing.T) {
	p := &fakePlayer{}
	c := newTestPoseController(p)
	_ = c.SetPoseAnims(types.PoseWalk, clips.ClipList{{ID: "walk"}})
	_ = c.ChangePose(types.PoseWalk, 0, true)

	c.Destroy()
	c.Destroy()
	if p.totalStops() != 1 {
		t.Errorf("Expected exactly 1 handle release, got %d", p.totalStops())
	}

	if err := c.ChangePose(types.PoseRun, 0, true); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
	if err := c.SetPoseAnims(types.PoseRun, clips.ClipList{{ID: "run"}}); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed from SetPoseAnims, got %v", err)
	}
}
