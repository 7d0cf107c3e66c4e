// cmd/pose_showcase/main.go
// 姿态状态机交互演示程序
//
// 用键盘模拟外部运动仿真发出的信号，用逐帧播放器渲染占位动画：
// 每个姿态一种颜色，帧间亮度变化体现播放进度与交叉渐变。
//
// 用法：
//   go run ./cmd/pose_showcase
package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/charanim/pkg/clips"
	"github.com/gonewx/charanim/pkg/controller"
	"github.com/gonewx/charanim/pkg/player"
	"github.com/gonewx/charanim/pkg/types"
)

const (
	screenWidth   = 640
	screenHeight  = 480
	frameSize     = 160
	framesPerClip = 8
	tick          = 1.0 / 60.0
)

// moveMode 键盘模拟的运动类别
type moveMode int

const (
	modeGround moveMode = iota
	modeSwim
	modeClimb
)

func (m moveMode) String() string {
	switch m {
	case modeGround:
		return "Ground"
	case modeSwim:
		return "Swim"
	case modeClimb:
		return "Climb"
	}
	return "Unknown"
}

// poseColors 每个姿态的占位底色
var poseColors = map[types.Pose]color.RGBA{
	types.PoseIdle:     {R: 0x44, G: 0x88, B: 0x44, A: 0xff},
	types.PoseWalk:     {R: 0x44, G: 0x66, B: 0xaa, A: 0xff},
	types.PoseRun:      {R: 0x22, G: 0x44, B: 0xcc, A: 0xff},
	types.PoseJump:     {R: 0xcc, G: 0xaa, B: 0x22, A: 0xff},
	types.PoseFreefall: {R: 0xcc, G: 0x77, B: 0x22, A: 0xff},
	types.PoseLanded:   {R: 0x88, G: 0x66, B: 0x33, A: 0xff},
	types.PoseClimb:    {R: 0x77, G: 0x44, B: 0x88, A: 0xff},
	types.PoseSwim:     {R: 0x22, G: 0xaa, B: 0xaa, A: 0xff},
	types.PoseSwimIdle: {R: 0x33, G: 0x77, B: 0x77, A: 0xff},
	types.PoseSit:      {R: 0x88, G: 0x88, B: 0x44, A: 0xff},
	types.PoseDead:     {R: 0x66, G: 0x33, B: 0x33, A: 0xff},
}

// generateFrames 生成一个剪辑的占位帧序列：底色 + 随帧变化的亮度
func generateFrames(base color.RGBA) []*ebiten.Image {
	frames := make([]*ebiten.Image, framesPerClip)
	for i := range frames {
		img := ebiten.NewImage(frameSize, frameSize)
		// 亮度在 0.6 ~ 1.0 之间往返
		phase := float64(i) / float64(framesPerClip-1)
		if phase > 0.5 {
			phase = 1 - phase
		}
		scale := 0.6 + 0.8*phase
		img.Fill(color.RGBA{
			R: scaleByte(base.R, scale),
			G: scaleByte(base.G, scale),
			B: scaleByte(base.B, scale),
			A: 0xff,
		})
		frames[i] = img
	}
	return frames
}

func scaleByte(v uint8, s float64) uint8 {
	f := float64(v) * s
	if f > 255 {
		f = 255
	}
	return uint8(f)
}

// Game 演示主循环
type Game struct {
	fp *player.FramePlayer
	an *controller.Animator

	mode     moveMode
	speed    float64
	showHelp bool
}

func NewGame() *Game {
	fp := player.NewFramePlayer()
	an := controller.NewAnimator(fp, nil, nil, nil)

	// 注册每个姿态的占位剪辑并装入姿态目录
	mapping := map[string]clips.ClipList{}
	for pose, base := range poseColors {
		clipID := "pose_" + pose.String()
		fp.Register(clipID, generateFrames(base), 12)
		mapping[pose.String()] = clips.ClipList{{ID: clipID}}
	}
	if err := an.Pose.LoadCatalog(mapping); err != nil {
		log.Fatalf("加载姿态目录失败: %v", err)
	}

	// 动作剪辑：白色闪烁，一次性播放
	fp.Register("action_wave", generateFrames(color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}), 16)
	if err := an.Actions.CreateAction("wave", clips.ClipList{{ID: "action_wave"}}, nil); err != nil {
		log.Fatalf("注册动作失败: %v", err)
	}

	// 启动时进入待机
	an.Conn.Running(0)
	return &Game{fp: fp, an: an, showHelp: true}
}

func (g *Game) Update() error {
	g.handleInput()
	g.an.Update(tick)
	g.fp.Update(tick)
	return nil
}

// emitSpeed 上报当前类别的速度信号
// 信号是事件驱动的：只在速度或类别变化时发出，而不是每帧重复
func (g *Game) emitSpeed() {
	switch g.mode {
	case modeGround:
		g.an.Conn.Running(g.speed)
	case modeSwim:
		g.an.Conn.Swimming(g.speed)
	case modeClimb:
		g.an.Conn.Climbing(g.speed)
	}
}

func (g *Game) handleInput() {
	// 速度调节
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.speed += 4
		g.emitSpeed()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.speed -= 4
		if g.speed < 0 {
			g.speed = 0
		}
		g.emitSpeed()
	}

	// 运动类别切换
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.mode = modeGround
		g.emitSpeed()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.mode = modeSwim
		g.an.Conn.StateChanged(types.StateNone, types.StateSwimming)
		g.emitSpeed()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.mode = modeClimb
		g.emitSpeed()
	}

	// 离散信号
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.an.Conn.Jumping()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.an.Conn.StateChanged(types.StateFreefall, types.StateLanded)
		g.emitSpeed()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.an.Conn.StateChanged(types.StateNone, types.StateSeated)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.an.Conn.StateChanged(types.StateNone, types.StateDead)
	}

	// 动作：暂停姿态播放 → 播放 → 完成后恢复
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.an.Pose.SetCoreCanPlayAnims(false)
		handle, err := g.an.Actions.PlayAction("wave")
		if err != nil {
			log.Printf("[Showcase] 播放动作失败: %v", err)
			g.an.Pose.SetCoreCanPlayAnims(true)
		} else {
			// 播放完成后句柄由会话释放，这里只负责恢复姿态播放
			handle.OnFinished(func() {
				g.an.Pose.SetCoreCanPlayAnims(true)
			})
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x18, G: 0x18, B: 0x20, A: 0xff})

	x := float64(screenWidth-frameSize) / 2
	y := float64(screenHeight-frameSize) / 2
	g.fp.Draw(screen, x, y)

	status := fmt.Sprintf("Pose: %s  Mode: %s  Speed: %.0f  Tracks: %d",
		g.an.Pose.GetPose(), g.mode, g.speed, g.fp.ActiveTracks())
	ebitenutil.DebugPrintAt(screen, status, 8, 8)

	if g.showHelp {
		help := "Up/Down: speed  G/W/C: ground/swim/climb\n" +
			"Space: jump  L: land  S: sit  K: dead\n" +
			"A: play action (wave)  H: toggle help"
		ebitenutil.DebugPrintAt(screen, help, 8, screenHeight-52)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Pose Showcase")
	if err := ebiten.RunGame(NewGame()); err != nil {
		log.Fatal(err)
	}
}
