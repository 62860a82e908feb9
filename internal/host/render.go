package host

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/tapwalk/internal/core/placement"
	"github.com/zeusync/tapwalk/internal/core/scene"
	"github.com/zeusync/tapwalk/internal/core/systems/physics"
)

// Glyphs used by the renderer.
const (
	GlyphTarget = 'x'
	GlyphArrive = '+'
)

// arrows are indexed by screen heading in 45 degree steps, clockwise from up.
var arrows = [8]rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

var surfaceStyles = []tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorDarkGreen),
	tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown),
	tcell.StyleDefault.Foreground(tcell.ColorSteelBlue),
	tcell.StyleDefault.Foreground(tcell.ColorDarkKhaki),
}

var (
	styleAgent  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

func (h *Host) draw(snap placement.Snapshot) {
	h.screen.Clear()
	cam := h.world.Camera()

	if h.cfg.Shade {
		h.drawSurfaces(cam)
	}
	if snap.Target != nil {
		if p, ok := cam.WorldToScreen(snap.Target.Position); ok {
			r := GlyphTarget
			if snap.Target.Arrived {
				r = GlyphArrive
			}
			h.put(p, cam, r, styleTarget)
		}
	}
	if snap.HasAgent {
		if p, ok := cam.WorldToScreen(snap.Position); ok {
			glyph := Arrow(cam, snap.Position, snap.Rotation)
			if snap.Motion == placement.MotionIdle && snap.Target != nil && snap.Target.Arrived {
				if r, ok := h.restGlyph(); ok {
					glyph = r
				}
			}
			h.put(p, cam, glyph, styleAgent)
		}
	}
	h.drawStatus(snap)
	h.screen.Show()
}

// restGlyph is the prefab's own glyph, drawn once the agent has arrived.
func (h *Host) restGlyph() (rune, bool) {
	actor, ok := h.ctrl.Agent().(*scene.Actor)
	if !ok {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(actor.Prefab().Glyph)
	return r, r != utf8.RuneError
}

func (h *Host) drawSurfaces(cam scene.Camera) {
	index := make(map[string]int)
	for i, s := range h.world.Surfaces() {
		index[s.ID] = i
	}
	for y := 0; y < cam.Height; y++ {
		for x := 0; x < cam.Width; x++ {
			hits := h.ray.Raycast(physics.V2(float64(x)+0.5, float64(y)+0.5))
			if len(hits) == 0 {
				continue
			}
			i := index[hits[0].SurfaceID]
			r := '·'
			if i > 0 {
				r = '░'
			}
			h.screen.SetContent(x, y, r, nil, surfaceStyles[i%len(surfaceStyles)])
		}
	}
}

func (h *Host) put(p physics.Vec2, cam scene.Camera, r rune, style tcell.Style) {
	x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
	if x < 0 || y < 0 || x >= cam.Width || y >= cam.Height {
		return
	}
	h.screen.SetContent(x, y, r, nil, style)
}

func (h *Host) drawStatus(snap placement.Snapshot) {
	w, rows := h.screen.Size()
	if rows == 0 {
		return
	}
	line := fmt.Sprintf(" frame %d  prefab %s  no agent  click a surface to place", snap.Frame, h.ctrl.PlacedPrefab())
	if snap.HasAgent {
		id := snap.AgentID
		if len(id) > 8 {
			id = id[:8]
		}
		line = fmt.Sprintf(" frame %d  agent %s  %s  at (%.2f, %.2f, %.2f)", snap.Frame, id, snap.Motion, snap.Position.X, snap.Position.Y, snap.Position.Z)
	}
	line += "  [q] quit"

	y := rows - 1
	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		h.screen.SetContent(col, y, r, nil, styleStatus)
		col++
	}
	for ; col < w; col++ {
		h.screen.SetContent(col, y, ' ', nil, styleStatus)
	}
}

// Arrow picks the glyph pointing along the rotation's forward axis as seen
// through cam. Cell aspect is taken into account.
func Arrow(cam scene.Camera, pos physics.Vec3, rot physics.Quat) rune {
	a, okA := cam.WorldToScreen(pos)
	b, okB := cam.WorldToScreen(pos.Add(rot.Forward().Scale(0.5)))
	if !okA || !okB {
		return arrows[0]
	}
	dx := b.X - a.X
	dy := (b.Y - a.Y) * cam.PixelAspect
	if math.Hypot(dx, dy) < 1e-9 {
		return arrows[0]
	}
	heading := math.Atan2(dx, -dy) * 180 / math.Pi
	i := int(math.Round(heading/45)) % 8
	if i < 0 {
		i += 8
	}
	return arrows[i]
}
