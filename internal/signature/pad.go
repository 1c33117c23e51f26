package signature

import (
	"fmt"
	"time"

	"github.com/mrsinham/intakeforge/internal/intake"
)

// Viewport is where a surface is rendered on screen, in the pointer's
// coordinate space.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// MapPoint converts pointer coordinates to surface pixels by removing the
// viewport origin and scaling by native size over rendered size.
func MapPoint(clientX, clientY float64, vp Viewport) Point {
	sx, sy := 1.0, 1.0
	if vp.Width > 0 {
		sx = Width / vp.Width
	}
	if vp.Height > 0 {
		sy = Height / vp.Height
	}
	return Point{X: (clientX - vp.X) * sx, Y: (clientY - vp.Y) * sy}
}

// Pad holds one surface per signature role. At most one surface is active
// (being drawn on) at a time.
type Pad struct {
	surfaces map[intake.SignatureRole]*Surface

	activeRole intake.SignatureRole
	active     *Surface
	viewport   Viewport
	last       Point

	now func() time.Time
}

// NewPad returns a pad with a blank surface for every signature role.
func NewPad() *Pad {
	p := &Pad{
		surfaces: make(map[intake.SignatureRole]*Surface, 3),
		now:      time.Now,
	}
	for _, role := range intake.AllSignatureRoles() {
		p.surfaces[role] = NewSurface()
	}
	return p
}

// Surface returns the surface for role.
func (p *Pad) Surface(role intake.SignatureRole) *Surface {
	return p.surfaces[role]
}

// Active returns the role currently being drawn on.
func (p *Pad) Active() (intake.SignatureRole, bool) {
	return p.activeRole, p.active != nil
}

// Press begins a path on role's surface at the mapped pointer position and
// makes it the active surface. Any stroke in progress elsewhere ends. A press
// outside the surface starts nothing.
func (p *Pad) Press(role intake.SignatureRole, clientX, clientY float64, vp Viewport) error {
	s, ok := p.surfaces[role]
	if !ok {
		return fmt.Errorf("unknown signature role: %q", role)
	}
	p.Release()
	pt := MapPoint(clientX, clientY, vp)
	if !onSurface(pt) {
		return nil
	}
	p.active = s
	p.activeRole = role
	p.viewport = vp
	p.last = pt
	return nil
}

// Move extends the active path to the mapped pointer position and draws the
// new segment immediately. It reports whether anything was drawn and is a
// no-op while no surface is active. Moving off the surface ends the path.
func (p *Pad) Move(clientX, clientY float64) bool {
	if p.active == nil {
		return false
	}
	next := MapPoint(clientX, clientY, p.viewport)
	if !onSurface(next) {
		p.Release()
		return false
	}
	if next == p.last {
		return false
	}
	p.active.Segment(p.last, next)
	p.last = next
	return true
}

// Release ends the current path. Leaving the surface is treated the same way.
func (p *Pad) Release() {
	p.active = nil
	p.activeRole = ""
}

// Clear blanks role's surface. Previously exported artifacts are unaffected.
func (p *Pad) Clear(role intake.SignatureRole) {
	if s, ok := p.surfaces[role]; ok {
		s.Clear()
	}
	if p.activeRole == role {
		p.Release()
	}
}

// IsBlank reports whether role's surface has no ink.
func (p *Pad) IsBlank(role intake.SignatureRole) bool {
	s, ok := p.surfaces[role]
	return !ok || s.IsBlank()
}

// Export encodes role's surface. A blank surface yields intake.ErrEmptySignature.
func (p *Pad) Export(role intake.SignatureRole) (*intake.Artifact, error) {
	s, ok := p.surfaces[role]
	if !ok {
		return nil, fmt.Errorf("unknown signature role: %q", role)
	}
	art, err := s.Export(p.now())
	if err != nil {
		return nil, fmt.Errorf("saving %s signature: %w", role, err)
	}
	return art, nil
}

// Reset blanks every surface.
func (p *Pad) Reset() {
	for _, s := range p.surfaces {
		s.Clear()
	}
	p.Release()
}

func onSurface(pt Point) bool {
	return pt.X >= 0 && pt.X <= Width && pt.Y >= 0 && pt.Y <= Height
}
