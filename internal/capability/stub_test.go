package capability

import (
	"time"

	"github.com/csheth/attachpanel/internal/panel"
)

type stubSurface struct {
	id int
}

func (*stubSurface) Geometry() (int, int)                                 { return 80, 24 }
func (*stubSurface) Rotation() int                                        { return 0 }
func (*stubSurface) KeypadHeight() int                                    { return 0 }
func (*stubSurface) AnimateHeight(_, _ int, _ time.Duration, done func()) { done() }
func (*stubSurface) SetHeight(int)                                        {}
func (*stubSurface) Signal(panel.Signal)                                  {}
