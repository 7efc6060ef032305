package panel

import (
	"fmt"
	"reflect"
	"sync"
	"weak"
)

// registry tracks the live panel of every surface. Panels are held weakly so
// a panel the host dropped without Destroy does not block a new one.
var registry = struct {
	mu     sync.Mutex
	panels map[Surface]weak.Pointer[Panel]
}{panels: make(map[Surface]weak.Pointer[Panel])}

func claimSurface(s Surface, p *Panel) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if wp, ok := registry.panels[s]; ok {
		if live := wp.Value(); live != nil && live.life != lifeDestroyed {
			return fmt.Errorf("%w: surface already hosts a panel", ErrAlreadyExists)
		}
	}
	registry.panels[s] = weak.Make(p)
	return nil
}

func releaseSurface(s Surface, p *Panel) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if wp, ok := registry.panels[s]; ok && wp.Value() == p {
		delete(registry.panels, s)
	}
}

// Create builds a hidden panel bound to surface. Only one live panel may use
// a surface at a time. The surface identifies the host region, so its
// dynamic type must be comparable; pointers always are.
func Create(surface Surface, cfg Config) (*Panel, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidParameter)
	}
	if !reflect.TypeOf(surface).Comparable() {
		return nil, fmt.Errorf("%w: surface type %T is not comparable", ErrInvalidParameter, surface)
	}
	cfg = cfg.withDefaults()
	p := &Panel{
		surface:   surface,
		cfg:       cfg,
		log:       cfg.Logger.With("component", "panel"),
		gridAtTop: true,
		toolbar:   true,
	}
	if err := claimSurface(surface, p); err != nil {
		return nil, err
	}
	p.rotation = surface.Rotation()
	p.computeSize()
	surface.SetHeight(0)
	p.log.Debug("panel created", "rotation", p.rotation, "width", p.width, "half", p.halfHeight, "full", p.fullHeight)
	return p, nil
}
