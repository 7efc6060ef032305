// Package capability decides which content categories the local machine and
// the configured policy allow.
package capability

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/csheth/attachpanel/internal/config"
)

// ErrDenied is returned for privileges the policy rejects.
var ErrDenied = errors.New("privilege denied")

// Policy answers feature and privilege checks from configuration, probing
// device nodes for features the configuration does not pin.
type Policy struct {
	features map[string]bool
	denied   map[string]bool
	probe    bool
	devRoot  string
}

func New(cfg config.CapabilityConfig) *Policy {
	p := &Policy{
		features: make(map[string]bool, len(cfg.Features)),
		denied:   make(map[string]bool, len(cfg.Denied)),
		probe:    cfg.Probe,
		devRoot:  "/dev",
	}
	for name, ok := range cfg.Features {
		p.features[name] = ok
	}
	for _, name := range cfg.Denied {
		p.denied[name] = true
	}
	return p
}

// HasFeature reports whether the named device feature is present.
func (p *Policy) HasFeature(name string) (bool, error) {
	if ok, pinned := p.features[name]; pinned {
		return ok, nil
	}
	if !p.probe {
		return true, nil
	}
	switch name {
	case "camera":
		matches, err := filepath.Glob(filepath.Join(p.devRoot, "video*"))
		if err != nil {
			return false, err
		}
		return len(matches) > 0, nil
	case "microphone":
		_, err := os.Stat(filepath.Join(p.devRoot, "snd"))
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	default:
		return false, fmt.Errorf("no probe for feature %q", name)
	}
}

// CheckPrivilege rejects privileges listed in the policy.
func (p *Policy) CheckPrivilege(name string) error {
	if p.denied[name] {
		return fmt.Errorf("%w: %s", ErrDenied, name)
	}
	return nil
}
