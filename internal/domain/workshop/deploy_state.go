package workshop

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/groundworks-go/internal/domain/work"
)

// DeployState tracks multi-tick deployment of a kit's host.
type DeployState string

const (
	// DeployStateIdle - the kit is packed
	DeployStateIdle DeployState = "IDLE"

	// DeployStateDeploying - the kit is unfolding; no work may happen
	DeployStateDeploying DeployState = "DEPLOYING"

	// DeployStateDeployed - the kit stands on site and can be constructed
	DeployStateDeployed DeployState = "DEPLOYED"
)

// ParseDeployState parses a case-insensitive deploy state; empty means IDLE
func ParseDeployState(s string) (DeployState, error) {
	switch DeployState(strings.ToUpper(strings.TrimSpace(s))) {
	case "", DeployStateIdle:
		return DeployStateIdle, nil
	case DeployStateDeploying:
		return DeployStateDeploying, nil
	case DeployStateDeployed:
		return DeployStateDeployed, nil
	default:
		return "", fmt.Errorf("unknown deploy state %q", s)
	}
}

// CanConstruct reports whether construction work may happen in this state
func CanConstruct(state DeployState) bool {
	return state == DeployStateDeployed
}

// CanWorkKind gates a task kind on the host's deploy state. Assembly is
// blocked only while deploying; construction needs a deployed host.
func CanWorkKind(kind work.TaskKind, state DeployState) bool {
	if state == DeployStateDeploying {
		return false
	}
	if kind.RequiresDeployment() {
		return CanConstruct(state)
	}
	return true
}
