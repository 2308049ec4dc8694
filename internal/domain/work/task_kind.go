package work

import (
	"fmt"
	"strings"
)

// TaskKind identifies the phase a stage belongs to.
// Stage index i of every kit corresponds to TaskKind(i).
type TaskKind int

const (
	// TaskKindAssembly builds the kit from raw material inside a workshop
	TaskKindAssembly TaskKind = iota

	// TaskKindConstruction turns a deployed kit into the finished structure
	TaskKindConstruction
)

// AllTaskKinds lists the kinds in stage order.
var AllTaskKinds = []TaskKind{TaskKindAssembly, TaskKindConstruction}

func (k TaskKind) String() string {
	switch k {
	case TaskKindAssembly:
		return "ASSEMBLY"
	case TaskKindConstruction:
		return "CONSTRUCTION"
	default:
		return fmt.Sprintf("STAGE_%d", int(k))
	}
}

// StageIndex returns the stage index this kind occupies in a job.
func (k TaskKind) StageIndex() int {
	return int(k)
}

// TaskKindForStage returns the kind of the stage at index.
func TaskKindForStage(index int) TaskKind {
	return TaskKind(index)
}

// RequiresDeployment reports whether work of this kind can only happen on a
// deployed host.
func (k TaskKind) RequiresDeployment() bool {
	return k == TaskKindConstruction
}

// ParseTaskKind parses a case-insensitive kind name.
func ParseTaskKind(s string) (TaskKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASSEMBLY":
		return TaskKindAssembly, nil
	case "CONSTRUCTION":
		return TaskKindConstruction, nil
	default:
		return 0, fmt.Errorf("unknown task kind %q", s)
	}
}
