package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simulateScenario = `
name: quarry
resources:
  - name: Material
    density: 1
    energy_per_mass: 0.5
pool:
  - resource: Material
    stock: 100000
  - resource: ElectricCharge
    stock: 100000
hosts:
  - id: hab-1
    position: {x: 10, y: 0, z: 0}
    kit:
      parts:
        - name: Module
          stages:
            - {kind: ASSEMBLY, resource: Material, work: 600}
  - id: far-1
    position: {x: 5000, y: 0, z: 0}
    kit:
      parts:
        - name: Beacon
          stages:
            - {kind: ASSEMBLY, resource: Material, work: 100}
vessels:
  - id: crawler
    position: {x: 0, y: 0, z: 0}
    workforce: 2
    max_workforce: 4
    workshops:
      - id: ws-main
        kinds: [ASSEMBLY]
        queue: [hab-1]
        autostart: true
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulate_CompletesQueuedJob(t *testing.T) {
	// Arrange
	path := writeScenario(t, simulateScenario)

	// Act
	out, err := runCLI(t, "simulate", "--scenario", path, "--ticks", "10", "--dt", "1m")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, `Scenario "quarry" after 10 ticks (10m0s simulated)`)
	assert.Contains(t, out, "Completed: 1 job(s)")
	assert.Contains(t, out, "JOB_COMPLETE")
	assert.Contains(t, out, "ws-main")
	assert.Contains(t, out, "Total: 1 workshops")
}

func TestSimulate_QuietSuppressesNotices(t *testing.T) {
	// Arrange
	path := writeScenario(t, simulateScenario)

	// Act
	out, err := runCLI(t, "simulate", "--scenario", path, "--ticks", "10", "--dt", "1m", "--quiet")

	// Assert
	require.NoError(t, err)
	assert.NotContains(t, out, "JOB_COMPLETE")
	assert.Contains(t, out, "Completed: 1 job(s)")
}

func TestSimulate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing scenario flag", args: []string{"simulate"}},
		{name: "missing scenario file", args: []string{"simulate", "--scenario", filepath.Join(t.TempDir(), "nope.yaml")}},
		{name: "non-positive step", args: []string{"simulate", "--scenario", writeScenario(t, simulateScenario), "--dt", "0s"}},
		{name: "negative ticks", args: []string{"simulate", "--scenario", writeScenario(t, simulateScenario), "--ticks", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := runCLI(t, tt.args...)

			// Assert
			assert.Error(t, err)
		})
	}
}
