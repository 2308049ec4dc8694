package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/groundworks-go/test/bdd/steps"
)

// TestFeatures runs the curve and scheduler features. Set GODOG_TAGS
// (e.g. "@queue" or "~@execution") to run a subset.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "groundworks",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application"},
			Tags:     os.Getenv("GODOG_TAGS"),
			TestingT: t,
		},
	}

	if status := suite.Run(); status != 0 {
		t.Fatalf("feature suite exited with status %d", status)
	}
}

func initializeScenario(sc *godog.ScenarioContext) {
	// curve steps first: both define "the value should be" and the first match wins
	steps.InitializeCurveScenario(sc)
	steps.InitializeSchedulerScenario(sc)
}
