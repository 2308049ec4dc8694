package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/groundworks-go/internal/domain/work"
)

// curveContext holds state for parameter curve scenarios
type curveContext struct {
	curve *work.ParameterCurve
	value float64
	err   error
}

func (cc *curveContext) reset() {
	cc.curve = nil
	cc.value = 0
	cc.err = nil
}

func (cc *curveContext) buildCurve(mode string, table *godog.Table) error {
	points := make([]work.ControlPoint, 0, len(table.Rows))
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		at, err := strconv.ParseFloat(row.Cells[0].Value, 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		value, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		points = append(points, work.ControlPoint{Fraction: at, Value: value})
	}

	interpolation, err := work.ParseInterpolation(mode)
	if err != nil {
		return err
	}
	cc.curve, cc.err = work.NewParameterCurve(interpolation, points...)
	return nil
}

func (cc *curveContext) aCurveWithPoints(mode string, table *godog.Table) error {
	if err := cc.buildCurve(mode, table); err != nil {
		return err
	}
	return cc.err
}

func (cc *curveContext) iBuildACurveWithPoints(mode string, table *godog.Table) error {
	return cc.buildCurve(mode, table)
}

func (cc *curveContext) iEvaluateTheCurveAt(f float64) error {
	if cc.curve == nil {
		return fmt.Errorf("no curve built: %v", cc.err)
	}
	cc.value = cc.curve.Evaluate(f)
	return nil
}

func (cc *curveContext) theValueShouldBe(expected float64) error {
	if math.Abs(cc.value-expected) > 1e-9 {
		return fmt.Errorf("expected %g, got %g", expected, cc.value)
	}
	return nil
}

func (cc *curveContext) theCurveShouldBeRejected() error {
	if cc.err == nil {
		return fmt.Errorf("expected the curve to be rejected")
	}
	return nil
}

// InitializeCurveScenario registers the parameter curve step definitions
func InitializeCurveScenario(ctx *godog.ScenarioContext) {
	cc := &curveContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	ctx.Step(`^a (linear|smooth) curve with points:$`, cc.aCurveWithPoints)
	ctx.Step(`^I build a (linear|smooth) curve with points:$`, cc.iBuildACurveWithPoints)
	ctx.Step(`^I evaluate the curve at ([-\d.]+)$`, cc.iEvaluateTheCurveAt)
	ctx.Step(`^the value should be ([-\d.]+)$`, cc.theValueShouldBe)
	ctx.Step(`^the curve should be rejected$`, cc.theCurveShouldBeRejected)
}
