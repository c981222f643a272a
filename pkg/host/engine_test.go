package host

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/keelcad/keel/pkg/model"
)

func TestEvaluateSweep(t *testing.T) {
	source := `
;; a simple cylinder
(sweep (circle :radius 25 :color (color 0 0 255))
       :path (vec3 0 0 100))
`
	shape, evalErrs, err := NewEngine().Evaluate(source, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	sweep, ok := shape.(model.Sweep)
	if !ok {
		t.Fatalf("shape is %T, want model.Sweep", shape)
	}
	circle, ok := sweep.Shape.(model.Circle)
	if !ok {
		t.Fatalf("base is %T, want model.Circle", sweep.Shape)
	}
	if circle.Radius != 25 {
		t.Errorf("radius = %v", circle.Radius)
	}
	if sweep.Path.Z != 100 {
		t.Errorf("path = %v", sweep.Path)
	}
}

func TestEvaluateSketchPoints(t *testing.T) {
	source := `(sketch (vec2 0 0) (vec2 100 0) (vec2 100 50) (vec2 0 50))`

	shape, evalErrs, err := NewEngine().Evaluate(source, nil)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("Evaluate: %v, %v", evalErrs, err)
	}
	sketch, ok := shape.(model.Sketch)
	if !ok {
		t.Fatalf("shape is %T", shape)
	}
	if len(sketch.Points) != 4 {
		t.Errorf("points = %d", len(sketch.Points))
	}
	if sketch.Color != defaultColor {
		t.Errorf("color = %v, want default", sketch.Color)
	}
}

func TestEvaluateParam(t *testing.T) {
	source := `(circle :radius (param "r" 1))`

	shape, evalErrs, err := NewEngine().Evaluate(source, model.Parameters{"r": "4"})
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("Evaluate: %v, %v", evalErrs, err)
	}
	if r := shape.(model.Circle).Radius; r != 4 {
		t.Errorf("radius = %v, want the parameter value", r)
	}

	shape, evalErrs, err = NewEngine().Evaluate(source, nil)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("Evaluate: %v, %v", evalErrs, err)
	}
	if r := shape.(model.Circle).Radius; r != 1 {
		t.Errorf("radius = %v, want the default", r)
	}
}

func TestEvaluateEmptySource(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate("   \n", nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) != 1 || !strings.Contains(evalErrs[0].Message, "empty") {
		t.Errorf("eval errors = %v", evalErrs)
	}
}

func TestEvaluateBadBuiltinArgs(t *testing.T) {
	cases := []string{
		`(circle)`,
		`(circle :radius -1)`,
		`(sketch (vec2 0 0) (vec2 1 0))`,
		`(sweep (circle :radius 1) :path (vec3 0 0 0))`,
		`(sweep 42 :path (vec3 0 0 1))`,
		`(vec2 1)`,
	}
	for _, source := range cases {
		shape, evalErrs, err := NewEngine().Evaluate(source, nil)
		if err != nil {
			t.Fatalf("%s: fatal error %v", source, err)
		}
		if shape != nil || len(evalErrs) == 0 {
			t.Errorf("%s: expected eval errors, got shape=%v errs=%v", source, shape, evalErrs)
		}
	}
}

func TestEvaluateNonShapeResult(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(vec2 1 2)`, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) == 0 || !strings.Contains(evalErrs[0].Message, "shape") {
		t.Errorf("eval errors = %v", evalErrs)
	}
}

func TestEvaluateUndefinedFunction(t *testing.T) {
	shape, evalErrs, err := NewEngine().Evaluate(`(no-such-builtin 1 2)`, nil)
	if err != nil {
		t.Fatalf("undefined function is recoverable, got fatal error %v", err)
	}
	if shape != nil || len(evalErrs) == 0 {
		t.Errorf("shape=%v errs=%v", shape, evalErrs)
	}
}

func TestEvalErrorFormatting(t *testing.T) {
	e := EvalError{Line: 3, Message: "bad token"}
	if got := e.Error(); got != "line 3: bad token" {
		t.Errorf("Error() = %q", got)
	}
	e = EvalError{Message: "bad token"}
	if got := e.Error(); got != "bad token" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseZygomysError(t *testing.T) {
	errs := parseZygomysError(errors.New("Error on line 7: unexpected rparen"))
	if len(errs) != 1 || errs[0].Line != 7 || errs[0].Message != "unexpected rparen" {
		t.Errorf("errs = %v", errs)
	}

	errs = parseZygomysError(errors.New("something went wrong"))
	if len(errs) != 1 || errs[0].Line != 0 {
		t.Errorf("errs = %v", errs)
	}
}

func TestWaitWithTimeoutStaleGeneration(t *testing.T) {
	var mu sync.Mutex
	current := uint64(2)

	ch := make(chan evalResult, 1)
	ch <- evalResult{shape: model.Circle{Radius: 1}}

	_, _, err := waitWithTimeout(ch, 1, &mu, &current)
	if err == nil || !strings.Contains(err.Error(), "superseded") {
		t.Errorf("err = %v", err)
	}
}

func TestWaitWithTimeoutCurrentGeneration(t *testing.T) {
	var mu sync.Mutex
	current := uint64(1)

	ch := make(chan evalResult, 1)
	ch <- evalResult{shape: model.Circle{Radius: 1}}

	shape, _, err := waitWithTimeout(ch, 1, &mu, &current)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if _, ok := shape.(model.Circle); !ok {
		t.Errorf("shape = %T", shape)
	}
}
