package loader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/engine/solver"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Is lets errors.Is(err, circuit.ErrConfiguration) match a ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == circuit.ErrConfiguration
}

var recordValidate = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their content-file names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// build validates the collected records and compiles them into Defs.
// Level-scoped problems become warnings plus a fallback level in permissive
// mode; everything else is an error.
func build(coll *collector, opts Options) (*state.Defs, []string, error) {
	ve := &ValidationError{}
	defs := &state.Defs{
		Game:   compileGame(coll.game),
		Levels: map[int]types.LevelSpec{},
	}

	if coll.game != nil {
		ve.Errors = append(ve.Errors, fieldProblems(recordValidate.Struct(coll.game), "game")...)
	}
	if len(coll.records) == 0 {
		ve.Errors = append(ve.Errors, "no levels defined")
	}

	seen := map[int]string{}
	for _, r := range coll.records {
		label := levelLabel(r)
		if prev, dup := seen[r.ID]; dup && r.ID > 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s: duplicate level id, first defined in %s", label, prev))
			continue
		}
		seen[r.ID] = r.source

		lvl, problems, warns := checkLevel(r, opts)
		for _, w := range warns {
			ve.Warnings = append(ve.Warnings, label+": "+w)
		}
		if len(problems) > 0 {
			if opts.Permissive && r.ID > 0 {
				for _, p := range problems {
					ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s: %s (using fallback level)", label, p))
				}
				defs.Levels[r.ID] = state.Fallback(r.ID)
				continue
			}
			for _, p := range problems {
				ve.Errors = append(ve.Errors, label+": "+p)
			}
			continue
		}

		for _, w := range lint(lvl) {
			ve.Warnings = append(ve.Warnings, label+": "+w)
		}
		defs.Levels[r.ID] = lvl
	}

	if start := defs.Game.Start; start != 0 {
		if _, ok := defs.Levels[start]; !ok && len(ve.Errors) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("start level %d not found in defined levels", start))
		}
	}

	if len(ve.Errors) > 0 {
		return nil, ve.Warnings, ve
	}
	return defs, ve.Warnings, nil
}

// checkLevel runs the structural and circuit checks of one record and, if
// they pass, compiles it.
func checkLevel(r record, opts Options) (types.LevelSpec, []string, []string) {
	var problems, warns []string

	problems = append(problems, fieldProblems(recordValidate.Struct(r), "")...)

	var root types.Node
	if r.Circuit != nil {
		n, err := toNode(*r.Circuit, 1)
		if err == nil && len(r.Signals) > 0 {
			err = circuit.Validate(n, len(r.Signals))
		}
		if err != nil {
			problems = append(problems, "circuit: "+configMessage(err))
		}
		root = n
	}

	mask := r.DisplayInvert
	if len(mask) != len(r.Signals) {
		switch {
		case len(mask) == 0:
			mask = make([]bool, len(r.Signals))
		case opts.Permissive:
			warns = append(warns, fmt.Sprintf(
				"display_invert has %d entries for %d signals, normalized", len(mask), len(r.Signals)))
			mask = normalizeMask(mask, len(r.Signals))
		default:
			problems = append(problems, fmt.Sprintf(
				"display_invert has %d entries for %d signals", len(mask), len(r.Signals)))
		}
	}

	if len(problems) > 0 {
		return types.LevelSpec{}, problems, warns
	}
	return compileLevel(r, root, mask), nil, warns
}

// lint reports legal but suspicious levels.
func lint(lvl types.LevelSpec) []string {
	var warns []string

	refs := map[int]bool{}
	for _, i := range circuit.Refs(lvl.Root) {
		refs[i] = true
	}
	for i := range lvl.Signals {
		if !refs[i] {
			warns = append(warns, fmt.Sprintf("signal %d is never read by the circuit", i))
		}
	}

	if len(lvl.Signals) <= solver.MaxSignals {
		if _, ok := solver.Solve(&lvl); !ok {
			warns = append(warns, "no placement of the level's stones opens the gate")
		}
	}
	return warns
}

func normalizeMask(mask []bool, n int) []bool {
	out := make([]bool, n)
	copy(out, mask)
	return out
}

// fieldProblems turns validator errors into content-file messages.
func fieldProblems(err error, prefix string) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		// Drop the struct name, keep the content path.
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if prefix != "" {
			field = prefix + "." + field
		}
		out = append(out, field+" "+describeTag(fe))
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("fails %q", fe.Tag())
	}
}

func configMessage(err error) string {
	return strings.TrimPrefix(err.Error(), circuit.ErrConfiguration.Error()+": ")
}

func levelLabel(r record) string {
	if r.source == "" {
		return fmt.Sprintf("level %d", r.ID)
	}
	return fmt.Sprintf("level %d (%s)", r.ID, r.source)
}
