package emenda

import (
	"sort"
	"strings"
)

// StepCount is the number of wizard steps.
const StepCount = 5

// FieldErrors maps a field path (e.g. "recebedor.cnpj", "eventos.0.data")
// to a message. An empty map means the input is valid.
type FieldErrors map[string]string

// Add keeps the first message recorded for a path.
func (fe FieldErrors) Add(path, msg string) {
	if _, exists := fe[path]; !exists {
		fe[path] = msg
	}
}

func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Paths returns the failing paths in lexical order.
func (fe FieldErrors) Paths() []string {
	paths := make([]string, 0, len(fe))
	for p := range fe {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Err returns nil for valid input and a *ValidationError otherwise.
func (fe FieldErrors) Err() error {
	if fe.Valid() {
		return nil
	}
	return &ValidationError{Fields: fe}
}

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, p := range e.Fields.Paths() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p)
		b.WriteString(": ")
		b.WriteString(e.Fields[p])
	}
	return b.String()
}

// StepTitle returns the wizard title of a step, or "" for unknown steps.
func StepTitle(step int) string {
	if step < 1 || step > StepCount {
		return ""
	}
	return steps[step-1].title
}

// ValidateStep checks only the fields that belong to one wizard step.
func ValidateStep(step int, in Input) FieldErrors {
	fe := FieldErrors{}
	if step < 1 || step > StepCount {
		fe.Add("step", "Etapa inválida")
		return fe
	}
	s := steps[step-1]
	if !s.validate(&in, fe) {
		runAll(s.formRefinements, &in, fe)
	}
	return fe
}

// validateForm checks every step and reports whether an enum field
// aborted the form-level cross-field rules.
func validateForm(in *Input) (FieldErrors, bool) {
	fe := FieldErrors{}
	aborted := false
	for _, s := range steps {
		if s.validate(in, fe) {
			aborted = true
		}
	}
	if !aborted {
		for _, s := range steps {
			runAll(s.formRefinements, in, fe)
		}
	}
	return fe, aborted
}

// ValidateFull checks every step, including the cross-field rules.
func ValidateFull(in Input) FieldErrors {
	fe, _ := validateForm(&in)
	return fe
}

// ValidateForPublish is ValidateFull plus the requirement of at least one
// DISPONIBILIZAÇÃO event. Like the other cross-field rules it is skipped
// while an enum field is invalid.
func ValidateForPublish(in Input) FieldErrors {
	fe, aborted := validateForm(&in)
	if !aborted {
		publicacao(&in, fe)
	}
	return fe
}
