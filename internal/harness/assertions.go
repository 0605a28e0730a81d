package harness

import (
	"fmt"
	"strings"
)

// maxExcerpt bounds how much rendered output an AssertionError carries.
const maxExcerpt = 400

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Output   string // Rendered output excerpt, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Output != "" {
		fmt.Fprintf(&buf, "\nOutput:\n%s\n", e.Output)
	}

	return buf.String()
}

func excerpt(s string) string {
	if len(s) <= maxExcerpt {
		return s
	}
	return s[:maxExcerpt] + "..."
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(sess *Session, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(sess, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(sess *Session, a Assertion) error {
	switch a.Type {
	case AssertOutputContains:
		return assertOutputContains(sess, a)
	case AssertOutputCount:
		return assertOutputCount(sess, a)
	case AssertPageCount:
		return assertPageCount(sess, a)
	case AssertClipGroups:
		return assertClipGroups(sess, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func renderFor(sess *Session, a Assertion) (string, error) {
	id := a.Renderer
	if id == "" {
		id = sess.Scenario.Renderer
	}
	out, err := sess.Render(a.Page, id)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// assertOutputContains checks that the rendered page contains Text.
func assertOutputContains(sess *Session, a Assertion) error {
	out, err := renderFor(sess, a)
	if err != nil {
		return err
	}
	if !strings.Contains(out, a.Text) {
		return &AssertionError{
			Type:     AssertOutputContains,
			Expected: fmt.Sprintf("page %d output containing %q", a.Page, a.Text),
			Actual:   "not found",
			Output:   excerpt(out),
		}
	}
	return nil
}

// assertOutputCount checks that Text occurs exactly Count times.
func assertOutputCount(sess *Session, a Assertion) error {
	out, err := renderFor(sess, a)
	if err != nil {
		return err
	}
	if n := strings.Count(out, a.Text); n != a.Count {
		return &AssertionError{
			Type:     AssertOutputCount,
			Expected: fmt.Sprintf("%d occurrences of %q", a.Count, a.Text),
			Actual:   fmt.Sprintf("%d occurrences", n),
			Output:   excerpt(out),
		}
	}
	return nil
}

// assertPageCount checks the number of pages in the store.
func assertPageCount(sess *Session, a Assertion) error {
	if n := sess.Store.Size(); n != a.Count {
		return &AssertionError{
			Type:     AssertPageCount,
			Expected: fmt.Sprintf("%d pages", a.Count),
			Actual:   fmt.Sprintf("%d pages", n),
		}
	}
	return nil
}

// assertClipGroups checks how many clip groups a page renders as.
func assertClipGroups(sess *Session, a Assertion) error {
	page, ok := sess.Store.Snapshot(a.Page)
	if !ok {
		return fmt.Errorf("page %d not found", a.Page)
	}
	if n := len(page.Groups()); n != a.Count {
		return &AssertionError{
			Type:     AssertClipGroups,
			Expected: fmt.Sprintf("%d clip groups", a.Count),
			Actual:   fmt.Sprintf("%d clip groups", n),
		}
	}
	return nil
}
