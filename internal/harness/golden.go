package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RenderAll renders every page with rendererID and joins the outputs,
// separated by a "--- page N ---" line.
func (s *Session) RenderAll(rendererID string) ([]byte, error) {
	var buf bytes.Buffer
	for i := 0; i < s.Store.Size(); i++ {
		out, err := s.Render(i, rendererID)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		fmt.Fprintf(&buf, "--- page %d ---\n", i)
		buf.Write(out)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// RunWithGolden plays a scenario and compares the rendered pages against
// testdata/golden/{scenario.Name}_{rendererID}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, rendererID string) error {
	t.Helper()

	sess, err := Play(scenario)
	if err != nil {
		return err
	}

	out, err := sess.RenderAll(rendererID)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name+"_"+rendererID, out)

	return nil
}
