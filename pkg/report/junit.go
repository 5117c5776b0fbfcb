package report

import (
	"io"
	"strconv"

	"github.com/arthur-debert/presubmit/pkg/types"
	"github.com/beevik/etree"
)

// JUnit renders one testcase per check with one failure per finding
type JUnit struct {
	output io.Writer
}

// NewJUnit creates a JUnit XML renderer
func NewJUnit(output io.Writer) *JUnit {
	return &JUnit{output: output}
}

// Render writes v
func (r *JUnit) Render(v *types.Verdict) error {
	byCheck := make(map[string][]types.Finding)
	for _, f := range v.Findings {
		byCheck[f.Check] = append(byCheck[f.Check], f)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suite := suites.CreateElement("testsuite")
	suite.CreateAttr("name", "presubmit."+string(v.Mode))
	suite.CreateAttr("tests", strconv.Itoa(len(v.Checks)))

	failures := 0
	for _, c := range v.Checks {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", "presubmit."+c.Kind)
		tc.CreateAttr("name", c.ID)

		findings := byCheck[c.ID]
		if len(findings) > 0 {
			failures++
		}
		for _, f := range findings {
			failure := tc.CreateElement("failure")
			failure.CreateAttr("type", string(f.Severity))
			failure.CreateAttr("message", f.Location()+": "+f.Source())
			failure.SetText(f.Message)
		}
	}
	suite.CreateAttr("failures", strconv.Itoa(failures))

	props := suite.CreateElement("properties")
	for _, kv := range [][2]string{
		{"outcome", string(v.Outcome)},
		{"overridable", strconv.FormatBool(v.Overridable)},
		{"digest", v.Digest},
	} {
		p := props.CreateElement("property")
		p.CreateAttr("name", kv[0])
		p.CreateAttr("value", kv[1])
	}

	doc.Indent(2)
	_, err := doc.WriteTo(r.output)
	return err
}
