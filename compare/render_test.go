package compare

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/egresslabs/egress/artifact"
)

func TestRender_MixedReports(t *testing.T) {
	baseline := []artifact.Entry{
		{Name: "1 + 1 (serde)", Kind: artifact.KindSerialize, Value: "2"},
		{Name: "greeting", Kind: artifact.KindDisplay, Value: "hello"},
	}
	current := []artifact.Entry{
		{Name: "1 + 1 (serde)", Kind: artifact.KindSerialize, Value: "3"},
		{Name: "farewell", Kind: artifact.KindDisplay, Value: "bye"},
	}

	reports := Reports{
		Diff("basic_arithmetic", baseline, current),
		Missing("vanished", []artifact.Entry{
			{Name: "pi", Kind: artifact.KindSerialize, Value: "3.14"},
		}),
		New("fresh", []artifact.Entry{
			{Name: "greeting", Kind: artifact.KindDisplay, Value: "hello"},
		}),
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "mixed_reports", []byte(reports.Render()))
}

func TestRender_UnchangedIsOneLine(t *testing.T) {
	report := Diff("stable",
		[]artifact.Entry{{Name: "a", Kind: artifact.KindSerialize, Value: "1"}},
		[]artifact.Entry{{Name: "a", Kind: artifact.KindSerialize, Value: "1"}},
	)
	assert.Equal(t, "OK: artifact `stable` matches the baseline (1 entries)\n", report.Render())
}

func TestRender_SkipsUnchangedEntriesInChangedArtifact(t *testing.T) {
	report := Diff("partial",
		[]artifact.Entry{
			{Name: "same", Kind: artifact.KindSerialize, Value: "1"},
			{Name: "drifted", Kind: artifact.KindSerialize, Value: "2"},
		},
		[]artifact.Entry{
			{Name: "same", Kind: artifact.KindSerialize, Value: "1"},
			{Name: "drifted", Kind: artifact.KindSerialize, Value: "5"},
		},
	)

	out := report.Render()
	assert.NotContains(t, out, "entry `same`")
	assert.Contains(t, out, "entry `drifted`")
}
