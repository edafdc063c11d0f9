package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/calibrate"
	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/scoring"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const nvdaYAML = `ticker: NVDA
sector: Technology
mcap_percentile: 0.95
evidence:
  - {source: tech_hiring, score: 70, confidence: 0.9}
  - {source: innovation, score: 70, confidence: 0.9}
  - {source: digital, score: 70, confidence: 0.9}
  - {source: leadership, score: 70, confidence: 0.9}
  - {source: sec_item_1, score: 70, confidence: 0.9}
  - {source: sec_item_1a, score: 70, confidence: 0.9}
  - {source: sec_item_7, score: 70, confidence: 0.9}
  - {source: glassdoor, score: 70, confidence: 0.9}
  - {source: board, score: 70, confidence: 0.9}
`

func TestScoreYAMLFile(t *testing.T) {
	path := writeFile(t, "nvda.yaml", nvdaYAML)

	out, err := execute(t, "", "score", "-f", path)
	require.NoError(t, err)

	var res scoring.ScoringResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "NVDA", res.Ticker)
	assert.Equal(t, "Technology", res.Sector.Name)
	assert.Equal(t, 9, res.EvidenceCount)
	assert.True(t, res.OrgAIRScore >= 85 && res.OrgAIRScore <= 95, "got %v", res.OrgAIRScore)
}

func TestScoreJSONFromStdinWithSectorOverride(t *testing.T) {
	doc := `{"ticker": "WMT", "sector": "Retail", "mcap_percentile": 0.85, "evidence": [` +
		`{"source": "digital", "score": 58, "confidence": 0.85, "metadata": {"scenario": "stdin"}}, ` +
		`{"source": "sec_item_7", "score": 58, "confidence": 0.85}]}`

	out, err := execute(t, doc, "score", "-f", "-", "--sector", "Atlantis", "--pretty=false")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1, "compact output is one line")

	var res scoring.ScoringResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "WMT", res.Ticker)
	assert.False(t, res.SectorKnown)
	assert.Equal(t, "Unclassified", res.Sector.Name)
	assert.Equal(t, 2, res.EvidenceCount)
}

func TestScoreRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"no ticker":      "sector: Retail\n",
		"unknown source": "ticker: BAD\nevidence:\n  - {source: reddit, score: 50, confidence: 0.5}\n",
		"out of range":   "ticker: BAD\nevidence:\n  - {source: board, score: 101, confidence: 0.5}\n",
		"not yaml":       "ticker: [unclosed\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, "", "score", "-f", writeFile(t, "in.yaml", content))
			assert.Error(t, err)
		})
	}
}

func TestScoreRequiresFile(t *testing.T) {
	_, err := execute(t, "", "score")
	assert.Error(t, err)
}

func TestCalibrateTable(t *testing.T) {
	out, err := execute(t, "", "calibrate")
	require.NoError(t, err)
	for _, ticker := range []string{"NVDA", "JPM", "WMT", "GE", "DG"} {
		assert.Contains(t, out, ticker)
	}
	assert.Contains(t, out, "5 passed, 0 failed")
	assert.NotContains(t, out, "FAIL")
}

func TestCalibrateJSON(t *testing.T) {
	out, err := execute(t, "", "calibrate", "--json")
	require.NoError(t, err)

	var report calibrate.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.OK())
	assert.Len(t, report.Outcomes, 5)
}

func TestCalibrateDriftFails(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "scoring:\n  params:\n    alpha: 1.0\n    beta: 0.0\n")

	out, err := execute(t, "", "calibrate", "--config", cfg)
	assert.ErrorIs(t, err, errCalibrationDrift)
	assert.Contains(t, out, "FAIL")
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "scoring:\n  params:\n    alpha: 1.5\n")

	_, err := execute(t, "", "calibrate", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha")
}

func TestCalibrateMarkdown(t *testing.T) {
	out, err := execute(t, "", "calibrate", "--markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| NVDA |")
	assert.Contains(t, out, "| leader |")
}
