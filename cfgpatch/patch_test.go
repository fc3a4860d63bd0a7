package cfgpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `% SU2 configuration file
% Physical governing equations
SOLVER= RANS
KIND_TURB_MODEL= SA

MACH_NUMBER= 0.2
AOA= 0.0
RESTART_SOL= NO
`

func TestParseRoundTripPreservesUntouchedLines(t *testing.T) {
	doc := Parse([]byte(sampleConfig))
	assert.Equal(t, sampleConfig, string(doc.Bytes()))
}

func TestSetFormatsPatchedLine(t *testing.T) {
	doc := Parse([]byte(sampleConfig))
	require.True(t, doc.Set("MACH_NUMBER", "0.8"))

	out := string(doc.Bytes())
	assert.Contains(t, out, "MACH_NUMBER= 0.8\n")
	assert.NotContains(t, out, "MACH_NUMBER= 0.2")
	// Comments and blanks survive the patch.
	assert.Contains(t, out, "% Physical governing equations\n")
}

func TestSetMissingKeyIsNoOp(t *testing.T) {
	doc := Parse([]byte(sampleConfig))
	assert.False(t, doc.Set("CFL_NUMBER", "10"))
	assert.Equal(t, sampleConfig, string(doc.Bytes()))

	_, ok := doc.Get("CFL_NUMBER")
	assert.False(t, ok, "a missing key must not be inserted")
}

func TestPatchTierPrecedence(t *testing.T) {
	base := Parse([]byte("A= 0\n"))

	defaults := Overrides{{Key: "A", Value: "1"}}
	caseSpecific := Overrides{{Key: "A", Value: "2"}}
	custom := Overrides{{Key: "A", Value: "3"}}

	doc := Patch(base, defaults, caseSpecific, custom)
	value, ok := doc.Get("A")
	require.True(t, ok)
	assert.Equal(t, "3", value)

	// With an empty custom tier the case-specific tier wins.
	doc = Patch(base, defaults, caseSpecific, Overrides{})
	value, _ = doc.Get("A")
	assert.Equal(t, "2", value)
}

func TestPatchIdempotent(t *testing.T) {
	base := Parse([]byte(sampleConfig))
	tier := Overrides{
		{Key: "MACH_NUMBER", Value: "0.8"},
		{Key: "RESTART_SOL", Value: "YES"},
	}

	once := Patch(base, tier)
	twice := Patch(once, tier)
	assert.Equal(t, string(once.Bytes()), string(twice.Bytes()))
}

func TestPatchDoesNotMutateBase(t *testing.T) {
	base := Parse([]byte(sampleConfig))
	Patch(base, Overrides{{Key: "AOA", Value: "10.0"}})

	value, _ := base.Get("AOA")
	assert.Equal(t, "0.0", value)
}

func TestKeysAndOptions(t *testing.T) {
	doc := Parse([]byte(sampleConfig))
	assert.Equal(t, []string{"SOLVER", "KIND_TURB_MODEL", "MACH_NUMBER", "AOA", "RESTART_SOL"}, doc.Keys())

	opts := doc.Options()
	assert.Equal(t, "RANS", opts["SOLVER"])
	assert.Equal(t, "SA", opts["KIND_TURB_MODEL"])
}

func TestParseOverridesYAML(t *testing.T) {
	overrides, err := ParseOverridesYAML([]byte(`
cfg_path: VandV/2DML/config_sa_restart.cfg
options:
  MACH_NUMBER: "0.8"
  RESTART_SOL: "YES"
`))
	require.NoError(t, err)
	assert.Equal(t, Overrides{
		{Key: "MACH_NUMBER", Value: "0.8"},
		{Key: "RESTART_SOL", Value: "YES"},
	}, overrides)
}

func TestParseOverridesYAMLMissingOptions(t *testing.T) {
	_, err := ParseOverridesYAML([]byte("cfg_path: x\n"))
	assert.Error(t, err)
}

func TestParseOverridesYAMLEmptyDocument(t *testing.T) {
	overrides, err := ParseOverridesYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestExtractYAML(t *testing.T) {
	doc := Parse([]byte("SOLVER= RANS\nMACH_NUMBER= 0.2\n"))
	out, err := ExtractYAML(doc, "Basic", "2DML", "ValidationCases/Basic/2DML/Config.cfg")
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "category: Basic")
	assert.Contains(t, text, "case_code: 2DML")
	assert.Contains(t, text, "SOLVER: RANS")
	assert.Contains(t, text, "MACH_NUMBER: \"0.2\"")
}
