package stapargs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults_Empty(t *testing.T) {
	args, err := WithDefaults("")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-DMAXACTION=100000",
		"-DMAXMAPENTRIES=5000",
		"-DMAXBACKTRACE=200",
		"-DMAXSTRINGLEN=2048",
		"-DSTP_NO_OVERLOAD",
	}, args)
}

func TestWithDefaults_KeepsCallerArgsFirst(t *testing.T) {
	args, err := WithDefaults("--skip-badvars -v")
	require.NoError(t, err)
	require.Len(t, args, 2+len(Defaults))
	assert.Equal(t, "--skip-badvars", args[0])
	assert.Equal(t, "-v", args[1])
	assert.Equal(t, "-DMAXACTION=100000", args[2])
}

func TestWithDefaults_Overrides(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		missing []string
	}{
		{
			name:    "joined override",
			extra:   "-DMAXACTION=200000",
			missing: []string{"MAXMAPENTRIES", "MAXBACKTRACE", "MAXSTRINGLEN", "STP_NO_OVERLOAD"},
		},
		{
			name:    "separated override",
			extra:   "-D MAXMAPENTRIES=10000",
			missing: []string{"MAXACTION", "MAXBACKTRACE", "MAXSTRINGLEN", "STP_NO_OVERLOAD"},
		},
		{
			name:    "different string length is still an override",
			extra:   "-DMAXSTRINGLEN=512",
			missing: []string{"MAXACTION", "MAXMAPENTRIES", "MAXBACKTRACE", "STP_NO_OVERLOAD"},
		},
		{
			name:    "flag macro",
			extra:   "-DSTP_NO_OVERLOAD",
			missing: []string{"MAXACTION", "MAXMAPENTRIES", "MAXBACKTRACE", "MAXSTRINGLEN"},
		},
		{
			name:    "all overridden",
			extra:   "-DMAXACTION=1 -D MAXMAPENTRIES=2 -DMAXBACKTRACE=3 -DMAXSTRINGLEN=4 -D STP_NO_OVERLOAD",
			missing: nil,
		},
		{
			name:    "substring in unrelated argument",
			extra:   "-I/opt/MAXACTION=1/tapset -DXMAXBACKTRACE=9",
			missing: []string{"MAXACTION", "MAXMAPENTRIES", "MAXBACKTRACE", "MAXSTRINGLEN", "STP_NO_OVERLOAD"},
		},
		{
			name:    "name as bare argument",
			extra:   "MAXACTION=5",
			missing: []string{"MAXACTION", "MAXMAPENTRIES", "MAXBACKTRACE", "MAXSTRINGLEN", "STP_NO_OVERLOAD"},
		},
		{
			name:    "trailing -D",
			extra:   "-D",
			missing: []string{"MAXACTION", "MAXMAPENTRIES", "MAXBACKTRACE", "MAXSTRINGLEN", "STP_NO_OVERLOAD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller, err := Split(tt.extra)
			require.NoError(t, err)

			var got []string
			for _, d := range Missing(caller) {
				got = append(got, d.Name)
			}
			assert.Equal(t, tt.missing, got)

			args, err := WithDefaults(tt.extra)
			require.NoError(t, err)
			assert.Len(t, args, len(caller)+len(tt.missing))
			assert.Equal(t, caller, args[:len(caller)])
		})
	}
}

func TestSplit_Quoting(t *testing.T) {
	args, err := Split(`-I "/opt/my tapsets" -DFOO='a b'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"-I", "/opt/my tapsets", "-DFOO=a b"}, args)
}

func TestSplit_Blank(t *testing.T) {
	args, err := Split("   ")
	require.NoError(t, err)
	assert.Nil(t, args)
}

func TestSplit_UnterminatedQuote(t *testing.T) {
	_, err := Split(`-I "/opt`)
	assert.Error(t, err)
}

func TestDefineToken(t *testing.T) {
	assert.Equal(t, "-DMAXACTION=100000", Define{Name: "MAXACTION", Value: "100000"}.Token())
	assert.Equal(t, "-DSTP_NO_OVERLOAD", Define{Name: "STP_NO_OVERLOAD"}.Token())
}

func TestJoin(t *testing.T) {
	assert.Equal(t, `-x 1 '/opt/my app' 'it'"'"'s'`, Join([]string{"-x", "1", "/opt/my app", "it's"}))
	assert.Equal(t, "", Join(nil))
}
