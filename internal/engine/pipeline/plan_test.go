package pipeline_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/cirun/internal/engine/pipeline"
)

var ci = domain.CIContext{Workflow: "CI", SHA: "abc123"}

func TestTestCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     domain.Inputs
		golden string
	}{
		{"defaults", domain.DefaultInputs(), "test_default"},
		{"record", domain.Inputs{Record: true}, "test_record"},
		{"parallel", domain.Inputs{Parallel: true}, "test_parallel"},
		{"headed", domain.Inputs{Headed: true}, "test_headed"},
		{"group", domain.Inputs{Group: "smoke"}, "test_group"},
		{"percy", domain.Inputs{Percy: true}, "test_percy"},
		{
			"everything",
			domain.Inputs{Percy: true, Record: true, Parallel: true, Headed: true, Group: "smoke tests"},
			"test_all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := pipeline.TestCommand(tt.in, ci)

			g := goldie.New(t)
			g.Assert(t, tt.golden, []byte(cmd.String()))
		})
	}
}

func TestTestCommand_RecordWithoutParallel(t *testing.T) {
	t.Parallel()

	line := pipeline.TestCommand(domain.Inputs{Record: true}, ci).String()

	assert.Contains(t, line, "--record")
	assert.NotContains(t, line, "--parallel")
	assert.NotContains(t, line, "--ci-build-id")
}

func TestTestCommand_EveryCombinationIsDistinct(t *testing.T) {
	t.Parallel()

	seen := make(map[string]int)
	for mask := range 16 {
		in := domain.Inputs{
			Percy:    mask&1 != 0,
			Record:   mask&2 != 0,
			Parallel: mask&4 != 0,
			Headed:   mask&8 != 0,
		}
		line := pipeline.TestCommand(in, ci).String()
		prev, dup := seen[line]
		require.False(t, dup, "masks %d and %d render %q", prev, mask, line)
		seen[line] = mask

		assert.Equal(t, line, pipeline.TestCommand(in, ci).String(), "deterministic")
	}
}

func TestServeAndTestCommand(t *testing.T) {
	t.Parallel()

	test := pipeline.TestCommand(domain.Inputs{Record: true, Parallel: true}, ci)
	cmd := pipeline.ServeAndTestCommand(domain.DefaultSettings(), test)

	assert.Equal(t, "npx", cmd.Name)
	assert.Equal(t, []string{
		"start-server-and-test", "start", "3000",
		"cypress run --record --parallel --ci-build-id 'CI - abc123'",
	}, cmd.Args)

	g := goldie.New(t)
	g.Assert(t, "serve_record_parallel", []byte(cmd.String()))
}

func TestSettingsCommands(t *testing.T) {
	t.Parallel()

	settings := domain.DefaultSettings()

	tests := []struct {
		name  string
		build func(domain.Settings) (domain.Command, error)
		want  []string
	}{
		{"install", pipeline.InstallCommand, []string{"npm", "ci"}},
		{"verify", pipeline.VerifyCommand, []string{"npx", "cypress", "verify"}},
		{"build", pipeline.BuildCommand, []string{"npm", "run", "build"}},
		{"percy", pipeline.PercyInstallCommand, []string{"npm", "install", "--save-dev", "@percy/cypress"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, err := tt.build(settings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Argv())
		})
	}
}

func TestNewPlan_InvalidCommand(t *testing.T) {
	t.Parallel()

	settings := domain.DefaultSettings()
	settings.Build = `npm run "build`

	_, err := pipeline.NewPlan(settings, domain.DefaultInputs(), ci, domain.CacheSpec{}, domain.CacheSpec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid command line")
}

func TestNewPlan_EmptyCommand(t *testing.T) {
	t.Parallel()

	settings := domain.DefaultSettings()
	settings.Install = "   "

	_, err := pipeline.NewPlan(settings, domain.DefaultInputs(), ci, domain.CacheSpec{}, domain.CacheSpec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty command")
}

func TestPlan_Steps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       domain.Inputs
		cacheHit bool
		want     []string
	}{
		{
			name:     "hit",
			in:       domain.DefaultInputs(),
			cacheHit: true,
			want: []string{
				pipeline.StepRestoreNpm, pipeline.StepRestoreCypress,
				pipeline.StepBuild, pipeline.StepTest,
			},
		},
		{
			name: "miss with percy",
			in:   domain.Inputs{Percy: true, RunTests: true},
			want: []string{
				pipeline.StepRestoreNpm, pipeline.StepRestoreCypress,
				pipeline.StepInstall, pipeline.StepVerify,
				pipeline.StepSaveNpm, pipeline.StepSaveCypress,
				pipeline.StepInstallPercy, pipeline.StepBuild, pipeline.StepTest,
			},
		},
		{
			name:     "no tests",
			in:       domain.Inputs{},
			cacheHit: true,
			want: []string{
				pipeline.StepRestoreNpm, pipeline.StepRestoreCypress,
				pipeline.StepBuild,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan := pipeline.Plan{Inputs: tt.in}
			assert.Equal(t, tt.want, plan.Steps(tt.cacheHit))
		})
	}
}
