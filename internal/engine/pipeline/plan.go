package pipeline

import (
	"go.trai.ch/cirun/internal/core/domain"
	"go.trai.ch/zerr"
)

// Step names, in the order they can run.
const (
	StepRestoreNpm     = "restore npm cache"
	StepRestoreCypress = "restore cypress cache"
	StepInstall        = "install dependencies"
	StepVerify         = "verify cypress"
	StepSaveNpm        = "save npm cache"
	StepSaveCypress    = "save cypress cache"
	StepInstallPercy   = "install percy"
	StepBuild          = "build"
	StepTest           = "test"
)

// Plan is everything a run needs, resolved before the first step starts.
type Plan struct {
	Inputs domain.Inputs
	CI     domain.CIContext

	Npm     domain.CacheSpec
	Cypress domain.CacheSpec

	Install      domain.Command
	Verify       domain.Command
	PercyInstall domain.Command
	Build        domain.Command
	// Test is the test runner invocation passed to Serve.
	Test domain.Command
	// Serve starts the server and runs Test against it.
	Serve domain.Command
}

// NewPlan assembles the commands for a run from the project settings and job inputs.
func NewPlan(
	settings domain.Settings,
	in domain.Inputs,
	ci domain.CIContext,
	npm, cypress domain.CacheSpec,
) (Plan, error) {
	p := Plan{
		Inputs:  in,
		CI:      ci,
		Npm:     npm,
		Cypress: cypress,
	}

	builders := []struct {
		build func(domain.Settings) (domain.Command, error)
		dst   *domain.Command
	}{
		{InstallCommand, &p.Install},
		{VerifyCommand, &p.Verify},
		{PercyInstallCommand, &p.PercyInstall},
		{BuildCommand, &p.Build},
	}
	for _, b := range builders {
		cmd, err := b.build(settings)
		if err != nil {
			return Plan{}, err
		}
		*b.dst = cmd
	}

	p.Test = TestCommand(in, ci)
	p.Serve = ServeAndTestCommand(settings, p.Test)

	return p, nil
}

// Steps lists the steps that will run after the caches were restored.
func (p Plan) Steps(cacheHit bool) []string {
	steps := []string{StepRestoreNpm, StepRestoreCypress}
	if !cacheHit {
		steps = append(steps, StepInstall, StepVerify, StepSaveNpm, StepSaveCypress)
	}
	if p.Inputs.Percy {
		steps = append(steps, StepInstallPercy)
	}
	steps = append(steps, StepBuild)
	if p.Inputs.RunTests {
		steps = append(steps, StepTest)
	}
	return steps
}

// TestCommand builds the Cypress invocation for the given inputs.
//
// Switches are appended in a fixed order: --headed, --record, --parallel with
// a build id tying the jobs of one workflow run together, then --group.
// With Percy enabled the run is wrapped in "percy exec --".
func TestCommand(in domain.Inputs, ci domain.CIContext) domain.Command {
	cmd := domain.NewCommand("cypress", "run")
	if in.Percy {
		cmd = domain.NewCommand("percy", "exec", "--", "cypress", "run")
	}

	if in.Headed {
		cmd = cmd.With("--headed")
	}
	if in.Record {
		cmd = cmd.With("--record")
	}
	if in.Parallel {
		cmd = cmd.With("--parallel", "--ci-build-id", ci.BuildID())
	}
	if in.Group != "" {
		cmd = cmd.With("--group", in.Group)
	}

	return cmd
}

// ServeAndTestCommand wraps test in start-server-and-test.
// The test command travels as a single argument and is run by a shell on the other side.
func ServeAndTestCommand(settings domain.Settings, test domain.Command) domain.Command {
	return domain.NewCommand("npx", "start-server-and-test", settings.StartScript, settings.Port, test.String())
}

// InstallCommand installs the project dependencies.
func InstallCommand(settings domain.Settings) (domain.Command, error) {
	return parse("install", settings.Install)
}

// VerifyCommand checks that the test runner binary is usable.
func VerifyCommand(settings domain.Settings) (domain.Command, error) {
	return parse("verify", settings.Verify)
}

// BuildCommand builds the project.
func BuildCommand(settings domain.Settings) (domain.Command, error) {
	return parse("build", settings.Build)
}

// PercyInstallCommand adds the Percy integration to the project.
func PercyInstallCommand(settings domain.Settings) (domain.Command, error) {
	return parse("percyInstall", settings.PercyInstall)
}

func parse(setting, line string) (domain.Command, error) {
	cmd, err := domain.ParseCommand(line)
	if err != nil {
		return domain.Command{}, zerr.With(err, "setting", setting)
	}
	return cmd, nil
}
