package app

import "go.trai.ch/cirun/internal/core/domain"

// InputFlags holds inputs given on the command line. Nil fields were not given.
type InputFlags struct {
	Percy    *bool
	RunTests *bool
	Record   *bool
	Parallel *bool
	Headed   *bool
	Group    *string
}

// Inputs resolves the job inputs. Flags win over workflow inputs, which win over defaults.
func (a *App) Inputs(flags InputFlags) domain.Inputs {
	in := domain.DefaultInputs()

	bools := []struct {
		name string
		flag *bool
		dst  *bool
	}{
		{domain.InputPercy, flags.Percy, &in.Percy},
		{domain.InputRunTests, flags.RunTests, &in.RunTests},
		{domain.InputRecord, flags.Record, &in.Record},
		{domain.InputParallel, flags.Parallel, &in.Parallel},
		{domain.InputHeaded, flags.Headed, &in.Headed},
	}
	for _, b := range bools {
		*b.dst = domain.ParseBool(a.workflow.Input(b.name), *b.dst)
		if b.flag != nil {
			*b.dst = *b.flag
		}
	}

	in.Group = a.workflow.Input(domain.InputGroup)
	if flags.Group != nil {
		in.Group = *flags.Group
	}

	return in
}
