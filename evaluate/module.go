package evaluate

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tinydisplay/cmds"
	"github.com/reusee/tinydisplay/configs"
	"github.com/reusee/tinydisplay/dataset"
	"github.com/reusee/tinydisplay/logs"
)

type Module struct {
	dscope.Module
	Dataset dataset.Module
}

var suppressErrorsFlag = cmds.Switch("-suppress-errors")

func (Module) Policy(
	loader configs.Loader,
) Policy {
	return Policy{
		SuppressErrors: *suppressErrorsFlag ||
			configs.First[bool](loader, "evaluate.suppress_errors"),
		ReturnOnError: configs.First[string](loader, "evaluate.return_on_error"),
	}
}

func (Module) Evaluator(
	ds *dataset.Dataset,
	policy Policy,
	logger logs.Logger,
) *Evaluator {
	return New(ds,
		WithPolicy(policy),
		WithLogger(logger),
	)
}
