package animate

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tinydisplay/cmds"
	"github.com/reusee/tinydisplay/configs"
	"github.com/reusee/tinydisplay/logs"
	"github.com/reusee/tinydisplay/vars"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

type (
	CPSValue       float64
	QueueSizeValue int
)

var (
	cpsFlag       = cmds.Var[float64]("-cps")
	queueSizeFlag = cmds.Var[int]("-queue-size")
)

func (Module) CPS(
	loader configs.Loader,
) CPSValue {
	return CPSValue(vars.FirstNonZero(
		*cpsFlag,
		configs.First[float64](loader, "animate.cps"),
		DefaultCPS,
	))
}

func (Module) QueueSize(
	loader configs.Loader,
) QueueSizeValue {
	return QueueSizeValue(vars.FirstNonZero(
		*queueSizeFlag,
		configs.First[int](loader, "animate.queue_size"),
		DefaultQueueSize,
	))
}

// Options are the configured options shared by every animator in a scope.
type Options []Option

func (Module) Options(
	cps CPSValue,
	queueSize QueueSizeValue,
	logger logs.Logger,
) Options {
	return Options{
		CPS(float64(cps)),
		QueueSize(int(queueSize)),
		Logger(logger),
	}
}
