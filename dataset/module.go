package dataset

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

type HistorySize int

var historySizeFlag = cmds.Var[int]("-history-size")

func (Module) HistorySize(
	loader configs.Loader,
) HistorySize {
	return HistorySize(vars.FirstNonZero(
		*historySizeFlag,
		configs.First[int](loader, "dataset.history_size"),
		DefaultHistorySize,
	))
}

func (Module) Dataset(
	size HistorySize,
	logger logs.Logger,
) *Dataset {
	d, err := New(
		WithHistorySize(int(size)),
		WithLogger(logger),
	)
	if err != nil {
		panic(err)
	}
	logger.Info("dataset created", "history_size", int(size))
	return d
}
