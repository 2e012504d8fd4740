package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/tinydisplay/animate"
	"github.com/reusee/tinydisplay/cmds"
	"github.com/reusee/tinydisplay/configs"
	"github.com/reusee/tinydisplay/dataset"
	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/logs"
	"github.com/reusee/tinydisplay/modes"
)

func main() {
	cmds.Execute(os.Args[1:])
	if len(steps) == 0 {
		cmds.GlobalExecutor.PrintUsage(os.Stdout)
		return
	}

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	scope.Call(func(
		logger logs.Logger,
		loader configs.Loader,
		ds *dataset.Dataset,
		historySize dataset.HistorySize,
		policy evaluate.Policy,
		animateOptions animate.Options,
	) {
		ce(loader.Err())
		a := &app{
			ctx:            context.Background(),
			logger:         logger,
			loader:         loader,
			historySize:    historySize,
			policy:         policy,
			animateOptions: animateOptions,
			out:            os.Stdout,
			feedInterval:   *feedIntervalFlag,
		}
		a.setDataset(ds)
		ce(a.initDatasets())
		for _, step := range steps {
			ce(step(a))
		}
	})
}

func ce(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
