package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/reusee/tinydisplay/animate"
	"github.com/reusee/tinydisplay/cmds"
	"github.com/reusee/tinydisplay/configs"
	"github.com/reusee/tinydisplay/dataset"
	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/logs"
)

// app is the state the command words operate on, in order.
type app struct {
	ctx            context.Context
	logger         logs.Logger
	loader         configs.Loader
	historySize    dataset.HistorySize
	policy         evaluate.Policy
	animateOptions animate.Options
	out            io.Writer
	feed           []map[string]dataset.DB
	feedInterval   time.Duration

	dataset   *dataset.Dataset
	evaluator *evaluate.Evaluator
}

type step func(*app) error

var steps []step

var feedIntervalFlag = cmds.Var[time.Duration]("-feed-interval")

func init() {
	word := func(name, desc string, fn any) {
		cmds.Define(name, cmds.Func(fn).Desc(desc))
	}
	word("load", "load a saved dataset log", func(path string) {
		steps = append(steps, func(a *app) error {
			return a.load(path)
		})
	})
	word("update", "apply an update: update <name> <json object>", func(name string, delta string) {
		steps = append(steps, func(a *app) error {
			return a.update(name, delta)
		})
	})
	word("eval", "evaluate an expression against the dataset", func(expr string) {
		steps = append(steps, func(a *app) error {
			return a.eval(expr)
		})
	})
	word("history", "print a past state: history <name> <n>", func(name string, n int) {
		steps = append(steps, func(a *app) error {
			return a.history(name, n)
		})
	})
	word("save", "write the dataset log", func(path string) {
		steps = append(steps, func(a *app) error {
			return a.save(path)
		})
	})
	word("feed", "load a JSON list of updates applied while playing", func(path string) {
		steps = append(steps, func(a *app) error {
			return a.loadFeed(path)
		})
	})
	word("repl", "read expressions from stdin and print their values", func() {
		steps = append(steps, func(a *app) error {
			return a.repl(os.Stdin)
		})
	})
	word("play", "print frames of the configured marquee", func(frames int) {
		steps = append(steps, func(a *app) error {
			return a.play(frames)
		})
	})
}

func (a *app) setDataset(ds *dataset.Dataset) {
	a.dataset = ds
	a.evaluator = evaluate.New(ds,
		evaluate.WithPolicy(a.policy),
		evaluate.WithLogger(a.logger),
	)
}

// initDatasets adds the databases under dataset.init. A more specific config
// file wins for a name defined in several.
func (a *app) initDatasets() error {
	for databases, err := range configs.Each[map[string]dataset.DB](a.loader, "dataset.init") {
		if err != nil {
			return fmt.Errorf("dataset.init: %w", err)
		}
		for _, name := range slices.Sorted(maps.Keys(databases)) {
			if a.dataset.Has(name) {
				continue
			}
			if err := a.dataset.Add(name, databases[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *app) load(path string) error {
	ds, err := dataset.LoadFile(path,
		dataset.WithHistorySize(int(a.historySize)),
		dataset.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.setDataset(ds)
	a.logger.Info("dataset loaded", "path", path, "names", ds.Keys())
	return nil
}

func (a *app) update(name string, delta string) error {
	var db dataset.DB
	if err := json.Unmarshal([]byte(delta), &db); err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	return a.dataset.Update(name, db)
}

func (a *app) eval(expr string) error {
	compiled, err := a.evaluator.Compile(expr, nil)
	if err != nil {
		return err
	}
	v, err := a.evaluator.Eval(compiled, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, evaluate.String(v))
	return err
}

func (a *app) history(name string, n int) error {
	if !a.dataset.Has(name) {
		return fmt.Errorf("%w: %s", dataset.ErrUnknownDatabase, name)
	}
	content, err := json.MarshalIndent(a.dataset.History(name, n).Map(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(content))
	return err
}

func (a *app) save(path string) error {
	if err := a.dataset.SaveFile(path); err != nil {
		return err
	}
	a.logger.Info("dataset saved", "path", path)
	return nil
}

// repl evaluates one expression per line. Errors are printed and do not stop it.
func (a *app) repl(r io.Reader) error {
	a.logger.InfoContext(a.ctx, "repl", "names", a.dataset.Names())
	defer a.logger.InfoContext(a.ctx, "repl end")
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := a.eval(line); err != nil {
			if _, err := fmt.Fprintln(a.out, "error:", err); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
