package evaluate

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reusee/dscope"
	"github.com/reusee/tinydisplay/configs"
	"github.com/reusee/tinydisplay/dataset"
	"github.com/reusee/tinydisplay/modes"
)

type update struct {
	name  string
	delta dataset.DB
}

var edt = time.FixedZone("EDT", -4*3600)

var updates = []update{
	{"db", dataset.DB{"state": "play"}},
	{"db", dataset.DB{"artist": "Abba", "title": "Dancing Queen", "album": "Dancing Queen"}},
	{"sys", dataset.DB{"temp": 54.3}},
	{"db", dataset.DB{"artist": "Eurythmics", "title": "Thorn in My Side", "album": "Revenge"}},
	{"db", dataset.DB{"artist": "Talking Heads", "title": "Psycho Killer", "album": "Talking Heads"}},
	{"sys", dataset.DB{"temp": 62.8}},
	{"db", dataset.DB{"artist": "Billy Joel", "title": "Uptown Girl", "album": "An Innocent Man"}},
	{"db", dataset.DB{"artist": "Billy Eilish", "title": "bad guy", "album": "Toggo Music"}},
	{"sys", dataset.DB{"temp": 92.6}},
	{"db", dataset.DB{"state": "stop"}},
	{"db", dataset.DB{"time": time.Unix(1593626862, 0).In(edt)}},
}

func newTestEvaluator(t *testing.T, updates []update, options ...Option) *Evaluator {
	t.Helper()
	ds, err := dataset.New(dataset.WithHistorySize(5))
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range updates {
		if err := ds.Update(u.name, u.delta); err != nil {
			t.Fatal(err)
		}
	}
	return New(ds, options...)
}

func mustCompile(t *testing.T, e *Evaluator, source string, locals map[string]any) *Compiled {
	t.Helper()
	c, err := e.Compile(source, locals)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestConditions(t *testing.T) {
	conditions := []string{
		"db['state']=='play'",
		"db['artist']=='Abba'",
		"sys['temp']==54.3",
		"db['album'].lower()=='revenge'",
		"db['title'][0:5]=='Psych'",
		"sys['temp']<100",
		"db['title'].find('Girl')>=0",
		"prev.db['artist']=='Billy Joel'",
		"history('sys', -2)['temp']==54.3",
		"db['state']!=prev.db['state']",
		"time.strftime('%H:%M',db['time']) == '14:07'",
	}
	for i, condition := range conditions {
		t.Run(condition, func(t *testing.T) {
			e := newTestEvaluator(t, updates[:i+1])
			c := mustCompile(t, e, condition, nil)
			ans, err := e.Eval(c, nil)
			if err != nil {
				t.Fatal(err)
			}
			if ans != true {
				t.Fatalf("got %v", ans)
			}
		})
	}
}

func TestValues(t *testing.T) {
	e := newTestEvaluator(t, updates[:3])
	for _, c := range []struct {
		source string
		want   any
	}{
		{"bin(5)", "0b101"},
		{"hex(255)", "0xff"},
		{"hex(-1)", "-0x1"},
		{"oct(8)", "0o10"},
		{"abs(-3)", int64(3)},
		{"abs(-2.5)", 2.5},
		{"round(2.5)", int64(2)},
		{"round(3.5)", int64(4)},
		{"round(1.25, 1)", 1.2},
		{"sum([1, 2, 3])", int64(6)},
		{"sum([0.5, 0.25])", 0.75},
		{"format(3.14159, '.2f')", "3.14"},
		{"format(42, '>5')", "   42"},
		{"format(42, '05d')", "00042"},
		{"format(1234567, ',')", "1,234,567"},
		{"format('ab', '^6')", "  ab  "},
		{"format('abcdef', '.3')", "abc"},
		{"format(255, '#x')", "0xff"},
		{"format(0.25, '.0%')", "25%"},
		{"format(7, '+')", "+7"},
		{"format(1.5e6, 'e')", "1.500000e+06"},
		{"len('abc')", int64(3)},
		{"str(54.3)", "54.3"},
		{"int('12')", int64(12)},
		{"'abc'.upper()", "ABC"},
		{"'hello world'.title()", "Hello World"},
		{"max(1, 5, 3)", int64(5)},
		{"1 if True else 2", int64(1)},
		{"None", nil},
		{"[1, 'a']", []any{int64(1), "a"}},
		{"(1, 2)", []any{int64(1), int64(2)}},
		{"{'a': 1}", map[string]any{"a": int64(1)}},
		{"db.get('artist')", "Abba"},
		{"db.get('missing', 'n/a')", "n/a"},
		{"'artist' in db", true},
		{"'missing' in db", false},
		{"len(sys)", int64(2)},
		{"[k for k in db if k.upper() == 'STATE']", []any{"state"}},
		{"{k: 1 for k in sys if k == 'temp'}", map[string]any{"temp": int64(1)}},
	} {
		compiled := mustCompile(t, e, c.source, nil)
		got, err := e.Eval(compiled, nil)
		if err != nil {
			t.Fatalf("%s: %v", c.source, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Fatalf("%s: %s", c.source, diff)
		}
	}
}

func TestLocals(t *testing.T) {
	e := newTestEvaluator(t, updates[:1])
	locals := map[string]any{
		"widget": map[string]any{
			"size": []any{10, 2},
			"name": "title",
		},
	}
	c := mustCompile(t, e, "widget['size'][0] * 2", locals)
	got, err := e.Eval(c, locals)
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(20) {
		t.Fatalf("got %v", got)
	}

	// locals shadow the dataset
	c = mustCompile(t, e, "db", nil)
	got, err = e.Eval(c, map[string]any{"db": "local"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "local" {
		t.Fatalf("got %v", got)
	}
}

func TestUnknownName(t *testing.T) {
	e := newTestEvaluator(t, updates[:1])
	for _, source := range []string{
		"sorted(db)",
		"getattr(db, 'state')",
		"db.items()",
		"sys['temp']",
		"[x for x in db] + [x]",
		"widget['size']",
	} {
		_, err := e.Compile(source, nil)
		if !errors.Is(err, ErrUnknownName) {
			t.Fatalf("%s: got %v", source, err)
		}
	}
	if _, err := e.Compile("widget['size']", map[string]any{"widget": nil}); err != nil {
		t.Fatal(err)
	}
}

func TestSyntaxError(t *testing.T) {
	e := newTestEvaluator(t, nil)
	for _, source := range []string{
		"1 +",
		"(lambda x: x)(1)",
		"1)\nx = (2",
		"",
	} {
		_, err := e.Compile(source, nil)
		if !errors.Is(err, ErrSyntax) {
			t.Fatalf("%q: got %v", source, err)
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	e := newTestEvaluator(t, updates[:1])
	suppress := Policy{
		SuppressErrors: true,
		ReturnOnError:  "n/a",
	}

	for _, c := range []struct {
		source     string
		kind       error
		suppressed bool
	}{
		{"db['missing']", ErrKey, true},
		{"db['state'] + 1", ErrType, true},
		{"int(db['state'])", ErrValue, false},
		{"db['state'].get('x')", ErrAttribute, false},
		{"1 // 0", ErrArithmetic, false},
		{"1.5 / 0", ErrArithmetic, false},
		{"[1, 2][5]", ErrIndex, false},
		{"select(db['state'], 'play')", ErrType, false},
	} {
		compiled, err := e.Compile(c.source, nil)
		if err != nil {
			t.Fatalf("%s: %v", c.source, err)
		}

		_, err = e.Eval(compiled, nil)
		var evalErr *EvalError
		if !errors.As(err, &evalErr) {
			t.Fatalf("%s: got %v", c.source, err)
		}
		if !errors.Is(err, c.kind) {
			t.Fatalf("%s: got %v", c.source, err)
		}
		if evalErr.Source != c.source {
			t.Fatalf("got %v", evalErr.Source)
		}

		got, err := e.EvalPolicy(compiled, nil, suppress)
		if c.suppressed {
			if err != nil {
				t.Fatalf("%s: %v", c.source, err)
			}
			if got != "n/a" {
				t.Fatalf("%s: got %v", c.source, got)
			}
		} else if !errors.Is(err, c.kind) {
			t.Fatalf("%s: got %v", c.source, err)
		}
	}
}

func TestMissingLocal(t *testing.T) {
	e := newTestEvaluator(t, updates[:1])
	c := mustCompile(t, e, "w + 1", map[string]any{"w": 1})
	if v, err := e.Eval(c, map[string]any{"w": 1}); err != nil || v != int64(2) {
		t.Fatalf("got %v, %v", v, err)
	}
	_, err := e.EvalPolicy(c, nil, Policy{
		SuppressErrors: true,
		ReturnOnError:  "n/a",
	})
	if !errors.Is(err, ErrUnknownName) {
		t.Fatalf("got %v", err)
	}
}

func TestMissingAttribute(t *testing.T) {
	e := newTestEvaluator(t, []update{
		{"db", dataset.DB{"state": "play"}},
		{"sys", dataset.DB{"temp": 1}},
	})
	// prev.sys exists, prev.sys.db does not
	c := mustCompile(t, e, "prev.sys.db", nil)
	_, err := e.EvalPolicy(c, nil, Policy{SuppressErrors: true})
	var attrErr *AttributeError
	if !errors.As(err, &attrErr) {
		t.Fatalf("got %v", err)
	}
	if attrErr.Name != "db" {
		t.Fatalf("got %v", attrErr.Name)
	}
}

func TestDefaultReturnOnError(t *testing.T) {
	e := newTestEvaluator(t, updates[:1], SuppressErrors(true))
	c := mustCompile(t, e, "db['missing']", nil)
	got, err := e.Eval(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("got %v", got)
	}

	e = newTestEvaluator(t, updates[:1], SuppressErrors(true), ReturnOnError(0))
	c = mustCompile(t, e, "db['missing']", nil)
	got, err = e.Eval(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestChanged(t *testing.T) {
	e := newTestEvaluator(t, updates[:1])
	c := mustCompile(t, e, "changed(db['state'])", nil)
	check := func(want bool) {
		t.Helper()
		got, err := e.Eval(c, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %v", got)
		}
	}
	check(false)
	check(false)
	if err := e.Dataset().Update("db", dataset.DB{"state": "stop"}); err != nil {
		t.Fatal(err)
	}
	check(true)
	check(false)

	// state is kept per compiled expression
	other := mustCompile(t, e, "changed(db['state'])", nil)
	got, err := e.Eval(other, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != false {
		t.Fatalf("got %v", got)
	}
}

func TestSelect(t *testing.T) {
	e := newTestEvaluator(t, updates[:1])
	c := mustCompile(t, e, "select(db['state'], 'play', 'Playing', 'stop', 'Stopped')", nil)
	got, err := e.Eval(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Playing" {
		t.Fatalf("got %v", got)
	}

	c = mustCompile(t, e, "select(db['state'], 'pause', 'Paused')", nil)
	got, err = e.Eval(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("got %v", got)
	}

	// a key in result position does not match
	c = mustCompile(t, e, "select('Paused', 'pause', 'Paused')", nil)
	got, err = e.Eval(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("got %v", got)
	}

	c = mustCompile(t, e, "select(db['state'], 'play')", nil)
	_, err = e.EvalPolicy(c, nil, Policy{SuppressErrors: true})
	if !errors.Is(err, ErrSelectArgs) {
		t.Fatalf("got %v", err)
	}
}

func TestTimeModule(t *testing.T) {
	e := newTestEvaluator(t, nil, WithClock(func() time.Time {
		return time.Unix(100, 500_000_000)
	}))
	for _, c := range []struct {
		source string
		want   any
	}{
		{"time.time()", 100.5},
		{"time.gmtime(0).strftime('%Y')", "1970"},
		{"time.strftime('%Y-%m-%d', time.gmtime(86400))", "1970-01-02"},
		{"time.strftime('%H:%M:%S', time.gmtime(3661))", "01:01:01"},
		{"time.gmtime(0) < time.gmtime(1)", true},
	} {
		compiled := mustCompile(t, e, c.source, nil)
		got, err := e.Eval(compiled, nil)
		if err != nil {
			t.Fatalf("%s: %v", c.source, err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Fatalf("%s: %s", c.source, diff)
		}
	}

	compiled := mustCompile(t, e, "time.gmtime(0)", nil)
	got, err := e.Eval(compiled, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tm, ok := got.(time.Time); !ok || !tm.Equal(time.Unix(0, 0)) {
		t.Fatalf("got %v", got)
	}
}

func TestEvalPassthrough(t *testing.T) {
	e := newTestEvaluator(t, updates[:3])
	got, err := e.Eval("literal", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "literal" {
		t.Fatalf("got %v", got)
	}

	got, err = e.Eval(func(s dataset.Snapshot) any {
		return len(s)
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// db, sys and prev
	if got != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestDataResult(t *testing.T) {
	e := newTestEvaluator(t, updates[:3])
	c := mustCompile(t, e, "sys", nil)
	got, err := e.Eval(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if m["temp"] != 54.3 {
		t.Fatalf("got %v", m["temp"])
	}

	c = mustCompile(t, e, "prev.db == history('db', 1)", nil)
	got, err = e.Eval(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != true {
		t.Fatalf("got %v", got)
	}
}

func TestConcurrentEval(t *testing.T) {
	e := newTestEvaluator(t, updates[:3])
	c := mustCompile(t, e, "changed(sys['temp']) or db['state'] == 'play'", nil)
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				got, err := e.Eval(c, nil)
				if err != nil {
					t.Error(err)
					return
				}
				if got != true {
					t.Errorf("got %v", got)
					return
				}
			}
		})
	}
	wg.Go(func() {
		for i := range 100 {
			if err := e.Dataset().Update("sys", dataset.DB{"temp": float64(i)}); err != nil {
				t.Error(err)
				return
			}
		}
	})
	wg.Wait()
}

func TestModule(t *testing.T) {
	loader := configs.NewLoader(nil, "")
	dscope.New(
		new(Module),
		&loader,
		modes.ForTest(t),
	).Call(func(
		policy Policy,
		e *Evaluator,
	) {
		if policy.SuppressErrors {
			t.Fatal("should not suppress by default")
		}
		if e.Policy().ReturnOnError != "" {
			t.Fatalf("got %v", e.Policy().ReturnOnError)
		}
	})
}

func TestStringAndTruth(t *testing.T) {
	for _, c := range []struct {
		value any
		str   string
		truth bool
	}{
		{"abc", "abc", true},
		{"", "", false},
		{nil, "None", false},
		{true, "True", true},
		{int64(0), "0", false},
		{54.3, "54.3", true},
		{[]any{}, "[]", false},
		{[]any{1, "a"}, `[1, "a"]`, true},
	} {
		if got := String(c.value); got != c.str {
			t.Fatalf("%v: got %q", c.value, got)
		}
		if got := Truth(c.value); got != c.truth {
			t.Fatalf("%v: got %v", c.value, got)
		}
	}
}
