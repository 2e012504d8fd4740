package timeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrBadAction = errors.New("bad action")

type Kind int

const (
	KindPause Kind = iota + 1
	KindMove
	KindReturnToStart
)

// Action is one step of a marquee program.
type Action struct {
	Kind Kind
	// pause
	Seconds float64
	// move; a nil Distance means as far as the compiler's distance function says
	Direction Direction
	Distance  *int
	// return to start
	Axis Axis
}

func Pause(seconds float64) Action {
	return Action{
		Kind:    KindPause,
		Seconds: seconds,
	}
}

func Move(direction Direction) Action {
	return Action{
		Kind:      KindMove,
		Direction: direction,
	}
}

func MoveBy(direction Direction, distance int) Action {
	return Action{
		Kind:      KindMove,
		Direction: direction,
		Distance:  &distance,
	}
}

func ReturnToStart(axis Axis) Action {
	return Action{
		Kind: KindReturnToStart,
		Axis: axis,
	}
}

func (a Action) String() string {
	switch a.Kind {
	case KindPause:
		return fmt.Sprintf("pause(%v)", a.Seconds)
	case KindMove:
		if a.Distance != nil {
			return fmt.Sprintf("%v(%d)", a.Direction, *a.Distance)
		}
		return a.Direction.String()
	case KindReturnToStart:
		return fmt.Sprintf("rts(%v)", a.Axis)
	}
	return "invalid action"
}

// ParseAction accepts an Action, a bare word like "rtl" or "rts", or a list
// like ["pause", 1], ["ltr", 10] or ["rts", "v"].
func ParseAction(v any) (Action, error) {
	switch v := v.(type) {

	case Action:
		return v, nil

	case string:
		return parseAction(v, nil)

	case []any:
		if len(v) == 0 || len(v) > 2 {
			return Action{}, fmt.Errorf("%w: %v", ErrBadAction, v)
		}
		word, ok := v[0].(string)
		if !ok {
			return Action{}, fmt.Errorf("%w: %v", ErrBadAction, v)
		}
		if len(v) == 1 {
			return parseAction(word, nil)
		}
		return parseAction(word, v[1])

	case []string:
		args := make([]any, len(v))
		for i, s := range v {
			args[i] = s
		}
		return ParseAction(args)

	}
	return Action{}, fmt.Errorf("%w: %v (%T)", ErrBadAction, v, v)
}

func ParseActions(vs []any) ([]Action, error) {
	ret := make([]Action, 0, len(vs))
	for _, v := range vs {
		action, err := ParseAction(v)
		if err != nil {
			return nil, err
		}
		ret = append(ret, action)
	}
	return ret, nil
}

func parseAction(word string, arg any) (Action, error) {
	switch word {

	case "pause":
		if arg == nil {
			return Action{}, fmt.Errorf("%w: pause needs a duration", ErrBadAction)
		}
		seconds, err := number(arg)
		if err != nil {
			return Action{}, err
		}
		return Pause(seconds), nil

	case "rts":
		if arg == nil {
			return ReturnToStart(Horizontal), nil
		}
		s, ok := arg.(string)
		if !ok {
			return Action{}, fmt.Errorf("%w: rts axis %v", ErrBadAction, arg)
		}
		axis, err := ParseAxis(s)
		if err != nil {
			return Action{}, err
		}
		return ReturnToStart(axis), nil

	}

	direction, err := ParseDirection(word)
	if err != nil {
		return Action{}, err
	}
	if arg == nil {
		return Move(direction), nil
	}
	distance, err := number(arg)
	if err != nil {
		return Action{}, err
	}
	return MoveBy(direction, int(math.Trunc(distance))), nil
}

func number(v any) (float64, error) {
	switch v := v.(type) {
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadAction, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: want a number, got %v (%T)", ErrBadAction, v, v)
}
