package logs

import (
	"context"
	"errors"
	"fmt"
)

func WrapStream(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	stream, ok := StreamOf(ctx)
	if !ok {
		return err
	}
	return errors.Join(err, fmt.Errorf("stream: %s", stream))
}
