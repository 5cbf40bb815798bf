package resolver

import (
	"errors"
	"fmt"
	"testing"
)

func TestOutcomeLabel(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrResolverClosed, "closed"},
		{ErrInvalidParameters, "invalid"},
		{fmt.Errorf("%w: underscore", ErrInvalidName), "badname"},
		{fmt.Errorf("%w: pack", ErrQueryBuild), "buildfail"},
		{errServersExhausted{attempts: 13}, "exhausted"},
		{fmt.Errorf("%w: short header", ErrUnparsableResponse), "parsefail"},
		{errors.New("boom"), "error"},
	} {
		if x := outcomeLabel(tc.err); x != tc.want {
			t.Errorf("outcomeLabel(%v) got=%q want=%q", tc.err, x, tc.want)
		}
	}
}
