package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	ctx := WithRequestID(context.Background(), "abc")
	err := errors.New("boom")
	Time(ctx, "matrix.Build")(&err)

	line := buf.String()
	for _, want := range []string{"req_id=abc", "op=matrix.Build", "err=boom"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestTimeWithoutError(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	var err error
	Time(context.Background(), "noop")(&err)

	if strings.Contains(buf.String(), "err=") {
		t.Errorf("unexpected error field in %q", buf.String())
	}
}
