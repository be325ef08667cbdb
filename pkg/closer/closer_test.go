package closer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCloseLIFO(t *testing.T) {
	c := NewCloser(0)

	var order []string
	for _, name := range []string{"postgres", "redis", "http"} {
		c.Add(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := strings.Join(order, ","); got != "http,redis,postgres" {
		t.Fatalf("order = %s", got)
	}
}

func TestCloseCollectsNamedErrors(t *testing.T) {
	c := NewCloser(0)
	boom := errors.New("boom")
	c.Add("kafka", func(context.Context) error { return boom })
	c.Add("grpc", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "kafka") {
		t.Fatalf("err = %v", err)
	}

	// повторный вызов ничего не закрывает
	if again := c.Close(context.Background()); again != err {
		t.Fatalf("second Close = %v", again)
	}
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(time.Second)

	var (
		mu     sync.Mutex
		forced bool
	)
	c.Add("first", func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		forced = true
		return nil
	})
	c.Add("stuck", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !forced {
		t.Fatal("remaining resource was not closed")
	}
}
