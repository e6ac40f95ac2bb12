package worker

import (
	"testing"

	"go.uber.org/goleak"
)

// go-cache runs one janitor per limiter for the life of the process
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}
