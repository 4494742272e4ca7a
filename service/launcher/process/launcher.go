package process

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/viant/fleet/service/launcher"
)

// Launcher starts each plane as a child process. The child's pid is the
// plane id.
type Launcher struct {
	executable string
	args       []string
	env        []string
	stdout     io.Writer
	stderr     io.Writer
	wg         sync.WaitGroup
}

// New creates a launcher; without WithExecutable the running binary is
// re-executed.
func New(opts ...Option) (*Launcher, error) {
	ret := &Launcher{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.executable == "" {
		executable, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		ret.executable = executable
	}
	shieldNotifications()
	return ret, nil
}

// Wait blocks until every launched child has been reaped by its waiter.
func (l *Launcher) Wait() {
	l.wg.Wait()
}

var _ launcher.Launcher = (*Launcher)(nil)
