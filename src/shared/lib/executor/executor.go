package executor

import (
	"os/exec"

	"github.com/cockroachdb/errors"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Executor
type Executor interface {
	Command(name string, args ...string) Cmd
}

type Cmd interface {
	SetDir(dir string)
	CombinedOutput() ([]byte, error)
}

var _ Executor = BinaryFileExecutor{}

type BinaryFileExecutor struct{}

func (BinaryFileExecutor) Command(name string, args ...string) Cmd {
	return &binaryCmd{cmd: exec.Command(name, args...)}
}

type binaryCmd struct {
	cmd *exec.Cmd
}

func (b *binaryCmd) SetDir(dir string) {
	b.cmd.Dir = dir
}

func (b *binaryCmd) CombinedOutput() ([]byte, error) {
	return b.cmd.CombinedOutput()
}

// ExitCode reports the exit status carried by err, if the process ran and
// exited on its own.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}

	return 0, false
}
