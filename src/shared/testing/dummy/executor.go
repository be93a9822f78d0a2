// Package dummy stands in for the separation tools in tests. Its executor
// writes the same folder layouts spleeter and demucs produce.
package dummy

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/cockroachdb/errors"
)

type Mode int

const (
	// Succeed writes one WAV per stem.
	Succeed Mode = iota
	// Fail prints FailureOutput and exits with an error.
	Fail
	// NoOutput exits cleanly without writing anything.
	NoOutput
)

const (
	DefaultFailureOutput = "Traceback (most recent call last):\nRuntimeError: model exploded"
	demucsModelDir       = "htdemucs"
)

var spleeterStems = map[string][]string{
	"spleeter:2stems": {"vocals", "accompaniment"},
	"spleeter:4stems": {"vocals", "drums", "bass", "other"},
	"spleeter:5stems": {"vocals", "drums", "bass", "piano", "other"},
}

var (
	demucsStems         = []string{"drums", "bass", "other", "vocals"}
	demucsTwoStems      = []string{"vocals", "no_vocals"}
	errGPUQueryNotFound = errors.New("exec: \"nvidia-smi\": executable file not found in $PATH")
)

type Call struct {
	Name string
	Args []string
	Dir  string
}

var _ executor.Executor = &Executor{}

// Executor fakes spleeter, demucs and the GPU query. Every other command
// succeeds without side effects.
type Executor struct {
	mutex         sync.Mutex
	mode          Mode
	failureOutput string
	gpu           bool
	calls         []Call
}

func NewExecutor() *Executor {
	return &Executor{failureOutput: DefaultFailureOutput}
}

func (e *Executor) SetMode(mode Mode) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.mode = mode
}

func (e *Executor) SetFailureOutput(output string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.failureOutput = output
}

// SetGPU makes nvidia-smi report a device.
func (e *Executor) SetGPU(gpu bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.gpu = gpu
}

func (e *Executor) Calls() []Call {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallsTo returns the calls whose binary base name is bin.
func (e *Executor) CallsTo(bin string) []Call {
	var calls []Call
	for _, call := range e.Calls() {
		if filepath.Base(call.Name) == bin {
			calls = append(calls, call)
		}
	}
	return calls
}

func (e *Executor) Command(name string, args ...string) executor.Cmd {
	return &cmd{
		executor: e,
		call: Call{
			Name: name,
			Args: append([]string(nil), args...),
		},
	}
}

func (e *Executor) run(call Call) ([]byte, error) {
	e.mutex.Lock()
	e.calls = append(e.calls, call)
	mode, failureOutput, gpu := e.mode, e.failureOutput, e.gpu
	e.mutex.Unlock()

	switch filepath.Base(call.Name) {
	case "nvidia-smi":
		if !gpu {
			return nil, errGPUQueryNotFound
		}
		return []byte("GPU 0: Fake GPU (UUID: GPU-0000)\n"), nil
	case "spleeter", "demucs":
	default:
		return nil, nil
	}

	switch mode {
	case Fail:
		return []byte(failureOutput), errors.New("exit status 1")
	case NoOutput:
		return []byte("done\n"), nil
	}

	layout, err := outputLayout(call)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(layout.dir, os.ModePerm); err != nil {
		return nil, err
	}

	for i, stem := range layout.stems {
		path := filepath.Join(layout.dir, stem+".wav")
		if err := pcm.WriteWAVFile(path, Sine(440*float64(i+1), 0.1)); err != nil {
			return nil, err
		}
	}

	return []byte("separated\n"), nil
}

type layout struct {
	dir   string
	stems []string
}

func outputLayout(call Call) (layout, error) {
	if len(call.Args) == 0 {
		return layout{}, errors.New("no arguments")
	}

	source := call.Args[len(call.Args)-1]
	if !filepath.IsAbs(source) && call.Dir != "" {
		source = filepath.Join(call.Dir, source)
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	dest := flagValue(call.Args, "-o")
	if dest == "" {
		return layout{}, errors.New("no output directory")
	}

	if filepath.Base(call.Name) == "spleeter" {
		stems, ok := spleeterStems[flagValue(call.Args, "-p")]
		if !ok {
			return layout{}, errors.New("unknown spleeter model")
		}
		return layout{dir: filepath.Join(dest, base), stems: stems}, nil
	}

	stems := demucsStems
	if flagValue(call.Args, "--two-stems") != "" {
		stems = demucsTwoStems
	}
	return layout{dir: filepath.Join(dest, demucsModelDir, base), stems: stems}, nil
}

func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

type cmd struct {
	executor *Executor
	call     Call
}

func (c *cmd) SetDir(dir string) {
	c.call.Dir = dir
}

func (c *cmd) CombinedOutput() ([]byte, error) {
	return c.executor.run(c.call)
}
