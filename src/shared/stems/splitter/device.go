package splitter

import (
	"strings"
	"sync"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/executor"
	"github.com/apex/log"
)

const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"

	gpuQueryBin = "nvidia-smi"
)

// DetectDevice picks cuda when a GPU answers to nvidia-smi, cpu otherwise.
func DetectDevice(exec executor.Executor) string {
	output, err := exec.Command(gpuQueryBin, "-L").CombinedOutput()
	if err != nil || strings.TrimSpace(string(output)) == "" {
		return DeviceCPU
	}

	return DeviceCUDA
}

// lazyDevice asks for the device on first use and remembers the answer.
type lazyDevice struct {
	once     sync.Once
	executor executor.Executor
	device   string
}

func newLazyDevice(exec executor.Executor) *lazyDevice {
	return &lazyDevice{executor: exec}
}

func (l *lazyDevice) get() string {
	l.once.Do(func() {
		l.device = DetectDevice(l.executor)
		log.WithField("device", l.device).Info("Selected demucs device")
	})

	return l.device
}
