package model_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	. "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing/dummy"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tool model", func() {
	const demucsBin = "/somewhere/demucs"

	var (
		scratchDir    string
		dummyExecutor *dummy.Executor
	)

	BeforeEach(func() {
		scratchDir = filepath.Join(GinkgoT().TempDir(), "scratch")
		dummyExecutor = dummy.NewExecutor()
	})

	load := func() *model.ToolModel {
		loaded := ExpectSuccess(model.NewToolModelLoader(scratchDir, demucsBin, dummyExecutor)())
		return ExpectType[*model.ToolModel](loaded)
	}

	Describe("Device", func() {
		It("falls back to the cpu without a GPU", func() {
			Expect(load().Device()).To(Equal(model.DeviceCPU))
			Expect(dummyExecutor.CallsTo("nvidia-smi")).To(HaveLen(1))
		})

		It("uses cuda when a GPU answers", func() {
			dummyExecutor.SetGPU(true)
			toolModel := load()

			Expect(toolModel.Device()).To(Equal(model.DeviceCUDA))
			Expect(toolModel.Name()).To(Equal("demucs/cuda"))
		})
	})

	It("fails to load without a binary", func() {
		_, err := model.NewToolModelLoader(scratchDir, "", dummyExecutor)()
		Expect(err).To(HaveOccurred())
	})

	It("separates a mix into the demucs stems", func() {
		stems, err := load().Separate(context.Background(), dummy.Sine(440, 0.1))
		Expect(err).NotTo(HaveOccurred())
		Expect(stems.Names()).To(ConsistOf("drums", "bass", "other", "vocals"))

		calls := dummyExecutor.CallsTo("demucs")
		Expect(calls).To(HaveLen(1))
		Expect(calls[0].Args).To(ContainElements("-d", model.DeviceCPU))
	})

	It("leaves no scratch files behind", func() {
		_, err := load().Separate(context.Background(), dummy.Sine(440, 0.1))
		Expect(err).NotTo(HaveOccurred())

		Expect(os.ReadDir(scratchDir)).To(BeEmpty())
	})

	It("reports a crashed tool with its output", func() {
		toolModel := load()
		dummyExecutor.SetMode(dummy.Fail)

		_, err := toolModel.Separate(context.Background(), dummy.Sine(440, 0.1))
		Expect(errors.Is(err, splitter.SeparationFailedMark)).To(BeTrue())

		output, ok := splitter.Diagnostics(err)
		Expect(ok).To(BeTrue())
		Expect(output).To(Equal(dummy.DefaultFailureOutput))
		Expect(os.ReadDir(scratchDir)).To(BeEmpty())
	})

	It("reports a tool that wrote nothing", func() {
		toolModel := load()
		dummyExecutor.SetMode(dummy.NoOutput)

		_, err := toolModel.Separate(context.Background(), dummy.Sine(440, 0.1))
		Expect(errors.Is(err, collect.NoOutputMark)).To(BeTrue())
	})

	It("does not start with a cancelled context", func() {
		toolModel := load()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := toolModel.Separate(ctx, dummy.Sine(440, 0.1))
		Expect(err).To(HaveOccurred())
		Expect(dummyExecutor.CallsTo("demucs")).To(BeEmpty())
	})
})
