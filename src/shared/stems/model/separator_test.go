package model_test

import (
	"context"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model/modelfakes"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing/dummy"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Separator", func() {
	const frames = 16

	var (
		fakeModel *modelfakes.FakeModel
		separator model.Separator
		mix       pcm.Buffer
	)

	BeforeEach(func() {
		fakeModel = &modelfakes.FakeModel{}
		fakeModel.NameReturns("fake")
		fakeModel.SeparateReturns(pcm.StemSet{
			"vocals": dummy.Constant(0.1, 2, frames),
			"drums":  dummy.Constant(0.2, 2, frames),
			"bass":   dummy.Constant(0.3, 2, frames),
			"other":  dummy.Constant(0.15, 2, frames),
		}, nil)

		separator = model.NewSeparator(model.NewHolder(func() (model.Model, error) {
			return fakeModel, nil
		}))

		mix = dummy.Constant(0.5, 2, frames)
	})

	It("hands the model a stereo mix", func() {
		mono := dummy.Constant(0.5, 1, frames)

		_, err := separator.Separate(context.Background(), mono, splitter.SplitFourStemsType)
		Expect(err).NotTo(HaveOccurred())

		Expect(fakeModel.SeparateCallCount()).To(Equal(1))
		_, given := fakeModel.SeparateArgsForCall(0)
		Expect(given.NumChannels()).To(Equal(2))
	})

	It("returns the four native stems", func() {
		stems, err := separator.Separate(context.Background(), mix, splitter.SplitFourStemsType)
		Expect(err).NotTo(HaveOccurred())
		Expect(stems.Names()).To(ConsistOf("vocals", "drums", "bass", "other"))
	})

	It("folds everything but vocals into accompaniment for two stems", func() {
		stems, err := separator.Separate(context.Background(), mix, splitter.SplitTwoStemsType)
		Expect(err).NotTo(HaveOccurred())
		Expect(stems.Names()).To(ConsistOf("vocals", "accompaniment"))

		for _, channel := range stems["accompaniment"].Channels {
			for _, sample := range channel {
				Expect(sample).To(BeNumerically("~", 0.65, 1e-9))
			}
		}
		Expect(stems["vocals"].Channels[0][0]).To(Equal(0.1))
	})

	It("fails for a stem the model does not produce", func() {
		_, err := separator.Separate(context.Background(), mix, splitter.SplitFiveStemsType)
		Expect(errors.Is(err, splitter.InvalidOptionMark)).To(BeTrue())
	})

	It("rejects an unknown split type before loading the model", func() {
		_, err := separator.Separate(context.Background(), mix, splitter.SplitType("3stems"))
		Expect(errors.Is(err, splitter.InvalidOptionMark)).To(BeTrue())
		Expect(fakeModel.SeparateCallCount()).To(Equal(0))
	})

	It("rejects an invalid mix", func() {
		_, err := separator.Separate(context.Background(), pcm.Buffer{}, splitter.SplitFourStemsType)
		Expect(err).To(HaveOccurred())
		Expect(fakeModel.SeparateCallCount()).To(Equal(0))
	})

	It("passes model failures through", func() {
		failure := errors.New("inference crashed")
		fakeModel.SeparateReturns(nil, failure)

		_, err := separator.Separate(context.Background(), mix, splitter.SplitFourStemsType)
		Expect(errors.Is(err, failure)).To(BeTrue())
	})

	It("reports an unavailable model", func() {
		separator = model.NewSeparator(model.NewHolder(func() (model.Model, error) {
			return nil, errors.New("no weights")
		}))

		_, err := separator.Separate(context.Background(), mix, splitter.SplitFourStemsType)
		Expect(errors.Is(err, model.UnavailableMark)).To(BeTrue())
	})

	It("fails when the model output is inconsistent", func() {
		fakeModel.SeparateReturns(pcm.StemSet{
			"vocals": dummy.Constant(0.1, 2, frames),
			"drums":  dummy.Constant(0.2, 1, frames),
			"bass":   dummy.Constant(0.3, 2, frames),
			"other":  dummy.Constant(0.15, 2, frames),
		}, nil)

		_, err := separator.Separate(context.Background(), mix, splitter.SplitFourStemsType)
		Expect(err).To(HaveOccurred())
	})
})
