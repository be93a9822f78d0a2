package model_test

import (
	"sync"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model/modelfakes"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Model holder", func() {
	var (
		fakeModel  *modelfakes.FakeModel
		loadCount  int
		loadErrors []error
		loadMutex  sync.Mutex
		holder     *model.Holder
	)

	BeforeEach(func() {
		fakeModel = &modelfakes.FakeModel{}
		fakeModel.NameReturns("fake")
		loadCount = 0
		loadErrors = nil

		holder = model.NewHolder(func() (model.Model, error) {
			loadMutex.Lock()
			defer loadMutex.Unlock()

			loadCount++
			if len(loadErrors) > 0 {
				err := loadErrors[0]
				loadErrors = loadErrors[1:]
				return nil, err
			}
			return fakeModel, nil
		})
	})

	It("loads lazily", func() {
		Expect(holder.Loaded()).To(BeFalse())
		Expect(loadCount).To(Equal(0))
	})

	It("loads once and caches the model", func() {
		first, err := holder.Get()
		Expect(err).NotTo(HaveOccurred())
		second, err := holder.Get()
		Expect(err).NotTo(HaveOccurred())

		Expect(first).To(BeIdenticalTo(fakeModel))
		Expect(second).To(BeIdenticalTo(fakeModel))
		Expect(loadCount).To(Equal(1))
		Expect(holder.Loaded()).To(BeTrue())
	})

	It("loads once under concurrent first use", func() {
		var waitGroup sync.WaitGroup
		for i := 0; i < 16; i++ {
			waitGroup.Add(1)
			go func() {
				defer GinkgoRecover()
				defer waitGroup.Done()

				_, err := holder.Get()
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		waitGroup.Wait()

		Expect(loadCount).To(Equal(1))
	})

	Describe("When loading fails", func() {
		BeforeEach(func() {
			loadErrors = []error{errors.New("weights missing")}
		})

		It("marks the model unavailable", func() {
			_, err := holder.Get()
			Expect(errors.Is(err, model.UnavailableMark)).To(BeTrue())
			Expect(holder.Loaded()).To(BeFalse())
		})

		It("tries again on the next call", func() {
			_, err := holder.Get()
			Expect(err).To(HaveOccurred())

			loaded, err := holder.Get()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeIdenticalTo(fakeModel))
			Expect(loadCount).To(Equal(2))
		})
	})

	It("treats a loader returning nothing as unavailable", func() {
		holder = model.NewHolder(func() (model.Model, error) {
			return nil, nil
		})

		_, err := holder.Get()
		Expect(errors.Is(err, model.UnavailableMark)).To(BeTrue())
	})
})
