package store_test

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	"github.com/cockroachdb/errors"
	"github.com/fsouza/fake-gcs-server/fakestorage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	jobID      = "0b7a6a5e-3c1f-4a2e-9a57-1f3c2d9b8e11"
	otherJobID = "5d0c1f2e-8a7b-4c3d-b6e5-9f8a7b6c5d4e"
	bucketName = "stems-test"
)

func readStem(stemStore store.Store, job string, stem string) ([]byte, error) {
	reader, err := stemStore.OpenStem(context.Background(), job, stem)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func storeBehaviour(makeStore func() store.Store) {
	var (
		stemStore store.Store
		stemFiles collect.StemFilePaths
	)

	BeforeEach(func() {
		stemStore = makeStore()

		sourceDir := GinkgoT().TempDir()
		stemFiles = collect.StemFilePaths{}
		for _, stem := range []string{"vocals", "accompaniment"} {
			path := filepath.Join(sourceDir, stem+".wav")
			Expect(os.WriteFile(path, []byte(stem+"-data"), 0o644)).To(Succeed())
			stemFiles[stem] = path
		}

		Expect(stemStore.SaveStems(context.Background(), jobID, stemFiles)).To(Succeed())
	})

	It("serves saved stems", func() {
		Expect(readStem(stemStore, jobID, "vocals")).To(Equal([]byte("vocals-data")))
		Expect(readStem(stemStore, jobID, "accompaniment")).To(Equal([]byte("accompaniment-data")))
	})

	It("reports a stem that was never saved", func() {
		_, err := readStem(stemStore, jobID, "drums")
		Expect(errors.Is(err, store.StemNotFoundMark)).To(BeTrue())
	})

	It("reports an unknown job", func() {
		_, err := readStem(stemStore, otherJobID, "vocals")
		Expect(errors.Is(err, store.StemNotFoundMark)).To(BeTrue())
	})

	It("deletes every stem of a job and nothing else", func() {
		Expect(stemStore.SaveStems(context.Background(), otherJobID, stemFiles)).To(Succeed())

		Expect(stemStore.DeleteJob(context.Background(), jobID)).To(Succeed())

		_, err := readStem(stemStore, jobID, "vocals")
		Expect(errors.Is(err, store.StemNotFoundMark)).To(BeTrue())
		Expect(readStem(stemStore, otherJobID, "vocals")).To(Equal([]byte("vocals-data")))
	})

	It("deletes a job that has no stems", func() {
		Expect(stemStore.DeleteJob(context.Background(), "never-stored")).To(Succeed())
	})
}

var _ = Describe("Local stem store", func() {
	var rootDir string

	storeBehaviour(func() store.Store {
		rootDir = GinkgoT().TempDir()
		return store.NewLocalStemStore(rootDir)
	})

	It("lays stems out by job", func() {
		Expect(filepath.Join(rootDir, jobID, "vocals.wav")).To(BeARegularFile())
	})

	It("leaves stems that already live in place", func() {
		localStore := store.NewLocalStemStore(rootDir)
		inPlace := collect.StemFilePaths{"vocals": filepath.Join(rootDir, jobID, "vocals.wav")}

		Expect(localStore.SaveStems(context.Background(), jobID, inPlace)).To(Succeed())
		Expect(readStem(localStore, jobID, "vocals")).To(Equal([]byte("vocals-data")))
	})
})

var _ = Describe("Google stem store", func() {
	var server *fakestorage.Server

	AfterEach(func() {
		server.Stop()
	})

	storeBehaviour(func() store.Store {
		server = fakestorage.NewServer(nil)
		server.CreateBucketWithOpts(fakestorage.CreateBucketOpts{Name: bucketName})

		return store.NewGoogleStemStoreWithClient(server.Client(), bucketName)
	})

	It("stores stems as WAV objects named by job", func() {
		object, err := server.GetObject(bucketName, jobID+"/vocals.wav")
		Expect(err).NotTo(HaveOccurred())
		Expect(object.ContentType).To(Equal("audio/wav"))
		Expect(object.Content).To(Equal([]byte("vocals-data")))
	})
})
