package testing

import (
	"os"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/env"
	. "github.com/onsi/gomega"
)

func SetTestEnv() {
	err := os.Setenv("ENVIRONMENT", string(env.Test))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}
