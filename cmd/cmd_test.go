package cmd

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("audit export", func() {
	var previous string

	BeforeEach(func() {
		previous = configPath
		configPath = GinkgoT().TempDir()
		GinkgoT().Setenv("APP_ENV", "development")
		GinkgoT().Setenv("DOCKER_ENV", "")
	})

	AfterEach(func() {
		configPath = previous
	})

	It("should return the config error instead of exiting", func() {
		err := auditExportCmd.RunE(auditExportCmd, nil)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to load config"))
	})
})
