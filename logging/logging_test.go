package logging_test

import (
	"code.cloudfoundry.org/lager"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"

	"github.com/codeguardian/guardian/logging"
)

var _ = Describe("NewLogger", func() {
	var buffer *gbytes.Buffer

	BeforeEach(func() {
		buffer = gbytes.NewBuffer()
	})

	It("drops messages below the configured level", func() {
		logger, err := logging.NewLogger("gateway", "info", buffer)
		Expect(err).NotTo(HaveOccurred())

		logger.Debug("hidden")
		logger.Info("shown", lager.Data{"port": 8080})

		Expect(buffer).To(gbytes.Say(`"message":"gateway.shown"`))
		Expect(string(buffer.Contents())).NotTo(ContainSubstring("hidden"))
	})

	It("accepts debug", func() {
		logger, err := logging.NewLogger("gateway", "DEBUG", buffer)
		Expect(err).NotTo(HaveOccurred())

		logger.Debug("visible")
		Expect(buffer).To(gbytes.Say("gateway.visible"))
	})

	It("rejects unknown levels", func() {
		_, err := logging.NewLogger("gateway", "loud", buffer)
		Expect(err).To(MatchError(ContainSubstring("unknown log level")))
	})
})
