package tracker_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/codeguardian/guardian/tracker"
)

var _ = Describe("UUID", func() {
	It("generates different UUIDs each time", func() {
		generator := tracker.NewGenerator()

		first := generator.Generate()
		second := generator.Generate()

		Expect(first).NotTo(Equal(second))
	})
})
