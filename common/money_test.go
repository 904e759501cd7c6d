package common_test

import (
	"printdesk/common"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormatRupiah", func() {
	It("should group thousands with dots", func() {
		Expect(common.FormatRupiah(0)).To(Equal("Rp0"))
		Expect(common.FormatRupiah(999)).To(Equal("Rp999"))
		Expect(common.FormatRupiah(1000)).To(Equal("Rp1.000"))
		Expect(common.FormatRupiah(1250000)).To(Equal("Rp1.250.000"))
		Expect(common.FormatRupiah(-25000)).To(Equal("-Rp25.000"))
	})
})
