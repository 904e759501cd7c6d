package common_test

import (
	"printdesk/common"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Clock", func() {
	var (
		originNow      func() time.Time
		originLocation *time.Location
	)
	BeforeEach(func() {
		originNow = common.NowFunc
		originLocation = common.Location
	})
	AfterEach(func() {
		common.NowFunc = originNow
		common.Location = originLocation
	})

	It("should compute today in the business location", func() {
		common.Location = time.FixedZone("WIB", 7*3600)
		common.NowFunc = func() time.Time { return time.Date(2021, 5, 6, 18, 0, 0, 0, time.UTC) }
		Expect(common.Today()).To(Equal(common.NewDate(2021, 5, 7)))
	})

	It("should return the utc bounds of a calendar day", func() {
		common.Location = time.FixedZone("WIB", 7*3600)
		start, end := common.DayRange(common.NewDate(2021, 5, 7))
		Expect(start).To(Equal(time.Date(2021, 5, 6, 17, 0, 0, 0, time.UTC)))
		Expect(end).To(Equal(time.Date(2021, 5, 7, 17, 0, 0, 0, time.UTC)))
	})

	It("should return current time in utc with microsecond precision", func() {
		common.NowFunc = func() time.Time { return time.Date(2021, 5, 6, 18, 0, 0, 1234567, time.Local) }
		now := common.CurrentTime()
		Expect(now.Location()).To(Equal(time.UTC))
		Expect(now.Nanosecond()).To(Equal(1235000))
	})
})
