package common_test

import (
	"encoding/json"
	"printdesk/common"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Date", func() {
	Describe("ParseDate", func() {
		It("should parse exact date", func() {
			d, err := common.ParseDate(" 2021-05-06 ")
			Expect(err).To(BeNil())
			Expect(d).To(Equal(common.NewDate(2021, 5, 6)))
		})
		It("should reject invalid date", func() {
			_, err := common.ParseDate("2021-13-01")
			Expect(err).To(MatchError("invalid date '2021-13-01'"))
			_, err = common.ParseDate("tomorrow")
			Expect(err).ToNot(BeNil())
		})
		It("should reject trailing characters", func() {
			_, err := common.ParseDate("2099-01-01not-a-date")
			Expect(err).To(MatchError("invalid date '2099-01-01not-a-date'"))
			_, err = common.ParseDate("2021-05-06T12:30:40Z")
			Expect(err).ToNot(BeNil())
		})
	})

	Describe("DateOf", func() {
		It("should take the calendar date in the location of the time", func() {
			loc := time.FixedZone("WIB", 7*3600)
			t := time.Date(2021, 5, 6, 23, 30, 0, 0, time.UTC).In(loc)
			Expect(common.DateOf(t)).To(Equal(common.NewDate(2021, 5, 7)))
			Expect(common.DateOf(time.Time{}).IsZero()).To(BeTrue())
		})
	})

	Describe("arithmetic", func() {
		It("should add days and compare", func() {
			d := common.NewDate(2021, 2, 27)
			Expect(d.AddDays(2)).To(Equal(common.NewDate(2021, 3, 1)))
			Expect(d.Before(d.AddDays(1))).To(BeTrue())
			Expect(d.After(d.AddDays(-1))).To(BeTrue())
			Expect(d.Equal(common.NewDate(2021, 2, 27))).To(BeTrue())
			Expect(d.AddDays(3).DaysSince(d)).To(Equal(3))
			Expect(d.DaysSince(d.AddDays(3))).To(Equal(-3))
		})
	})

	Describe("Value and Scan", func() {
		It("should be stored as ISO date string", func() {
			v, err := common.NewDate(2021, 5, 6).Value()
			Expect(err).To(BeNil())
			Expect(v).To(Equal("2021-05-06"))

			v, err = common.Date{}.Value()
			Expect(err).To(BeNil())
			Expect(v).To(BeNil())
		})
		It("should scan time, string, bytes and nil", func() {
			var d common.Date
			Expect(d.Scan(time.Date(2021, 5, 6, 0, 0, 0, 0, time.UTC))).To(Succeed())
			Expect(d).To(Equal(common.NewDate(2021, 5, 6)))
			Expect(d.Scan("2021-05-07")).To(Succeed())
			Expect(d).To(Equal(common.NewDate(2021, 5, 7)))
			Expect(d.Scan([]byte("2021-05-08 00:00:00"))).To(Succeed())
			Expect(d).To(Equal(common.NewDate(2021, 5, 8)))
			Expect(d.Scan("2021-05-09T00:00:00Z")).To(Succeed())
			Expect(d).To(Equal(common.NewDate(2021, 5, 9)))
			Expect(d.Scan(nil)).To(Succeed())
			Expect(d.IsZero()).To(BeTrue())
			Expect(d.Scan(100)).ToNot(Succeed())
		})
	})

	Describe("MarshalJSON and UnmarshalJSON", func() {
		It("should be able to marshal json", func() {
			bytes, err := json.Marshal(common.NewDate(2021, 1, 2))
			Expect(err).To(BeNil())
			Expect(string(bytes)).To(Equal(`"2021-01-02"`))

			bytes, err = json.Marshal(common.Date{})
			Expect(err).To(BeNil())
			Expect(string(bytes)).To(Equal(`null`))
		})
		It("should be able to unmarshal json", func() {
			var d common.Date
			Expect(json.Unmarshal([]byte(`"2021-01-02"`), &d)).To(Succeed())
			Expect(d).To(Equal(common.NewDate(2021, 1, 2)))
			Expect(json.Unmarshal([]byte(`null`), &d)).To(Succeed())
			Expect(d.IsZero()).To(BeTrue())
			Expect(json.Unmarshal([]byte(`"bad"`), &d)).ToNot(Succeed())
		})
	})
})
