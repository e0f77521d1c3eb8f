package service_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Clock", func() {
	DescribeTable("EntryDate",
		func(in *string, want string) {
			Expect(fixedClock().EntryDate(in).Format("2006-01-02")).To(Equal(want))
		},
		Entry("missing", nil, "2024-06-12"),
		Entry("blank", ptr("  "), "2024-06-12"),
		Entry("today", ptr("Today"), "2024-06-12"),
		Entry("yesterday", ptr("yesterday"), "2024-06-11"),
		Entry("iso", ptr("2024-06-01"), "2024-06-01"),
		Entry("day first with slashes", ptr("03/06/2024"), "2024-06-03"),
		Entry("short day first", ptr("3/6/2024"), "2024-06-03"),
		Entry("dashes", ptr("03-06-2024"), "2024-06-03"),
		Entry("dots", ptr("03.06.2024"), "2024-06-03"),
		Entry("no year", ptr("5/6"), "2024-06-05"),
		Entry("no year with dashes", ptr("5-6"), "2024-06-05"),
		Entry("two digit year", ptr("03/06/24"), "2024-06-03"),
		Entry("day past twelve", ptr("13/06/2024"), "2024-06-13"),
		Entry("year first with slashes", ptr("2024/06/01"), "2024-06-01"),
		Entry("month name", ptr("12 Jun 2024"), "2024-06-12"),
		Entry("month first is not guessed", ptr("06/13/2024"), "2024-06-12"),
		Entry("unparseable", ptr("last tuesday"), "2024-06-12"),
	)

	It("keeps the ledger timezone", func() {
		clock := fixedClock()
		Expect(clock.Today().Location().String()).To(Equal("Asia/Kolkata"))
	})
})
