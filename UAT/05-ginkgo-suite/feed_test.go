package ginkgosuite_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/toejough/marbles"
	ginkgosuite "github.com/toejough/marbles/UAT/05-ginkgo-suite"
)

var _ = Describe("Quotes", func() {
	var (
		sched  *marbles.Scheduler
		prices map[rune]int
		quotes map[rune]string
	)

	BeforeEach(func() {
		sched = marbles.NewScheduler(GinkgoT())
		prices = map[rune]int{'a': 1, 'b': 2, 'c': 3, 'x': -1}
		quotes = map[rune]string{'a': "$1", 'b': "$2", 'c': "$3"}
	})

	AfterEach(func() {
		sched.Flush()
	})

	It("interleaves both feeds", func() {
		primary := marbles.Hot(sched, "^-a---c--|", prices, nil)
		backup := marbles.Hot(sched, "^---b-----|", prices, nil)

		marbles.ExpectObservable(sched, ginkgosuite.Quotes(primary, backup)).ToBe("--a-b-c---|", quotes, nil)
	})

	It("fails on an invalid price and drops both feeds", func() {
		primary := marbles.Cold(sched, "-a--x-c|", prices, nil)
		backup := marbles.Cold(sched, "--b----|", prices, nil)

		marbles.ExpectObservable(sched, ginkgosuite.Quotes(primary, backup)).
			ToMatch("-ab-#", map[rune]any{'a': "$1", 'b': HavePrefix("$")}, BeAssignableToTypeOf(&ginkgosuite.PriceError{}))
		marbles.ExpectSubscriptions(sched, primary).ToBe("^---!")
		marbles.ExpectSubscriptions(sched, backup).ToBe("^---!")
	})

	It("reports the error text", func() {
		primary := marbles.Cold(sched, "x", prices, nil)

		marbles.ExpectObservable(sched, ginkgosuite.Quotes(primary, primary)).ToMatch("#", nil, "invalid price -1")
	})

	Context("without a flush", func() {
		It("has not subscribed yet", func() {
			primary := marbles.Cold(sched, "-a|", prices, nil)
			marbles.ExpectObservable(sched, ginkgosuite.Quotes(primary, primary))

			Expect(primary.Subscriptions()).To(BeEmpty())
			Expect(sched.Now()).To(BeZero())
		})
	})
})
