package e2e_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

var _ = Describe("Health", Label("api", "health"), func() {
	It("should report the target healthy", func(ctx SpecContext) {
		Expect(client.CheckHealth(ctx)).To(BeTrue())

		status, err := client.Health(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.OK()).To(BeTrue(), "health status %q", status.Status)
	})

	It("should answer with a JSON content type", func(ctx SpecContext) {
		status, err := client.Health(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(status.ContentType).To(ContainSubstring("application/json"))
	})

	It("should report an unreachable target unhealthy without failing", func(ctx SpecContext) {
		down := framework.NewClient("http://127.0.0.1:1/api", framework.WithHealthTimeout(cfg.HealthTimeout))
		Expect(down.CheckHealth(ctx)).To(BeFalse())
	})
})
