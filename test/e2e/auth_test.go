package e2e_test

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

var _ = Describe("Authentication API", Label("api", "auth"), func() {
	It("should issue a token for the seeded account", func(ctx SpecContext) {
		By("Logging in with valid credentials")
		result, err := client.Login(ctx, cfg.Credentials)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StatusCode).To(Equal(http.StatusOK))
		Expect(result.Token).NotTo(BeEmpty())
		Expect(framework.TokenSegments(result.Token)).To(Equal(3))

		By("Reading the current user with the token")
		user, err := client.CurrentUser(ctx, result.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(user.Email).To(Equal(cfg.Credentials.Email))

		info, err := framework.InspectToken(result.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Email).To(Equal(cfg.Credentials.Email))
	})

	It("should reject a wrong password", func(ctx SpecContext) {
		result, err := client.Login(ctx, framework.NewCredentialStore(cfg.Credentials).Merge(framework.OverridePassword("wrongpassword")))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(result.Token).To(BeEmpty())

		Expect(client.Authenticate(ctx, framework.OverridePassword("wrongpassword"))).To(BeEmpty())
	})

	It("should reject an unknown account", func(ctx SpecContext) {
		Expect(client.Authenticate(ctx, framework.Override("nobody@forge.local", "whatever"))).To(BeEmpty())
	})

	DescribeTable("should reject empty credentials as unauthorized",
		func(ctx SpecContext, override *framework.CredentialOverride) {
			result, err := client.Login(ctx, framework.NewCredentialStore(cfg.Credentials).Merge(override))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(result.Token).To(BeEmpty())
		},
		Entry("empty password", framework.OverridePassword("")),
		Entry("empty email", framework.OverrideEmail("")),
	)

	It("should require a bearer token for the current user", func(ctx SpecContext) {
		resp, err := client.Request(ctx, "/user", framework.RequestOptions{Anonymous: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))

		_, err = client.CurrentUser(ctx, "invalid.token.value")
		Expect(framework.IsUnauthorized(err)).To(BeTrue(), "expected 401, got %v", err)
	})

	It("should answer repeated requests with the same token identically", func(ctx SpecContext) {
		token := freshToken(ctx)

		first, err := client.Request(ctx, "/user", framework.RequestOptions{Token: token})
		Expect(err).NotTo(HaveOccurred())
		second, err := client.Request(ctx, "/user", framework.RequestOptions{Token: token})
		Expect(err).NotTo(HaveOccurred())

		Expect(second.IsSuccess()).To(Equal(first.IsSuccess()))
		Expect(second.StatusCode).To(Equal(first.StatusCode))
	})

	It("should keep the session across concurrent requests", func(ctx SpecContext) {
		token := freshToken(ctx)
		opts := framework.RequestOptions{Token: token}

		responses, err := client.RequestAll(ctx, []framework.Call{
			{Endpoint: "/user", Options: opts},
			{Endpoint: "/projects", Options: opts},
			{Endpoint: "/user", Options: opts},
		})
		Expect(err).NotTo(HaveOccurred())

		for _, resp := range responses {
			if resp.StatusCode == http.StatusServiceUnavailable {
				Skip("Target dependency unavailable")
			}

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		}
	})

	It("should invalidate the token on logout", func(ctx SpecContext) {
		token := freshToken(ctx)

		err := client.Logout(ctx, token)
		if errors.Is(err, framework.ErrLogoutUnsupported) {
			Skip("Target has no logout endpoint")
		}
		Expect(err).NotTo(HaveOccurred())

		_, err = client.CurrentUser(ctx, token)
		Expect(framework.IsUnauthorized(err)).To(BeTrue(), "expected 401 after logout, got %v", err)

		By("Logging in again after logout")
		Expect(freshToken(ctx)).NotTo(Equal(token))
	})
})
