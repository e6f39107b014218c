package e2e_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

var _ = Describe("Browser session", Ordered, Label("browser"), func() {
	var (
		browser *framework.Browser
		page    *framework.Page
	)

	BeforeAll(func(ctx SpecContext) {
		if cfg.SkipBrowser {
			Skip("Browser scenarios disabled")
		}

		if !framework.ChromeAvailable(cfg.ChromePath) {
			Skip("Chrome not available")
		}

		browser = framework.NewBrowser(framework.BrowserOptionsFromConfig(cfg))
		Expect(browser.Launch(ctx)).To(Succeed(), "Failed to launch browser")
	})

	AfterAll(func() {
		Expect(browser.Close()).To(Succeed())
	})

	BeforeEach(func(ctx SpecContext) {
		var err error

		page, err = browser.NewPage(ctx)
		Expect(err).NotTo(HaveOccurred(), "Failed to open page")
	})

	AfterEach(func(ctx SpecContext) {
		report := CurrentSpecReport()
		if report.Failed() && cfg.ArtifactDir != "" {
			if _, err := page.CaptureArtifacts(ctx, cfg.ArtifactDir, report.FullText()); err != nil {
				GinkgoWriter.Printf("Failed to capture artifacts: %v\n", err)
			}
		}

		Expect(page.Close()).To(Succeed())
	})

	expectDashboard := func(ctx SpecContext) {
		Expect(page.WaitForPath(ctx, "/", 0)).To(Succeed())

		heading, err := page.Text(ctx, "h2")
		Expect(err).NotTo(HaveOccurred())
		Expect(heading).To(Equal(v1.DashboardHeading))
	}

	Context("login", func() {
		It("should sign in through the login form", func(ctx SpecContext) {
			Expect(page.Login(ctx, cfg.FrontendURL, cfg.Credentials)).To(Succeed())
			Expect(page.State()).To(Equal(framework.StateAuthenticated))

			expectDashboard(ctx)

			texts, err := page.Texts(ctx, "p")
			Expect(err).NotTo(HaveOccurred())
			Expect(texts).To(ContainElement(cfg.Credentials.Email))
		})

		It("should show an error for invalid credentials", func(ctx SpecContext) {
			creds := framework.NewCredentialStore(cfg.Credentials).Merge(framework.OverridePassword("wrongpassword"))
			Expect(page.SubmitLogin(ctx, cfg.FrontendURL, creds)).To(Succeed())

			Expect(page.WaitVisible(ctx, ".text-red-600", 0)).To(Succeed())
			Expect(page.Path(ctx)).To(Equal("/login"))
		})

		DescribeTable("should not submit an empty field",
			func(ctx SpecContext, filled, value, empty string) {
				Expect(page.ClearSession(ctx)).To(Succeed())
				Expect(page.Navigate(ctx, "/login")).To(Succeed())

				recorder, err := page.RecordRequests(ctx)
				Expect(err).NotTo(HaveOccurred())

				Expect(page.Type(ctx, filled, value)).To(Succeed())
				Expect(page.Click(ctx, `button[type="submit"]`)).To(Succeed())

				Consistently(func() int {
					return recorder.Count(http.MethodPost, "/login")
				}).WithTimeout(500 * time.Millisecond).WithPolling(50 * time.Millisecond).Should(BeZero())

				Expect(page.FieldValid(ctx, empty)).To(BeFalse())
				Expect(page.Path(ctx)).To(Equal("/login"))
			},
			Entry("empty password", `input[type="email"]`, framework.DefaultCredentials.Email, `input[type="password"]`),
			Entry("empty email", `input[type="password"]`, framework.DefaultCredentials.Password, `input[type="email"]`),
		)

		It("should declare viewport and title on the login page", func(ctx SpecContext) {
			Expect(page.ClearSession(ctx)).To(Succeed())
			Expect(page.Navigate(ctx, "/login")).To(Succeed())

			Expect(page.Exists(ctx, `meta[name="viewport"]`)).To(BeTrue())

			title, err := page.Title(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(title).NotTo(BeEmpty())
		})

		It("should accept an injected session token", func(ctx SpecContext) {
			Expect(page.ClearSession(ctx)).To(Succeed())
			Expect(page.InjectToken(ctx, cfg.FrontendURL, freshToken(ctx))).To(Succeed())
			Expect(page.Navigate(ctx, "/")).To(Succeed())

			expectDashboard(ctx)
		})
	})

	Context("isolation", func() {
		It("should redirect protected pages to login without a session", func(ctx SpecContext) {
			Expect(page.ClearSession(ctx)).To(Succeed())
			Expect(page.Navigate(ctx, "/projects")).To(Succeed())
			Expect(page.WaitForPath(ctx, "/login", 0)).To(Succeed())
		})

		It("should lose access after the session is cleared", func(ctx SpecContext) {
			Expect(page.Login(ctx, cfg.FrontendURL, cfg.Credentials)).To(Succeed())

			By("Loading a protected page while signed in")
			Expect(page.Navigate(ctx, "/")).To(Succeed())
			expectDashboard(ctx)

			By("Clearing the session and loading it again")
			Expect(page.ClearSession(ctx)).To(Succeed())
			Expect(page.Navigate(ctx, "/")).To(Succeed())
			Expect(page.WaitForPath(ctx, "/login", 0)).To(Succeed())
		})

		It("should return to login after signing out", func(ctx SpecContext) {
			Expect(page.Login(ctx, cfg.FrontendURL, cfg.Credentials)).To(Succeed())

			Expect(page.ClickText(ctx, "Sign Out")).To(Succeed())
			Expect(page.WaitForPath(ctx, "/login", 0)).To(Succeed())

			Expect(page.Navigate(ctx, "/")).To(Succeed())
			Expect(page.WaitForPath(ctx, "/login", 0)).To(Succeed())
		})
	})

	Context("navigation", func() {
		BeforeEach(func(ctx SpecContext) {
			Expect(page.Login(ctx, cfg.FrontendURL, cfg.Credentials)).To(Succeed())
		})

		It("should render the not found page and lead back to the dashboard", func(ctx SpecContext) {
			Expect(page.Navigate(ctx, "/this-route-does-not-exist")).To(Succeed())

			heading, err := page.Text(ctx, "h1")
			Expect(err).NotTo(HaveOccurred())
			Expect(heading).To(ContainSubstring(v1.NotFoundHeading))

			message, err := page.Text(ctx, "p")
			Expect(err).NotTo(HaveOccurred())
			Expect(message).To(ContainSubstring(v1.NotFoundMessage))

			Expect(page.ClickText(ctx, "Go to Dashboard")).To(Succeed())
			expectDashboard(ctx)
		})

		It("should keep the session across a reload", func(ctx SpecContext) {
			expectDashboard(ctx)

			Expect(page.Reload(ctx)).To(Succeed())
			expectDashboard(ctx)
		})

		DescribeTable("should keep the session on unknown routes",
			func(ctx SpecContext, path string) {
				Expect(page.Navigate(ctx, path)).To(Succeed())

				heading, err := page.Text(ctx, "h1")
				Expect(err).NotTo(HaveOccurred())
				Expect(heading).To(ContainSubstring(v1.NotFoundHeading))

				Expect(page.Navigate(ctx, "/")).To(Succeed())
				expectDashboard(ctx)
			},
			Entry("top level", "/does-not-exist"),
			Entry("deeply nested", "/deeply/nested/invalid/route"),
		)

		It("should move between dashboard and projects", func(ctx SpecContext) {
			Expect(page.ClickText(ctx, "View Projects")).To(Succeed())
			Expect(page.WaitForPath(ctx, "/projects", 0)).To(Succeed())

			heading, err := page.Text(ctx, "h1")
			Expect(err).NotTo(HaveOccurred())
			Expect(heading).To(Equal("Projects"))

			By("Using browser history")
			Expect(page.Back(ctx)).To(Succeed())
			expectDashboard(ctx)
			Expect(page.Forward(ctx)).To(Succeed())
			Expect(page.WaitForPath(ctx, "/projects", 0)).To(Succeed())

			Expect(page.ClickText(ctx, "Back to Dashboard")).To(Succeed())
			expectDashboard(ctx)
		})
	})
})
