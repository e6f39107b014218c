package e2e_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/forge-qa/forge-e2e/api/v1"
	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

var _ = Describe("Projects API", Ordered, Label("api", "projects"), func() {
	var project *v1.Project

	It("should round-trip a created project", func(ctx SpecContext) {
		req := v1.CreateProjectRequest{
			Name:        "E2E Test Project",
			Description: "Created by E2E test",
			GithubOrg:   "test-org",
		}

		By("Creating the project")
		created, err := fixture.CreateProject(ctx, req)
		skipIfUnavailable(err)
		Expect(err).NotTo(HaveOccurred(), "Failed to create project")
		Expect(created.ID).NotTo(BeEmpty())

		By("Fetching it back by ID")
		projects, err := fixture.Projects(ctx)
		Expect(err).NotTo(HaveOccurred())

		project, err = projects.Get(ctx, created.ID)
		Expect(err).NotTo(HaveOccurred())

		ok, diff, err := framework.MatchesSubmitted(req, project)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue(), "submitted fields changed:\n%s", diff)
		Expect(framework.CheckTimestamps(project)).To(Succeed())

		By("Finding it in the list")
		list, err := projects.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(ContainElement(HaveField("ID", created.ID)))
	})

	It("should attach a repository to the project", func(ctx SpecContext) {
		if project == nil {
			Skip("No project was created")
		}

		projects, err := fixture.Projects(ctx)
		Expect(err).NotTo(HaveOccurred())

		repo, err := projects.AddRepository(ctx, project.ID, v1.AddRepositoryRequest{
			Name:     "test-repo",
			URL:      "https://github.com/test-org/test-repo.git",
			RepoType: v1.RepositoryTypeBackend,
		})
		skipIfUnavailable(err)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.ProjectID).To(Equal(project.ID))
		Expect(repo.RepoType).To(Equal(v1.RepositoryTypeBackend))
	})

	It("should delete the project", func(ctx SpecContext) {
		if project == nil {
			Skip("No project was created")
		}

		projects, err := fixture.Projects(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(projects.Delete(ctx, project.ID)).To(Succeed())

		token, err := fixture.Token(ctx)
		Expect(err).NotTo(HaveOccurred())

		err = client.WaitForProjectDeleted(ctx, token, project.ID, framework.WaitOptions{
			Timeout:  30 * time.Second,
			Interval: time.Second,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject a project without a name", func(ctx SpecContext) {
		projects, err := fixture.Projects(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = projects.Create(ctx, v1.CreateProjectRequest{Description: "Missing name"})
		skipIfUnavailable(err)
		Expect(framework.IsValidationError(err)).To(BeTrue(), "expected 400, got %v", err)
	})

	It("should report a missing project as not found", func(ctx SpecContext) {
		projects, err := fixture.Projects(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = projects.Get(ctx, "00000000-0000-0000-0000-000000000000")
		skipIfUnavailable(err)
		Expect(framework.IsNotFound(err)).To(BeTrue(), "expected 404, got %v", err)
	})

	It("should require authentication", func(ctx SpecContext) {
		_, err := client.Projects("invalid.token.value").List(ctx)
		Expect(framework.IsUnauthorized(err)).To(BeTrue(), "expected 401, got %v", err)
	})

	It("should list organization repositories", func(ctx SpecContext) {
		projects, err := fixture.Projects(ctx)
		Expect(err).NotTo(HaveOccurred())

		repos, err := projects.ListOrgRepositories(ctx, "test-org")
		Expect(err).NotTo(HaveOccurred())
		Expect(repos).NotTo(BeEmpty())

		for _, r := range repos {
			Expect(r.Name).NotTo(BeEmpty())
			Expect(r.CloneURL).NotTo(BeEmpty())
		}
	})
})
