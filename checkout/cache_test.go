package checkout_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/lager/lagertest"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/codeguardian/guardian/checkout"
	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/mimetype"
	"github.com/codeguardian/guardian/pipeline"
)

var _ = Describe("Cache", func() {
	var (
		logger   *lagertest.TestLogger
		registry metrics.Registry
		upstream string
		root     string
		repo     *git.Repository

		cache checkout.Cache
	)

	commitFiles := func(files map[string]string) string {
		worktree, err := repo.Worktree()
		Expect(err).NotTo(HaveOccurred())

		for name, content := range files {
			path := filepath.Join(upstream, name)
			Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
			Expect(ioutil.WriteFile(path, []byte(content), 0644)).To(Succeed())

			_, err := worktree.Add(name)
			Expect(err).NotTo(HaveOccurred())
		}

		hash, err := worktree.Commit("update", &git.CommitOptions{
			Author: &object.Signature{Name: "Octo Cat", Email: "octo@example.com", When: time.Now()},
		})
		Expect(err).NotTo(HaveOccurred())

		return hash.String()
	}

	BeforeEach(func() {
		logger = lagertest.NewTestLogger("checkout")
		registry = metrics.NewRegistry("test", fakeclock.NewFakeClock(time.Now()))

		var err error
		upstream, err = ioutil.TempDir("", "checkout-upstream")
		Expect(err).NotTo(HaveOccurred())

		root, err = ioutil.TempDir("", "checkout-root")
		Expect(err).NotTo(HaveOccurred())

		repo, err = git.PlainInit(upstream, false)
		Expect(err).NotTo(HaveOccurred())

		cache = checkout.NewCache(checkout.Config{Root: root, Timeout: time.Minute}, engines.DefaultEligibility, mimetype.NewDecoder(), registry)
	})

	AfterEach(func() {
		os.RemoveAll(upstream)
		os.RemoveAll(root)
	})

	source := func() checkout.Source {
		return checkout.Source{Name: "octocat/hello-world", CloneURL: upstream}
	}

	It("returns the eligible text files of a commit", func() {
		commitID := commitFiles(map[string]string{
			"src/App.java":    "class App {}\n",
			"README.md":       "# hello\n",
			"data/blob.json":  "{\x00\x01}",
			"vendor/lib/x.js": "var x = 1;\n",
		})

		files, err := cache.Files(context.Background(), logger, source(), commitID, []string{
			"src/App.java", "README.md", "data/blob.json", "vendor/lib/x.js", "src/Gone.java",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]engines.FileChange{
			{Path: "src/App.java", Content: "class App {}\n"},
		}))

		Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("checkout.clones", int64(1)))
	})

	It("fetches into the existing clone for later commits", func() {
		first := commitFiles(map[string]string{"src/App.java": "class App {}\n"})
		_, err := cache.Files(context.Background(), logger, source(), first, []string{"src/App.java"})
		Expect(err).NotTo(HaveOccurred())

		second := commitFiles(map[string]string{"src/App.java": "class App { int x; }\n"})
		files, err := cache.Files(context.Background(), logger, source(), second, []string{"src/App.java"})
		Expect(err).NotTo(HaveOccurred())
		Expect(files[0].Content).To(Equal("class App { int x; }\n"))

		files, err = cache.Files(context.Background(), logger, source(), first, []string{"src/App.java"})
		Expect(err).NotTo(HaveOccurred())
		Expect(files[0].Content).To(Equal("class App {}\n"))

		counters := registry.Snapshot().Counters
		Expect(counters).To(HaveKeyWithValue("checkout.clones", int64(1)))
		Expect(counters).To(HaveKeyWithValue("checkout.fetches", int64(1)))
	})

	It("does not touch git when nothing is eligible", func() {
		files, err := cache.Files(context.Background(), logger, checkout.Source{Name: "x"}, "deadbeef", []string{"README.md"})
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(BeEmpty())
	})

	It("reports unknown commits as permanent", func() {
		commitFiles(map[string]string{"src/App.java": "class App {}\n"})

		_, err := cache.Files(context.Background(), logger, source(), "0123456789012345678901234567890123456789", []string{"src/App.java"})
		Expect(pipeline.IsPermanent(err)).To(BeTrue())
	})

	Context("when the remote does not answer in time", func() {
		var server *httptest.Server

		BeforeEach(func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
			}))

			cache = checkout.NewCache(checkout.Config{Root: root, Timeout: 100 * time.Millisecond}, engines.DefaultEligibility, mimetype.NewDecoder(), registry)
		})

		AfterEach(func() {
			server.Close()
		})

		It("gives up with a transient error", func() {
			_, err := cache.Files(context.Background(), logger, checkout.Source{Name: "slow", CloneURL: server.URL + "/slow.git"}, "0123456789012345678901234567890123456789", []string{"src/App.java"})
			Expect(pipeline.IsTransient(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("timed out"))
			Expect(registry.Snapshot().Counters).To(HaveKeyWithValue("checkout.timeouts", int64(1)))

			_, statErr := os.Stat(filepath.Join(root, "slow"))
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})
	})
})
