package checkout

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"code.cloudfoundry.org/lager"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/mimetype"
	"github.com/codeguardian/guardian/pipeline"
)

const DefaultTimeout = 2 * time.Minute

type Config struct {
	Root     string
	Timeout  time.Duration
	Username string
	Token    string
}

type Source struct {
	Name     string
	CloneURL string
}

//go:generate counterfeiter . Cache

// Cache keeps one bare clone per repository under a root directory and
// reads commit contents out of it.
type Cache interface {
	Files(ctx context.Context, logger lager.Logger, source Source, commitID string, paths []string) ([]engines.FileChange, error)
}

type cache struct {
	root        string
	timeout     time.Duration
	auth        transport.AuthMethod
	eligibility engines.Eligibility
	decoder     mimetype.Decoder

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	cloneCounter   metrics.Counter
	fetchCounter   metrics.Counter
	timeoutCounter metrics.Counter
	checkoutTimer  metrics.Timer
}

func NewCache(config Config, eligibility engines.Eligibility, decoder mimetype.Decoder, emitter metrics.Emitter) *cache {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var auth transport.AuthMethod
	if config.Token != "" {
		username := config.Username
		if username == "" {
			username = "x-access-token"
		}
		auth = &githttp.BasicAuth{Username: username, Password: config.Token}
	}

	return &cache{
		root:           config.Root,
		timeout:        timeout,
		auth:           auth,
		eligibility:    eligibility,
		decoder:        decoder,
		locks:          map[string]*sync.Mutex{},
		cloneCounter:   emitter.Counter("checkout.clones"),
		fetchCounter:   emitter.Counter("checkout.fetches"),
		timeoutCounter: emitter.Counter("checkout.timeouts"),
		checkoutTimer:  emitter.Timer("checkout.duration"),
	}
}

// Files returns the contents of paths as of commitID. Paths that are not
// eligible for scanning, missing from the commit or binary are skipped.
func (c *cache) Files(ctx context.Context, logger lager.Logger, source Source, commitID string, paths []string) ([]engines.FileChange, error) {
	logger = logger.Session("checkout", lager.Data{
		"repository": source.Name,
		"commit-id":  commitID,
	})
	logger.Debug("starting")
	defer logger.Debug("done")

	eligible := make([]string, 0, len(paths))
	for _, path := range paths {
		if c.eligibility.Eligible(path) {
			eligible = append(eligible, path)
		}
	}

	if len(eligible) == 0 {
		return nil, nil
	}

	if source.CloneURL == "" {
		return nil, pipeline.PermanentError("repository has no clone url", nil)
	}

	dest := filepath.Join(c.root, directoryName(source))

	lock := c.lockFor(dest)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		commit *object.Commit
		err    error
	)

	c.checkoutTimer.Time(logger, func() {
		commit, err = c.commit(ctx, logger, dest, source, commitID)
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Error("checkout-timed-out", err, lager.Data{"timeout": c.timeout.String()})
			c.timeoutCounter.Inc(logger)
			return nil, pipeline.TransientInfraError("checkout timed out", err)
		}

		return nil, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, pipeline.PermanentError("reading commit tree", err)
	}

	var files []engines.FileChange
	for _, path := range eligible {
		file, err := tree.File(path)
		if err == object.ErrFileNotFound {
			logger.Debug("file-not-in-commit", lager.Data{"path": path})
			continue
		}
		if err != nil {
			return nil, pipeline.PermanentError(fmt.Sprintf("reading %s", path), err)
		}

		contents, err := file.Contents()
		if err != nil {
			return nil, pipeline.PermanentError(fmt.Sprintf("reading %s", path), err)
		}

		if !mimetype.IsText(c.decoder, []byte(contents)) {
			logger.Debug("skipping-binary-file", lager.Data{"path": path})
			continue
		}

		files = append(files, engines.FileChange{Path: path, Content: contents})
	}

	return files, nil
}

// commit syncs the local clone only when the commit is not already present.
func (c *cache) commit(ctx context.Context, logger lager.Logger, dest string, source Source, commitID string) (*object.Commit, error) {
	hash := plumbing.NewHash(commitID)

	repo, err := git.PlainOpen(dest)
	switch {
	case err == git.ErrRepositoryNotExists:
		repo, err = c.clone(ctx, logger, dest, source)
		if err != nil {
			return nil, err
		}
	case err != nil:
		logger.Error("failed-to-open-clone", err)
		os.RemoveAll(dest)

		repo, err = c.clone(ctx, logger, dest, source)
		if err != nil {
			return nil, err
		}
	default:
		if commit, err := repo.CommitObject(hash); err == nil {
			return commit, nil
		}

		if err := c.fetch(ctx, logger, repo); err != nil {
			return nil, err
		}
	}

	commit, err := repo.CommitObject(hash)
	if err == plumbing.ErrObjectNotFound {
		return nil, pipeline.PermanentError(fmt.Sprintf("commit %s not found", commitID), err)
	}
	if err != nil {
		return nil, pipeline.PermanentError("reading commit", err)
	}

	return commit, nil
}

func (c *cache) clone(ctx context.Context, logger lager.Logger, dest string, source Source) (*git.Repository, error) {
	logger = logger.Session("clone", lager.Data{"destination": dest})

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, pipeline.TransientInfraError("creating checkout directory", err)
	}

	repo, err := git.PlainCloneContext(ctx, dest, true, &git.CloneOptions{
		URL:  source.CloneURL,
		Auth: c.auth,
		Tags: git.NoTags,
	})
	if err != nil {
		logger.Error("failed", err)
		os.RemoveAll(dest)
		return nil, pipeline.TransientInfraError("cloning repository", err)
	}

	c.cloneCounter.Inc(logger)

	return repo, nil
}

func (c *cache) fetch(ctx context.Context, logger lager.Logger, repo *git.Repository) error {
	logger = logger.Session("fetch")

	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       c.auth,
		Tags:       git.NoTags,
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		logger.Error("failed", err)
		return pipeline.TransientInfraError("fetching repository", err)
	}

	c.fetchCounter.Inc(logger)

	return nil
}

func (c *cache) lockFor(dest string) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()

	lock, ok := c.locks[dest]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[dest] = lock
	}

	return lock
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func directoryName(source Source) string {
	name := source.Name
	if name == "" {
		name = source.CloneURL
	}

	return unsafeChars.ReplaceAllString(name, "_")
}
