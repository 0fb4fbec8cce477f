package orchestrator

import (
	"fmt"
	"sync"

	"code.cloudfoundry.org/lager"
	"github.com/hashicorp/go-multierror"

	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/metrics"
)

// Task scans one file with one engine.
type Task struct {
	Engine      engines.Engine
	EngineIndex int
	FileIndex   int
	File        engines.FileChange
}

type result struct {
	engineIndex int
	fileIndex   int
	findings    []engines.Finding
}

type TaskError struct {
	Category engines.Category
	Path     string
	Err      error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s scan of %s failed: %s", e.Category, e.Path, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Pool runs engine and file pairs on a fixed number of goroutines.
type Pool struct {
	size int

	scanTimer      metrics.Timer
	failureCounter metrics.Counter
}

func NewPool(size int, emitter metrics.Emitter) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{
		size:           size,
		scanTimer:      emitter.Timer("orchestrator.scan_duration"),
		failureCounter: emitter.Counter("orchestrator.task_failures"),
	}
}

func (p *Pool) Size() int {
	return p.size
}

// Scan returns the findings of each engine, indexed like scanners, with
// every engine's findings in file order whatever order the tasks finish in.
// A task that fails or panics fails the whole scan.
func (p *Pool) Scan(logger lager.Logger, scanners []engines.Engine, files []engines.FileChange) ([][]engines.Finding, error) {
	logger = logger.Session("scan", lager.Data{
		"engines": len(scanners),
		"files":   len(files),
	})
	logger.Debug("starting")

	total := len(scanners) * len(files)

	tasks := make(chan Task)
	results := make(chan result, total)
	errs := make(chan error, total)

	workers := p.size
	if workers > total {
		workers = total
	}

	p.scanTimer.Time(logger, func() {
		wg := &sync.WaitGroup{}

		for i := 0; i < workers; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for task := range tasks {
					p.run(task, results, errs)
				}
			}()
		}

		for ei, engine := range scanners {
			for fi, file := range files {
				tasks <- Task{Engine: engine, EngineIndex: ei, FileIndex: fi, File: file}
			}
		}

		close(tasks)
		wg.Wait()
	})

	close(results)
	close(errs)

	var scanErr error
	for err := range errs {
		p.failureCounter.Inc(logger)
		scanErr = multierror.Append(scanErr, err)
	}

	if scanErr != nil {
		logger.Error("failed", scanErr)
		return nil, scanErr
	}

	perFile := make([][][]engines.Finding, len(scanners))
	for i := range perFile {
		perFile[i] = make([][]engines.Finding, len(files))
	}

	for r := range results {
		perFile[r.engineIndex][r.fileIndex] = r.findings
	}

	findings := make([][]engines.Finding, len(scanners))
	for ei := range perFile {
		for _, fileFindings := range perFile[ei] {
			findings[ei] = append(findings[ei], fileFindings...)
		}
	}

	logger.Debug("done")

	return findings, nil
}

func (p *Pool) run(task Task, results chan<- result, errs chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			errs <- &TaskError{
				Category: task.Engine.Category(),
				Path:     task.File.Path,
				Err:      fmt.Errorf("panic: %v", r),
			}
		}
	}()

	findings := task.Engine.Scan([]engines.FileChange{task.File})

	results <- result{
		engineIndex: task.EngineIndex,
		fileIndex:   task.FileIndex,
		findings:    findings,
	}
}
