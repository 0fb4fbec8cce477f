package commands

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/engines"
	"github.com/codeguardian/guardian/logging"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/mimetype"
	"github.com/codeguardian/guardian/orchestrator"
	"github.com/codeguardian/guardian/risk"
)

type ScanCommand struct {
	File      string `short:"f" long:"file" description:"the file or directory to scan" value-name:"FILE"`
	StdinPath string `long:"stdin-path" description:"path reported for content read from STDIN" default:"STDIN" value-name:"PATH"`
	SARIF     string `long:"sarif" description:"also write the findings as a SARIF log" value-name:"PATH"`
	FailOn    string `long:"fail-on" description:"lowest severity that fails the scan" choice:"CRITICAL" choice:"HIGH" choice:"MEDIUM" choice:"LOW" default:"LOW"`
	Workers   int    `long:"workers" description:"number of concurrent scans" default:"4"`
	Debug     bool   `long:"debug" description:"enables debug logging"`
}

func (command *ScanCommand) Execute(args []string) error {
	plainUnlessTerminal()

	level := "info"
	if command.Debug {
		level = "debug"
	}

	logger, err := logging.NewLogger("scan", level, os.Stdout)
	if err != nil {
		return err
	}

	files, err := command.collect(logger, mimetype.NewDecoder())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println(yellow("[WARN]"), "No files to scan.")
		return nil
	}

	eligibility := engines.DefaultEligibility
	if command.File == "" {
		eligibility = eligibility.Admitting(command.StdinPath)
	}

	pool := orchestrator.NewPool(command.Workers, metrics.NewNullEmitter())

	perEngine, err := pool.Scan(logger, engines.DefaultWith(eligibility), files)
	if err != nil {
		fmt.Println(red("FAILED"), err)
		return err
	}

	var findings []engines.Finding
	for _, engineFindings := range perEngine {
		findings = append(findings, engineFindings...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Path != findings[j].Path {
			return findings[i].Path < findings[j].Path
		}
		return findings[i].Line < findings[j].Line
	})

	for _, finding := range findings {
		fmt.Printf("%s %s:%d %s (%s)\n",
			severityColor(finding.Severity)("["+string(finding.Severity)+"]"),
			finding.Path,
			finding.Line,
			finding.Title,
			finding.RuleID,
		)
	}

	summary := risk.Summarize(findings)

	fmt.Println()
	fmt.Printf("Files scanned: %d\n", len(files))
	fmt.Printf("Issues found: %d (critical %d, high %d, medium %d, low %d)\n",
		summary.TotalFindings,
		summary.CriticalCount,
		summary.HighCount,
		summary.MediumCount,
		summary.LowCount,
	)
	fmt.Printf("Risk score: %d (%s)\n", summary.RiskScore, summary.RiskLevel)

	if command.SARIF != "" {
		if err := writeSARIF(command.SARIF, findings); err != nil {
			fmt.Println(red("FAILED"), "writing SARIF log:", err)
			return err
		}
	}

	if countAtLeast(findings, engines.Severity(command.FailOn)) > 0 {
		showFindingsWarning()
		os.Exit(3)
	}

	fmt.Println(green("PASSED"))

	return nil
}

func (command *ScanCommand) collect(logger lager.Logger, decoder mimetype.Decoder) ([]engines.FileChange, error) {
	logger = logger.Session("collect", lager.Data{"file": command.File})
	logger.Debug("starting")
	defer logger.Debug("done")

	if command.File == "" {
		content, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}

		return textFiles(logger, decoder, engines.FileChange{Path: command.StdinPath, Content: string(content)}), nil
	}

	fi, err := os.Stat(command.File)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		content, err := ioutil.ReadFile(command.File)
		if err != nil {
			return nil, err
		}

		return textFiles(logger, decoder, engines.FileChange{Path: command.File, Content: string(content)}), nil
	}

	var files []engines.FileChange

	err = filepath.Walk(command.File, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(command.File, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !engines.DefaultEligibility.Eligible(rel) {
			logger.Debug("skipping-ineligible-file", lager.Data{"path": rel})
			return nil
		}

		content, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}

		files = append(files, textFiles(logger, decoder, engines.FileChange{Path: rel, Content: string(content)})...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func textFiles(logger lager.Logger, decoder mimetype.Decoder, file engines.FileChange) []engines.FileChange {
	if !mimetype.IsText(decoder, []byte(file.Content)) {
		logger.Debug("skipping-binary-file", lager.Data{"path": file.Path})
		return nil
	}

	return []engines.FileChange{file}
}

func writeSARIF(path string, findings []engines.Finding) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := risk.ExportSARIF(f, findings, "guardian", version); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func countAtLeast(findings []engines.Finding, threshold engines.Severity) int {
	count := 0
	for _, finding := range findings {
		if finding.Severity.Rank() <= threshold.Rank() {
			count++
		}
	}

	return count
}

func showFindingsWarning() {
	fmt.Println()
	fmt.Println(red("Guardian found issues that need attention."))
	fmt.Println()
	fmt.Println("There are a few cases for what this may be:")
	fmt.Println()
	fmt.Println("1. A real vulnerability or secret. Fix it before pushing; the")
	fmt.Println("   remediation for each rule is in the SARIF log (--sarif).")
	fmt.Println()
	fmt.Println("2. A known issue you are not ready to fix. Use --fail-on to only")
	fmt.Println("   fail on more severe findings.")
	fmt.Println()
	fmt.Println("3. A false positive. Vendored code under vendor/ and node_modules/")
	fmt.Println("   is never scanned; move third-party code there if it is not yours.")
}
