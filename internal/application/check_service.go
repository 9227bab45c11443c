package application

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phdsystems/stratify/internal/domain"
)

// DetectorFactory builds the rule detectors for one run. Detectors that
// need run-scoped inputs (the project root, the mapping table) are
// constructed here rather than at wiring time.
type DetectorFactory func(rootPath string, mappings []domain.TypeMapping) []domain.RuleDetector

// CheckService runs the detection pipeline: scan the tree, build the module
// index, run every detector over every module.
type CheckService struct {
	scanner   domain.ProjectScanner
	config    domain.ConfigLoader
	git       domain.GitInfo
	detectors DetectorFactory
	log       *zap.SugaredLogger
}

func NewCheckService(
	scanner domain.ProjectScanner,
	config domain.ConfigLoader,
	git domain.GitInfo,
	detectors DetectorFactory,
	log *zap.SugaredLogger,
) *CheckService {
	return &CheckService{
		scanner:   scanner,
		config:    config,
		git:       git,
		detectors: detectors,
		log:       log,
	}
}

// Check scans projectPath and reports every violation found. Detection is
// fail-open: unreadable or unparsable files are skipped by the detectors,
// never surfaced as errors.
func (s *CheckService) Check(projectPath string) (*domain.CheckReport, error) {
	cfg, err := s.config.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	scan, err := s.scanner.Scan(projectPath, cfg.ExcludePaths...)
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	if s.log != nil {
		s.log.Debugw("scanned project", "modules", len(scan.Modules))
	}

	report := &domain.CheckReport{
		ProjectPath: scan.RootPath,
		Modules:     scan.Modules,
		Counts:      map[string]int{},
	}

	detectors := s.detectors(scan.RootPath, cfg.Mappings())
	for _, module := range scan.Modules {
		for _, det := range detectors {
			for _, v := range det.Detect(module) {
				report.Violations = append(report.Violations, v)
				report.Counts[v.Severity]++
			}
		}
	}

	if s.git != nil && s.git.IsGitRepo(scan.RootPath) {
		if hash, err := s.git.CommitHash(scan.RootPath); err == nil {
			report.CommitHash = hash
		}
	}

	return report, nil
}
