package mapperpass

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/config"
	"github.com/sarchlab/cgramap/dfg"
	"github.com/sarchlab/cgramap/host"
	"github.com/sarchlab/cgramap/mapper"
	"github.com/sarchlab/cgramap/mapperlog"
	"github.com/sarchlab/cgramap/verify"
)

// MapFunction runs one full mapping attempt for fn against cfg, writing
// dfg.dot/dfg.json/schedule.json, and incremental.json when
// cfg.IncrementalMapping is set, under outputDir (an empty outputDir
// skips all file writes, useful for tests). It mirrors
// mapperPass.cpp's runOnFunction end to end: target resolution, DFG
// build, CGRA construction, lower bounds, search, and reporting — never
// returning an error, since every failure spec.md §7 names becomes a
// populated Report instead.
func MapFunction(fn host.Function, tree host.LoopTree, cfg *config.Config, outputDir string) *Report {
	name := fn.Name()

	loopIDs, err := config.ResolveLoopIDs(cfg, name)
	if err != nil {
		return notApplicable(name, Issue{Type: IssueUnknownKernel, NodeID: -1, Message: err.Error()})
	}

	opIDs, issue := selectOperationIDs(fn, tree, cfg, loopIDs)
	if issue != nil {
		return notApplicable(name, *issue)
	}

	d, err := dfg.Build(fn, opIDs, buildOptions(cfg))
	if err != nil {
		return configError(name, Issue{Type: IssueMissingKey, NodeID: -1, Message: err.Error()})
	}

	cg, err := cgraFromConfig(cfg)
	if err != nil {
		return configError(name, Issue{Type: IssueMissingKey, NodeID: -1, Message: err.Error()})
	}

	report := &Report{Kind: Success, Function: name}

	if missing := mapper.MissingFunctionalUnits(d, cg); len(missing) > 0 {
		report.Kind = UnsupportedOpcode
		for _, op := range missing {
			report.Issues = append(report.Issues, Issue{
				Type: IssueMissingFU, NodeID: -1,
				Message: fmt.Sprintf("no tile supports opcode %q", op),
			})
		}
		writeDotAndJSON(d, cfg, outputDir, report)
		return report
	}

	writeDotAndJSON(d, cfg, outputDir, report)

	if !cfg.DoCGRAMapping {
		return report
	}

	mp := mapper.NewMapper(cfg.DVFSAwareMapping)

	start := time.Now()
	sched, resMII, recMII, ok := runMapping(mp, cg, d, cfg, outputDir)
	report.Elapsed = time.Since(start)
	report.ResMII = resMII
	report.RecMII = recMII

	if !ok {
		report.Kind = Infeasible
		mapperlog.Trace("mapping failed to converge", "function", name, "resMII", resMII, "recMII", recMII)
		return report
	}

	report.II = sched.II

	if issues := verify.Schedule(cg, d, sched.II); len(issues) > 0 {
		report.Kind = Infeasible
		for _, iss := range issues {
			report.Issues = append(report.Issues, Issue{
				Type: IssueInternalInconsistency, NodeID: iss.NodeID,
				Message: iss.Message,
			})
		}
		mapperlog.Trace("committed schedule failed structural verification", "function", name, "issues", len(issues))
		return report
	}

	if cfg.ExpandableMapping {
		cap := resMII + cg.GetFUCount()
		report.ExpandableII = mp.ExpandableII(cg, d, report.II, cap)
	}

	writeScheduleJSON(d, sched, cfg, outputDir, report)

	return report
}

// runMapping dispatches to IncrementalMap when cfg.IncrementalMapping and
// a prior incremental.json sits in outputDir, falling back to a full Map
// whenever no prior snapshot is found or the prior placements prove
// infeasible — spec.md §4.3's "incremental mapping" and §8 scenario 5
// ("BF_encrypt, incrementalMapping=true with no prior file" falls back to
// full mapping and emits the incremental file afterward).
func runMapping(mp *mapper.Mapper, cg *cgra.CGRA, d *dfg.DFG, cfg *config.Config, outputDir string) (*mapper.Schedule, int, int, bool) {
	resMII := mapper.ResMII(d, cg)
	recMII := mapper.RecMII(d)

	if cfg.IncrementalMapping && outputDir != "" {
		if prior, priorII, ok := loadPriorSnapshot(outputDir); ok {
			if sched, ok := mp.IncrementalMap(cg, d, prior, priorII); ok {
				return sched, resMII, recMII, true
			}
			mapperlog.Trace("incremental snapshot infeasible, falling back to full mapping")
		}
	}

	result, ok := mp.Map(cg, d, mapper.Options{
		Heuristic:         cfg.HeuristicMapping,
		StaticElasticCGRA: cfg.IsStaticElasticCGRA,
	})
	if !ok {
		return nil, result.ResMII, result.RecMII, false
	}
	return result.Schedule, result.ResMII, result.RecMII, true
}

func loadPriorSnapshot(outputDir string) (map[string]mapper.PriorPlacement, int, bool) {
	f, err := os.Open(filepath.Join(outputDir, "incremental.json"))
	if err != nil {
		return nil, 0, false
	}
	defer f.Close()

	prior, priorII, err := mapper.LoadIncrementalJSON(f)
	if err != nil {
		return nil, 0, false
	}
	return prior, priorII, true
}

// selectOperationIDs resolves cfg.TargetFunction/TargetNested/loopIDs into
// the concrete operation id set dfg.Build should see, mirroring
// getTargetLoopsImpl's loop selection (index into the top-level preorder,
// innermost descent unless targetNested).
func selectOperationIDs(fn host.Function, tree host.LoopTree, cfg *config.Config, loopIDs []int) ([]int, *Issue) {
	if cfg.TargetFunction {
		ops := fn.Operations()
		ids := make([]int, len(ops))
		for i, op := range ops {
			ids[i] = op.ID
		}
		return ids, nil
	}

	loops := tree.Loops()
	seen := make(map[int]bool)
	var ids []int
	for _, idx := range loopIDs {
		if idx < 0 || idx >= len(loops) {
			return nil, &Issue{
				Type: IssueLoopIndexOutOfRange, NodeID: -1,
				Message: fmt.Sprintf("targetLoopsID %d out of range (function has %d top-level loop(s))", idx, len(loops)),
			}
		}
		l := loops[idx]
		if !cfg.TargetNested {
			l = host.InnermostLoop(l)
		}
		for _, id := range l.BodyOpIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func buildOptions(cfg *config.Config) dfg.BuildOptions {
	return dfg.BuildOptions{
		PrecisionAware:      cfg.PrecisionAware,
		FusionStrategy:      cfg.FusionStrategy,
		FusionPattern:       cfg.FusionPattern,
		ExecLatency:         cfg.OptLatency,
		PipelinedOpt:        cfg.OptPipelined,
		SupportDVFS:         cfg.SupportDVFS,
		DVFSAwareMapping:    cfg.DVFSAwareMapping,
		VectorFactorForIdiv: cfg.VectorFactorForIdiv,
		MultiCycleStrategy:  cfg.MultiCycleStrategy,
		OpcodeOffset:        cfg.OpcodeOffset,
	}
}

// cgraFromConfig builds the grid a mapping attempt targets, seeding the
// homogeneous default capability set from every opcode dfg.Build can
// produce: the construction-time whitelist plus whichever fusion pattern
// names are active (a fused node's opcode is its pattern name, spec.md
// §4.1).
func cgraFromConfig(cfg *config.Config) (*cgra.CGRA, error) {
	base := append([]string(nil), dfg.SupportedOpcodes()...)
	base = append(base, cfg.FusionStrategy...)

	return cgra.New(cgra.Options{
		Rows:              cfg.Row,
		Columns:           cfg.Column,
		BaseOpcodes:       base,
		EnableMultipleOps: cfg.MultiCycleStrategy == "inclusive",
		SupportDVFS:       cfg.SupportDVFS,
		DVFSIslandDim:     cfg.DVFSIslandDim,
		Parameterizable:   cfg.ParameterizableCGRA,
		AdditionalFunc:    cfg.AdditionalFunc,
		RegConstraint:     cfg.RegConstraint,
		CtrlMemConstraint: cfg.CtrlMemConstraint,
		BypassConstraint:  cfg.BypassConstraint,
	})
}

func writeDotAndJSON(d *dfg.DFG, cfg *config.Config, outputDir string, report *Report) {
	if outputDir == "" {
		return
	}
	if path, err := writeFile(outputDir, "dfg.dot", func(w io.Writer) error {
		return d.WriteDot(w, cfg.IsTrimmedDemo)
	}); err == nil {
		report.Artifacts.DotPath = path
	}
	if path, err := writeFile(outputDir, "dfg.json", d.WriteJSON); err == nil {
		report.Artifacts.DFGJSONPath = path
	}
}

func writeScheduleJSON(d *dfg.DFG, sched *mapper.Schedule, cfg *config.Config, outputDir string, report *Report) {
	if outputDir == "" {
		return
	}
	if path, err := writeFile(outputDir, "schedule.json", func(w io.Writer) error {
		return mapper.GenerateJSON(w, d, sched)
	}); err == nil {
		report.Artifacts.ScheduleJSONPath = path
	}
	if cfg.IncrementalMapping {
		if path, err := writeFile(outputDir, "incremental.json", func(w io.Writer) error {
			return mapper.GenerateJSON4IncrementalMap(w, d, sched)
		}); err == nil {
			report.Artifacts.IncrementalJSONPath = path
		}
	}
}

func writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return "", err
	}
	return path, nil
}
