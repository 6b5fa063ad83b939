package mapperpass_test

import (
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cgramap/config"
	"github.com/sarchlab/cgramap/host"
	"github.com/sarchlab/cgramap/mapperpass"
)

// baseConfig returns a small 4x4 grid config with enough of param.json's
// required keys filled in to drive MapFunction, deviating per scenario.
func baseConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Row = 4
	cfg.Column = 4
	return cfg
}

var _ = Describe("MapFunction", func() {
	It("maps a fir kernel to a successful schedule", func() {
		fn, tree := firLikeFunction()
		cfg := baseConfig()
		cfg.Kernel = "fir"

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.Success))
		Expect(report.ResMII).To(BeNumerically(">", 0))
		Expect(report.II).To(BeNumerically(">=", report.ResMII))
	})

	It("fuses a multiply-add pair under fusionStrategy [\"fma\"]", func() {
		fn, tree := spmvLikeFunction()
		cfg := baseConfig()
		cfg.Kernel = "spmv"
		cfg.FusionStrategy = []string{"fma"}
		cfg.FusionPattern = map[string][]string{"fma": {"fmul", "fadd"}}

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.Success))
	})

	It("maps kernel_gemm under multiCycleStrategy exclusive", func() {
		fn, tree := gemmLikeFunction()
		cfg := baseConfig()
		cfg.Kernel = "kernel_gemm"
		cfg.MultiCycleStrategy = "exclusive"

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.Success))
	})

	It("vectorizes an idiv kernel under multiCycleStrategy distributed", func() {
		fn, tree := idivLikeFunction()
		cfg := baseConfig()
		cfg.Kernel = "idiv"
		cfg.TargetLoopsID = []int{0}
		cfg.MultiCycleStrategy = "distributed"
		cfg.VectorFactorForIdiv = 4

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.Success))
	})

	It("falls back to a full mapping when incrementalMapping is set but no prior snapshot exists", func() {
		fn, tree := bfEncryptLikeFunction()
		cfg := baseConfig()
		cfg.Kernel = "BF_encrypt"
		cfg.IncrementalMapping = true

		dir := GinkgoT().TempDir()
		report := mapperpass.MapFunction(fn, tree, cfg, dir)

		Expect(report.Kind).To(Equal(mapperpass.Success))
		Expect(report.Artifacts.IncrementalJSONPath).NotTo(BeEmpty())
	})

	It("reports NotApplicable for a kernel in neither the registry nor the config", func() {
		fn, tree := unknownKernelFunction()
		cfg := baseConfig()
		cfg.Kernel = "some_other_kernel"
		cfg.TargetLoopsID = []int{0}

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.NotApplicable))
		Expect(report.Issues).To(HaveLen(1))
		Expect(report.Issues[0].Type).To(Equal(mapperpass.IssueUnknownKernel))
	})

	It("reports UnsupportedOpcode when no tile can host an opcode in the DFG", func() {
		fn, tree := xorLikeFunction()
		cfg := baseConfig()
		cfg.Kernel = "fir"

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.UnsupportedOpcode))
		Expect(report.Issues).NotTo(BeEmpty())
		Expect(report.Issues[0].Type).To(Equal(mapperpass.IssueMissingFU))
	})

	It("skips mapping entirely when doCGRAMapping is false", func() {
		fn, tree := firLikeFunction()
		cfg := baseConfig()
		cfg.Kernel = "fir"
		cfg.DoCGRAMapping = false

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.Success))
		Expect(report.II).To(Equal(0))
	})

	It("maps a fir kernel driven entirely through gomock Function/LoopTree doubles", func() {
		ctrl := gomock.NewController(GinkgoT())
		defer ctrl.Finish()

		ops := []host.Operation{
			{ID: 0, Opcode: "phi", OperandIDs: []int{100, 3}, ResultID: 0, TypeClass: host.TypeInteger},
			{ID: 1, Opcode: "load", OperandIDs: []int{101}, ResultID: 1, TypeClass: host.TypeMemory},
			{ID: 2, Opcode: "mul", OperandIDs: []int{1, 102}, ResultID: 2, TypeClass: host.TypeInteger},
			{ID: 3, Opcode: "add", OperandIDs: []int{0, 2}, ResultID: 3, TypeClass: host.TypeInteger},
			{ID: 4, Opcode: "store", OperandIDs: []int{3, 103}, ResultID: 4, TypeClass: host.TypeMemory},
		}
		loops := []host.Loop{{ID: 0, HeaderOpID: 0, BodyOpIDs: []int{0, 1, 2, 3, 4}}}

		fn := host.NewMockFunction(ctrl)
		fn.EXPECT().Name().Return("fir").AnyTimes()
		fn.EXPECT().Operations().Return(ops).AnyTimes()

		tree := host.NewMockLoopTree(ctrl)
		tree.EXPECT().Loops().Return(loops).AnyTimes()

		cfg := baseConfig()
		cfg.Kernel = "fir"

		report := mapperpass.MapFunction(fn, tree, cfg, "")

		Expect(report.Kind).To(Equal(mapperpass.Success))
		Expect(report.II).To(BeNumerically(">=", report.ResMII))
	})
})
