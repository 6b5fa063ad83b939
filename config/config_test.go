package config_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cgramap/config"
)

// validMinimalJSON sets exactly the required keys from spec.md §6 (as
// widened by the original's paramKeys set), nothing else.
const validMinimalJSON = `{
	"row": 4,
	"column": 4,
	"targetFunction": false,
	"kernel": "fir",
	"targetNested": false,
	"targetLoopsID": [0],
	"isTrimmedDemo": true,
	"doCGRAMapping": true,
	"isStaticElasticCGRA": false,
	"ctrlMemConstraint": 200,
	"bypassConstraint": 4,
	"regConstraint": 8,
	"precisionAware": false,
	"vectorizationMode": "all",
	"fusionStrategy": [],
	"heuristicMapping": true,
	"parameterizableCGRA": false
}`

var _ = Describe("Load", func() {
	It("accepts a document with exactly the required keys and fills in defaults", func() {
		cfg, err := config.Load(strings.NewReader(validMinimalJSON))
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Row).To(Equal(4))
		Expect(cfg.Column).To(Equal(4))
		Expect(cfg.Kernel).To(Equal("fir"))
		Expect(cfg.TargetLoopsID).To(Equal([]int{0}))
		Expect(cfg.MultiCycleStrategy).To(Equal("exclusive"))
		Expect(cfg.VectorFactorForIdiv).To(Equal(1))
		Expect(cfg.DVFSIslandDim).To(Equal(2))
	})

	It("reports a ValidationError naming the first missing required key", func() {
		// Drop "regConstraint" from the minimal document.
		broken := strings.Replace(validMinimalJSON, `"regConstraint": 8,`, "", 1)

		_, err := config.Load(strings.NewReader(broken))
		Expect(err).To(HaveOccurred())

		var verr *config.ValidationError
		Expect(err).To(BeAssignableToTypeOf(verr))
	})

	It("tolerates the legacy trailing-space vectorFactorForIdiv key", func() {
		doc := strings.TrimSuffix(strings.TrimSpace(validMinimalJSON), "}") +
			`, "vectorFactorForIdiv ": 4}`

		cfg, err := config.Load(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.VectorFactorForIdiv).To(Equal(4))
	})

	It("prefers the correctly-spaced key over the legacy one when both are present", func() {
		doc := strings.TrimSuffix(strings.TrimSpace(validMinimalJSON), "}") +
			`, "vectorFactorForIdiv": 2, "vectorFactorForIdiv ": 4}`

		cfg, err := config.Load(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.VectorFactorForIdiv).To(Equal(2))
	})

	It("rejects an unrecognised multiCycleStrategy", func() {
		doc := strings.TrimSuffix(strings.TrimSpace(validMinimalJSON), "}") +
			`, "multiCycleStrategy": "bogus"}`

		_, err := config.Load(strings.NewReader(doc))
		Expect(err).To(HaveOccurred())
	})

	It("threads additionalFunc through to the Config as-is", func() {
		doc := strings.TrimSuffix(strings.TrimSpace(validMinimalJSON), "}") +
			`, "additionalFunc": {"0,0": ["sdiv"]}}`

		cfg, err := config.Load(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.AdditionalFunc).To(HaveKeyWithValue("0,0", []string{"sdiv"}))
	})
})

var _ = Describe("ResolveLoopIDs", func() {
	It("finds a built-in kernel by its symbol name", func() {
		cfg := config.Defaults()
		ids, err := config.ResolveLoopIDs(cfg, "fir")
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]int{0}))
	})

	It("gives latnrm its documented loop-1 special case", func() {
		cfg := config.Defaults()
		ids, err := config.ResolveLoopIDs(cfg, "latnrm")
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]int{1}))
	})

	It("falls back to the config's own kernel/targetLoopsID when not in the registry", func() {
		cfg := config.Defaults()
		cfg.Kernel = "my_custom_kernel"
		cfg.TargetLoopsID = []int{3}

		ids, err := config.ResolveLoopIDs(cfg, "my_custom_kernel")
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]int{3}))
	})

	It("reports UnknownKernelError for a function in neither the registry nor the config", func() {
		cfg := config.Defaults()
		_, err := config.ResolveLoopIDs(cfg, "totally_unknown")
		Expect(err).To(HaveOccurred())

		var uerr *config.UnknownKernelError
		Expect(err).To(BeAssignableToTypeOf(uerr))
	})
})
