package mapper_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cgramap/dfg"
	"github.com/sarchlab/cgramap/mapper"
)

var _ = Describe("Map", func() {
	It("heuristically maps a small FIR-like DFG onto a 4x4 grid", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(4, 4)
		mp := mapper.NewMapper(false)

		result, ok := mp.Map(g, d, mapper.Options{Heuristic: true})
		Expect(ok).To(BeTrue())
		Expect(result.Schedule).NotTo(BeNil())

		// spec.md §8 invariant: II >= max(ResMII, RecMII) always.
		want := result.ResMII
		if result.RecMII > want {
			want = result.RecMII
		}
		Expect(result.Schedule.II).To(BeNumerically(">=", want))

		for _, n := range d.Nodes {
			Expect(n.Placement).NotTo(BeNil(), "node %d (%s) should be placed", n.ID, n.Opcode)
		}
	})

	It("reports missing functional units when no tile supports an opcode", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		bare, err2 := cgraBare()
		Expect(err2).NotTo(HaveOccurred())
		Expect(mapper.MissingFunctionalUnits(d, bare)).NotTo(BeEmpty())
	})

	It("exhaustively maps the same small DFG", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(4, 4)
		mp := mapper.NewMapper(false)

		result, ok := mp.Map(g, d, mapper.Options{StaticElasticCGRA: true})
		Expect(ok).To(BeTrue())
		Expect(result.Schedule).NotTo(BeNil())
	})
})

var _ = Describe("IncrementalMap", func() {
	It("is a no-op when the DFG is unchanged (spec round-trip law)", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(4, 4)
		mp := mapper.NewMapper(false)

		first, ok := mp.Map(g, d, mapper.Options{Heuristic: true})
		Expect(ok).To(BeTrue())

		var buf bytes.Buffer
		Expect(mapper.GenerateJSON4IncrementalMap(&buf, d, first.Schedule)).To(Succeed())

		prior, priorII, err := mapper.LoadIncrementalJSON(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(priorII).To(Equal(first.Schedule.II))

		// Rebuild the identical DFG (as a fresh run would) and re-map
		// incrementally against the snapshot just taken.
		d2, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		second, ok := mp.IncrementalMap(g, d2, prior, priorII)
		Expect(ok).To(BeTrue())
		Expect(second.II).To(Equal(first.Schedule.II))

		for _, n := range d2.Nodes {
			Expect(n.Placement).NotTo(BeNil())
		}
	})

	It("falls back by reporting failure when there is no prior snapshot", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(4, 4)
		mp := mapper.NewMapper(false)

		_, ok := mp.IncrementalMap(g, d, nil, 0)
		Expect(ok).To(BeFalse())
	})
})
