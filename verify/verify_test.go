package verify_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cgramap/cgra"
	"github.com/sarchlab/cgramap/dfg"
	"github.com/sarchlab/cgramap/mapper"
	"github.com/sarchlab/cgramap/verify"
)

var _ = Describe("Schedule", func() {
	It("reports no issues for a schedule the mapper itself produced", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(4, 4)
		mp := mapper.NewMapper(false)
		result, ok := mp.Map(g, d, mapper.Options{Heuristic: true})
		Expect(ok).To(BeTrue())

		Expect(verify.Schedule(g, d, result.Schedule.II)).To(BeEmpty())
	})

	It("flags a placement outside the grid", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(2, 2)
		d.Nodes[0].Placement = &dfg.Placement{Row: 9, Column: 9, Slot: 0}

		issues := verify.Schedule(g, d, 4)
		Expect(issues).To(ContainElement(HaveField("Type", verify.IssueOutOfBounds)))
	})

	It("flags a tile that cannot execute the placed opcode", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		bare, err := cgra.New(cgra.Options{Rows: 2, Columns: 2})
		Expect(err).NotTo(HaveOccurred())
		d.Nodes[0].Placement = &dfg.Placement{Row: 0, Column: 0, Slot: 0}

		issues := verify.Schedule(bare, d, 4)
		Expect(issues).To(ContainElement(HaveField("Type", verify.IssueCapability)))
	})

	It("flags two exec placements sharing a tile and cycle", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(4, 4)
		d.Nodes[0].Placement = &dfg.Placement{Row: 0, Column: 0, Slot: 0}
		d.Nodes[1].Placement = &dfg.Placement{Row: 0, Column: 0, Slot: 0}

		issues := verify.Schedule(g, d, 4)
		Expect(issues).To(ContainElement(HaveField("Type", verify.IssueSlotConflict)))
	})

	It("skips unplaced nodes", func() {
		fn := firLikeFunction()
		d, err := dfg.Build(fn, opIDs(fn.Operations()), dfg.BuildOptions{})
		Expect(err).NotTo(HaveOccurred())

		g := newGrid(4, 4)
		Expect(verify.Schedule(g, d, 4)).To(BeEmpty())
	})
})
