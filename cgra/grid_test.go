package cgra_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cgramap/cgra"
)

var _ = Describe("New", func() {
	It("rejects a non-positive grid size", func() {
		_, err := cgra.New(cgra.Options{Rows: 0, Columns: 4})
		Expect(err).To(HaveOccurred())
	})

	It("wires a 4-neighbour mesh with edge tiles missing off-grid links", func() {
		g, err := cgra.New(cgra.Options{Rows: 2, Columns: 2, BaseOpcodes: []string{"add"}})
		Expect(err).NotTo(HaveOccurred())

		_, ok := g.LinkBetween(0, 0, cgra.North)
		Expect(ok).To(BeFalse())
		_, ok = g.LinkBetween(0, 0, cgra.East)
		Expect(ok).To(BeTrue())
		_, ok = g.LinkBetween(0, 0, cgra.South)
		Expect(ok).To(BeTrue())
	})

	It("gives every tile the base opcode set", func() {
		g, err := cgra.New(cgra.Options{Rows: 2, Columns: 2, BaseOpcodes: []string{"add", "mul"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(g.TilesSupporting("add")).To(HaveLen(4))
		Expect(g.TilesSupporting("sqrt")).To(BeEmpty())
	})

	It("overlays additionalFunc capabilities onto specific tiles only", func() {
		g, err := cgra.New(cgra.Options{
			Rows: 2, Columns: 2,
			BaseOpcodes:     []string{"add"},
			Parameterizable: true,
			AdditionalFunc:  map[string][]string{"0,1": {"idiv"}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(g.TilesSupporting("idiv")).To(HaveLen(1))

		n, ok := g.Node(0, 1)
		Expect(ok).To(BeTrue())
		Expect(n.CanSupport("idiv")).To(BeTrue())

		other, ok := g.Node(1, 0)
		Expect(ok).To(BeTrue())
		Expect(other.CanSupport("idiv")).To(BeFalse())
	})

	It("errors on an out-of-range additionalFunc tile key", func() {
		_, err := cgra.New(cgra.Options{
			Rows: 2, Columns: 2,
			Parameterizable: true,
			AdditionalFunc:  map[string][]string{"5,5": {"idiv"}},
		})
		Expect(err).To(HaveOccurred())
	})

	It("partitions DVFS islands by island dimension", func() {
		g, err := cgra.New(cgra.Options{
			Rows: 4, Columns: 4, SupportDVFS: true, DVFSIslandDim: 2,
		})
		Expect(err).NotTo(HaveOccurred())

		a, _ := g.Node(0, 0)
		b, _ := g.Node(1, 1)
		c, _ := g.Node(2, 2)
		Expect(a.DVFSIsland).To(Equal(b.DVFSIsland))
		Expect(a.DVFSIsland).NotTo(Equal(c.DVFSIsland))
	})
})
