package mapreport_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cgramap/mapreport"
)

var _ = Describe("Server", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("returns 404 for every artifact before it has been written", func() {
		s := mapreport.NewServer(dir, nil)

		for _, path := range []string{"/schedule.json", "/dfg.json", "/dfg.dot", "/report.json"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		}
	})

	It("streams whatever dfg.dot currently holds", func() {
		Expect(os.WriteFile(filepath.Join(dir, "dfg.dot"), []byte("digraph DFG {}\n"), 0o644)).To(Succeed())

		s := mapreport.NewServer(dir, nil)
		req := httptest.NewRequest(http.MethodGet, "/dfg.dot", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		body, _ := io.ReadAll(rec.Body)
		Expect(string(body)).To(ContainSubstring("digraph DFG"))
	})

	It("reflects a file rewritten between two requests", func() {
		schedulePath := filepath.Join(dir, "schedule.json")
		Expect(os.WriteFile(schedulePath, []byte(`{"ii":4}`), 0o644)).To(Succeed())

		s := mapreport.NewServer(dir, nil)

		req := httptest.NewRequest(http.MethodGet, "/schedule.json", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		Expect(rec.Body.String()).To(MatchJSON(`{"ii":4}`))

		Expect(os.WriteFile(schedulePath, []byte(`{"ii":3}`), 0o644)).To(Succeed())

		req = httptest.NewRequest(http.MethodGet, "/schedule.json", nil)
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		Expect(rec.Body.String()).To(MatchJSON(`{"ii":3}`))
	})
})
