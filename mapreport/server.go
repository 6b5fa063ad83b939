package mapreport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	// Registers the stdlib CPU/heap profiler under /debug/pprof, exactly
	// as monitoring/monitor.go does.
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v3/process"
)

// servedFiles maps each exposed route to the artifact file it streams
// from Server's directory, plus the content type to advertise.
var servedFiles = map[string]struct {
	file, contentType string
}{
	"/schedule.json": {"schedule.json", "application/json"},
	"/dfg.json":      {"dfg.json", "application/json"},
	"/dfg.dot":       {"dfg.dot", "text/vnd.graphviz"},
	"/report.json":   {"report.json", "application/json"},
}

// Server exposes the artifact files of the last mapping attempt over
// HTTP, grounded on sarchlab-akita/monitoring.Monitor: a gorilla/mux
// router, stdlib pprof registered as a side effect, and a
// gopsutil-backed resource endpoint, minus everything in Monitor that
// only makes sense for a live sim.Engine (pause/continue/tick/traffic).
// Every route re-reads its file on each request instead of caching, so a
// concurrent mapperpass.MapFunction re-run is visible immediately.
type Server struct {
	dir        string
	portNumber int
	history    *HistoryStore
	router     *mux.Router
}

// NewServer creates a Server that streams dfg.dot/dfg.json/schedule.json/
// report.json out of dir as they are (re)written. history is kept on the
// Server but no route reads it; it may be nil.
func NewServer(dir string, history *HistoryStore) *Server {
	s := &Server{dir: dir, history: history}

	r := mux.NewRouter()
	for route := range servedFiles {
		r.HandleFunc(route, s.serveArtifact)
	}
	r.HandleFunc("/resources.json", s.resources)
	r.HandleFunc("/profile.json", s.profile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	s.router = r

	return s
}

// ServeHTTP lets Server stand in directly as an http.Handler, both for
// StartServer and for tests that want to exercise routing without
// binding a real socket.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// WithPortNumber sets the TCP port StartServer listens on; any value of
// 1000 or below, the zero value included, picks a random free port,
// mirroring Monitor.WithPortNumber.
func (s *Server) WithPortNumber(port int) *Server {
	s.portNumber = port
	return s
}

// StartServer starts the HTTP server in a background goroutine and
// returns the address it bound, the way Monitor.StartServer logs its
// chosen port to stderr instead of blocking the caller.
func (s *Server) StartServer() (string, error) {
	addr := ":0"
	if s.portNumber > 1000 {
		addr = fmt.Sprintf(":%d", s.portNumber)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("mapreport: binding server: %w", err)
	}

	boundAddr := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Mapping report server listening on %s\n", boundAddr)

	go func() {
		_ = http.Serve(listener, s)
	}()

	return boundAddr, nil
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request) {
	spec, ok := servedFiles[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(filepath.Join(s.dir, spec.file))
	if err != nil {
		http.Error(w, spec.file+" not available yet", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", spec.contentType)
	_, _ = io.Copy(w, f)
}

// profile captures one second of this process's own CPU profile and
// returns it as JSON, grounded directly on monitor.go's profiling
// handler: runtime/pprof captures the raw profile.proto bytes,
// github.com/google/pprof/profile parses them back into a structured
// value so the response is JSON instead of the raw protobuf a caller
// would otherwise have to decode with `go tool pprof`.
func (s *Server) profile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)
	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(prof)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

type resourceReport struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss"`
}

// resources reports this process's own CPU/memory usage, grounded on
// monitoring/monitor.go's listResources — the only part of Monitor's
// resource reporting that doesn't depend on a sim.Engine.
func (s *Server) resources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	body, err := json.Marshal(resourceReport{CPUPercent: cpuPercent, MemoryRSS: memInfo.RSS})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
