// Package monitoring turns a running clock program into a small REST
// server for external inspection: clock times, queue depths, registered
// expressions, arbitrary object internals, and process resource usage.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/tempolab/chrono/clock"
	"github.com/tempolab/chrono/exprs"
)

type namedClock struct {
	name string
	c    *clock.Clock
}

type namedExpression struct {
	name string
	exp  exprs.Expression
}

// Monitor exposes the state of clocks and expressions over HTTP, and lets
// an external client pause the driving loop.
type Monitor struct {
	portNumber int
	actualPort int

	clocks      []namedClock
	expressions []namedExpression
	objects     map[string]any

	pauseLock sync.Mutex
	paused    bool
	pauseCond *sync.Cond
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	m := &Monitor{
		objects: make(map[string]any),
	}
	m.pauseCond = sync.NewCond(&m.pauseLock)

	return m
}

// WithPortNumber sets the port number of the monitoring server.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterClock registers a clock to be monitored. The first registered
// clock is the one reported by /api/now.
func (m *Monitor) RegisterClock(name string, c *clock.Clock) {
	m.clocks = append(m.clocks, namedClock{name: name, c: c})
	m.objects[name] = c
}

// RegisterExpression registers an expression so its value and structure
// can be read over HTTP.
func (m *Monitor) RegisterExpression(name string, exp exprs.Expression) {
	m.expressions = append(m.expressions, namedExpression{name: name, exp: exp})
	m.objects[name] = exp
}

// RegisterObject registers an arbitrary object for /api/inspect.
func (m *Monitor) RegisterObject(name string, obj any) {
	m.objects[name] = obj
}

// StartServer starts serving the monitoring API on the configured port, or
// a random one if none was set. The chosen address is written to stderr.
func (m *Monitor) StartServer() {
	r := m.router()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.actualPort = listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Monitoring at http://localhost:%d\n", m.actualPort)

	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.unpause)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/clocks", m.listClocks)
	r.HandleFunc("/api/events", m.listEvents)
	r.HandleFunc("/api/list_expressions", m.listExpressions)
	r.HandleFunc("/api/expression/{name}", m.expressionDetails)
	r.HandleFunc("/api/inspect/{name}", m.inspect)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// OpenBrowser opens the local browser on the monitoring API.
func (m *Monitor) OpenBrowser() {
	url := fmt.Sprintf("http://localhost:%d/api/clocks", m.actualPort)

	err := browser.OpenURL(url)
	if err != nil {
		log.Printf("cannot open browser: %v", err)
	}
}

// Gate blocks while the monitor is paused. Driving loops call it between
// advances so an external client can freeze virtual time.
func (m *Monitor) Gate() {
	m.pauseLock.Lock()
	for m.paused {
		m.pauseCond.Wait()
	}
	m.pauseLock.Unlock()
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	m.paused = true
	m.pauseLock.Unlock()

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) unpause(w http.ResponseWriter, _ *http.Request) {
	m.pauseLock.Lock()
	m.paused = false
	m.pauseLock.Unlock()
	m.pauseCond.Broadcast()

	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	if len(m.clocks) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	fmt.Fprintf(w, "{\"now\":%.10f}", float64(m.clocks[0].c.CurrentTime()))
}

type clockRsp struct {
	Name    string  `json:"name"`
	Now     float64 `json:"now"`
	Speed   float64 `json:"speed"`
	Pending int     `json:"pending"`
}

func (m *Monitor) listClocks(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]clockRsp, 0, len(m.clocks))
	for _, nc := range m.clocks {
		rsp = append(rsp, clockRsp{
			Name:    nc.name,
			Now:     float64(nc.c.CurrentTime()),
			Speed:   nc.c.Speed(),
			Pending: nc.c.PendingEvents(),
		})
	}

	writeJSON(w, rsp)
}

type eventsRsp struct {
	Clock   string `json:"clock"`
	Pending int    `json:"pending"`
}

func (m *Monitor) listEvents(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]eventsRsp, 0, len(m.clocks))
	for _, nc := range m.clocks {
		rsp = append(rsp, eventsRsp{Clock: nc.name, Pending: nc.c.PendingEvents()})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listExpressions(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.expressions))
	for _, ne := range m.expressions {
		names = append(names, ne.name)
	}

	writeJSON(w, names)
}

type expressionRsp struct {
	Name  string    `json:"name"`
	Value []float64 `json:"value,omitempty"`
	Error string    `json:"error,omitempty"`
	Dump  string    `json:"dump"`
}

func (m *Monitor) expressionDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	for _, ne := range m.expressions {
		if ne.name != name {
			continue
		}

		rsp := expressionRsp{Name: name, Dump: exprs.Dump(ne.exp)}

		value, err := exprs.Eval(ne.exp)
		if err != nil {
			rsp.Error = err.Error()
		} else {
			rsp.Value = value
		}

		writeJSON(w, rsp)

		return
	}

	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "Expression not found")
}

func (m *Monitor) inspect(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	obj, ok := m.objects[name]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "Object not found")
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(obj)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
