// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

package interp

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"syscall"
)

// resolveSignalName parses a "kill"-style signal spec such as "TERM", "SIGTERM"
// or a bare number into a [syscall.Signal].
func resolveSignalName(s string) (syscall.Signal, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return syscall.Signal(n), true
	}
	s = strings.ToUpper(strings.TrimPrefix(s, "SIG"))
	sig, ok := signalByName[s]
	return sig, ok
}

// signalNameList returns the known signal names, sorted, for "kill -l".
func signalNameList() []string {
	names := make([]string, 0, len(signalByName))
	for name := range signalByName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// umaskSymbol renders the low 3 bits of a umask the way "umask -S" does,
// e.g. a umask of 2 (022 as a whole) prints the group/other triplet "rx".
func umaskSymbol(bits int) string {
	perm := "rwx"
	var out strings.Builder
	for i, c := range perm {
		if bits&(1<<(2-i)) == 0 {
			out.WriteRune(c)
		}
	}
	return out.String()
}

// jobState describes where a backgrounded pipeline sits in its lifecycle.
type jobState uint8

const (
	jobRunning jobState = iota
	jobStopped
	jobDone
)

func (s jobState) String() string {
	switch s {
	case jobStopped:
		return "Stopped"
	case jobDone:
		return "Done"
	default:
		return "Running"
	}
}

// pgroup coordinates the single process group shared by every member of one
// pipeline, whether it is running in the foreground or was backgrounded: the
// first member to start a real command becomes the group's leader, and every
// other member joins that group instead of starting its own (see
// interp/handler.go's DefaultExecHandler). pgidMu serializes the moment each
// member decides which of those it is, so that two members starting
// concurrently from separate goroutines can never both claim to lead; it is
// only ever held across a single fork+exec, never for a command's whole
// lifetime.
type pgroup struct {
	pgid      int // 0 until the first external command in the group starts
	pgidMu    sync.Mutex
	pgidOnce  sync.Once
	pgidReady chan struct{}
}

func newPgroup() *pgroup {
	return &pgroup{pgidReady: make(chan struct{})}
}

// setPgid records the process group backing this pgroup, if any. It is
// called at most once, either by the first external command the group
// starts or, if the group never starts one (e.g. it only runs builtins), by
// the caller once the associated job finishes.
func (g *pgroup) setPgid(pgid int) {
	g.pgidOnce.Do(func() {
		g.pgid = pgid
		close(g.pgidReady)
	})
}

// job is one entry of the jobs table: a backgrounded statement together with
// the process group the executor forked for it, if the pipeline ever started
// a real OS process. Pipelines made up only of builtins or functions never
// get a pgid, since there is no kernel process group to control.
type job struct {
	id       int
	text     string
	state    jobState
	bg       *bgProc
	notified bool // true once reported Done by a "jobs" listing or on wait

	*pgroup
}

// jobTable tracks a shell's background jobs, numbered with the smallest
// positive integer not currently in use, as POSIX shells do. "%+" refers to
// the current (most recently backgrounded or stopped) job, "%-" to the job
// before that one.
type jobTable struct {
	entries []*job
	lastID  int
	prevID  int
}

func (t *jobTable) add(text string, bg *bgProc) *job {
	id := 1
	for t.byID(id) != nil {
		id++
	}
	j := &job{id: id, text: text, state: jobRunning, bg: bg, pgroup: newPgroup()}
	t.entries = append(t.entries, j)
	if t.lastID != 0 {
		t.prevID = t.lastID
	}
	t.lastID = id
	return j
}

func (t *jobTable) remove(id int) {
	for i, j := range t.entries {
		if j.id == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
	if t.lastID == id {
		t.lastID, t.prevID = t.prevID, 0
	} else if t.prevID == id {
		t.prevID = 0
	}
}

func (t *jobTable) byID(id int) *job {
	for _, j := range t.entries {
		if j.id == id {
			return j
		}
	}
	return nil
}

// sync refreshes Running jobs whose background goroutine has since finished.
func (t *jobTable) sync() {
	for _, j := range t.entries {
		if j.bg == nil || j.state == jobDone {
			continue
		}
		select {
		case <-j.bg.done:
			j.state = jobDone
		default:
		}
	}
}

// reapNotified drops jobs that are Done and have already been reported to
// the user, matching the invariant that a listing never shows a job twice.
func (t *jobTable) reapNotified() {
	kept := t.entries[:0]
	for _, j := range t.entries {
		if j.state == jobDone && j.notified {
			continue
		}
		kept = append(kept, j)
	}
	t.entries = kept
}

// find resolves a job spec: "%n", "%+"/"%%" (current), "%-" (previous),
// "%str" (prefix match), or "%?str" (substring match).
func (t *jobTable) find(spec string) (*job, error) {
	t.sync()
	spec = strings.TrimPrefix(spec, "%")
	switch spec {
	case "", "+", "%":
		if j := t.byID(t.lastID); j != nil {
			return j, nil
		}
		return nil, fmt.Errorf("current: no such job")
	case "-":
		if j := t.byID(t.prevID); j != nil {
			return j, nil
		}
		return nil, fmt.Errorf("previous: no such job")
	}
	if n, err := strconv.Atoi(spec); err == nil {
		if j := t.byID(n); j != nil {
			return j, nil
		}
		return nil, fmt.Errorf("%%%s: no such job", spec)
	}
	contains := strings.HasPrefix(spec, "?")
	needle := strings.TrimPrefix(spec, "?")
	var match *job
	for _, j := range t.entries {
		var hit bool
		if contains {
			hit = strings.Contains(j.text, needle)
		} else {
			hit = strings.HasPrefix(j.text, needle)
		}
		if !hit {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%%%s: ambiguous job spec", spec)
		}
		match = j
	}
	if match == nil {
		return nil, fmt.Errorf("%%%s: no such job", spec)
	}
	return match, nil
}

// marker returns "+", "-" or " " for use in `jobs` listings.
func (t *jobTable) marker(j *job) string {
	switch j.id {
	case t.lastID:
		return "+"
	case t.prevID:
		return "-"
	default:
		return " "
	}
}
