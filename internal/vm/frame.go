package vm

import (
	"fmt"
	"sort"
	"strings"
)

// Frame is one activation record: the variables local to a call and the
// address execution resumes at when the call returns.
type Frame struct {
	variables  map[int64]int64
	returnAddr int64
}

// NewFrame creates a frame with no variables bound.
func NewFrame(returnAddr int64) *Frame {
	return &Frame{
		variables:  make(map[int64]int64),
		returnAddr: returnAddr,
	}
}

// Get returns the value bound to id. A variable that was never stored reads
// as 0. This default is part of the machine's contract, not an error path.
func (f *Frame) Get(id int64) int64 {
	if val, ok := f.variables[id]; ok {
		return val
	}
	return 0
}

// Set binds value to id in this frame.
func (f *Frame) Set(id int64, value int64) {
	f.variables[id] = value
}

// ReturnAddr returns the address execution resumes at after ret.
func (f *Frame) ReturnAddr() int64 {
	return f.returnAddr
}

// String renders the frame for diagnostic output, variables in id order.
func (f *Frame) String() string {
	ids := make([]int64, 0, len(f.variables))
	for id := range f.variables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	sb.WriteString("frame{ret=")
	fmt.Fprintf(&sb, "%d", f.returnAddr)
	for _, id := range ids {
		fmt.Fprintf(&sb, " %d=%d", id, f.variables[id])
	}
	sb.WriteString("}")
	return sb.String()
}
