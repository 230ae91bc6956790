package process

import (
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ProcessInfo is a small struct representing a running process.
type ProcessInfo struct {
	PID  int
	Name string
}

// GetProcesses returns the running processes, as reported by go-ps.
func GetProcesses() ([]ProcessInfo, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	out := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		out = append(out, ProcessInfo{PID: p.Pid(), Name: p.Executable()})
	}
	return out, nil
}

// FindOtherInstance reports another process running the executable at
// execPath, ignoring selfPID. Names are compared case-insensitively.
func FindOtherInstance(execPath string, selfPID int) (ProcessInfo, bool, error) {
	procs, err := GetProcesses()
	if err != nil {
		return ProcessInfo{}, false, err
	}
	p, found := findOtherInstance(procs, filepath.Base(execPath), selfPID)
	return p, found, nil
}

func findOtherInstance(procs []ProcessInfo, execName string, selfPID int) (ProcessInfo, bool) {
	for _, p := range procs {
		if p.PID == selfPID {
			continue
		}
		if strings.EqualFold(p.Name, execName) {
			return p, true
		}
	}
	return ProcessInfo{}, false
}
