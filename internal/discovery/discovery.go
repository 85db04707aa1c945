// Package discovery enumerates candidate attach targets on the host.
package discovery

import (
	"context"
	"path"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Target is one process that looks like it speaks the attach protocol.
type Target struct {
	PID     int32
	Name    string
	User    string
	Cmdline string
}

// FindTargets scans the process table for JVM-looking processes. Processes
// that cannot be inspected (permissions, already exited) are skipped.
func FindTargets(ctx context.Context) ([]Target, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, 8)
	for _, p := range procs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cmdline, _ := p.CmdlineWithContext(ctx)
		if !LooksLikeJVM(name, cmdline) {
			continue
		}
		user, _ := p.UsernameWithContext(ctx)
		targets = append(targets, Target{
			PID:     p.Pid,
			Name:    name,
			User:    user,
			Cmdline: cmdline,
		})
	}
	return targets, nil
}

// LooksLikeJVM applies cheap name/cmdline heuristics. False positives are
// acceptable: attach itself validates the target.
func LooksLikeJVM(name, cmdline string) bool {
	if name == "java" {
		return true
	}
	fields := strings.Fields(cmdline)
	if len(fields) > 0 && path.Base(fields[0]) == "java" {
		return true
	}
	return strings.Contains(cmdline, "-javaagent") || strings.Contains(cmdline, "libjvm")
}
