//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// configureServerProc puts the spawned server in its own session so it
// outlives the terminal that started it.
func configureServerProc(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
